package publish

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shapec/internal/compiler"
	"github.com/vk/shapec/internal/eval"
	"github.com/vk/shapec/internal/srcpos"
)

func TestNewPayload(t *testing.T) {
	ok := NewPayload("logo", "<svg/>", nil)
	assert.Equal(t, Payload{Document: "logo", SVG: "<svg/>"}, ok)
	assert.Equal(t, map[string]any{"document": "logo", "svg": "<svg/>", "error": nil}, ok.Map())

	err := &eval.Error{Kind: eval.MissingMain, Pos: srcpos.New(3, 1)}
	failed := NewPayload("logo", "", err)
	assert.Equal(t, &compiler.CompileError{Line: 3, Column: 1, Message: "Missing main shape"}, failed.Error)
	assert.Equal(t, map[string]any{
		"document": "logo",
		"svg":      nil,
		"error":    map[string]any{"line": 3, "column": 1, "message": "Missing main shape"},
	}, failed.Map())
}

func TestNew_Validation(t *testing.T) {
	valid := Config{URL: "http://localhost:3000/socket.io/", EmitEvent: "compiled", Timeout: time.Second}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{name: "bad url", mutate: func(c *Config) { c.URL = "http://[::1" }, errText: "failed to parse URL"},
		{name: "bad scheme", mutate: func(c *Config) { c.URL = "ftp://host/" }, errText: "unsupported URL scheme"},
		{name: "no host", mutate: func(c *Config) { c.URL = "http:///socket.io/" }, errText: "URL has no host"},
		{name: "no event", mutate: func(c *Config) { c.EmitEvent = "" }, errText: "emit event"},
		{name: "no timeout", mutate: func(c *Config) { c.Timeout = 0 }, errText: "timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorContains(t, err, tc.errText)
		})
	}

	p, err := New(valid)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", p.baseURL)
	assert.Equal(t, "/socket.io/", p.path)
	assert.Equal(t, "/", p.cfg.Namespace)
}

func TestPublish_UnreachableEndpoint(t *testing.T) {
	// Reserve a port and close it again so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	p, err := New(Config{
		URL:       "http://" + addr + "/socket.io/",
		EmitEvent: "compiled",
		Timeout:   500 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.Publish(context.Background(), NewPayload("logo", "<svg/>", nil))
	require.Error(t, err)
	assert.Nil(t, p.client)

	// Later documents fail straight away instead of dialing again.
	start := time.Now()
	again := p.Publish(context.Background(), NewPayload("badge", "<svg/>", nil))
	require.Error(t, again)
	assert.ErrorIs(t, again, err)
	assert.ErrorContains(t, again, "publish endpoint unavailable")
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPublisher_AckMatchesDocument(t *testing.T) {
	testCases := []struct {
		name      string
		args      []any
		wantAcked bool
	}{
		{name: "document name", args: []any{"logo"}, wantAcked: true},
		{name: "document field", args: []any{map[string]any{"document": "logo", "ok": true}}, wantAcked: true},
		{name: "late ack for another document", args: []any{"badge"}, wantAcked: false},
		{name: "other document field", args: []any{map[string]any{"document": "badge"}}, wantAcked: false},
		{name: "no arguments", args: nil, wantAcked: false},
		{name: "unrelated value", args: []any{42.0}, wantAcked: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			p, err := New(Config{URL: "ws://localhost:1/", EmitEvent: "compiled", OnEvent: "ack", Timeout: time.Second})
			require.NoError(t, err)
			done := p.expectAck("logo")

			// --- Act ---
			got := p.ack(tc.args...)

			// --- Assert ---
			assert.Equal(t, tc.wantAcked, got)
			select {
			case <-done:
				assert.True(t, tc.wantAcked, "wait released by a foreign acknowledgement")
			default:
				assert.False(t, tc.wantAcked, "matching acknowledgement did not release the wait")
			}
		})
	}
}

func TestPublisher_AckAfterWaitEnded(t *testing.T) {
	// --- Arrange ---
	p, err := New(Config{URL: "ws://localhost:1/", EmitEvent: "compiled", OnEvent: "ack", Timeout: time.Second})
	require.NoError(t, err)
	first := p.expectAck("logo")
	p.expectAck("")
	second := p.expectAck("badge")

	// --- Act ---
	lateForFirst := p.ack("logo")

	// --- Assert ---
	assert.False(t, lateForFirst)
	assert.NotNil(t, first)
	select {
	case <-second:
		t.Fatal("a late acknowledgement released the next document's wait")
	default:
	}
	assert.True(t, p.ack("badge"))
	assert.False(t, p.ack("badge"), "an acknowledgement is consumed once")
}

func TestPublish_CancelledContext(t *testing.T) {
	p, err := New(Config{URL: "http://127.0.0.1:1/socket.io/", EmitEvent: "compiled", Timeout: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Publish(ctx, NewPayload("logo", "", errors.New("boom")))
	require.Error(t, err)
}

func TestClose_WithoutConnection(t *testing.T) {
	p, err := New(Config{URL: "ws://localhost:1/", EmitEvent: "compiled", Timeout: time.Second})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
