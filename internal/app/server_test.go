package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shapec/internal/compiler"
)

func newServeApp(t *testing.T, port int) (*App, *TestStreams) {
	t.Helper()
	return SetupAppTest(t, Config{ServePort: port}, nil)
}

func TestHealthHandler(t *testing.T) {
	testApp, _ := newServeApp(t, 8080)

	rec := httptest.NewRecorder()
	testApp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestCompileHandler(t *testing.T) {
	testApp, _ := newServeApp(t, 8080)

	testCases := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantResult *compiler.Result
	}{
		{
			name:       "compiles",
			method:     http.MethodPost,
			body:       `{"source": "shape main() { svg(value: \"<g/>\") }"}`,
			wantStatus: http.StatusOK,
			wantResult: &compiler.Result{SVG: docOpen + "<g/>" + docClose},
		},
		{
			name:       "compile error is a normal response",
			method:     http.MethodPost,
			body:       `{"source": "shape main() {"}`,
			wantStatus: http.StatusOK,
			wantResult: &compiler.Result{Error: &compiler.CompileError{Line: 0, Column: 14, Message: "Unexpected end of input."}},
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			body:       `{"source":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/compile", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			testApp.Handler().ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.wantResult == nil {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var got compiler.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, *tc.wantResult, got)
		})
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestRun_ServeShutsDownOnCancel(t *testing.T) {
	// --- Arrange ---
	port := freePort(t)
	testApp, streams := newServeApp(t, port)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- testApp.Run(ctx) }()

	// --- Act ---
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, streams.Err.String(), "Compile server shut down gracefully.")
}

func TestRun_ServePortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	testApp, _ := newServeApp(t, ln.Addr().(*net.TCPAddr).Port)
	err = testApp.Run(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}
