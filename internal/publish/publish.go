// Package publish pushes compile results to a socket.io endpoint, typically
// a live preview page.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/shapec/internal/ctxlog"
)

// Config describes the endpoint and the events used.
type Config struct {
	URL                string
	Namespace          string
	EmitEvent          string
	OnEvent            string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Publisher emits one event per published payload over a single lazily
// opened connection. It is safe for concurrent use; publications are
// serialized. A failed connection is not retried.
type Publisher struct {
	cfg     Config
	baseURL string
	path    string

	mu      sync.Mutex
	client  *socket.Socket
	connErr error

	// ackMu guards waiting, the acknowledgement channel of the document
	// currently being published.
	ackMu   sync.Mutex
	waiting *pendingAck
}

type pendingAck struct {
	document string
	done     chan struct{}
}

// New validates cfg and returns a Publisher. No connection is made until the
// first Publish.
func New(cfg Config) (*Publisher, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("URL has no host")
	}
	if cfg.EmitEvent == "" {
		return nil, errors.New("emit event must not be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}

	return &Publisher{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
	}, nil
}

// Publish emits payload. When an acknowledgement event is configured it
// waits for it. The whole exchange, connecting included, is bounded by the
// configured timeout.
func (p *Publisher) Publish(ctx context.Context, payload Payload) error {
	logger := ctxlog.FromContext(ctx).With("document", payload.Document, "url", p.cfg.URL)

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	if p.connErr != nil {
		return fmt.Errorf("publish endpoint unavailable: %w", p.connErr)
	}
	if p.client == nil {
		client, err := p.connect(ctx)
		if err != nil {
			logger.Debug("Giving up on publish endpoint.", "error", err)
			p.connErr = err
			return err
		}
		p.client = client
	}

	var acked chan struct{}
	if p.cfg.OnEvent != "" {
		acked = p.expectAck(payload.Document)
		defer p.expectAck("")
	}

	logger.Debug("Emitting compile result.", "event", p.cfg.EmitEvent, "failed", payload.Error != nil)
	if err := p.client.Emit(p.cfg.EmitEvent, payload.Map()); err != nil {
		return fmt.Errorf("failed to emit %q: %w", p.cfg.EmitEvent, err)
	}
	if acked == nil {
		return nil
	}

	select {
	case <-acked:
		logger.Debug("Compile result acknowledged.", "event", p.cfg.OnEvent)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out after %v waiting for event %q", p.cfg.Timeout, p.cfg.OnEvent)
	}
}

// expectAck makes document the one whose acknowledgement is awaited and
// returns the channel closed when it arrives. An empty document stops
// waiting.
func (p *Publisher) expectAck(document string) chan struct{} {
	p.ackMu.Lock()
	defer p.ackMu.Unlock()

	if document == "" {
		p.waiting = nil
		return nil
	}
	p.waiting = &pendingAck{document: document, done: make(chan struct{})}
	return p.waiting.done
}

// ack handles an acknowledgement event. The first argument names the
// document, either as a string or as the "document" field of an object.
// Acknowledgements for any other document are ignored.
func (p *Publisher) ack(args ...any) bool {
	if len(args) == 0 {
		return false
	}
	var document string
	switch v := args[0].(type) {
	case string:
		document = v
	case map[string]any:
		document, _ = v["document"].(string)
	}

	p.ackMu.Lock()
	defer p.ackMu.Unlock()

	if p.waiting == nil || document == "" || p.waiting.document != document {
		return false
	}
	close(p.waiting.done)
	p.waiting = nil
	return true
}

// Close drops the connection, if any.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		p.client.Disconnect()
		p.client = nil
	}
	return nil
}

func (p *Publisher) connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("url", p.cfg.URL, "namespace", p.cfg.Namespace)

	opts := socket.DefaultOptions()
	opts.SetPath(p.path)
	opts.SetReconnection(false)
	opts.SetTimeout(p.cfg.Timeout)
	if p.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to publish endpoint.", "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	if p.cfg.OnEvent != "" {
		io.On(types.EventName(p.cfg.OnEvent), func(args ...any) {
			if !p.ack(args...) {
				logger.Debug("Ignoring unmatched acknowledgement.", "event", p.cfg.OnEvent)
			}
		})
	}

	logger.Debug("Connecting to publish endpoint.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", p.cfg.Timeout)
	}
}
