package app

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// TestStreams captures what an App writes.
type TestStreams struct {
	Out *SafeBuffer
	Err *SafeBuffer
}

// SetupAppTest creates a new app instance for system testing. stdin feeds
// the StdinPath source and may be nil. Logs are dumped when
// SHAPEC_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg Config, stdin io.Reader) (*App, *TestStreams) {
	t.Helper()

	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	streams := &TestStreams{Out: &SafeBuffer{}, Err: &SafeBuffer{}}
	testApp, err := NewApp(Streams{In: stdin, Out: streams.Out, Err: streams.Err}, validated)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("SHAPEC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), streams.Err.String())
		}
	})

	return testApp, streams
}
