// Package testutil runs the compiler application end to end against files
// written into a temporary directory.
package testutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/shapec/internal/app"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	Stdout    string
	LogOutput string
	Err       error
}

// Path resolves rel against the harness directory.
func (r *HarnessResult) Path(rel string) string {
	return filepath.Join(r.Dir, rel)
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg, nil)
}

// RunIntegrationTestWithContext writes files into a fresh directory, resolves
// the relative paths in cfg against it and runs the app. stdin feeds a "-"
// source and may be nil.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, stdin io.Reader) *HarnessResult {
	t.Helper()

	// 1. Write every file under a temporary root. Names may contain
	//    subdirectories, e.g. "lib/badges.shape".
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 2. Point the config at the temporary root.
	resolve := func(p string) string {
		if p == "" || p == app.StdinPath || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(tmpDir, p)
	}
	cfg.SourcePath = resolve(cfg.SourcePath)
	cfg.BuildFile = resolve(cfg.BuildFile)
	cfg.OutputPath = resolve(cfg.OutputPath)
	libs := make([]string, 0, len(cfg.LibraryPaths))
	for _, lib := range cfg.LibraryPaths {
		libs = append(libs, resolve(lib))
	}
	cfg.LibraryPaths = libs

	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	// 3. Run. Startup failures are reported like run failures.
	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	result := &HarnessResult{Dir: tmpDir}

	testApp, err := app.NewApp(app.Streams{In: stdin, Out: out, Err: logs}, validated)
	if err == nil {
		err = testApp.Run(ctx)
	}

	if os.Getenv("SHAPEC_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	result.Stdout = out.String()
	result.LogOutput = logs.String()
	result.Err = err
	return result
}
