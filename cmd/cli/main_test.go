package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/shapec/internal/app"
	"github.com/vk/shapec/internal/cli"
)

func TestRun_CompilesStdin(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	in := strings.NewReader(`shape main() { svg(value: "x") }`)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, in, []string{"-"})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "<svg")
	require.Contains(t, out.String(), ">x</svg>")
}

func TestRun_CompileFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "broken.shape")
	require.NoError(t, os.WriteFile(path, []byte("shape main() { svg(value: y) }"), 0600))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, nil, []string{path})

	// --- Assert ---
	require.Error(t, err)
	require.True(t, errors.Is(err, app.ErrCompileFailed))
	require.Contains(t, errOut.String(), "Variable `y` not defined")
	require.Empty(t, out.String())
}

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	missing := filepath.Join(t.TempDir(), "nowhere")
	args := []string{"-lib", missing, "-"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""), args)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup failed")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, errOut, nil, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed to the error stream")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, nil, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
