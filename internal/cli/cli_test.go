package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/shapec/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "single source with defaults",
			args: []string{"logo.shape"},
			want: &app.Config{SourcePath: "logo.shape", LogFormat: "text", LogLevel: "info", Workers: 4},
		},
		{
			name: "stdin source with short output flag",
			args: []string{"-o", "out.svg", "-"},
			want: &app.Config{SourcePath: "-", OutputPath: "out.svg", LogFormat: "text", LogLevel: "info", Workers: 4},
		},
		{
			name: "long output flag wins",
			args: []string{"-o", "short.svg", "-output", "long.svg", "logo.shape"},
			want: &app.Config{SourcePath: "logo.shape", OutputPath: "long.svg", LogFormat: "text", LogLevel: "info", Workers: 4},
		},
		{
			name: "repeatable and comma separated libraries",
			args: []string{"-lib", "a.shape,b", "-lib", " c ", "logo.shape"},
			want: &app.Config{
				SourcePath:   "logo.shape",
				LibraryPaths: []string{"a.shape", "b", "c"},
				LogFormat:    "text",
				LogLevel:     "info",
				Workers:      4,
			},
		},
		{
			name: "build mode",
			args: []string{"-build", "shapec.hcl", "-workers", "8", "-error-placard", "-log-format", "JSON", "-log-level", "debug"},
			want: &app.Config{
				BuildFile:    "shapec.hcl",
				Workers:      8,
				ErrorPlacard: true,
				LogFormat:    "json",
				LogLevel:     "debug",
			},
		},
		{
			name: "serve mode",
			args: []string{"-serve-port", "8080"},
			want: &app.Config{ServePort: 8080, LogFormat: "text", LogLevel: "info", Workers: 4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			got, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			require.NoError(t, err)
			require.False(t, shouldExit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		args        []string
		wantMessage string
	}{
		{
			name:        "unknown flag",
			args:        []string{"-nope"},
			wantMessage: "flag provided but not defined: -nope",
		},
		{
			name:        "too many sources",
			args:        []string{"a.shape", "b.shape"},
			wantMessage: "expected at most one SOURCE_PATH, got 2",
		},
		{
			name:        "bad log format",
			args:        []string{"-log-format", "xml", "a.shape"},
			wantMessage: "invalid log-format",
		},
		{
			name:        "bad log level",
			args:        []string{"-log-level", "trace", "a.shape"},
			wantMessage: "invalid log-level",
		},
		{
			name:        "conflicting modes",
			args:        []string{"-build", "shapec.hcl", "a.shape"},
			wantMessage: "mutually exclusive",
		},
		{
			name:        "zero workers",
			args:        []string{"-workers", "0", "-build", "shapec.hcl"},
			wantMessage: "workers must be at least 1",
		},
		{
			name:        "output outside single mode",
			args:        []string{"-o", "x.svg", "-build", "shapec.hcl"},
			wantMessage: "an output path only applies to a single source",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			require.Nil(t, cfg)
			require.False(t, shouldExit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.wantMessage)
		})
	}
}

func TestParse_UsageExits(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-h"}, {}} {
		// --- Arrange ---
		out := &bytes.Buffer{}

		// --- Act ---
		cfg, shouldExit, err := Parse(args, out)

		// --- Assert ---
		require.NoError(t, err)
		require.True(t, shouldExit)
		require.Nil(t, cfg)
		require.Contains(t, out.String(), "Usage:")
	}
}
