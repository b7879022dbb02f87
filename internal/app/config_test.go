package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      Config
		errText  string
		wantMode string
	}{
		{name: "single", cfg: Config{SourcePath: "logo.shape", Workers: 1}, wantMode: "single"},
		{name: "stdin", cfg: Config{SourcePath: StdinPath, Workers: 1}, wantMode: "single"},
		{name: "build", cfg: Config{BuildFile: "shapec.hcl", Workers: 4}, wantMode: "build"},
		{name: "serve", cfg: Config{ServePort: 8080, Workers: 1}, wantMode: "serve"},
		{
			name:     "single with placard",
			cfg:      Config{SourcePath: "a.shape", OutputPath: "a.svg", ErrorPlacard: true, Workers: 1},
			wantMode: "single",
		},
		{name: "no mode", cfg: Config{Workers: 1}, errText: "is required"},
		{name: "two modes", cfg: Config{SourcePath: "a.shape", BuildFile: "b.hcl", Workers: 1}, errText: "mutually exclusive"},
		{name: "serve and build", cfg: Config{ServePort: 80, BuildFile: "b.hcl", Workers: 1}, errText: "mutually exclusive"},
		{name: "bad port", cfg: Config{ServePort: 70000, Workers: 1}, errText: "out of range"},
		{name: "no workers", cfg: Config{SourcePath: "a.shape"}, errText: "workers"},
		{name: "output in build mode", cfg: Config{BuildFile: "b.hcl", OutputPath: "x.svg", Workers: 1}, errText: "output path"},
		{name: "placard without output", cfg: Config{SourcePath: "a.shape", ErrorPlacard: true, Workers: 1}, errText: "placards"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)
			if tc.errText != "" {
				assert.ErrorContains(t, err, tc.errText)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *got)
			assert.Equal(t, tc.wantMode, got.mode())
		})
	}
}
