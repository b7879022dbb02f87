package app

import (
	"errors"
	"fmt"
)

// StdinPath is the SourcePath that reads the source from standard input.
const StdinPath = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourcePath   string // single .shape file, or StdinPath
	BuildFile    string // HCL build file listing documents
	OutputPath   string // single mode only; empty writes to stdout
	LibraryPaths []string

	LogFormat    string
	LogLevel     string
	Workers      int
	ServePort    int
	ErrorPlacard bool
}

// NewConfig validates cfg. Exactly one of SourcePath, BuildFile and
// ServePort selects the mode.
func NewConfig(cfg Config) (*Config, error) {
	modes := 0
	if cfg.SourcePath != "" {
		modes++
	}
	if cfg.BuildFile != "" {
		modes++
	}
	if cfg.ServePort != 0 {
		modes++
	}
	switch {
	case modes == 0:
		return nil, errors.New("one of a source path, a build file or a serve port is required")
	case modes > 1:
		return nil, errors.New("source path, build file and serve port are mutually exclusive")
	}

	if cfg.ServePort < 0 || cfg.ServePort > 65535 {
		return nil, fmt.Errorf("serve port %d is out of range", cfg.ServePort)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.OutputPath != "" && cfg.SourcePath == "" {
		return nil, errors.New("an output path only applies to a single source")
	}
	if cfg.ErrorPlacard && cfg.SourcePath != "" && cfg.OutputPath == "" {
		return nil, errors.New("error placards need an output path")
	}

	return &cfg, nil
}

func (c *Config) mode() string {
	switch {
	case c.ServePort != 0:
		return "serve"
	case c.BuildFile != "":
		return "build"
	default:
		return "single"
	}
}
