package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/shapec/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// listFlag collects a repeatable, comma separated flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("shapec", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
shapec - compiles shape descriptions to SVG.

Usage:
  shapec [options] SOURCE_PATH
  shapec [options] -build shapec.hcl
  shapec [options] -serve-port 8080

Arguments:
  SOURCE_PATH
    Path to a .shape file, or - to read the source from standard input.

Options:
`)
		flagSet.PrintDefaults()
	}

	var libs listFlag
	outputFlag := flagSet.String("output", "", "Write the SVG to this file instead of standard output.")
	oFlag := flagSet.String("o", "", "Write the SVG to this file (shorthand).")
	buildFlag := flagSet.String("build", "", "Compile every document listed in this HCL build file.")
	flagSet.Var(&libs, "lib", "Shape library file or directory. Repeatable, or comma separated.")
	workersFlag := flagSet.Int("workers", 4, "Number of documents compiled concurrently in build mode.")
	servePortFlag := flagSet.Int("serve-port", 0, "Serve /health and /compile over HTTP on this port. 0 is disabled.")
	placardFlag := flagSet.Bool("error-placard", false, "Write an SVG error placard in place of a document that fails to compile.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one SOURCE_PATH, got %d", flagSet.NArg())}
	}
	source := flagSet.Arg(0)

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *oFlag
	}

	if source == "" && *buildFlag == "" && *servePortFlag == 0 {
		slog.Debug("No input provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SourcePath:   source,
		BuildFile:    *buildFlag,
		OutputPath:   outputPath,
		LibraryPaths: libs,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Workers:      *workersFlag,
		ServePort:    *servePortFlag,
		ErrorPlacard: *placardFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
