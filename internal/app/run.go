package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/shapec/internal/buildfile"
	"github.com/vk/shapec/internal/compiler"
	"github.com/vk/shapec/internal/ctxlog"
	"github.com/vk/shapec/internal/diagnostic"
	"github.com/vk/shapec/internal/placard"
	"github.com/vk/shapec/internal/publish"
)

const stdinName = "<stdin>"

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.mode())

	var err error
	switch a.config.mode() {
	case "serve":
		err = a.serve(ctx)
	case "build":
		err = a.runBuild(ctx)
	default:
		err = a.runSingle(ctx)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) runSingle(ctx context.Context) error {
	name, src, err := a.readSource()
	if err != nil {
		return err
	}

	svg, err := a.compiler.Compile(ctx, name, src)
	if err != nil {
		a.report(ctx, name, src, err)
		if a.config.ErrorPlacard {
			if perr := writePlacard(a.config.OutputPath, name, err); perr != nil {
				return perr
			}
		}
		return fmt.Errorf("%s: %w", name, ErrCompileFailed)
	}

	if a.config.OutputPath == "" {
		_, err = io.WriteString(a.streams.Out, svg+"\n")
		return err
	}
	if err := writeOutput(a.config.OutputPath, svg); err != nil {
		return err
	}
	a.logger.Info("Document compiled.", "source", name, "output", a.config.OutputPath)
	return nil
}

func (a *App) readSource() (name, src string, err error) {
	if a.config.SourcePath == StdinPath {
		if a.streams.In == nil {
			return "", "", errors.New("no standard input available")
		}
		b, err := io.ReadAll(a.streams.In)
		if err != nil {
			return "", "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return stdinName, string(b), nil
	}

	b, err := os.ReadFile(a.config.SourcePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read source: %w", err)
	}
	return a.config.SourcePath, string(b), nil
}

func (a *App) runBuild(ctx context.Context) error {
	bf, err := buildfile.Load(ctx, a.config.BuildFile)
	if err != nil {
		return err
	}

	if len(bf.Libraries) > 0 {
		if err := a.loadLibraries(ctx, bf.Libraries); err != nil {
			return err
		}
	}

	var pub *publish.Publisher
	if bf.Publish != nil {
		pub, err = publish.New(publish.Config{
			URL:                bf.Publish.URL,
			Namespace:          bf.Publish.Namespace,
			EmitEvent:          bf.Publish.EmitEvent,
			OnEvent:            bf.Publish.OnEvent,
			Timeout:            bf.Publish.Timeout,
			InsecureSkipVerify: bf.Publish.InsecureSkipVerify,
		})
		if err != nil {
			return fmt.Errorf("invalid publish configuration: %w", err)
		}
		defer pub.Close()
	}

	placards := bf.ErrorPlacards || a.config.ErrorPlacard
	a.logger.Info("Building documents.", "count", len(bf.Documents), "workers", a.config.Workers)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(a.config.Workers)
	for _, doc := range bf.Documents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.buildDocument(ctx, doc, placards, pub); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(errs) > 0 {
		slices.SortFunc(errs, func(x, y error) int {
			return strings.Compare(x.Error(), y.Error())
		})
		return fmt.Errorf("%d of %d documents failed: %w", len(errs), len(bf.Documents), errors.Join(errs...))
	}

	a.logger.Info("Build finished.", "documents", len(bf.Documents))
	return nil
}

// buildDocument compiles one document. Publishing problems are logged, not
// returned, so a missing preview endpoint never fails a build.
func (a *App) buildDocument(ctx context.Context, doc buildfile.Document, placards bool, pub *publish.Publisher) error {
	logger := ctxlog.FromContext(ctx).With("document", doc.Name)

	src, err := os.ReadFile(doc.Source)
	if err != nil {
		return fmt.Errorf("document %s: failed to read source: %w", doc.Name, err)
	}

	svg, compileErr := a.compiler.Compile(ctx, doc.Name, string(src))

	if pub != nil {
		if err := pub.Publish(ctx, publish.NewPayload(doc.Name, svg, compileErr)); err != nil {
			logger.Warn("Failed to publish compile result.", "error", err)
		}
	}

	if compileErr != nil {
		a.report(ctx, doc.Source, string(src), compileErr)
		if placards {
			if err := writePlacard(doc.Output, doc.Name, compileErr); err != nil {
				return fmt.Errorf("document %s: %w", doc.Name, err)
			}
			logger.Info("Error placard written.", "output", doc.Output)
		}
		return fmt.Errorf("document %s: %w", doc.Name, ErrCompileFailed)
	}

	if err := writeOutput(doc.Output, svg); err != nil {
		return fmt.Errorf("document %s: %w", doc.Name, err)
	}
	logger.Info("Document compiled.", "output", doc.Output)
	return nil
}

func (a *App) loadLibraries(ctx context.Context, paths []string) error {
	err := a.compiler.LoadLibraries(ctx, paths...)
	if err == nil {
		a.logger.Debug("Libraries loaded.", "libraries", a.compiler.Libraries())
		return nil
	}

	var libErr *compiler.LibraryError
	if errors.As(err, &libErr) {
		a.report(ctx, libErr.Path, libErr.Source, libErr.Err)
	}
	return fmt.Errorf("failed to load libraries: %w", err)
}

// report writes err as an hcl diagnostic with a snippet of src.
func (a *App) report(ctx context.Context, filename, src string, err error) {
	a.errMu.Lock()
	defer a.errMu.Unlock()

	diags := diagnostic.ToHCL(filename, src, err)
	if werr := diagnostic.Write(a.streams.Err, filename, src, diags); werr != nil {
		ctxlog.FromContext(ctx).Error("Failed to write diagnostics.", "error", werr, "diagnostic", err)
	}
}

func writeOutput(path, svg string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writePlacard(path, title string, compileErr error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create placard: %w", err)
	}

	ce := compiler.NewResult("", compileErr).Error
	if err := placard.Write(f, title, *ce); err != nil {
		f.Close()
		return fmt.Errorf("failed to write placard: %w", err)
	}
	return f.Close()
}
