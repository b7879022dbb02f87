// Package compiler runs source text through the lexer, parser and evaluator.
//
// Compile is the host boundary: it never fails, and reports problems as a
// positioned CompileError inside the Result. The Compiler type adds shape
// libraries loaded from disk and returns stage errors untouched, for callers
// that render their own diagnostics.
package compiler

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/shapec/internal/ast"
	"github.com/vk/shapec/internal/ctxlog"
	"github.com/vk/shapec/internal/diagnostic"
	"github.com/vk/shapec/internal/eval"
	"github.com/vk/shapec/internal/fsutil"
	"github.com/vk/shapec/internal/lexer"
	"github.com/vk/shapec/internal/parser"
)

// LibraryExtension is the file extension of shape libraries.
const LibraryExtension = ".shape"

// CompileError is a failure reported across the host boundary. Line and
// Column are 0-based.
type CompileError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Result holds exactly one of SVG and Error.
type Result struct {
	SVG   string        `json:"svg,omitempty"`
	Error *CompileError `json:"error,omitempty"`
}

// NewResult builds the host boundary result of a compile outcome.
func NewResult(svg string, err error) Result {
	if err == nil {
		return Result{SVG: svg}
	}
	pos := diagnostic.Position(err)
	return Result{Error: &CompileError{
		Line:    pos.Line,
		Column:  pos.Column,
		Message: diagnostic.Message(err),
	}}
}

// Compile compiles source with only the builtin shapes.
func Compile(source string) Result {
	return New().Result(context.Background(), source)
}

// Compiler compiles sources against the builtin shapes plus any loaded
// libraries. Load libraries before sharing a Compiler between goroutines;
// Compile itself is safe for concurrent use.
type Compiler struct {
	libraries []eval.Library
	evaluator *eval.Evaluator
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLibrary adds an already parsed library.
func WithLibrary(name string, prog *ast.Program) Option {
	return func(c *Compiler) {
		c.libraries = append(c.libraries, eval.Library{Name: name, Program: prog})
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	c.rebuild()
	return c
}

func (c *Compiler) rebuild() {
	opts := make([]eval.Option, 0, len(c.libraries))
	for _, lib := range c.libraries {
		opts = append(opts, eval.WithLibrary(lib.Name, lib.Program))
	}
	c.evaluator = eval.New(opts...)
}

// Libraries returns the names of the loaded libraries in load order.
func (c *Compiler) Libraries() []string {
	names := make([]string, 0, len(c.libraries))
	for _, lib := range c.libraries {
		names = append(names, lib.Name)
	}
	return names
}

// LoadLibraries parses every .shape file found under paths and makes their
// shapes available to later compilations. Nothing is added unless every file
// parses and no shape name collides.
func (c *Compiler) LoadLibraries(ctx context.Context, paths ...string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, LibraryExtension)
	if err != nil {
		return fmt.Errorf("failed to find libraries: %w", err)
	}

	loaded := make([]eval.Library, 0, len(files))
	for _, file := range files {
		logger.Debug("Loading shape library.", "path", file)
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read library %s: %w", file, err)
		}
		prog, err := parse(string(src))
		if err != nil {
			return &LibraryError{Path: file, Source: string(src), Err: err}
		}
		loaded = append(loaded, eval.Library{Name: file, Program: prog})
	}

	candidate := &Compiler{libraries: append(append([]eval.Library{}, c.libraries...), loaded...)}
	candidate.rebuild()
	if _, err := candidate.evaluator.Shapes(); err != nil {
		return err
	}

	c.libraries = candidate.libraries
	c.evaluator = candidate.evaluator
	logger.Debug("Shape libraries loaded.", "count", len(loaded))
	return nil
}

// Compile turns source into an SVG document. name only labels log records.
// Errors are the stage errors of the lexer, parser or evaluator.
func (c *Compiler) Compile(ctx context.Context, name, source string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("document", name)

	logger.Debug("Parsing source.", "bytes", len(source))
	prog, err := parse(source)
	if err != nil {
		logger.Debug("Source rejected.", "error", err)
		return "", err
	}

	logger.Debug("Evaluating program.", "shapes", len(prog.Shapes))
	svg, err := c.evaluator.Eval(prog)
	if err != nil {
		logger.Debug("Evaluation failed.", "error", err)
		return "", err
	}

	logger.Debug("Compiled.", "svg_bytes", len(svg))
	return svg, nil
}

// Result compiles source and converts the outcome for the host boundary.
func (c *Compiler) Result(ctx context.Context, source string) Result {
	return NewResult(c.Compile(ctx, "", source))
}

func parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return parser.ParseProgram(tokens)
}

// LibraryError is a lex or parse failure inside a library file.
type LibraryError struct {
	Path   string
	Source string
	Err    error
}

func (e *LibraryError) Error() string {
	return fmt.Sprintf("library %s: %v", e.Path, e.Err)
}

func (e *LibraryError) Unwrap() error {
	return e.Err
}
