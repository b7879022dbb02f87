package eval

import (
	_ "embed"
	"sync"

	"github.com/vk/shapec/internal/lexer"
	"github.com/vk/shapec/internal/parser"
	"github.com/vk/shapec/internal/srcpos"
)

//go:embed stdlib.shape
var stdlibSource string

// builtins parses the embedded library once per process. The result, error
// included, is shared read-only by every evaluation.
var builtins = sync.OnceValues(func() (*Registry, error) {
	return loadLibrary(stdlibSource)
})

// Builtins returns the registry of builtin shapes. Callers must Clone it
// before declaring more shapes.
func Builtins() (*Registry, error) {
	return builtins()
}

func loadLibrary(src string) (*Registry, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, stdlibNotLoaded("lexing")
	}

	prog, err := parser.ParseProgram(tokens)
	if err != nil {
		return nil, stdlibNotLoaded("parsing")
	}

	reg := NewRegistry()
	if err := reg.DeclareAll(prog); err != nil {
		return nil, stdlibNotLoaded("finding shapes for")
	}
	return reg, nil
}

func stdlibNotLoaded(stage string) *Error {
	return &Error{Kind: StdLibNotLoaded, Pos: srcpos.New(0, 0), Stage: stage}
}
