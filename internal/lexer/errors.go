package lexer

import (
	"fmt"

	"github.com/vk/shapec/internal/srcpos"
)

// ErrorKind enumerates the lexer error taxonomy.
type ErrorKind uint8

const (
	InvalidIdentifier ErrorKind = iota + 1
	StringNeverTerminated
	UnexpectedCharacter
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case StringNeverTerminated:
		return "StringNeverTerminated"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is a positioned lexing failure. Char is only set for
// UnexpectedCharacter.
type Error struct {
	Kind ErrorKind
	Pos  srcpos.Position
	Char rune
}

func (e *Error) Error() string {
	if e.Kind == UnexpectedCharacter {
		return fmt.Sprintf("[%s]: %s(%q)", e.Pos, e.Kind, e.Char)
	}
	return fmt.Sprintf("[%s]: %s", e.Pos, e.Kind)
}

func newError(kind ErrorKind, pos srcpos.Position) *Error {
	return &Error{Kind: kind, Pos: pos}
}
