package parser

import (
	"fmt"

	"github.com/vk/shapec/internal/lexer"
	"github.com/vk/shapec/internal/srcpos"
)

// ErrorKind enumerates the parser error taxonomy.
type ErrorKind uint8

const (
	UnExpectedEndOfInput ErrorKind = iota + 1
	IdentifierCannotBeReservedWord
	UnBalancedParen
	Expected
)

func (k ErrorKind) String() string {
	switch k {
	case UnExpectedEndOfInput:
		return "UnExpectedEndOfInput"
	case IdentifierCannotBeReservedWord:
		return "IdentifierCannotBeReservedWord"
	case UnBalancedParen:
		return "UnBalancedParen"
	case Expected:
		return "Expected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is a positioned parse failure.
//
// Name is set for IdentifierCannotBeReservedWord. What and Found are set for
// Expected; Found is lexer.KindNone when no token was available.
type Error struct {
	Kind  ErrorKind
	Pos   srcpos.Position
	Name  string
	What  string
	Found lexer.Kind
}

func (e *Error) Error() string {
	switch e.Kind {
	case IdentifierCannotBeReservedWord:
		return fmt.Sprintf("[%s]: %s(%s)", e.Pos, e.Kind, e.Name)
	case Expected:
		if e.Found == lexer.KindNone {
			return fmt.Sprintf("[%s]: %s(%s)", e.Pos, e.Kind, e.What)
		}
		return fmt.Sprintf("[%s]: %s(%s, %s)", e.Pos, e.Kind, e.What, e.Found)
	default:
		return fmt.Sprintf("[%s]: %s", e.Pos, e.Kind)
	}
}

func expected(what string, tok lexer.Token) *Error {
	return &Error{Kind: Expected, Pos: tok.Pos(), What: what, Found: tok.Kind}
}
