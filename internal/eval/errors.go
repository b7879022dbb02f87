package eval

import (
	"fmt"
	"strings"

	"github.com/vk/shapec/internal/srcpos"
)

// ErrorKind enumerates the evaluation error taxonomy.
type ErrorKind uint8

const (
	VariableNotDefined ErrorKind = iota + 1
	ShapeNotDefined
	TypeMismatch
	SvgExpectsString
	ShapeAlreadyDefined
	NumArgs
	MissingArgs
	MissingRequiredArg
	InvalidArgName
	UnExpectedArg
	StackOverflow
	MissingMain
	StdLibNotLoaded
)

var errorKindNames = map[ErrorKind]string{
	VariableNotDefined:  "VariableNotDefined",
	ShapeNotDefined:     "ShapeNotDefined",
	TypeMismatch:        "TypeMismatch",
	SvgExpectsString:    "SvgExpectsString",
	ShapeAlreadyDefined: "ShapeAlreadyDefined",
	NumArgs:             "NumArgs",
	MissingArgs:         "MissingArgs",
	MissingRequiredArg:  "MissingRequiredArg",
	InvalidArgName:      "InvalidArgName",
	UnExpectedArg:       "UnExpectedArg",
	StackOverflow:       "StackOverflow",
	MissingMain:         "MissingMain",
	StdLibNotLoaded:     "StdLibNotLoaded",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a positioned evaluation failure. Which payload fields are set
// depends on Kind:
//
//	VariableNotDefined, ShapeNotDefined, ShapeAlreadyDefined  Name
//	TypeMismatch                                              Expected, Received
//	SvgExpectsString                                          Received
//	NumArgs                                                   Name, Want, Got
//	MissingArgs                                               Name, Names
//	MissingRequiredArg, InvalidArgName, UnExpectedArg         Name, Arg
//	StackOverflow                                             Names (call frames)
//	StdLibNotLoaded                                           Stage
type Error struct {
	Kind     ErrorKind
	Pos      srcpos.Position
	Name     string
	Arg      string
	Expected string
	Received string
	Want     int
	Got      int
	Names    []string
	Stage    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s]: %s%s", e.Pos, e.Kind, e.payload())
}

func (e *Error) payload() string {
	switch e.Kind {
	case VariableNotDefined, ShapeNotDefined, ShapeAlreadyDefined:
		return "(" + e.Name + ")"
	case TypeMismatch:
		return fmt.Sprintf("(%s, %s)", e.Expected, e.Received)
	case SvgExpectsString:
		return "(" + e.Received + ")"
	case NumArgs:
		return fmt.Sprintf("(%s, %d, %d)", e.Name, e.Want, e.Got)
	case MissingArgs:
		return fmt.Sprintf("(%s, [%s])", e.Name, strings.Join(e.Names, ", "))
	case MissingRequiredArg, InvalidArgName, UnExpectedArg:
		return fmt.Sprintf("(%s, %s)", e.Name, e.Arg)
	case StackOverflow:
		return fmt.Sprintf("(%d frames)", len(e.Names))
	case StdLibNotLoaded:
		return "(" + e.Stage + ")"
	default:
		return ""
	}
}

func typeMismatch(expected string, got Value, pos srcpos.Position) *Error {
	return &Error{Kind: TypeMismatch, Pos: pos, Expected: expected, Received: got.TypeName()}
}
