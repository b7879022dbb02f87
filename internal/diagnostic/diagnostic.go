// Package diagnostic renders lexer, parser and evaluation errors for people.
// It is the only place that knows the display text of each error kind and the
// only place that converts source positions into hcl diagnostics.
package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/shapec/internal/eval"
	"github.com/vk/shapec/internal/lexer"
	"github.com/vk/shapec/internal/parser"
	"github.com/vk/shapec/internal/srcpos"
)

const (
	SummaryLex     = "Lex error"
	SummaryParse   = "Parse error"
	SummaryEval    = "Evaluation error"
	SummaryCompile = "Compile error"
)

// Message renders err without its position. Errors that do not come from a
// compiler stage render as err.Error().
func Message(err error) string {
	var lexErr *lexer.Error
	var parseErr *parser.Error
	var evalErr *eval.Error
	switch {
	case errors.As(err, &lexErr):
		return lexMessage(lexErr)
	case errors.As(err, &parseErr):
		return parseMessage(parseErr)
	case errors.As(err, &evalErr):
		return evalMessage(evalErr)
	default:
		return err.Error()
	}
}

// Position returns the source position carried by err, or 0:0.
func Position(err error) srcpos.Position {
	var lexErr *lexer.Error
	var parseErr *parser.Error
	var evalErr *eval.Error
	switch {
	case errors.As(err, &lexErr):
		return lexErr.Pos
	case errors.As(err, &parseErr):
		return parseErr.Pos
	case errors.As(err, &evalErr):
		return evalErr.Pos
	default:
		return srcpos.Position{}
	}
}

// Summary names the stage that produced err.
func Summary(err error) string {
	var lexErr *lexer.Error
	var parseErr *parser.Error
	var evalErr *eval.Error
	switch {
	case errors.As(err, &lexErr):
		return SummaryLex
	case errors.As(err, &parseErr):
		return SummaryParse
	case errors.As(err, &evalErr):
		return SummaryEval
	default:
		return SummaryCompile
	}
}

func lexMessage(e *lexer.Error) string {
	switch e.Kind {
	case lexer.InvalidIdentifier:
		return "Invalid identifier."
	case lexer.StringNeverTerminated:
		return "String never terminated."
	case lexer.UnexpectedCharacter:
		return fmt.Sprintf("Unexpected character %q.", e.Char)
	default:
		return e.Kind.String()
	}
}

func parseMessage(e *parser.Error) string {
	switch e.Kind {
	case parser.UnExpectedEndOfInput:
		return "Unexpected end of input."
	case parser.IdentifierCannotBeReservedWord:
		return fmt.Sprintf("Identifier %s cannot be a reserved word.", e.Name)
	case parser.UnBalancedParen:
		return "Unbalanced paren."
	case parser.Expected:
		if e.Found == lexer.KindNone {
			return fmt.Sprintf("Expected %s.", e.What)
		}
		return fmt.Sprintf("Expected %s. Found %s.", e.What, e.Found)
	default:
		return e.Kind.String()
	}
}

func evalMessage(e *eval.Error) string {
	switch e.Kind {
	case eval.VariableNotDefined:
		return fmt.Sprintf("Variable `%s` not defined", e.Name)
	case eval.ShapeNotDefined:
		return fmt.Sprintf("Shape `%s` not defined", e.Name)
	case eval.TypeMismatch:
		return fmt.Sprintf("Typemismatch. Expected: %s, Received: %s", e.Expected, e.Received)
	case eval.SvgExpectsString:
		return fmt.Sprintf("svg value arg needs to be a string. Received %s", e.Received)
	case eval.ShapeAlreadyDefined:
		return fmt.Sprintf("Shape %s already defined", e.Name)
	case eval.NumArgs:
		return fmt.Sprintf("Incorrect number of args to %s. Expected: %d, Received: %d", e.Name, e.Want, e.Got)
	case eval.InvalidArgName:
		return fmt.Sprintf("%s does not have an arg named %s", e.Name, e.Arg)
	case eval.MissingArgs:
		return fmt.Sprintf("Missing args %s for %s", strings.Join(e.Names, ", "), e.Name)
	case eval.UnExpectedArg:
		return fmt.Sprintf("Unexpected arg %s to %s", e.Arg, e.Name)
	case eval.MissingRequiredArg:
		return fmt.Sprintf("Missing required arg %s to %s", e.Arg, e.Name)
	case eval.MissingMain:
		return "Missing main shape"
	case eval.StackOverflow:
		return "Stack overflow\n" + strings.Join(e.Names, "\n    ")
	case eval.StdLibNotLoaded:
		return fmt.Sprintf("Error %s stdlib", e.Stage)
	default:
		return e.Kind.String()
	}
}

// ToHCL converts err into a single error diagnostic. src is the full text
// of filename as given to the compiler; the subject range points into it so
// line numbers and snippets match the file on disk.
func ToHCL(filename, src string, err error) hcl.Diagnostics {
	diag := &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  Summary(err),
		Detail:   Message(err),
	}
	if diag.Summary != SummaryCompile {
		diag.Subject = subject(filename, src, Position(err)).Ptr()
	}
	return hcl.Diagnostics{diag}
}

// Write renders diags with source snippets taken from src.
func Write(w io.Writer, filename, src string, diags hcl.Diagnostics) error {
	files := map[string]*hcl.File{
		filename: {Bytes: []byte(src)},
	}
	wr := hcl.NewDiagnosticTextWriter(w, files, 0, false)
	return wr.WriteDiagnostics(diags)
}

// subject highlights the character at pos.
func subject(filename, src string, pos srcpos.Position) hcl.Range {
	lead := len(src) - len(strings.TrimLeftFunc(src, unicode.IsSpace))
	start := lead + pos.Offset(strings.TrimSpace(src))

	end := start
	if start < len(src) {
		if r, size := utf8.DecodeRuneInString(src[start:]); r != '\n' && r != '\r' {
			end += size
		}
	}

	return hcl.Range{
		Filename: filename,
		Start:    hclPos(src, start),
		End:      hclPos(src, end),
	}
}

// hclPos converts a byte offset into a 1-based hcl position. Unlike the
// lexer, hcl treats "\r\n" as one line break.
func hclPos(src string, offset int) hcl.Pos {
	before := src[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return hcl.Pos{
		Line:   strings.Count(before, "\n") + 1,
		Column: utf8.RuneCountInString(before[lineStart:]) + 1,
		Byte:   offset,
	}
}
