package lexer

import (
	"fmt"
	"strconv"

	"github.com/vk/shapec/internal/srcpos"
)

// Kind identifies the lexical class of a Token.
type Kind uint8

const (
	// KindNone is never produced by the lexer. Parse errors use it to say
	// that no token was available.
	KindNone Kind = iota
	LParen
	RParen
	LCurly
	RCurly
	Times
	Divide
	Plus
	Minus
	Equals
	Compare
	Colon
	Comma
	Number
	Ident
	String
)

var kindNames = map[Kind]string{
	KindNone: "nothing",
	LParen:   "'('",
	RParen:   "')'",
	LCurly:   "'{'",
	RCurly:   "'}'",
	Times:    "'*'",
	Divide:   "'/'",
	Plus:     "'+'",
	Minus:    "'-'",
	Equals:   "'='",
	Compare:  "'=='",
	Colon:    "':'",
	Comma:    "','",
	Number:   "number",
	Ident:    "identifier",
	String:   "string",
}

// String returns a short human readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a lexical unit. Num is set for Number tokens, Text for Ident and
// String tokens.
type Token struct {
	Kind  Kind
	Num   float64
	Text  string
	Range srcpos.Range
}

// Pos returns the start position of the token.
func (t Token) Pos() srcpos.Position {
	return t.Range.Start
}

// String renders the token for debugging and test failure output.
func (t Token) String() string {
	switch t.Kind {
	case Number:
		return fmt.Sprintf("Number(%s)@%s", strconv.FormatFloat(t.Num, 'f', -1, 64), t.Range)
	case Ident:
		return fmt.Sprintf("Ident(%s)@%s", t.Text, t.Range)
	case String:
		return fmt.Sprintf("String(%q)@%s", t.Text, t.Range)
	default:
		return fmt.Sprintf("%s@%s", t.Kind, t.Range)
	}
}
