package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vk/shapec/internal/srcpos"
)

// Lexer scans a trimmed source text rune by rune.
type Lexer struct {
	src    []rune
	cursor int
	line   int
	column int
}

// New creates a Lexer over text. Leading and trailing whitespace is trimmed
// before scanning, so positions are relative to the trimmed text.
func New(text string) *Lexer {
	return &Lexer{src: []rune(strings.TrimSpace(text))}
}

// Lex tokenizes text in one pass.
func Lex(text string) ([]Token, error) {
	lx := New(text)

	var tokens []Token
	for {
		tok, ok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false once the input is exhausted.
func (lx *Lexer) Next() (tok Token, ok bool, err error) {
	lx.skipWhitespace()

	c, more := lx.peek()
	if !more {
		return Token{}, false, nil
	}

	switch {
	case c == '(':
		return lx.single(LParen), true, nil
	case c == ')':
		return lx.single(RParen), true, nil
	case c == '{':
		return lx.single(LCurly), true, nil
	case c == '}':
		return lx.single(RCurly), true, nil
	case c == '*':
		return lx.single(Times), true, nil
	case c == '/':
		return lx.single(Divide), true, nil
	case c == '+':
		return lx.single(Plus), true, nil
	case c == '-':
		return lx.single(Minus), true, nil
	case c == ':':
		return lx.single(Colon), true, nil
	case c == ',':
		return lx.single(Comma), true, nil
	case c == '=':
		return lx.equals(), true, nil
	case c == '"':
		tok, err = lx.consumeString()
		return tok, err == nil, err
	case isDigit(c):
		return lx.consumeNumber(), true, nil
	case unicode.IsLetter(c):
		tok, err = lx.consumeIdent()
		return tok, err == nil, err
	default:
		return Token{}, false, &Error{Kind: UnexpectedCharacter, Pos: lx.pos(), Char: c}
	}
}

func (lx *Lexer) pos() srcpos.Position {
	return srcpos.New(lx.line, lx.column)
}

func (lx *Lexer) peek() (rune, bool) {
	if lx.cursor >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.cursor], true
}

// forward consumes one rune, keeping line and column in step with it.
func (lx *Lexer) forward() (rune, bool) {
	c, ok := lx.peek()
	if !ok {
		return 0, false
	}
	lx.cursor++
	if c == '\n' || c == '\r' {
		lx.line++
		lx.column = 0
	} else {
		lx.column++
	}
	return c, true
}

func (lx *Lexer) skipWhitespace() {
	for {
		c, ok := lx.peek()
		if !ok {
			return
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			lx.forward()
		default:
			return
		}
	}
}

func (lx *Lexer) token(kind Kind, start srcpos.Position) Token {
	return Token{Kind: kind, Range: srcpos.NewRange(start, lx.pos())}
}

func (lx *Lexer) single(kind Kind) Token {
	start := lx.pos()
	lx.forward()
	return lx.token(kind, start)
}

func (lx *Lexer) equals() Token {
	start := lx.pos()
	lx.forward()
	if c, ok := lx.peek(); ok && c == '=' {
		lx.forward()
		return lx.token(Compare, start)
	}
	return lx.token(Equals, start)
}

func (lx *Lexer) consumeString() (Token, error) {
	start := lx.pos()
	lx.forward() // opening quote

	var sb strings.Builder
	for {
		c, ok := lx.forward()
		if !ok {
			return Token{}, newError(StringNeverTerminated, start)
		}
		if c == '"' {
			break
		}
		sb.WriteRune(c)
	}

	tok := lx.token(String, start)
	tok.Text = sb.String()
	return tok, nil
}

func (lx *Lexer) consumeIdent() (Token, error) {
	start := lx.pos()

	c, _ := lx.peek()
	if !isAlpha(c) {
		return Token{}, newError(InvalidIdentifier, start)
	}

	var sb strings.Builder
	for {
		c, ok := lx.peek()
		if !ok || !isAlphaNum(c) {
			break
		}
		lx.forward()
		sb.WriteRune(c)
	}

	tok := lx.token(Ident, start)
	tok.Text = sb.String()
	return tok, nil
}

func (lx *Lexer) consumeNumber() Token {
	start := lx.pos()

	var sb strings.Builder
	seenDot := false
	for {
		c, ok := lx.peek()
		if !ok {
			break
		}
		if c == '.' && !seenDot {
			seenDot = true
		} else if !isDigit(c) {
			break
		}
		lx.forward()
		sb.WriteRune(c)
	}

	// Out of range literals keep the ±Inf ParseFloat returns with ErrRange.
	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// Only digits and at most one dot reach this point.
		panic(fmt.Sprintf("lexer: malformed number %q: %v", sb.String(), err))
	}

	tok := lx.token(Number, start)
	tok.Num = n
	return tok
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNum(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
