package parser

import (
	"slices"

	"github.com/vk/shapec/internal/ast"
	"github.com/vk/shapec/internal/lexer"
	"github.com/vk/shapec/internal/srcpos"
)

var reserved = []string{"shape"}

// IsReserved reports whether word cannot be used as an identifier.
func IsReserved(word string) bool {
	return slices.Contains(reserved, word)
}

// Parser walks a token slice with one token of lookahead.
type Parser struct {
	tokens []lexer.Token
	cursor int
	end    srcpos.Position
}

// New creates a Parser. The end-of-input position is the end of the last
// token, or 0:0 when there are no tokens.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}
	if len(tokens) > 0 {
		p.end = tokens[len(tokens)-1].Range.End
	}
	return p
}

// ParseProgram parses a whole source file.
func ParseProgram(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).Program()
}

// ParseExpression parses tokens as a single expression. Tokens left over
// after the expression are an error.
func ParseExpression(tokens []lexer.Token) (ast.Expr, error) {
	p := New(tokens)
	e, err := p.Expression(precLowest)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, expected("end of expression", tok)
	}
	return e, nil
}

// Program parses `shape*` until the input is exhausted.
func (p *Parser) Program() (*ast.Program, error) {
	prog := &ast.Program{End: p.end}
	for !p.atEnd() {
		s, err := p.Shape()
		if err != nil {
			return nil, err
		}
		prog.Shapes = append(prog.Shapes, s)
	}
	return prog, nil
}

// Shape parses `"shape" ident "(" [param ("," param)*] ")" block`.
func (p *Parser) Shape() (*ast.Shape, error) {
	kw, err := p.keyword("shape")
	if err != nil {
		return nil, err
	}

	name, _, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen, "'(' after shape name"); err != nil {
		return nil, err
	}

	var params []*ast.Param
	if !p.nextIs(lexer.RParen) {
		for {
			param, err := p.param()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if _, ok := p.match(lexer.Comma); !ok {
				break
			}
		}
	}

	if _, err := p.expect(lexer.RParen, "')' to close the parameter list"); err != nil {
		return nil, err
	}

	body, err := p.Block()
	if err != nil {
		return nil, err
	}

	return &ast.Shape{
		Name:   name,
		Params: params,
		Body:   body,
		Range:  kw.Range.Over(body.Range),
	}, nil
}

func (p *Parser) param() (*ast.Param, error) {
	name, r, err := p.ident()
	if err != nil {
		return nil, err
	}

	param := &ast.Param{Name: name, Range: r}
	if _, ok := p.match(lexer.Equals); ok {
		def, err := p.Expression(precLowest)
		if err != nil {
			return nil, err
		}
		param.Default = def
	}
	return param, nil
}

// Block parses `"{" funcall* "}"`.
func (p *Parser) Block() (*ast.Block, error) {
	open, err := p.expect(lexer.LCurly, "'{' to open the shape body")
	if err != nil {
		return nil, err
	}

	block := &ast.Block{}
	for {
		if closing, ok := p.match(lexer.RCurly); ok {
			block.Range = open.Range.Over(closing.Range)
			return block, nil
		}
		if p.atEnd() {
			return nil, p.endOfInput()
		}
		call, err := p.Call()
		if err != nil {
			return nil, err
		}
		block.Calls = append(block.Calls, call)
	}
}

// Call parses `ident "(" [namedarg ("," namedarg)*] ")"`.
func (p *Parser) Call() (*ast.FunCall, error) {
	callee, r, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen, "'(' after "+callee); err != nil {
		return nil, err
	}

	var args []*ast.NamedArg
	if !p.nextIs(lexer.RParen) {
		for {
			arg, err := p.namedArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.match(lexer.Comma); !ok {
				break
			}
		}
	}

	closing, err := p.expect(lexer.RParen, "')' to close the call to "+callee)
	if err != nil {
		return nil, err
	}

	return &ast.FunCall{
		Callee: callee,
		Args:   args,
		Range:  r.Over(closing.Range),
	}, nil
}

func (p *Parser) namedArg() (*ast.NamedArg, error) {
	name, _, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon, "':' after argument name "+name); err != nil {
		return nil, err
	}
	e, err := p.Expression(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.NamedArg{Name: name, Expr: e}, nil
}

func (p *Parser) atEnd() bool {
	return p.cursor >= len(p.tokens)
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.atEnd() {
		return lexer.Token{}, false
	}
	return p.tokens[p.cursor], true
}

func (p *Parser) next() (lexer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.cursor++
	}
	return tok, ok
}

func (p *Parser) nextIs(kind lexer.Kind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

// match consumes the next token if it has the given kind.
func (p *Parser) match(kind lexer.Kind) (lexer.Token, bool) {
	if !p.nextIs(kind) {
		return lexer.Token{}, false
	}
	return p.next()
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return lexer.Token{}, p.endOfInput()
	}
	if tok.Kind != kind {
		return lexer.Token{}, expected(what, tok)
	}
	return tok, nil
}

func (p *Parser) endOfInput() *Error {
	return &Error{Kind: UnExpectedEndOfInput, Pos: p.end}
}

func (p *Parser) keyword(word string) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return lexer.Token{}, p.endOfInput()
	}
	if tok.Kind != lexer.Ident || tok.Text != word {
		return lexer.Token{}, expected(word, tok)
	}
	return tok, nil
}

func (p *Parser) ident() (string, srcpos.Range, error) {
	tok, ok := p.next()
	if !ok {
		return "", srcpos.Range{}, p.endOfInput()
	}
	if tok.Kind != lexer.Ident {
		return "", srcpos.Range{}, expected("identifier", tok)
	}
	if IsReserved(tok.Text) {
		return "", srcpos.Range{}, &Error{Kind: IdentifierCannotBeReservedWord, Pos: tok.Pos(), Name: tok.Text}
	}
	return tok.Text, tok.Range, nil
}
