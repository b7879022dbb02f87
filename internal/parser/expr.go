package parser

import (
	"github.com/vk/shapec/internal/ast"
	"github.com/vk/shapec/internal/lexer"
)

// Binding powers, highest binds tightest.
const (
	precLowest  = 0
	precSum     = 30
	precProduct = 40
	precPrefix  = 60
	precCall    = 80
)

// lbp is the left binding power of a token in infix position.
func lbp(kind lexer.Kind) int {
	switch kind {
	case lexer.LParen:
		return precCall
	case lexer.Times, lexer.Divide:
		return precProduct
	case lexer.Plus, lexer.Minus:
		return precSum
	default:
		return precLowest
	}
}

var binOps = map[lexer.Kind]ast.BinOp{
	lexer.Times:  ast.Mul,
	lexer.Divide: ast.Div,
	lexer.Plus:   ast.Add,
	lexer.Minus:  ast.Sub,
}

// Expression parses an expression whose operators bind tighter than rbp.
func (p *Parser) Expression(rbp int) (ast.Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.endOfInput()
	}
	left, err := p.nud(tok)
	if err != nil {
		return nil, err
	}

	for {
		next, ok := p.peek()
		if !ok || lbp(next.Kind) <= rbp {
			return left, nil
		}
		p.cursor++
		left, err = p.led(next, left)
		if err != nil {
			return nil, err
		}
	}
}

// nud handles a token in prefix position.
func (p *Parser) nud(tok lexer.Token) (ast.Expr, error) {
	switch tok.Kind {
	case lexer.Ident:
		if IsReserved(tok.Text) {
			return nil, &Error{Kind: IdentifierCannotBeReservedWord, Pos: tok.Pos(), Name: tok.Text}
		}
		return &ast.Name{Ident: tok.Text, Range: tok.Range}, nil
	case lexer.Number:
		return ast.NumberLiteral(tok.Num, tok.Range), nil
	case lexer.String:
		return ast.StringLiteral(tok.Text, tok.Range), nil
	case lexer.Minus:
		operand, err := p.Expression(precPrefix)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Neg, Operand: operand, OpPos: tok.Pos()}, nil
	case lexer.LParen:
		inner, err := p.Expression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, ok := p.match(lexer.RParen); !ok {
			return nil, &Error{Kind: UnBalancedParen, Pos: tok.Pos()}
		}
		return &ast.Grouping{Inner: inner}, nil
	default:
		return nil, expected("expression", tok)
	}
}

// led handles a token in infix position.
func (p *Parser) led(tok lexer.Token, left ast.Expr) (ast.Expr, error) {
	op, ok := binOps[tok.Kind]
	if !ok {
		// Calls are statements, so a '(' after an operand never starts one.
		return nil, expected("operator", tok)
	}
	right, err := p.Expression(lbp(tok.Kind))
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Left: left, Op: op, Right: right, OpPos: tok.Pos()}, nil
}
