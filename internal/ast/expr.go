package ast

import (
	"fmt"
	"strconv"

	"github.com/vk/shapec/internal/srcpos"
)

// Expr is implemented by every expression node.
type Expr interface {
	Pos() srcpos.Position
	exprNode()
}

// BinOp is a binary operator.
type BinOp uint8

const (
	Mul BinOp = iota + 1
	Div
	Add
	Sub
)

func (op BinOp) String() string {
	switch op {
	case Mul:
		return "*"
	case Div:
		return "/"
	case Add:
		return "+"
	case Sub:
		return "-"
	default:
		return fmt.Sprintf("BinOp(%d)", op)
	}
}

// UnOp is a prefix operator.
type UnOp uint8

const (
	Neg UnOp = iota + 1
)

func (op UnOp) String() string {
	if op == Neg {
		return "-"
	}
	return fmt.Sprintf("UnOp(%d)", op)
}

// LiteralKind tells number literals from string literals.
type LiteralKind uint8

const (
	NumberLit LiteralKind = iota + 1
	StringLit
)

type (
	// Name is a variable reference.
	Name struct {
		Ident string
		Range srcpos.Range
	}

	// Literal is a number or string constant.
	Literal struct {
		Kind  LiteralKind
		Num   float64
		Str   string
		Range srcpos.Range
	}

	// Binary is `Left Op Right`. OpPos is the operator's position.
	Binary struct {
		Left  Expr
		Op    BinOp
		Right Expr
		OpPos srcpos.Position
	}

	// Unary is `Op Operand`. OpPos is the operator's position.
	Unary struct {
		Op      UnOp
		Operand Expr
		OpPos   srcpos.Position
	}

	// Grouping is a parenthesized expression.
	Grouping struct {
		Inner Expr
	}
)

// NumberLiteral builds a number literal.
func NumberLiteral(n float64, r srcpos.Range) *Literal {
	return &Literal{Kind: NumberLit, Num: n, Range: r}
}

// StringLiteral builds a string literal.
func StringLiteral(s string, r srcpos.Range) *Literal {
	return &Literal{Kind: StringLit, Str: s, Range: r}
}

func (e *Name) Pos() srcpos.Position     { return e.Range.Pos() }
func (e *Literal) Pos() srcpos.Position  { return e.Range.Pos() }
func (e *Binary) Pos() srcpos.Position   { return e.OpPos }
func (e *Unary) Pos() srcpos.Position    { return e.OpPos }
func (e *Grouping) Pos() srcpos.Position { return e.Inner.Pos() }

func (*Name) exprNode()     {}
func (*Literal) exprNode()  {}
func (*Binary) exprNode()   {}
func (*Unary) exprNode()    {}
func (*Grouping) exprNode() {}

// Format renders an expression in fully parenthesized form. It is used by
// tests and debug logging to show how precedence was resolved.
func Format(e Expr) string {
	switch e := e.(type) {
	case *Name:
		return e.Ident
	case *Literal:
		if e.Kind == StringLit {
			return strconv.Quote(e.Str)
		}
		return strconv.FormatFloat(e.Num, 'f', -1, 64)
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", Format(e.Left), e.Op, Format(e.Right))
	case *Unary:
		return fmt.Sprintf("(%s%s)", e.Op, Format(e.Operand))
	case *Grouping:
		return fmt.Sprintf("[%s]", Format(e.Inner))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
