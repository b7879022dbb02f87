// Package ast defines the syntax tree produced by the parser. Nodes are
// built once and never mutated afterwards.
package ast

import (
	"github.com/vk/shapec/internal/srcpos"
)

// Program is one parsed source file.
type Program struct {
	Shapes []*Shape
	// End is the end-of-input position, used for "missing thing" diagnostics.
	End srcpos.Position
}

// Shape is a `shape name(params) { ... }` declaration.
type Shape struct {
	Name   string
	Params []*Param
	Body   *Block
	Range  srcpos.Range
}

// Pos returns the position of the `shape` keyword.
func (s *Shape) Pos() srcpos.Position {
	return s.Range.Pos()
}

// Param returns the formal parameter with the given name.
func (s *Shape) Param(name string) (*Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Param is a formal parameter with an optional default expression.
type Param struct {
	Name    string
	Default Expr
	Range   srcpos.Range
}

// Block is the ordered list of calls forming a shape body.
type Block struct {
	Calls []*FunCall
	Range srcpos.Range
}

// FunCall invokes a shape or the svg builtin with named arguments.
type FunCall struct {
	Callee string
	Args   []*NamedArg
	Range  srcpos.Range
}

// Pos returns the position of the callee name.
func (c *FunCall) Pos() srcpos.Position {
	return c.Range.Pos()
}

// Arg returns the first argument with the given name.
func (c *FunCall) Arg(name string) (*NamedArg, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// NamedArg is `name: expr`.
type NamedArg struct {
	Name string
	Expr Expr
}
