package eval

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/shapec/internal/ast"
	"github.com/vk/shapec/internal/srcpos"
)

const (
	// StackLimit is the deepest call nesting allowed. The call that would
	// push frame StackLimit+1 fails with StackOverflow.
	StackLimit = 256

	// EntryShape is the shape evaluated to produce the document.
	EntryShape = "main"

	svgBuiltin = "svg"
	svgArg     = "value"

	documentOpen  = `<svg width="100%" height="100%" xmlns="http://www.w3.org/2000/svg">`
	documentClose = `</svg>`
)

// Library is an extra set of shapes made available to every program.
type Library struct {
	Name    string
	Program *ast.Program
}

// Evaluator turns programs into SVG documents. It holds no per-run state, so
// a single Evaluator may be used from several goroutines.
type Evaluator struct {
	libraries []Library
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLibrary makes the shapes of prog callable from evaluated programs.
// Libraries are declared after the builtins and before the program, in the
// order the options are given.
func WithLibrary(name string, prog *ast.Program) Option {
	return func(ev *Evaluator) {
		ev.libraries = append(ev.libraries, Library{Name: name, Program: prog})
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// EvalProgram evaluates prog with only the builtin library.
func EvalProgram(prog *ast.Program) (string, error) {
	return New().Eval(prog)
}

// Shapes builds the registry of builtin and library shapes, without any
// program declarations.
func (ev *Evaluator) Shapes() (*Registry, error) {
	base, err := Builtins()
	if err != nil {
		return nil, err
	}

	reg := base.Clone()
	for _, lib := range ev.libraries {
		if err := reg.DeclareAll(lib.Program); err != nil {
			return nil, fmt.Errorf("library %s: %w", lib.Name, err)
		}
	}
	return reg, nil
}

// Registry builds the shape registry prog would be evaluated against and
// checks that it has a parameterless main shape.
func (ev *Evaluator) Registry(prog *ast.Program) (*Registry, error) {
	reg, err := ev.Shapes()
	if err != nil {
		return nil, err
	}
	if err := reg.DeclareAll(prog); err != nil {
		return nil, err
	}

	main, ok := reg.Lookup(EntryShape)
	if !ok || len(main.Params) != 0 {
		return nil, &Error{Kind: MissingMain, Pos: prog.End}
	}
	return reg, nil
}

// Eval evaluates the main shape of prog and wraps its output in the SVG
// document element.
func (ev *Evaluator) Eval(prog *ast.Program) (string, error) {
	reg, err := ev.Registry(prog)
	if err != nil {
		return "", err
	}

	main, _ := reg.Lookup(EntryShape)
	r := &run{shapes: reg, scope: Scope{}}
	body, err := r.evalBlock(main.Body)
	if err != nil {
		return "", err
	}
	return documentOpen + body + documentClose, nil
}

// EvalExpression evaluates a single expression against scope. Shape calls
// cannot appear in expressions, so no registry is involved.
func EvalExpression(e ast.Expr, scope Scope) (Value, error) {
	r := &run{shapes: NewRegistry(), scope: scope}
	return r.evalExpr(e)
}

// run is the state of one evaluation.
type run struct {
	shapes *Registry
	scope  Scope
	stack  []string
}

func (r *run) evalBlock(b *ast.Block) (string, error) {
	var out strings.Builder
	for _, call := range b.Calls {
		v, err := r.evalCall(call)
		if err != nil {
			return "", err
		}
		s, ok := v.AsString()
		if !ok {
			panic(fmt.Sprintf("eval: call to %s produced a %s", call.Callee, v.TypeName()))
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

func (r *run) evalCall(call *ast.FunCall) (Value, error) {
	r.stack = append(r.stack, call.Callee)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	if len(r.stack) > StackLimit {
		return Value{}, &Error{Kind: StackOverflow, Pos: call.Pos(), Names: slices.Clone(r.stack)}
	}

	if call.Callee == svgBuiltin {
		return r.evalSvg(call)
	}

	shape, ok := r.shapes.Lookup(call.Callee)
	if !ok {
		return Value{}, &Error{Kind: ShapeNotDefined, Pos: call.Pos(), Name: call.Callee}
	}

	scope, err := r.bind(shape, call)
	if err != nil {
		return Value{}, err
	}

	caller := r.scope
	r.scope = scope
	body, err := r.evalBlock(shape.Body)
	r.scope = caller
	if err != nil {
		return Value{}, err
	}
	return String(body), nil
}

// bind builds the callee scope. Arguments and defaults are both evaluated in
// the caller's scope.
func (r *run) bind(shape *ast.Shape, call *ast.FunCall) (Scope, error) {
	seen := make(map[string]struct{}, len(call.Args))
	for _, arg := range call.Args {
		if _, ok := shape.Param(arg.Name); !ok {
			return nil, &Error{Kind: InvalidArgName, Pos: arg.Expr.Pos(), Name: shape.Name, Arg: arg.Name}
		}
		if _, dup := seen[arg.Name]; dup {
			return nil, &Error{Kind: UnExpectedArg, Pos: arg.Expr.Pos(), Name: shape.Name, Arg: arg.Name}
		}
		seen[arg.Name] = struct{}{}
	}

	scope := make(Scope, len(shape.Params))
	for _, p := range shape.Params {
		var expr ast.Expr
		if arg, ok := call.Arg(p.Name); ok {
			expr = arg.Expr
		} else if p.Default != nil {
			expr = p.Default
		} else {
			return nil, &Error{Kind: MissingRequiredArg, Pos: call.Pos(), Name: shape.Name, Arg: p.Name}
		}

		v, err := r.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		scope[p.Name] = v
	}
	return scope, nil
}

func (r *run) evalSvg(call *ast.FunCall) (Value, error) {
	if len(call.Args) != 1 {
		return Value{}, &Error{Kind: NumArgs, Pos: call.Pos(), Name: svgBuiltin, Want: 1, Got: len(call.Args)}
	}
	arg := call.Args[0]
	if arg.Name != svgArg {
		return Value{}, &Error{Kind: MissingArgs, Pos: call.Pos(), Name: svgBuiltin, Names: []string{svgArg}}
	}

	v, err := r.evalExpr(arg.Expr)
	if err != nil {
		return Value{}, err
	}
	if _, ok := v.AsString(); !ok {
		return Value{}, &Error{Kind: SvgExpectsString, Pos: arg.Expr.Pos(), Received: v.TypeName()}
	}
	return v, nil
}

func (r *run) evalExpr(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Name:
		v, ok := r.scope.Lookup(e.Ident)
		if !ok {
			return Value{}, &Error{Kind: VariableNotDefined, Pos: e.Pos(), Name: e.Ident}
		}
		return v, nil
	case *ast.Literal:
		if e.Kind == ast.StringLit {
			return String(e.Str), nil
		}
		return Number(e.Num), nil
	case *ast.Grouping:
		return r.evalExpr(e.Inner)
	case *ast.Unary:
		v, err := r.evalExpr(e.Operand)
		if err != nil {
			return Value{}, err
		}
		n, err := number(v, e.Operand.Pos())
		if err != nil {
			return Value{}, err
		}
		return Number(-n), nil
	case *ast.Binary:
		return r.evalBinary(e)
	default:
		panic(fmt.Sprintf("eval: unknown expression %T", e))
	}
}

func (r *run) evalBinary(e *ast.Binary) (Value, error) {
	lhs, err := r.evalExpr(e.Left)
	if err != nil {
		return Value{}, err
	}
	rhs, err := r.evalExpr(e.Right)
	if err != nil {
		return Value{}, err
	}

	if e.Op == ast.Add {
		if lhs.Kind() == NumberKind && rhs.Kind() == NumberKind {
			return Number(lhs.num + rhs.num), nil
		}
		return String(lhs.String() + rhs.String()), nil
	}

	ln, err := number(lhs, e.Left.Pos())
	if err != nil {
		return Value{}, err
	}
	rn, err := number(rhs, e.Right.Pos())
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case ast.Mul:
		return Number(ln * rn), nil
	case ast.Div:
		return Number(ln / rn), nil
	case ast.Sub:
		return Number(ln - rn), nil
	default:
		panic(fmt.Sprintf("eval: unknown operator %v", e.Op))
	}
}

func number(v Value, pos srcpos.Position) (float64, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, typeMismatch(NumberKind.TypeName(), v, pos)
	}
	return n, nil
}
