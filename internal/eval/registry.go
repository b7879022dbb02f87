package eval

import (
	"maps"
	"slices"

	"github.com/vk/shapec/internal/ast"
)

// Registry maps shape names to their declarations. Insertion of a name that
// already exists is rejected, never merged.
type Registry struct {
	shapes map[string]*ast.Shape
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{shapes: make(map[string]*ast.Shape)}
}

// Declare adds a shape, failing with ShapeAlreadyDefined at the shape's
// position when the name is taken.
func (r *Registry) Declare(s *ast.Shape) error {
	if _, exists := r.shapes[s.Name]; exists {
		return &Error{Kind: ShapeAlreadyDefined, Pos: s.Pos(), Name: s.Name}
	}
	r.shapes[s.Name] = s
	return nil
}

// DeclareAll adds every shape of prog in declaration order.
func (r *Registry) DeclareAll(prog *ast.Program) error {
	for _, s := range prog.Shapes {
		if err := r.Declare(s); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a shape by name.
func (r *Registry) Lookup(name string) (*ast.Shape, bool) {
	s, ok := r.shapes[name]
	return s, ok
}

// Len returns the number of declared shapes.
func (r *Registry) Len() int {
	return len(r.shapes)
}

// Names returns the declared shape names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.shapes))
}

// Clone returns a registry with the same declarations that can be extended
// without touching r.
func (r *Registry) Clone() *Registry {
	return &Registry{shapes: maps.Clone(r.shapes)}
}
