package eval

// Scope holds the bindings of one shape call. It is flat: there is no
// parent, so a callee never sees its caller's variables.
type Scope map[string]Value

// Lookup finds a binding by exact name.
func (s Scope) Lookup(name string) (Value, bool) {
	v, ok := s[name]
	return v, ok
}
