// Package eval walks a parsed program and produces an SVG document.
//
// Shapes are looked up in a Registry built from the builtin library, any
// extra libraries and the user's declarations. Each shape call gets a fresh
// flat Scope holding only its own parameters; the caller's bindings are not
// visible inside the callee. Call depth is bounded by StackLimit so runaway
// recursion surfaces as a StackOverflow error instead of crashing the host.
package eval
