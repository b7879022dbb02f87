// Package parser builds an ast.Program from a token sequence.
//
// Declarations, shape bodies and calls are parsed by recursive descent;
// expressions use top-down operator precedence (Pratt) parsing. Parsing is
// fail-fast: the first error aborts the whole parse.
package parser
