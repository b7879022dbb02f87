// Package srcpos holds the source position model shared by the lexer, the
// parser, the evaluator and the diagnostic layer.
//
// Positions are 0-based (line, column) pairs counted in Unicode scalar values
// over the trimmed source text.
package srcpos
