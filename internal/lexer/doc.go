// Package lexer turns shape source text into a flat, ordered sequence of
// positioned tokens.
//
// Lexing is a single forward pass with one rune of lookahead. The first
// error aborts the whole pass; no partial token list is ever returned.
package lexer
