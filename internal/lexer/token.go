// Package lexer tokenizes Accipit source text ahead of the recursive
// descent parser in internal/parser.
package lexer

import "github.com/stormckey/accipit/internal/pos"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Name      // bare word with no region prefix: keywords, opcodes, type names, e.g. "fn", "add", "i32"
	GlobalIdent
	ParamIdent
	LocalIdent
	Int // signed integer literal
	Colon
	Comma
	Semi
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Lt
	Star
	Arrow // "->"
	Equals
	Unit // "()" with no intervening whitespace, per grammar
)

// Token is one lexical unit plus its source position, used to build
// diagnostics that point back at the offending text.
type Token struct {
	Kind  Kind
	Text  string
	Value int32 // populated for Int
	Pos   pos.Position
}
