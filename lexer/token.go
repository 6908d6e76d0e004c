package lexer

import (
	"github.com/bglgwyng/layx/source"
)

// Kind classifies a token. The parser subpackage matches on kinds and on
// token text, never on byte offsets.
type Kind int

const (
	Unknown Kind = iota
	IntegerLit
	DoubleLit
	StringLit // raw text including the surrounding quotes
	CharLit   // raw text including the surrounding quotes
	Ident
	DotIdent    // dotted namespaced identifier, e.g. Data.List.map
	HoleIdent   // text without the leading '?'
	RecordField // text without the leading '.'
	Symbol
	Keyword
	Pragma // text without the leading '%'
	EndInput
)

var kindNames = map[Kind]string{
	Unknown:     "unknown",
	IntegerLit:  "integer literal",
	DoubleLit:   "double literal",
	StringLit:   "string literal",
	CharLit:     "character literal",
	Ident:       "identifier",
	DotIdent:    "namespaced identifier",
	HoleIdent:   "hole identifier",
	RecordField: "record field",
	Symbol:      "symbol",
	Keyword:     "keyword",
	Pragma:      "pragma",
	EndInput:    "-end-of-input-",
}

func (k Kind) String() string {
	name, found := kindNames[k]
	if !found {
		return kindNames[Unknown]
	}
	return name
}

// Token is one positioned token. Tokens are immutable values; the parser
// only ever reads them.
type Token struct {
	kind      Kind
	text      string
	src       *source.Source
	line, col int
}

func NewToken(kind Kind, text string, src *source.Source, line, col int) Token {
	return Token{kind, text, src, line, col}
}

func (t Token) Kind() Kind {
	return t.kind
}

func (t Token) Text() string {
	return t.text
}

func (t Token) Source() *source.Source {
	return t.src
}

func (t Token) SourceName() string {
	if t.src == nil {
		return ""
	}
	return t.src.Name()
}

func (t Token) Line() int {
	return t.line
}

func (t Token) Col() int {
	return t.col
}

// EndToken returns the distinguished end-of-input token, positioned just
// past the end of src (or at 0:0 for a nil source).
func EndToken(src *source.Source) Token {
	line := 0
	col := 0
	if src != nil {
		line, col = src.LineCol(src.Len())
	}
	return Token{kind: EndInput, src: src, line: line, col: col}
}
