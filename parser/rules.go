/*
Package parser provides the lexical primitives and the indentation engine
a surface grammar is built from: rules recognizing single token shapes
(constants, symbols, keywords, operators, names, pragmas) and the block
forms that turn significant whitespace into explicit block boundaries.
*/
package parser

import (
	"strconv"
	"strings"

	"github.com/bglgwyng/layx/grammar"
	"github.com/bglgwyng/layx/lexer"
)

// reservedSymbols may never be used as user-level operator names.
var reservedSymbols = map[string]bool{
	",": true, ";": true, "_": true, "`": true,
	"(": true, ")": true, "{": true, "}": true, "[": true, "]": true,
	"|": true, "%": true, "\\": true, ".": true, "!": true, "&": true,
	"=": true, ":": true, "=>": true, "->": true, "<-": true, ":=": true,
	"@": true, "$": true, "~": true, "?": true,
}

// reservedNames may never be bound or defined; they only denote built-in
// forms.
var reservedNames = map[string]bool{
	"Type": true, "Int": true, "Integer": true, "String": true,
	"Char": true, "Double": true, "Lazy": true, "Inf": true,
	"Force": true, "Delay": true,
}

// ConstKind discriminates Constant values.
type ConstKind int

const (
	IntConst ConstKind = iota
	DoubleConst
	StringConst
	CharConst
	IntType
	IntegerType
	StringType
	CharType
	DoubleType
)

// Constant is a literal constant or a built-in constant type name.
type Constant struct {
	Kind ConstKind
	Int  int64
	Dbl  float64
	Str  string
	Chr  rune
}

func (c Constant) String() string {
	switch c.Kind {
	case IntConst:
		return strconv.FormatInt(c.Int, 10)
	case DoubleConst:
		return strconv.FormatFloat(c.Dbl, 'g', -1, 64)
	case StringConst:
		return strconv.Quote(c.Str)
	case CharConst:
		return strconv.QuoteRune(c.Chr)
	case IntType:
		return "Int"
	case IntegerType:
		return "Integer"
	case StringType:
		return "String"
	case CharType:
		return "Char"
	case DoubleType:
		return "Double"
	}
	return "?"
}

var constTypes = map[string]ConstKind{
	"Int":     IntType,
	"Integer": IntegerType,
	"String":  StringType,
	"Char":    CharType,
	"Double":  DoubleType,
}

// Const matches any literal constant or built-in constant type name.
// A literal whose escape sequences do not decode is rejected as a
// constant rather than raising a distinct error.
func Const() grammar.Rule[Constant] {
	return grammar.Terminal("Expected constant", classifyConstant)
}

func classifyConstant(tok lexer.Token) (Constant, bool) {
	switch tok.Kind() {
	case lexer.IntegerLit:
		v, e := strconv.ParseInt(tok.Text(), 0, 64)
		if e != nil {
			return Constant{}, false
		}
		return Constant{Kind: IntConst, Int: v}, true

	case lexer.DoubleLit:
		v, e := strconv.ParseFloat(tok.Text(), 64)
		if e != nil {
			return Constant{}, false
		}
		return Constant{Kind: DoubleConst, Dbl: v}, true

	case lexer.StringLit:
		v, found := decodeStringLit(tok.Text())
		if !found {
			return Constant{}, false
		}
		return Constant{Kind: StringConst, Str: v}, true

	case lexer.CharLit:
		v, found := decodeCharLit(tok.Text())
		if !found {
			return Constant{}, false
		}
		return Constant{Kind: CharConst, Chr: v}, true

	case lexer.Ident:
		kind, found := constTypes[tok.Text()]
		if found {
			return Constant{Kind: kind}, true
		}
	}
	return Constant{}, false
}

func decodeStringLit(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	v, e := lexer.Unescape(raw[1 : len(raw)-1])
	return v, e == nil
}

func decodeCharLit(raw string) (rune, bool) {
	if len(raw) < 3 {
		return 0, false
	}
	v, e := lexer.UnescapeChar(raw[1 : len(raw)-1])
	return v, e == nil
}

// IntLit matches an integer literal.
func IntLit() grammar.Rule[int64] {
	return grammar.Terminal("Expected integer literal", func(tok lexer.Token) (int64, bool) {
		if tok.Kind() != lexer.IntegerLit {
			return 0, false
		}
		v, e := strconv.ParseInt(tok.Text(), 0, 64)
		return v, e == nil
	})
}

// StrLit matches a string literal, decoding its escape sequences.
func StrLit() grammar.Rule[string] {
	return grammar.Terminal("Expected string literal", func(tok lexer.Token) (string, bool) {
		if tok.Kind() != lexer.StringLit {
			return "", false
		}
		return decodeStringLit(tok.Text())
	})
}

// CharLit matches a character literal, decoding its escape sequence.
func CharLit() grammar.Rule[rune] {
	return grammar.Terminal("Expected character literal", func(tok lexer.Token) (rune, bool) {
		if tok.Kind() != lexer.CharLit {
			return 0, false
		}
		return decodeCharLit(tok.Text())
	})
}

// DoubleLit matches a floating point literal.
func DoubleLit() grammar.Rule[float64] {
	return grammar.Terminal("Expected double literal", func(tok lexer.Token) (float64, bool) {
		if tok.Kind() != lexer.DoubleLit {
			return 0, false
		}
		v, e := strconv.ParseFloat(tok.Text(), 64)
		return v, e == nil
	})
}

// Symbol matches the exact symbol token req.
func Symbol(req string) grammar.Rule[grammar.Unit] {
	return grammar.Terminal("Expected '"+req+"'", func(tok lexer.Token) (grammar.Unit, bool) {
		return grammar.Unit{}, tok.Kind() == lexer.Symbol && tok.Text() == req
	})
}

// Keyword matches the exact keyword token req.
func Keyword(req string) grammar.Rule[grammar.Unit] {
	return grammar.Terminal("Expected '"+req+"'", func(tok lexer.Token) (grammar.Unit, bool) {
		return grammar.Unit{}, tok.Kind() == lexer.Keyword && tok.Text() == req
	})
}

// Operator matches any symbol token that is not a reserved symbol.
func Operator() grammar.Rule[string] {
	return grammar.Terminal("Expected operator", func(tok lexer.Token) (string, bool) {
		if tok.Kind() != lexer.Symbol || reservedSymbols[tok.Text()] {
			return "", false
		}
		return tok.Text(), true
	})
}

// Identifier matches a plain (undotted) identifier, reserved or not.
func Identifier() grammar.Rule[string] {
	return grammar.Terminal("Expected identifier", func(tok lexer.Token) (string, bool) {
		return tok.Text(), tok.Kind() == lexer.Ident
	})
}

// HoleName matches a hole identifier and yields its name without the '?'.
func HoleName() grammar.Rule[string] {
	return grammar.Terminal("Expected hole identifier", func(tok lexer.Token) (string, bool) {
		return tok.Text(), tok.Kind() == lexer.HoleIdent
	})
}

// Pragma matches the pragma token with the given name.
func Pragma(name string) grammar.Rule[grammar.Unit] {
	return grammar.Terminal("Expected pragma "+name, func(tok lexer.Token) (grammar.Unit, bool) {
		return grammar.Unit{}, tok.Kind() == lexer.Pragma && tok.Text() == name
	})
}

// QualName is a possibly namespaced name. Field marks a record-field
// projection name.
type QualName struct {
	Space []string
	Base  string
	Field bool
}

func (n QualName) String() string {
	base := n.Base
	if n.Field {
		base = "." + base
	}
	if len(n.Space) == 0 {
		return base
	}
	return strings.Join(n.Space, ".") + "." + base
}

// Name parses a possibly namespaced name:
//
//	( <operator-or-record-field> )
//	<namespace>.( <operator-or-record-field> )
//	<namespace-prefixed or plain identifier>
//
// An unparenthesized name whose final segment is a reserved name fails
// recoverably; reserved names only denote built-in forms.
func Name() grammar.Rule[QualName] {
	return grammar.Alt(
		opNonNS(),
		grammar.Bind(namespacedIdent(), func(parts []string) grammar.Rule[QualName] {
			return grammar.Alt(opNS(parts), nameNS(parts))
		}),
	)
}

// opOrField parses the parenthesizable part of a name: an operator or a
// record-field projection.
func opOrField() grammar.Rule[QualName] {
	return grammar.Alt(
		grammar.Map(Operator(), func(op string) QualName {
			return QualName{Base: op}
		}),
		grammar.Terminal("Expected operator or record field", func(tok lexer.Token) (QualName, bool) {
			if tok.Kind() != lexer.RecordField {
				return QualName{}, false
			}
			return QualName{Base: tok.Text(), Field: true}, true
		}),
	)
}

func opNonNS() grammar.Rule[QualName] {
	return grammar.Then(Symbol("("), grammar.Before(opOrField(), Symbol(")")))
}

func opNS(space []string) grammar.Rule[QualName] {
	return grammar.Then(Symbol("."),
		grammar.Then(Symbol("("),
			grammar.Before(
				grammar.Map(opOrField(), func(n QualName) QualName {
					n.Space = space
					return n
				}),
				Symbol(")"))))
}

func nameNS(parts []string) grammar.Rule[QualName] {
	base := parts[len(parts)-1]
	if reservedNames[base] {
		return grammar.FailWith[QualName](ReservedNameError, "Can't use reserved name "+base)
	}
	return grammar.Pure(QualName{Space: parts[:len(parts)-1], Base: base})
}

// namespacedIdent matches a plain or dotted identifier and splits it into
// segments.
func namespacedIdent() grammar.Rule[[]string] {
	return grammar.Terminal("Expected name", func(tok lexer.Token) ([]string, bool) {
		switch tok.Kind() {
		case lexer.Ident:
			return []string{tok.Text()}, true
		case lexer.DotIdent:
			return strings.Split(tok.Text(), "."), true
		}
		return nil, false
	})
}

// Column yields the column of the upcoming token without consuming it; at
// the end of input it yields the end-of-input position's column.
func Column() grammar.Rule[int] {
	return grammar.Map(grammar.Peek(), lexer.Token.Col)
}
