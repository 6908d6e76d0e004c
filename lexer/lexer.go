// Package lexer turns source buffers into positioned token streams
// consumed by the grammar and parser subpackages.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/bglgwyng/layx/source"
)

var keywords = map[string]bool{
	"module": true, "import": true, "namespace": true, "data": true,
	"record": true, "interface": true, "implementation": true,
	"where": true, "let": true, "in": true, "do": true,
	"case": true, "of": true, "if": true, "then": true, "else": true,
	"with": true, "mutual": true, "forall": true, "rewrite": true,
	"public": true, "export": true, "private": true,
	"infixl": true, "infixr": true, "infix": true, "prefix": true,
	"total": true, "partial": true, "covering": true,
	"auto": true, "implicit": true,
}

const opChars = "!#$%&*+-./<=>?@\\^|~:"

// Scan tokenizes src and returns the token stream terminated by the
// end-of-input token. Comments and whitespace are dropped. Dotted
// namespaced identifiers are joined into a single token: a dot is part of
// an identifier only when it sits directly between identifier characters,
// so "a.b" is one namespaced identifier while "a .b" is an identifier
// followed by a record field.
func Scan(src *source.Source) ([]Token, error) {
	s := scanner{src: src, buf: src.Content()}
	e := s.run()
	if e != nil {
		return nil, e
	}
	return s.toks, nil
}

// ScanString is a convenience wrapper around Scan for in-memory sources.
func ScanString(name, content string) ([]Token, error) {
	return Scan(source.NewString(name, content))
}

type scanner struct {
	src  *source.Source
	buf  []byte
	pos  int
	toks []Token
}

func (s *scanner) run() error {
	for {
		s.skipSpace()
		if e := s.skipComments(); e != nil {
			return e
		}
		s.skipSpace()
		if s.pos >= len(s.buf) {
			s.toks = append(s.toks, EndToken(s.src))
			return nil
		}

		if e := s.scanToken(); e != nil {
			return e
		}
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) skipComments() error {
	for s.pos < len(s.buf) {
		switch {
		case s.hasPrefix("--"):
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' {
				s.pos++
			}
		case s.hasPrefix("{-"):
			if e := s.skipBlockComment(); e != nil {
				return e
			}
		default:
			return nil
		}
		s.skipSpace()
	}
	return nil
}

func (s *scanner) skipBlockComment() error {
	start := s.pos
	s.pos += 2
	depth := 1
	for s.pos < len(s.buf) && depth > 0 {
		switch {
		case s.hasPrefix("{-"):
			depth++
			s.pos += 2
		case s.hasPrefix("-}"):
			depth--
			s.pos += 2
		default:
			s.pos++
		}
	}
	if depth > 0 {
		return unterminatedError(s.src.At(start), UnterminatedCommentError, "block comment")
	}
	return nil
}

func (s *scanner) hasPrefix(p string) bool {
	return s.pos+len(p) <= len(s.buf) && string(s.buf[s.pos:s.pos+len(p)]) == p
}

func (s *scanner) peekAt(offset int) byte {
	if s.pos+offset >= len(s.buf) {
		return 0
	}
	return s.buf[s.pos+offset]
}

func (s *scanner) emit(kind Kind, start int, text string) {
	line, col := s.src.LineCol(start)
	s.toks = append(s.toks, Token{kind, text, s.src, line, col})
}

func (s *scanner) scanToken() error {
	start := s.pos
	c := s.buf[s.pos]

	switch {
	case c == '(' || c == ')' || c == '[' || c == ']' || c == '{' || c == '}' ||
		c == ',' || c == ';' || c == '`':
		s.pos++
		s.emit(Symbol, start, string(c))
		return nil

	case c == '"':
		return s.scanString(start)

	case c == '\'':
		return s.scanChar(start)

	case c == '%' && isIdentStart(s.peekAt(1)):
		s.pos++
		s.emit(Pragma, start, s.scanIdentPart())
		return nil

	case c == '?' && isIdentStart(s.peekAt(1)):
		s.pos++
		s.emit(HoleIdent, start, s.scanIdentPart())
		return nil

	case c == '.' && isIdentStart(s.peekAt(1)):
		s.pos++
		s.emit(RecordField, start, s.scanIdentPart())
		return nil

	case isDigit(c):
		s.scanNumber(start)
		return nil

	case isIdentStart(c):
		s.scanIdent(start)
		return nil

	case strings.IndexByte(opChars, c) >= 0:
		for s.pos < len(s.buf) && strings.IndexByte(opChars, s.buf[s.pos]) >= 0 {
			s.pos++
		}
		s.emit(Symbol, start, string(s.buf[start:s.pos]))
		return nil
	}

	r, _ := utf8.DecodeRune(s.buf[s.pos:])
	return unexpectedRuneError(s.src.At(s.pos), r)
}

func (s *scanner) scanString(start int) error {
	s.pos++
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case '"':
			s.pos++
			s.emit(StringLit, start, string(s.buf[start:s.pos]))
			return nil
		case '\\':
			s.pos += 2
		case '\n':
			return unterminatedError(s.src.At(start), UnterminatedStringError, "string literal")
		default:
			s.pos++
		}
	}
	return unterminatedError(s.src.At(start), UnterminatedStringError, "string literal")
}

func (s *scanner) scanChar(start int) error {
	s.pos++
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case '\'':
			s.pos++
			s.emit(CharLit, start, string(s.buf[start:s.pos]))
			return nil
		case '\\':
			s.pos += 2
		case '\n':
			return unterminatedError(s.src.At(start), UnterminatedCharError, "character literal")
		default:
			s.pos++
		}
	}
	return unterminatedError(s.src.At(start), UnterminatedCharError, "character literal")
}

func (s *scanner) scanNumber(start int) {
	if s.buf[s.pos] == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') && isHexDigit(s.peekAt(2)) {
		s.pos += 2
		for s.pos < len(s.buf) && isHexDigit(s.buf[s.pos]) {
			s.pos++
		}
		s.emit(IntegerLit, start, string(s.buf[start:s.pos]))
		return
	}

	kind := IntegerLit
	for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
		s.pos++
	}
	if s.peekAt(0) == '.' && isDigit(s.peekAt(1)) {
		kind = DoubleLit
		s.pos++
		for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
			s.pos++
		}
	}
	if c := s.peekAt(0); c == 'e' || c == 'E' {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			kind = DoubleLit
			s.pos += 2
			for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
				s.pos++
			}
		}
	}
	s.emit(kind, start, string(s.buf[start:s.pos]))
}

func (s *scanner) scanIdent(start int) {
	s.scanIdentPart()
	dotted := false
	for s.peekAt(0) == '.' && isIdentStart(s.peekAt(1)) {
		dotted = true
		s.pos++
		s.scanIdentPart()
	}

	text := string(s.buf[start:s.pos])
	switch {
	case dotted:
		s.emit(DotIdent, start, text)
	case keywords[text]:
		s.emit(Keyword, start, text)
	default:
		s.emit(Ident, start, text)
	}
}

// scanIdentPart consumes one identifier segment and returns its text.
func (s *scanner) scanIdentPart() string {
	start := s.pos
	for s.pos < len(s.buf) && isIdentRest(s.buf[s.pos]) {
		s.pos++
	}
	return string(s.buf[start:s.pos])
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentRest(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
