package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bglgwyng/layx"
)

// Unescape decodes the body of a string literal (without the surrounding
// quotes). Recognized escapes: \n \t \r \b \f \v \0 \\ \' \" , hexadecimal
// \xHH.., unicode \uHHHH, and decimal \DDD. A malformed escape yields an
// error; terminal classifiers treat that as "no match" rather than a
// distinct failure.
func Unescape(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}

		r, size, e := decodeEscape(body[i:])
		if e != nil {
			return "", e
		}

		b.WriteRune(r)
		i += size
	}
	return b.String(), nil
}

// UnescapeChar decodes the body of a character literal (without the
// surrounding quotes); the body must denote exactly one rune.
func UnescapeChar(body string) (rune, error) {
	if body == "" {
		return 0, badEscapeError(body)
	}

	if body[0] != '\\' {
		r, size := utf8.DecodeRuneInString(body)
		if r == utf8.RuneError || size != len(body) {
			return 0, badEscapeError(body)
		}
		return r, nil
	}

	r, size, e := decodeEscape(body)
	if e != nil {
		return 0, e
	}
	if size != len(body) {
		return 0, badEscapeError(body)
	}
	return r, nil
}

var simpleEscapes = map[byte]rune{
	'n': '\n', 't': '\t', 'r': '\r', 'b': '\b', 'f': '\f', 'v': '\v',
	'0': 0, '\\': '\\', '\'': '\'', '"': '"',
}

// decodeEscape decodes one escape sequence at the start of s (which begins
// with a backslash) and returns the rune and the number of bytes consumed.
func decodeEscape(s string) (rune, int, error) {
	if len(s) < 2 {
		return 0, 0, badEscapeError(s)
	}

	c := s[1]
	if r, found := simpleEscapes[c]; found {
		if c == '0' && len(s) > 2 && isDigit(s[2]) {
			return decodeNumEscape(s, 1, 10)
		}
		return r, 2, nil
	}

	switch {
	case c == 'x' || c == 'X':
		return decodeNumEscape(s, 2, 16)
	case c == 'u' || c == 'U':
		if len(s) < 6 {
			return 0, 0, badEscapeError(s)
		}
		v, e := strconv.ParseUint(s[2:6], 16, 32)
		if e != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0, badEscapeError(s)
		}
		return rune(v), 6, nil
	case isDigit(c):
		return decodeNumEscape(s, 1, 10)
	}

	return 0, 0, badEscapeError(s)
}

func decodeNumEscape(s string, start int, base int) (rune, int, error) {
	end := start
	for end < len(s) && isBaseDigit(s[end], base) {
		end++
	}
	if end == start {
		return 0, 0, badEscapeError(s)
	}

	v, e := strconv.ParseUint(s[start:end], base, 32)
	if e != nil || !utf8.ValidRune(rune(v)) {
		return 0, 0, badEscapeError(s)
	}
	return rune(v), end, nil
}

func isBaseDigit(c byte, base int) bool {
	if base == 10 {
		return isDigit(c)
	}
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func badEscapeError(s string) *layx.Error {
	return layx.FormatError(BadEscapeError, "invalid escape sequence %q", s)
}
