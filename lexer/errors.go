package lexer

import (
	"github.com/bglgwyng/layx"
)

const (
	UnexpectedRuneError = iota + layx.LexicalErrors
	UnterminatedStringError
	UnterminatedCharError
	UnterminatedCommentError
	BadEscapeError
)

func unexpectedRuneError(pos layx.SourcePos, r rune) *layx.Error {
	return layx.FormatErrorPos(pos, UnexpectedRuneError, "unexpected character %q", r)
}

func unterminatedError(pos layx.SourcePos, code int, what string) *layx.Error {
	return layx.FormatErrorPos(pos, code, "unterminated %s", what)
}
