package grammar

import (
	"github.com/bglgwyng/layx"
)

const (
	// UnexpectedEndError reports a rule that needed a token at the end of
	// the stream; interactive drivers treat it as incomplete input.
	UnexpectedEndError = iota + layx.SyntaxErrors
	// UnexpectedTokenError reports a terminal or lookahead mismatch.
	UnexpectedTokenError
	// FailedError is the default code of Fail and Fatal.
	FailedError
)
