package parser

import (
	"github.com/bglgwyng/layx"
)

const (
	InvalidIndentError = iota + layx.LayoutErrors
	EndOfBlockError
	NotBlockEntryEndError
	EndOfExpressionError
	ReservedNameError
)
