/*
Package layx is a layout-sensitive parser combinator library.

Consists of subpackages:
  - source: defines source buffers and line/column arithmetic;
  - lexer: positioned tokens and a scanner producing them;
  - grammar: core combinator algebra over a token stream, with a static
    consumption tag guaranteeing that repetition always terminates;
  - parser: lexical primitives (literals, symbols, keywords, names,
    pragmas) and the indentation engine turning significant whitespace
    into explicit block boundaries.

Typical usage is:

1. Scan a source buffer into a token stream with the lexer subpackage
(or supply tokens from your own lexer, terminated by an end-of-input
token).

2. Build grammar rules from the parser subpackage primitives and the
grammar subpackage combinators. Rules that parse one entry of a layout
block take an IndentInfo argument telling them where their entry starts.

3. Hand item rules to the block forms (Block, BlockAfter, NonEmptyBlock,
BlockWithOptHeaderAfter) to parse brace- or column-delimited blocks.

4. Run the resulting rule with grammar.Parse.
*/
package layx

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by grammar
	LayoutErrors  = 301 // used by parser
)

// Error is the error type used by layx subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
