package parser

import (
	"strconv"

	"github.com/bglgwyng/layx/grammar"
	"github.com/bglgwyng/layx/lexer"
)

// IndentInfo is the column an enclosing construct is considered to begin
// at. Item rules receive it to decide whether a continuation line is still
// inside the current block entry.
type IndentInfo = int

type indentKind byte

const (
	anyIndent indentKind = iota
	atPos
	afterPos
	endOfBlock
)

// ValidIndent says where the next entry of a layout block may start. A
// fresh value is produced at block entry, threaded through the terminator
// step after each entry, and discarded when the block parse completes.
type ValidIndent struct {
	kind indentKind
	col  int
}

// AnyIndent allows an entry at any column; used inside brace-delimited
// blocks.
func AnyIndent() ValidIndent {
	return ValidIndent{kind: anyIndent}
}

// AtPos requires the next entry to start exactly at col.
func AtPos(col int) ValidIndent {
	return ValidIndent{atPos, col}
}

// AfterPos requires the next entry to start at or right of col.
func AfterPos(col int) ValidIndent {
	return ValidIndent{afterPos, col}
}

// EndOfBlock allows no further entries.
func EndOfBlock() ValidIndent {
	return ValidIndent{kind: endOfBlock}
}

func (v ValidIndent) String() string {
	switch v.kind {
	case anyIndent:
		return "any"
	case atPos:
		return "at " + strconv.Itoa(v.col)
	case afterPos:
		return "after " + strconv.Itoa(v.col)
	}
	return "end of block"
}

// afterSemi is the state transition for an explicit ';' entry separator:
// a column-anchored block relaxes to "at or after the original anchor",
// not the just-finished entry's column.
func (v ValidIndent) afterSemi() ValidIndent {
	switch v.kind {
	case atPos, afterPos:
		return ValidIndent{afterPos, v.col}
	}
	return v
}

// checkValid gates the start of a new block entry at column col. This is
// what stops a block from silently absorbing a misindented line as a new
// entry.
func checkValid(v ValidIndent, col int) grammar.Rule[grammar.Unit] {
	switch v.kind {
	case anyIndent:
		return grammar.Pure(grammar.Unit{})
	case atPos:
		if col == v.col {
			return grammar.Pure(grammar.Unit{})
		}
	case afterPos:
		if col >= v.col {
			return grammar.Pure(grammar.Unit{})
		}
	case endOfBlock:
		return grammar.FailWith[grammar.Unit](EndOfBlockError, "End of block")
	}
	return grammar.FailWith[grammar.Unit](InvalidIndentError, "Invalid indentation")
}

// afterDedent decides whether the token at column col ends the entry that
// began at column laststart. col <= laststart is an entry boundary and
// re-anchors to the block's original anchor column; col > laststart means
// the entry is not finished yet, which reads as a recoverable failure so
// the caller keeps extending the current entry instead.
func afterDedent(v ValidIndent, laststart, col int) grammar.Rule[ValidIndent] {
	switch v.kind {
	case anyIndent:
		if col <= laststart {
			return grammar.Pure(v)
		}
	case atPos, afterPos:
		if col <= laststart {
			return grammar.Pure(AtPos(v.col))
		}
	case endOfBlock:
		return grammar.Pure(v)
	}
	return grammar.FailWith[ValidIndent](NotBlockEntryEndError, "Not the end of a block entry")
}

// terminator computes the indent expectation for the next block entry once
// the current one (started at column laststart) has been parsed. The
// final branch is a defensive default; the preceding checks are meant to
// be exhaustive.
func terminator(valid ValidIndent, laststart int) grammar.Rule[ValidIndent] {
	return grammar.Alt(
		grammar.Then(grammar.EOI(), grammar.Pure(EndOfBlock())),
		grammar.Then(Symbol(";"), grammar.Pure(valid.afterSemi())),
		grammar.Bind(Column(), func(col int) grammar.Rule[ValidIndent] {
			return afterDedent(valid, laststart, col)
		}),
		grammar.Pure(EndOfBlock()),
	)
}

// entry pairs one parsed block entry with the indent expectation for the
// entry after it.
type entry[T any] struct {
	val  T
	next ValidIndent
}

// blockEntry parses one entry: read the current column, gate it against
// valid, run the item rule anchored at that column, then run the
// terminator. The item rule must be consuming; blockEntry panics
// otherwise, since the block entry loop relies on entries making progress.
func blockEntry[T any](valid ValidIndent, item func(IndentInfo) grammar.Rule[T]) grammar.Rule[entry[T]] {
	return grammar.Bind(Column(), func(col int) grammar.Rule[entry[T]] {
		rule := item(col)
		if !rule.Consumes() {
			panic("parser: block item rule must be consuming")
		}

		return grammar.Then(checkValid(valid, col),
			grammar.Bind(rule, func(v T) grammar.Rule[entry[T]] {
				return grammar.Map(terminator(valid, col), func(next ValidIndent) entry[T] {
					return entry[T]{v, next}
				})
			}))
	})
}

// blockEntries parses entries until end of input or until an entry cannot
// start without consuming anything; an empty block is acceptable here.
func blockEntries[T any](valid ValidIndent, item func(IndentInfo) grammar.Rule[T]) grammar.Rule[[]T] {
	return grammar.Alt(
		grammar.Then(grammar.EOI(), grammar.Pure[[]T](nil)),
		grammar.Bind(blockEntry(valid, item), func(e entry[T]) grammar.Rule[[]T] {
			return grammar.Map(blockEntries(e.next, item), func(rest []T) []T {
				return append([]T{e.val}, rest...)
			})
		}),
		grammar.Pure[[]T](nil),
	)
}

// bracedBlock parses "{ entries }" with no column constraint. The commit
// after the opening brace makes later failures report from inside the
// block instead of falling through to the layout alternative.
func bracedBlock[T any](item func(IndentInfo) grammar.Rule[T]) grammar.Rule[[]T] {
	return grammar.Then(Symbol("{"),
		grammar.Then(grammar.Commit(),
			grammar.Before(blockEntries(AnyIndent(), item), Symbol("}"))))
}

// Block parses a brace-delimited block, or, absent an opening brace, a
// layout block whose entries all start at the column of its first token.
func Block[T any](item func(IndentInfo) grammar.Rule[T]) grammar.Rule[[]T] {
	return grammar.Alt(
		bracedBlock(item),
		grammar.Bind(Column(), func(col int) grammar.Rule[[]T] {
			return blockEntries(AtPos(col), item)
		}),
	)
}

// BlockAfter is Block, except that an un-braced block is accepted only if
// its first token sits right of column minCol; otherwise it yields no
// entries without attempting any. Used for blocks introduced implicitly
// by indentation relative to an enclosing construct.
func BlockAfter[T any](minCol int, item func(IndentInfo) grammar.Rule[T]) grammar.Rule[[]T] {
	return grammar.Alt(
		bracedBlock(item),
		grammar.Bind(Column(), func(col int) grammar.Rule[[]T] {
			if col <= minCol {
				return grammar.Pure[[]T](nil)
			}
			return blockEntries(AtPos(col), item)
		}),
	)
}

// OptHeaderBlock is the result of BlockWithOptHeaderAfter: an optional
// header entry plus the remaining entries.
type OptHeaderBlock[H, T any] struct {
	Header  *H
	Entries []T
}

// BlockWithOptHeaderAfter is BlockAfter with an optional first entry
// parsed by a distinct header rule; the header's own terminator determines
// the indent expectation for the remaining entries.
func BlockWithOptHeaderAfter[H, T any](minCol int, header func(IndentInfo) grammar.Rule[H], item func(IndentInfo) grammar.Rule[T]) grammar.Rule[OptHeaderBlock[H, T]] {
	braced := grammar.Then(Symbol("{"),
		grammar.Then(grammar.Commit(),
			grammar.Bind(grammar.Maybe(blockEntry(AnyIndent(), header)), func(h *entry[H]) grammar.Rule[OptHeaderBlock[H, T]] {
				return grammar.Before(restOfBlock(AnyIndent(), h, item), Symbol("}"))
			})))

	layout := grammar.Bind(Column(), func(col int) grammar.Rule[OptHeaderBlock[H, T]] {
		if col <= minCol {
			return grammar.Pure(OptHeaderBlock[H, T]{})
		}
		return grammar.Bind(grammar.Maybe(blockEntry(AtPos(col), header)), func(h *entry[H]) grammar.Rule[OptHeaderBlock[H, T]] {
			return restOfBlock(AtPos(col), h, item)
		})
	})

	return grammar.Alt(braced, layout)
}

func restOfBlock[H, T any](valid ValidIndent, h *entry[H], item func(IndentInfo) grammar.Rule[T]) grammar.Rule[OptHeaderBlock[H, T]] {
	var header *H
	if h != nil {
		valid = h.next
		header = &h.val
	}
	return grammar.Map(blockEntries(valid, item), func(entries []T) OptHeaderBlock[H, T] {
		return OptHeaderBlock[H, T]{Header: header, Entries: entries}
	})
}

// NonEmptyBlock is Block, except that it fails recoverably when the block
// produces no entries.
func NonEmptyBlock[T any](item func(IndentInfo) grammar.Rule[T]) grammar.Rule[[]T] {
	braced := grammar.Then(Symbol("{"),
		grammar.Then(grammar.Commit(),
			grammar.Bind(blockEntry(AnyIndent(), item), func(e entry[T]) grammar.Rule[[]T] {
				return grammar.Before(
					grammar.Map(blockEntries(e.next, item), func(rest []T) []T {
						return append([]T{e.val}, rest...)
					}),
					Symbol("}"))
			})))

	layout := grammar.Bind(Column(), func(col int) grammar.Rule[[]T] {
		return grammar.Bind(blockEntry(AtPos(col), item), func(e entry[T]) grammar.Rule[[]T] {
			return grammar.Map(blockEntries(e.next, item), func(rest []T) []T {
				return append([]T{e.val}, rest...)
			})
		})
	})

	return grammar.Alt(braced, layout)
}

// terminatorSymbols and terminatorKeywords are the tokens that end a block
// entry regardless of columns.
var terminatorSymbols = map[string]bool{
	",": true, "]": true, ";": true, "}": true, ")": true, "|": true,
}

var terminatorKeywords = map[string]bool{
	"in": true, "then": true, "else": true, "where": true,
}

// IsTerminator reports whether tok ends a block entry on its own.
func IsTerminator(tok lexer.Token) bool {
	switch tok.Kind() {
	case lexer.Symbol:
		return terminatorSymbols[tok.Text()]
	case lexer.Keyword:
		return terminatorKeywords[tok.Text()]
	case lexer.EndInput:
		return true
	}
	return false
}

// AtEnd reports whether the current block entry is finished: at end of
// input, at a terminator token, or at a token that has dedented to or
// left of indent. Consumes nothing and never fails.
func AtEnd(indent IndentInfo) grammar.Rule[bool] {
	return grammar.Map(grammar.Peek(), func(tok lexer.Token) bool {
		return tok.Kind() == lexer.EndInput || IsTerminator(tok) || tok.Col() <= indent
	})
}

// AtEndIndent is AtEnd without the terminator-token check, for contexts
// where those tokens are meaningful content rather than terminators.
func AtEndIndent(indent IndentInfo) grammar.Rule[bool] {
	return grammar.Map(grammar.Peek(), func(tok lexer.Token) bool {
		return tok.Kind() == lexer.EndInput || tok.Col() <= indent
	})
}

// Continue asserts that the current expression is not finished: it fails
// recoverably at end of input, at the 'where' keyword, or at a token that
// has dedented to or left of indent.
func Continue(indent IndentInfo) grammar.Rule[grammar.Unit] {
	return continueWith(indent, "Unexpected end of expression", false)
}

// MustContinue is Continue with a fatal failure; expected, when not empty,
// names the token the caller was about to require.
func MustContinue(indent IndentInfo, expected string) grammar.Rule[grammar.Unit] {
	msg := "Unexpected end of expression"
	if expected != "" {
		msg = "Expected '" + expected + "'"
	}
	return continueWith(indent, msg, true)
}

func continueWith(indent IndentInfo, msg string, fatal bool) grammar.Rule[grammar.Unit] {
	stop := grammar.FailWith[grammar.Unit](EndOfExpressionError, msg)
	if fatal {
		stop = grammar.FatalWith[grammar.Unit](EndOfExpressionError, msg)
	}

	return grammar.Bind(grammar.Peek(), func(tok lexer.Token) grammar.Rule[grammar.Unit] {
		switch {
		case tok.Kind() == lexer.EndInput,
			tok.Kind() == lexer.Keyword && tok.Text() == "where",
			tok.Col() <= indent:
			return stop
		}
		return grammar.Pure(grammar.Unit{})
	})
}
