/*
Package grammar is the core combinator algebra: rules over a token stream
with sequencing, backtracking alternation, commit points, lookahead, and
recoverable versus fatal failures.

Every Rule carries a static consumption tag resolved when the rule is
built: a consuming rule advances the stream by at least one token on every
success. Repetition (Many, Some) accepts only consuming rules and rejects
anything else at construction time, which is what guarantees that
zero-or-more repetition terminates.

Backtracking is value-level: a rule receives an Input (an immutable token
slice plus an integer cursor) and returns a fresh Input on success, so a
failed branch cannot corrupt state seen by its siblings.
*/
package grammar

import (
	"github.com/bglgwyng/layx"
	"github.com/bglgwyng/layx/lexer"
)

// Unit is the result type of rules parsed for effect only.
type Unit struct{}

// Input is a position in an immutable token stream. The stream must be
// terminated by an end-of-input token; NewInput appends one if missing.
type Input struct {
	toks []lexer.Token
	pos  int
}

func NewInput(toks []lexer.Token) Input {
	if len(toks) == 0 || toks[len(toks)-1].Kind() != lexer.EndInput {
		toks = append(toks[:len(toks):len(toks)], lexer.EndToken(nil))
	}
	return Input{toks, 0}
}

// Pos returns the cursor position, an index into the token stream.
func (in Input) Pos() int {
	return in.pos
}

// Peek returns the upcoming token without advancing. At the end of the
// stream it returns the end-of-input token, which carries the position
// just past the last piece of source.
func (in Input) Peek() lexer.Token {
	if in.pos >= len(in.toks) {
		return in.toks[len(in.toks)-1]
	}
	return in.toks[in.pos]
}

// AtEnd reports whether the upcoming token is the end-of-input token.
func (in Input) AtEnd() bool {
	return in.Peek().Kind() == lexer.EndInput
}

func (in Input) next() Input {
	return Input{in.toks, in.pos + 1}
}

// outcome is the result of applying a rule at a position. committed is set
// once the rule has consumed input or passed a commit point; an enclosing
// Alt only retries a sibling on an uncommitted, non-fatal failure.
type outcome[T any] struct {
	ok        bool
	value     T
	next      Input
	committed bool
	fatal     bool
	err       *layx.Error
}

func succeed[T any](v T, next Input, committed bool) outcome[T] {
	return outcome[T]{ok: true, value: v, next: next, committed: committed}
}

func fail[T any](err *layx.Error, committed, fatal bool) outcome[T] {
	return outcome[T]{committed: committed, fatal: fatal, err: err}
}

// refail transfers a failed outcome to another result type.
func refail[B, A any](res outcome[A]) outcome[B] {
	return outcome[B]{committed: res.committed, fatal: res.fatal, err: res.err}
}

// Rule parses a value of type T from a token stream.
type Rule[T any] struct {
	consumes bool
	run      func(Input) outcome[T]
}

// Consumes reports the static consumption tag: whether every success of
// this rule advances the stream by at least one token.
func (r Rule[T]) Consumes() bool {
	return r.consumes
}

// Pure succeeds with v, consuming nothing.
func Pure[T any](v T) Rule[T] {
	return Rule[T]{false, func(in Input) outcome[T] {
		return succeed(v, in, false)
	}}
}

// Terminal consumes exactly one token if classify accepts it; otherwise it
// fails recoverably with msg, consuming nothing.
func Terminal[T any](msg string, classify func(lexer.Token) (T, bool)) Rule[T] {
	return Rule[T]{true, func(in Input) outcome[T] {
		tok := in.Peek()
		if tok.Kind() == lexer.EndInput {
			return fail[T](layx.FormatErrorPos(tok, UnexpectedEndError, "End of input"), false, false)
		}

		if v, found := classify(tok); found {
			return succeed(v, in.next(), true)
		}
		return fail[T](layx.FormatErrorPos(tok, UnexpectedTokenError, "%s", msg), false, false)
	}}
}

// NextIs inspects the upcoming token without advancing; it fails
// recoverably with msg if pred rejects the token, and with "End of input"
// at the end of the stream.
func NextIs(msg string, pred func(lexer.Token) bool) Rule[lexer.Token] {
	return Rule[lexer.Token]{false, func(in Input) outcome[lexer.Token] {
		tok := in.Peek()
		if tok.Kind() == lexer.EndInput {
			return fail[lexer.Token](layx.FormatErrorPos(tok, UnexpectedEndError, "End of input"), false, false)
		}

		if pred(tok) {
			return succeed(tok, in, false)
		}
		return fail[lexer.Token](layx.FormatErrorPos(tok, UnexpectedTokenError, "%s", msg), false, false)
	}}
}

// Peek returns the upcoming token without advancing. Unlike NextIs it also
// succeeds at the end of the stream, yielding the end-of-input token with
// its position; indentation rules use this to read columns.
func Peek() Rule[lexer.Token] {
	return Rule[lexer.Token]{false, func(in Input) outcome[lexer.Token] {
		return succeed(in.Peek(), in, false)
	}}
}

// EOI succeeds only at the end-of-input token, consuming nothing.
func EOI() Rule[Unit] {
	return Rule[Unit]{false, func(in Input) outcome[Unit] {
		if in.AtEnd() {
			return succeed(Unit{}, in, false)
		}
		return fail[Unit](layx.FormatErrorPos(in.Peek(), UnexpectedTokenError, "Expected end of input"), false, false)
	}}
}

// Fail fails recoverably with msg at the current position, consuming nothing.
func Fail[T any](msg string) Rule[T] {
	return FailWith[T](FailedError, msg)
}

// FailWith is Fail with an explicit error code.
func FailWith[T any](code int, msg string) Rule[T] {
	return Rule[T]{false, func(in Input) outcome[T] {
		return fail[T](layx.FormatErrorPos(in.Peek(), code, "%s", msg), false, false)
	}}
}

// Fatal fails fatally with msg: no enclosing Alt may recover and the whole
// parse attempt aborts.
func Fatal[T any](msg string) Rule[T] {
	return FatalWith[T](FailedError, msg)
}

// FatalWith is Fatal with an explicit error code.
func FatalWith[T any](code int, msg string) Rule[T] {
	return Rule[T]{false, func(in Input) outcome[T] {
		return fail[T](layx.FormatErrorPos(in.Peek(), code, "%s", msg), false, true)
	}}
}

// Commit succeeds without consuming input and disables backtracking past
// this point: a later recoverable failure in the same alternative can no
// longer fall through to a sibling branch. Used after an unambiguous
// prefix to report precise errors instead of unrelated alternatives.
func Commit() Rule[Unit] {
	return Rule[Unit]{false, func(in Input) outcome[Unit] {
		return succeed(Unit{}, in, true)
	}}
}

// Map applies f to the parsed value.
func Map[A, B any](r Rule[A], f func(A) B) Rule[B] {
	return Rule[B]{r.consumes, func(in Input) outcome[B] {
		res := r.run(in)
		if !res.ok {
			return refail[B](res)
		}
		return outcome[B]{ok: true, value: f(res.value), next: res.next, committed: res.committed}
	}}
}

// Bind runs r, then the rule f builds from r's value, threading the
// leftover input. The second rule only exists at parse time, so the
// combined consumption tag is r's alone.
func Bind[A, B any](r Rule[A], f func(A) Rule[B]) Rule[B] {
	return Rule[B]{r.consumes, func(in Input) outcome[B] {
		ra := r.run(in)
		if !ra.ok {
			return refail[B](ra)
		}

		rb := f(ra.value).run(ra.next)
		rb.committed = rb.committed || ra.committed
		return rb
	}}
}

// Then runs a, then b, keeping b's value. Consuming if either operand is.
func Then[A, B any](a Rule[A], b Rule[B]) Rule[B] {
	return Rule[B]{a.consumes || b.consumes, func(in Input) outcome[B] {
		ra := a.run(in)
		if !ra.ok {
			return refail[B](ra)
		}

		rb := b.run(ra.next)
		rb.committed = rb.committed || ra.committed
		return rb
	}}
}

// Before runs a, then b, keeping a's value. Consuming if either operand is.
func Before[A, B any](a Rule[A], b Rule[B]) Rule[A] {
	return Rule[A]{a.consumes || b.consumes, func(in Input) outcome[A] {
		ra := a.run(in)
		if !ra.ok {
			return ra
		}

		rb := b.run(ra.next)
		if !rb.ok {
			res := refail[A](rb)
			res.committed = res.committed || ra.committed
			return res
		}
		return succeed(ra.value, rb.next, ra.committed || rb.committed)
	}}
}

// Alt tries each branch in order. A branch that fails recoverably without
// consuming input and without passing a commit point hands over to the
// next branch; any other failure is final and remaining branches are
// ignored. The reported failure is the last branch actually tried.
// Tagged consuming only if every branch is.
func Alt[T any](branches ...Rule[T]) Rule[T] {
	if len(branches) == 0 {
		panic("grammar: Alt needs at least one branch")
	}

	consumes := true
	for _, b := range branches {
		consumes = consumes && b.consumes
	}

	return Rule[T]{consumes, func(in Input) outcome[T] {
		var res outcome[T]
		for _, b := range branches {
			res = b.run(in)
			if res.ok || res.committed || res.fatal {
				return res
			}
		}
		return res
	}}
}

// Try runs r; on failure the committed and fatal flags are cleared, so an
// enclosing Alt may still take another branch even though r consumed
// input or passed a commit point.
func Try[T any](r Rule[T]) Rule[T] {
	return Rule[T]{r.consumes, func(in Input) outcome[T] {
		res := r.run(in)
		if !res.ok {
			res.committed = false
			res.fatal = false
		}
		return res
	}}
}

// Must runs r, upgrading a recoverable failure to a fatal one. Used where
// the surrounding context makes r mandatory.
func Must[T any](r Rule[T]) Rule[T] {
	return Rule[T]{r.consumes, func(in Input) outcome[T] {
		res := r.run(in)
		if !res.ok {
			res.fatal = true
		}
		return res
	}}
}

// Option tries r and falls back to def when r fails without consuming input.
func Option[T any](r Rule[T], def T) Rule[T] {
	return Alt(r, Pure(def))
}

// Maybe tries r, yielding nil when r fails without consuming input.
func Maybe[T any](r Rule[T]) Rule[*T] {
	return Option(Map(r, func(v T) *T { return &v }), nil)
}

// Many applies item zero or more times, collecting the results. item must
// be a consuming rule; Many panics at construction otherwise, since
// repeating a rule that can succeed on empty input would never terminate.
func Many[T any](item Rule[T]) Rule[[]T] {
	if !item.consumes {
		panic("grammar: Many requires a consuming rule")
	}

	return Rule[[]T]{false, func(in Input) outcome[[]T] {
		var vals []T
		committed := false
		for {
			res := item.run(in)
			if !res.ok {
				if res.committed || res.fatal {
					out := refail[[]T](res)
					out.committed = out.committed || committed
					return out
				}
				return succeed(vals, in, committed)
			}

			vals = append(vals, res.value)
			committed = committed || res.committed
			in = res.next
		}
	}}
}

// Some applies item one or more times. Panics at construction if item is
// not a consuming rule.
func Some[T any](item Rule[T]) Rule[[]T] {
	rest := Many(item)
	return Rule[[]T]{true, func(in Input) outcome[[]T] {
		first := item.run(in)
		if !first.ok {
			return refail[[]T](first)
		}

		res := rest.run(first.next)
		if !res.ok {
			res.committed = true
			return res
		}
		return succeed(append([]T{first.value}, res.value...), res.next, true)
	}}
}

// Parse applies r at the start of toks and returns the parsed value and
// the leftover input. On failure the returned error is a *layx.Error
// carrying the failure position.
func Parse[T any](r Rule[T], toks []lexer.Token) (T, Input, error) {
	return Apply(r, NewInput(toks))
}

// Apply runs r at an arbitrary position.
func Apply[T any](r Rule[T], in Input) (T, Input, error) {
	res := r.run(in)
	if !res.ok {
		var zero T
		return zero, in, res.err
	}
	return res.value, res.next, nil
}
