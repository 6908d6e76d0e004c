package grammar

import (
	"fmt"
	"testing"

	"github.com/bglgwyng/layx/internal/test"
	"github.com/bglgwyng/layx/lexer"
)

func tokens(t *testing.T, src string) []lexer.Token {
	toks, e := lexer.ScanString("test.src", src)
	test.ExpectNoError(t, e)
	return toks
}

func ident() Rule[string] {
	return Terminal("Expected identifier", func(tok lexer.Token) (string, bool) {
		return tok.Text(), tok.Kind() == lexer.Ident
	})
}

func exactIdent(text string) Rule[string] {
	return Terminal("Expected '"+text+"'", func(tok lexer.Token) (string, bool) {
		return tok.Text(), tok.Kind() == lexer.Ident && tok.Text() == text
	})
}

func TestTerminal(t *testing.T) {
	toks := tokens(t, "foo bar")

	v, rest, e := Parse(ident(), toks)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo", v)
	test.ExpectInt(t, 1, rest.Pos())

	_, _, e = Parse(exactIdent("baz"), toks)
	test.ExpectErrorCode(t, UnexpectedTokenError, e)

	_, _, e = Parse(ident(), tokens(t, ""))
	test.ExpectErrorCode(t, UnexpectedEndError, e)
}

func TestTerminalDoesNotConsumeOnMismatch(t *testing.T) {
	toks := tokens(t, "foo")
	r := Alt(exactIdent("bar"), exactIdent("foo"))
	v, _, e := Parse(r, toks)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo", v)
}

func TestNextIs(t *testing.T) {
	toks := tokens(t, "foo")
	r := NextIs("Expected identifier", func(tok lexer.Token) bool {
		return tok.Kind() == lexer.Ident
	})

	v, rest, e := Parse(r, toks)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo", v.Text())
	test.ExpectInt(t, 0, rest.Pos())

	_, _, e = Parse(r, tokens(t, "42"))
	test.ExpectErrorCode(t, UnexpectedTokenError, e)

	_, _, e = Parse(r, tokens(t, ""))
	test.ExpectErrorCode(t, UnexpectedEndError, e)
}

func TestPeekAtEnd(t *testing.T) {
	v, rest, e := Parse(Peek(), tokens(t, ""))
	test.ExpectNoError(t, e)
	test.Expect(t, v.Kind() == lexer.EndInput, lexer.EndInput, v.Kind())
	test.ExpectInt(t, 0, rest.Pos())
}

func TestEOI(t *testing.T) {
	_, _, e := Parse(EOI(), tokens(t, ""))
	test.ExpectNoError(t, e)

	_, _, e = Parse(EOI(), tokens(t, "foo"))
	test.ExpectErrorCode(t, UnexpectedTokenError, e)
}

func TestBindThreadsInput(t *testing.T) {
	toks := tokens(t, "foo bar")
	r := Bind(ident(), func(first string) Rule[string] {
		return Map(ident(), func(second string) string {
			return first + " " + second
		})
	})

	v, rest, e := Parse(r, toks)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo bar", v)
	test.ExpectInt(t, 2, rest.Pos())
}

// Alternation must be left-biased and must retry only when the failed
// branch consumed nothing.
func TestAltBacktracking(t *testing.T) {
	twoIdents := Then(exactIdent("foo"), exactIdent("qux"))
	fallback := Map(exactIdent("foo"), func(string) string { return "fallback" })

	// first branch fails at its first token: the second branch runs
	v, _, e := Parse(Alt(Then(exactIdent("bar"), ident()), fallback), tokens(t, "foo"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "fallback", v)

	// first branch fails after consuming "foo": its failure is final
	_, _, e = Parse(Alt(twoIdents, fallback), tokens(t, "foo bar"))
	test.ExpectErrorCode(t, UnexpectedTokenError, e)
}

func TestAltReportsLastTriedBranch(t *testing.T) {
	r := Alt(exactIdent("one"), exactIdent("two"))
	_, _, e := Parse(r, tokens(t, "three"))
	test.Assert(t, e != nil, "expecting an error")
	test.ExpectString(t, "Expected 'two' in test.src at line 1 col 1", e.Error())
}

// Once Commit succeeds within an alternative, a later recoverable failure
// must not fall through to a sibling, even when nothing was consumed.
func TestCommit(t *testing.T) {
	fallback := Map(ident(), func(string) string { return "fallback" })

	committed := Then(Commit(), exactIdent("qux"))
	_, _, e := Parse(Alt(committed, fallback), tokens(t, "foo"))
	test.ExpectErrorCode(t, UnexpectedTokenError, e)

	// the same alternation without the commit recovers
	v, _, e := Parse(Alt(exactIdent("qux"), fallback), tokens(t, "foo"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "fallback", v)
}

func TestCommitZeroWidth(t *testing.T) {
	v, rest, e := Parse(Then(Commit(), ident()), tokens(t, "foo"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo", v)
	test.ExpectInt(t, 1, rest.Pos())
}

func TestFatalBypassesAlternatives(t *testing.T) {
	fatal := Then(exactIdent("foo"), Fatal[string]("broken"))
	fallback := Map(ident(), func(string) string { return "fallback" })

	_, _, e := Parse(Alt(Try(fatal), fallback), tokens(t, "foo"))
	test.Assert(t, e != nil, "expecting an error")
	test.ExpectString(t, "broken in test.src at line 1 col 4", e.Error())
}

func TestMust(t *testing.T) {
	// a failure under Must is fatal and skips the fallback even though
	// nothing was consumed
	r := Alt(
		Must(exactIdent("qux")),
		Map(ident(), func(string) string { return "fallback" }),
	)

	_, _, e := Parse(r, tokens(t, "foo"))
	test.ExpectErrorCode(t, UnexpectedTokenError, e)
}

func TestTryRestoresBacktracking(t *testing.T) {
	consuming := Then(exactIdent("foo"), exactIdent("qux"))
	v, _, e := Parse(Alt(Try(consuming), Map(ident(), func(string) string { return "fallback" })), tokens(t, "foo bar"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "fallback", v)
}

func TestOption(t *testing.T) {
	r := Option(exactIdent("foo"), "none")

	v, _, e := Parse(r, tokens(t, "foo"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo", v)

	v, rest, e := Parse(r, tokens(t, "bar"))
	test.ExpectNoError(t, e)
	test.ExpectString(t, "none", v)
	test.ExpectInt(t, 0, rest.Pos())
}

func TestMaybe(t *testing.T) {
	r := Maybe(exactIdent("foo"))

	v, _, e := Parse(r, tokens(t, "foo"))
	test.ExpectNoError(t, e)
	test.Assert(t, v != nil && *v == "foo", "expecting foo, got %v", v)

	v, _, e = Parse(r, tokens(t, "bar"))
	test.ExpectNoError(t, e)
	test.Assert(t, v == nil, "expecting nil, got %v", v)
}

func TestManyCollects(t *testing.T) {
	samples := []struct {
		src      string
		expected int
	}{
		{"", 0},
		{"foo", 1},
		{"foo bar baz", 3},
	}

	for i, sample := range samples {
		name := fmt.Sprintf("sample #%d", i)
		t.Run(name, func(t *testing.T) {
			v, _, e := Parse(Many(ident()), tokens(t, sample.src))
			test.ExpectNoError(t, e)
			test.ExpectInt(t, sample.expected, len(v))
		})
	}
}

func TestSome(t *testing.T) {
	v, _, e := Parse(Some(ident()), tokens(t, "foo bar"))
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 2, len(v))

	_, _, e = Parse(Some(ident()), tokens(t, ""))
	test.ExpectErrorCode(t, UnexpectedEndError, e)
}

// A repetition over a rule that may succeed on empty input must be
// rejected when the rule is built, not loop forever at parse time.
func TestManyRejectsNonConsumingRule(t *testing.T) {
	test.ExpectPanic(t, func() { Many(Pure("x")) })
	test.ExpectPanic(t, func() { Some(Option(ident(), "")) })
}

func TestConsumptionTags(t *testing.T) {
	test.ExpectBool(t, true, ident().Consumes())
	test.ExpectBool(t, false, Pure("x").Consumes())
	test.ExpectBool(t, false, Peek().Consumes())
	test.ExpectBool(t, false, Commit().Consumes())
	test.ExpectBool(t, true, Then(Pure("x"), ident()).Consumes())
	test.ExpectBool(t, true, Before(ident(), Pure("x")).Consumes())
	test.ExpectBool(t, true, Alt(ident(), ident()).Consumes())
	test.ExpectBool(t, false, Alt(ident(), Pure("x")).Consumes())
	test.ExpectBool(t, false, Many(ident()).Consumes())
	test.ExpectBool(t, true, Some(ident()).Consumes())
	test.ExpectBool(t, false, Option(ident(), "").Consumes())
}

// Every success of a consuming rule advances the stream.
func TestConsumingProgress(t *testing.T) {
	toks := tokens(t, "foo bar baz")
	rules := []Rule[string]{
		ident(),
		Then(Pure(""), ident()),
		Before(ident(), Pure("")),
		Alt(exactIdent("nope"), ident()),
	}

	for i, r := range rules {
		name := fmt.Sprintf("sample #%d", i)
		t.Run(name, func(t *testing.T) {
			test.ExpectBool(t, true, r.Consumes())
			_, rest, e := Parse(r, toks)
			test.ExpectNoError(t, e)
			test.Assert(t, rest.Pos() > 0, "consuming rule did not advance")
		})
	}
}

func TestNewInputAppendsEndToken(t *testing.T) {
	in := NewInput(nil)
	test.ExpectBool(t, true, in.AtEnd())

	toks := tokens(t, "foo")
	in = NewInput(toks[:1])
	test.ExpectBool(t, false, in.AtEnd())
	test.Expect(t, in.next().Peek().Kind() == lexer.EndInput, lexer.EndInput, in.next().Peek().Kind())
}
