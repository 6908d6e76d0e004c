package layx_test

import (
	"fmt"
	"strings"

	"github.com/bglgwyng/layx/grammar"
	"github.com/bglgwyng/layx/lexer"
	"github.com/bglgwyng/layx/parser"
)

func Example() {
	input := `greet name
  title
farewell name`

	toks, e := lexer.ScanString("input", input)
	if e != nil {
		fmt.Println(e)
		return
	}

	// one entry per line starting at the block's anchor column; lines
	// indented further extend the previous entry
	phrase := func(indent parser.IndentInfo) grammar.Rule[string] {
		return grammar.Bind(parser.Identifier(), func(first string) grammar.Rule[string] {
			word := grammar.Then(parser.Continue(indent), parser.Identifier())
			return grammar.Map(grammar.Many(word), func(rest []string) string {
				return strings.Join(append([]string{first}, rest...), " ")
			})
		})
	}

	entries, _, e := grammar.Parse(parser.Block(phrase), toks)
	if e == nil {
		for _, entry := range entries {
			fmt.Println(entry)
		}
	} else {
		fmt.Println(e)
	}
	// Output:
	// greet name title
	// farewell name
}
