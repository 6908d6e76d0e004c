// Package source defines source buffers and line/column arithmetic used
// by the lexer and by positioned errors.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// Source is an immutable named source buffer. Line and column numbers are
// 1-based; columns count runes, not bytes.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	s.lineStarts = append(s.lineStarts, 0)
	for i, c := range content {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

func NewString(name, content string) *Source {
	return New(name, []byte(content))
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts a byte offset to a line/column pair. Offsets outside
// the buffer are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	i := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	return i + 1, utf8.RuneCount(s.content[s.lineStarts[i]:pos]) + 1
}

// LineContent returns the text of a 1-based line without its trailing newline.
func (s *Source) LineContent(line int) []byte {
	if line < 1 || line > len(s.lineStarts) {
		return nil
	}

	start := s.lineStarts[line-1]
	end := len(s.content)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return bytes.TrimSuffix(s.content[start:end], []byte("\r"))
}

// Pos is a resolved position in a source buffer; implements layx.SourcePos.
type Pos struct {
	src       *Source
	pos       int
	line, col int
}

// At resolves a byte offset to a Pos.
func (s *Source) At(pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
