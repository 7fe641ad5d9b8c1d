// Package scanner recovers structure from a flat PHP token stream: where a
// scope ends, which doc comment and modifiers belong to a declaration, and
// what a declaration's name, parameters and members are. Parser drives it
// over a whole file and feeds the results into a model.Registry.
package scanner

import (
	"strings"

	"github.com/mvp-joe/php-reflect/internal/token"
)

// visibilityStrides is how many 2-token steps the modifier scan walks back.
// The stride assumes a whitespace token between every pair of keywords.
const visibilityStrides = 5

// Stream is an indexed token sequence for one file. Computed attributes are
// memoized per token index. A Stream is not safe for concurrent use.
type Stream struct {
	file string
	toks []token.Token

	ends map[int]int
	docs map[int]string
	args map[int][]argument
}

// NewStream wraps toks, which must be indexed 0..len-1 in order.
func NewStream(file string, toks []token.Token) *Stream {
	return &Stream{
		file: file,
		toks: toks,
		ends: make(map[int]int),
		docs: make(map[int]string),
		args: make(map[int][]argument),
	}
}

func (s *Stream) File() string { return s.file }
func (s *Stream) Len() int     { return len(s.toks) }

// At returns the token at i, or a zero T_UNKNOWN token when i is out of
// range.
func (s *Stream) At(i int) token.Token {
	if i < 0 || i >= len(s.toks) {
		return token.Token{Kind: token.T_UNKNOWN, Index: i}
	}
	return s.toks[i]
}

func (s *Stream) kind(i int) token.Kind { return s.At(i).Kind }

// Next returns the index of the first significant token after i, or -1.
func (s *Stream) Next(i int) int {
	for j := i + 1; j < len(s.toks); j++ {
		if !s.toks[j].Kind.IsIgnorable() {
			return j
		}
	}
	return -1
}

// Prev returns the index of the last significant token before i, or -1.
func (s *Stream) Prev(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !s.toks[j].Kind.IsIgnorable() {
			return j
		}
	}
	return -1
}

// Text concatenates the token texts in [from, to].
func (s *Stream) Text(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to >= len(s.toks) {
		to = len(s.toks) - 1
	}
	var b strings.Builder
	for i := from; i <= to; i++ {
		b.WriteString(s.toks[i].Text)
	}
	return b.String()
}

// Line returns the line of the token at i, or 0.
func (s *Stream) Line(i int) int { return s.At(i).Line }

// EndLine returns the last line covered by the scope starting at i.
func (s *Stream) EndLine(i int) int { return s.Line(s.EndTokenID(i)) }

// EndTokenID returns the index of the last token in the scope opened at i.
// Braces are counted from i; constructs without a body end at the first
// ';' at depth zero. When nothing terminates the scope, i itself is
// returned.
func (s *Stream) EndTokenID(i int) int {
	if end, ok := s.ends[i]; ok {
		return end
	}
	end := s.resolveEnd(i)
	s.ends[i] = end
	return end
}

func (s *Stream) resolveEnd(i int) int {
	if i < 0 || i >= len(s.toks) {
		return i
	}
	kind := s.toks[i].Kind

	if kind == token.T_NAMESPACE {
		if end, ok := s.namespaceEnd(i); ok {
			return end
		}
	}

	depth := 0
	for j := i + 1; j < len(s.toks); j++ {
		k := s.toks[j].Kind
		switch {
		case k.OpensBlock():
			depth++
		case k.ClosesBlock():
			depth--
			if depth == 0 {
				return j
			}
			if depth < 0 {
				// Closed an enclosing block: the scope ended just before.
				return s.Prev(j)
			}
		case k == token.T_SEMICOLON && depth == 0 && kind.TerminatesAtSemicolon():
			return j
		case k == token.T_CLOSE_TAG && depth == 0 && kind.TerminatesAtSemicolon():
			return j
		}
	}
	return i
}

// namespaceEnd handles the two namespace forms. A bracketed body is left to
// brace counting; the statement form runs until just before the next
// namespace declaration at depth zero, or to the end of the stream.
func (s *Stream) namespaceEnd(i int) (int, bool) {
	bracketed := false
	found := false
	for j := i + 1; j < len(s.toks) && !found; j++ {
		switch s.toks[j].Kind {
		case token.T_OPEN_CURLY:
			bracketed, found = true, true
		case token.T_SEMICOLON:
			found = true
		}
	}
	if !found || bracketed {
		return 0, false
	}

	depth := 0
	for j := i + 1; j < len(s.toks); j++ {
		k := s.toks[j].Kind
		switch {
		case k.OpensBlock():
			depth++
		case k.ClosesBlock():
			depth--
		case k == token.T_NAMESPACE && depth == 0 && s.IsNamespaceDeclaration(j):
			return j - 1, true
		}
	}
	return len(s.toks) - 1, true
}

// DocComment returns the doc comment owning the declaration at i, or "".
// Tokens on the declaration's own line are skipped, as is whitespace on
// the line above; the first earlier token must be a doc comment. Crossing
// another declaration keyword ends the search.
func (s *Stream) DocComment(i int) string {
	if doc, ok := s.docs[i]; ok {
		return doc
	}
	doc := s.findDocComment(i)
	s.docs[i] = doc
	return doc
}

func (s *Stream) findDocComment(i int) string {
	if i <= 0 || i >= len(s.toks) {
		return ""
	}
	current := s.toks[i].Line
	prev := current - 1
	for j := i - 1; j >= 0; j-- {
		t := s.toks[j]
		if t.Is(token.T_FUNCTION, token.T_CLASS, token.T_INTERFACE, token.T_TRAIT, token.T_ENUM) {
			break
		}
		if t.Line == current || (t.Line == prev && t.Kind == token.T_WHITESPACE) {
			continue
		}
		if t.Line < current && t.Kind != token.T_DOC_COMMENT {
			break
		}
		return t.Text
	}
	return ""
}

// Visibility scans back from i in fixed 2-token strides for public,
// protected or private. static, final, abstract and readonly are stepped
// over; anything else stops the scan.
func (s *Stream) Visibility(i int) (string, bool) {
	for n, j := 0, i-2; n < visibilityStrides && j >= 0; n, j = n+1, j-2 {
		k := s.toks[j].Kind
		if k.IsVisibility() {
			return strings.ToLower(s.toks[j].Text), true
		}
		if !k.IsModifier() && k != token.T_READONLY {
			break
		}
	}
	return "", false
}

// Modifiers collects static, final, abstract and readonly keywords with the
// same stride scan as Visibility.
func (s *Stream) Modifiers(i int) []token.Kind {
	var mods []token.Kind
	for n, j := 0, i-2; n < visibilityStrides && j >= 0; n, j = n+1, j-2 {
		k := s.toks[j].Kind
		switch {
		case k.IsModifier() || k == token.T_READONLY:
			mods = append(mods, k)
		case k.IsVisibility():
		default:
			return mods
		}
	}
	return mods
}

// matching returns the index of the bracket closing the one at open, or
// -1. (), [] and {} are counted together.
func (s *Stream) matching(open int) int {
	depth := 0
	for j := open; j < len(s.toks); j++ {
		switch s.toks[j].Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY,
			token.T_CURLY_OPEN, token.T_DOLLAR_OPEN_CURLY_BRACES, token.T_ATTRIBUTE:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE, token.T_CLOSE_CURLY:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// nextOf returns the first index after i whose kind is one of kinds,
// without crossing a ';'. It returns -1 when none is found.
func (s *Stream) nextOf(i int, kinds ...token.Kind) int {
	for j := i + 1; j < len(s.toks); j++ {
		if s.toks[j].Is(kinds...) {
			return j
		}
		if s.toks[j].Kind == token.T_SEMICOLON {
			return -1
		}
	}
	return -1
}
