package scanner

import (
	"strings"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/token"
)

// IsNamespaceDeclaration reports whether the namespace keyword at i starts
// a declaration rather than a namespace-relative name (namespace\foo()).
func (s *Stream) IsNamespaceDeclaration(i int) bool {
	if s.kind(i) != token.T_NAMESPACE {
		return false
	}
	n := s.Next(i)
	return n < 0 || s.toks[n].Kind != token.T_NS_SEPARATOR
}

// NamespaceName returns the declared namespace at i. A bare `namespace;`
// or `namespace {` yields "".
func (s *Stream) NamespaceName(i int) string {
	n := s.Next(i)
	if n < 0 || s.toks[n].Kind != token.T_STRING {
		return ""
	}
	name, _ := s.qualifiedName(n)
	return name
}

// qualifiedName reads T_STRING and separator tokens starting at i and
// returns the joined name plus the index of its last token.
func (s *Stream) qualifiedName(i int) (string, int) {
	var b strings.Builder
	last := i - 1
	for j := i; j < len(s.toks); j++ {
		t := s.toks[j]
		if t.Kind != token.T_STRING && t.Kind != token.T_NS_SEPARATOR && t.Kind != token.T_NAMESPACE {
			break
		}
		if t.Kind == token.T_NAMESPACE && j != i {
			break
		}
		b.WriteString(t.Text)
		last = j
	}
	return b.String(), last
}

// Uses parses the use statement at i. Aliases default to the last name
// segment; grouped imports (use A\{B, C as D}) are expanded.
func (s *Stream) Uses(i int) []model.UseAttrs {
	end := s.EndTokenID(i)
	if end <= i {
		end = len(s.toks) - 1
	}
	kind := model.UseClass

	var (
		uses    []model.UseAttrs
		prefix  string
		name    strings.Builder
		alias   string
		afterAs bool
	)
	flush := func() {
		if name.Len() == 0 {
			return
		}
		full := strings.TrimPrefix(prefix+name.String(), `\`)
		uses = append(uses, model.UseAttrs{Name: full, Alias: alias, Kind: kind, Line: s.Line(i)})
		name.Reset()
		alias = ""
		afterAs = false
	}

	for j := i + 1; j <= end && j < len(s.toks); j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_FUNCTION:
			if name.Len() == 0 && prefix == "" {
				kind = model.UseFunction
			}
		case token.T_CONST:
			if name.Len() == 0 && prefix == "" {
				kind = model.UseConstant
			}
		case token.T_STRING, token.T_NS_SEPARATOR:
			if afterAs {
				alias = t.Text
			} else {
				name.WriteString(t.Text)
			}
		case token.T_AS:
			afterAs = true
		case token.T_OPEN_CURLY:
			prefix = name.String()
			name.Reset()
		case token.T_COMMA, token.T_CLOSE_CURLY, token.T_SEMICOLON:
			flush()
		}
	}
	flush()
	return uses
}

// IncludeKind maps the include keyword at i to its model kind.
func (s *Stream) IncludeKind(i int) model.IncludeKind {
	switch s.kind(i) {
	case token.T_INCLUDE_ONCE:
		return model.IncludeIncludeOnce
	case token.T_REQUIRE:
		return model.IncludeRequire
	case token.T_REQUIRE_ONCE:
		return model.IncludeRequireOnce
	}
	return model.IncludeInclude
}

// IncludeTarget concatenates every string literal and variable between the
// include keyword at i and the end of the statement, quotes trimmed. The
// result is a textual reconstruction, not a resolved path.
func (s *Stream) IncludeTarget(i int) string {
	end := s.EndTokenID(i)
	if end <= i {
		end = len(s.toks) - 1
	}
	var b strings.Builder
	for j := i + 1; j <= end && j < len(s.toks); j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_CONSTANT_ENCAPSED_STRING:
			b.WriteString(strings.Trim(t.Text, `'"`))
		case token.T_VARIABLE, token.T_ENCAPSED_AND_WHITESPACE:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// GlobalInfo classifies a variable as a superglobal access or a variable
// imported with the global keyword.
type GlobalInfo struct {
	Name  string
	Key   string
	Super bool
}

// GlobalVariable classifies the variable at i. Superglobals are matched
// first and report the accessed key; otherwise a comma-separated variable
// list is walked back looking for `global`.
func (s *Stream) GlobalVariable(i int) (GlobalInfo, bool) {
	t := s.At(i)
	if t.Kind != token.T_VARIABLE {
		return GlobalInfo{}, false
	}
	if model.IsSuperGlobal(t.Text) {
		info := GlobalInfo{Name: t.Text, Super: true}
		if open := s.Next(i); open >= 0 && s.toks[open].Kind == token.T_OPEN_SQUARE {
			if k := s.Next(open); k >= 0 {
				switch s.toks[k].Kind {
				case token.T_CONSTANT_ENCAPSED_STRING:
					info.Key = strings.Trim(s.toks[k].Text, `'"`)
				case token.T_VARIABLE:
					info.Key = s.toks[k].Text
				}
			}
		}
		return info, true
	}

	for j := s.Prev(i); j >= 0; {
		switch s.toks[j].Kind {
		case token.T_GLOBAL:
			return GlobalInfo{Name: t.Text}, true
		case token.T_COMMA:
			v := s.Prev(j)
			if v < 0 || s.toks[v].Kind != token.T_VARIABLE {
				return GlobalInfo{}, false
			}
			j = s.Prev(v)
		default:
			return GlobalInfo{}, false
		}
	}
	return GlobalInfo{}, false
}

// ConstantDeclarations parses `const A = 1, B = 2;` at i. The name is the
// identifier right before each "=" so typed constants work too.
func (s *Stream) ConstantDeclarations(i int) []model.ConstantAttrs {
	var (
		out       []model.ConstantAttrs
		lastIdent = -1
		value     strings.Builder
		inValue   bool
		depth     int
	)
	doc := s.DocComment(i)
	flush := func() {
		if inValue && len(out) > 0 {
			out[len(out)-1].Value = strings.TrimSpace(value.String())
		}
		value.Reset()
		inValue = false
	}

	for j := i + 1; j < len(s.toks); j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE, token.T_CLOSE_CURLY:
			depth--
		}
		if depth < 0 {
			break
		}
		if depth == 0 && t.Is(token.T_SEMICOLON, token.T_CLOSE_TAG) {
			break
		}
		switch {
		case depth == 0 && t.Kind == token.T_COMMA:
			flush()
		case inValue:
			value.WriteString(t.Text)
		case t.Kind == token.T_STRING:
			lastIdent = j
		case t.Kind == token.T_EQUAL && lastIdent >= 0:
			out = append(out, model.ConstantAttrs{
				Name:       s.toks[lastIdent].Text,
				File:       s.file,
				DocComment: doc,
				Line:       s.toks[lastIdent].Line,
			})
			inValue = true
		}
	}
	flush()
	return out
}

// CallArguments returns the raw text of each top-level argument of the
// call whose name ends at i.
func (s *Stream) CallArguments(i int) []string {
	open := s.Next(i)
	if open < 0 || s.toks[open].Kind != token.T_OPEN_BRACKET {
		return nil
	}
	close := s.matching(open)
	if close < 0 {
		close = len(s.toks)
	}
	var (
		args  []string
		cur   strings.Builder
		depth int
	)
	for j := open + 1; j < close; j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY,
			token.T_CURLY_OPEN, token.T_DOLLAR_OPEN_CURLY_BRACES:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE, token.T_CLOSE_CURLY:
			depth--
		}
		if depth == 0 && t.Kind == token.T_COMMA {
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteString(t.Text)
	}
	if last := strings.TrimSpace(cur.String()); last != "" {
		args = append(args, last)
	}
	return args
}

// DefineCall reads `define('NAME', value)` where i is the define
// identifier.
func (s *Stream) DefineCall(i int) (model.ConstantAttrs, bool) {
	if !strings.EqualFold(s.At(i).Text, "define") {
		return model.ConstantAttrs{}, false
	}
	args := s.CallArguments(i)
	if len(args) < 2 {
		return model.ConstantAttrs{}, false
	}
	name := strings.Trim(args[0], `'"`)
	if name == "" || name == args[0] {
		// Only literal names can be registered.
		return model.ConstantAttrs{}, false
	}
	return model.ConstantAttrs{
		Name:       name,
		File:       s.file,
		DocComment: s.DocComment(i),
		Line:       s.Line(i),
		Value:      args[1],
	}, true
}
