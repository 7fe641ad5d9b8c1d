package scanner

import (
	"strings"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/token"
)

// ClassName returns the name two tokens after the class, interface or
// trait keyword at i.
func (s *Stream) ClassName(i int) string {
	if t := s.At(i + 2); t.Kind == token.T_STRING {
		return t.Text
	}
	if n := s.Next(i); n >= 0 && s.toks[n].Kind == token.T_STRING {
		return s.toks[n].Text
	}
	return ""
}

// HasParent reports an extends keyword four tokens after the keyword at i.
func (s *Stream) HasParent(i int) bool {
	return s.kind(i+4) == token.T_EXTENDS
}

// ParentName returns the extended name, read from six tokens after the
// keyword up to the next whitespace, without a leading separator. For an
// interface it is the first extended interface.
func (s *Stream) ParentName(i int) string {
	if !s.HasParent(i) {
		return ""
	}
	if s.kind(i) == token.T_INTERFACE {
		names := s.nameList(i+4, token.T_OPEN_CURLY)
		if len(names) == 0 {
			return ""
		}
		return names[0]
	}
	var b strings.Builder
	for j := i + 6; j < len(s.toks); j++ {
		t := s.toks[j]
		if t.Kind != token.T_STRING && t.Kind != token.T_NS_SEPARATOR {
			break
		}
		b.WriteString(t.Text)
	}
	return strings.TrimPrefix(b.String(), `\`)
}

// InterfaceNames returns the names listed after implements (classes) or
// after the first extended name (interfaces), up to the opening brace.
func (s *Stream) InterfaceNames(i int) []string {
	switch s.kind(i) {
	case token.T_INTERFACE:
		if !s.HasParent(i) {
			return nil
		}
		names := s.nameList(i+4, token.T_OPEN_CURLY)
		if len(names) <= 1 {
			return nil
		}
		return names[1:]
	case token.T_CLASS:
		for j := i + 1; j < len(s.toks); j++ {
			switch s.toks[j].Kind {
			case token.T_IMPLEMENTS:
				return s.nameList(j, token.T_OPEN_CURLY)
			case token.T_OPEN_CURLY:
				return nil
			}
		}
	}
	return nil
}

// nameList collects comma-separated qualified names after from, stopping
// at stop.
func (s *Stream) nameList(from int, stop token.Kind) []string {
	var (
		names []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			names = append(names, strings.TrimPrefix(cur.String(), `\`))
			cur.Reset()
		}
	}
	for j := from + 1; j < len(s.toks); j++ {
		t := s.toks[j]
		if t.Kind == stop || t.Kind == token.T_SEMICOLON {
			break
		}
		switch t.Kind {
		case token.T_STRING, token.T_NS_SEPARATOR:
			cur.WriteString(t.Text)
		case token.T_COMMA, token.T_IMPLEMENTS, token.T_EXTENDS:
			flush()
		}
	}
	flush()
	return names
}

// ClassModifiers maps abstract/final before the class keyword.
func (s *Stream) ClassModifiers(i int) model.Modifier {
	var m model.Modifier
	for _, k := range s.Modifiers(i) {
		m |= modifierOf(k)
	}
	return m
}

func modifierOf(k token.Kind) model.Modifier {
	switch k {
	case token.T_STATIC:
		return model.ModifierStatic
	case token.T_ABSTRACT:
		return model.ModifierAbstract
	case token.T_FINAL:
		return model.ModifierFinal
	case token.T_READONLY:
		return model.ModifierReadonly
	case token.T_PUBLIC:
		return model.ModifierPublic
	case token.T_PROTECTED:
		return model.ModifierProtected
	case token.T_PRIVATE:
		return model.ModifierPrivate
	}
	return 0
}

// declModifiers combines Visibility and Modifiers for the declaration
// anchored at i.
func (s *Stream) declModifiers(i int) model.Modifier {
	var m model.Modifier
	if vis, ok := s.Visibility(i); ok {
		m |= modifierOf(token.Lookup(vis))
	}
	for _, k := range s.Modifiers(i) {
		m |= modifierOf(k)
	}
	return m
}

// ClassMembers returns a lazy source for the members declared in the body
// of the class at i. Nothing is scanned until Members is called.
func (s *Stream) ClassMembers(i int) model.MemberSource {
	return &classBody{s: s, decl: i}
}

type classBody struct {
	s    *Stream
	decl int
}

func (c *classBody) Members() model.Members {
	s := c.s
	var m model.Members

	open := -1
	for j := c.decl + 1; j < len(s.toks); j++ {
		if s.toks[j].Kind == token.T_OPEN_CURLY {
			open = j
			break
		}
		if s.toks[j].Kind == token.T_SEMICOLON {
			return m
		}
	}
	if open < 0 {
		return m
	}
	end := s.EndTokenID(c.decl)
	if end <= open {
		end = len(s.toks) - 1
	}

	depth := 0
	for j := open; j <= end; j++ {
		t := s.toks[j]
		switch {
		case t.Kind.OpensBlock():
			depth++
			continue
		case t.Kind.ClosesBlock():
			depth--
			continue
		}
		if depth != 1 {
			continue
		}

		switch t.Kind {
		case token.T_FUNCTION:
			m.Methods = append(m.Methods, s.method(j))
			if e := s.EndTokenID(j); e > j {
				j = e
			}
		case token.T_CONST:
			mods := s.declModifiers(j)
			for _, k := range s.ConstantDeclarations(j) {
				k.Modifiers = mods
				m.Constants = append(m.Constants, k)
			}
			j = s.declEnd(j)
		case token.T_VARIABLE:
			props, stop := s.properties(j)
			m.Properties = append(m.Properties, props...)
			j = stop
		case token.T_USE, token.T_CASE:
			j = s.declEnd(j)
		}
	}
	return m
}

// declEnd returns the ';' ending the member declaration at i, skipping
// nested brackets. Trait use blocks end at their closing brace.
func (s *Stream) declEnd(i int) int {
	depth := 0
	for j := i + 1; j < len(s.toks); j++ {
		switch s.toks[j].Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE:
			depth--
		case token.T_CLOSE_CURLY:
			depth--
			if depth == 0 {
				return j
			}
			if depth < 0 {
				return j - 1
			}
		case token.T_SEMICOLON:
			if depth == 0 {
				return j
			}
		}
	}
	return len(s.toks) - 1
}

func (s *Stream) method(i int) model.MethodAttrs {
	name, _ := s.FunctionName(i)
	attrs := s.FunctionAttrs(i, "")
	attrs.Closure = false
	return model.MethodAttrs{
		Name:          name,
		Modifiers:     s.declModifiers(i),
		FunctionAttrs: attrs,
	}
}

// properties reads a property declaration whose first variable is at i and
// returns every property it declares plus the index of its ';'. The
// modifier scan is anchored at the first type token, and comma-separated
// properties share the declaration's modifiers.
func (s *Stream) properties(i int) ([]model.PropertyAttrs, int) {
	anchor := i
	var hint []string
	for j := s.Prev(i); j >= 0; j = s.Prev(j) {
		t := s.toks[j]
		if !t.Is(token.T_STRING, token.T_NS_SEPARATOR, token.T_QUESTION_MARK, token.T_PIPE,
			token.T_ARRAY, token.T_CALLABLE) {
			break
		}
		anchor = j
		hint = append([]string{t.Text}, hint...)
	}

	mods := s.declModifiers(anchor)
	if s.kind(s.Prev(anchor)) == token.T_VAR {
		mods |= model.ModifierImplicitPublic
	}
	typeHint := strings.Join(hint, "")
	nullable := strings.HasPrefix(typeHint, "?")
	typeHint = strings.TrimPrefix(strings.TrimPrefix(typeHint, "?"), `\`)
	if nullable {
		typeHint = "?" + typeHint
	}
	doc := s.DocComment(anchor)

	end := s.declEnd(i)
	var props []model.PropertyAttrs
	cur := -1
	depth := 0
	var def strings.Builder
	inDefault := false
	finish := func() {
		if cur < 0 {
			return
		}
		if inDefault {
			props[cur].HasDefault = true
			props[cur].DefaultValue = strings.TrimSpace(def.String())
		}
		def.Reset()
		inDefault = false
	}

	for j := i; j < end; j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE, token.T_CLOSE_CURLY:
			depth--
		}
		switch {
		case depth == 0 && t.Kind == token.T_COMMA:
			finish()
		case inDefault:
			def.WriteString(t.Text)
		case depth == 0 && t.Kind == token.T_VARIABLE:
			props = append(props, model.PropertyAttrs{
				Name:       strings.TrimPrefix(t.Text, "$"),
				Modifiers:  mods,
				TypeHint:   typeHint,
				DocComment: doc,
				Line:       t.Line,
			})
			cur = len(props) - 1
		case depth == 0 && t.Kind == token.T_EQUAL:
			inDefault = true
		}
	}
	finish()
	return props, end
}
