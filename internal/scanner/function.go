package scanner

import (
	"strings"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/token"
)

// AnonymousFunction is the name reported for closures.
const AnonymousFunction = "anonymous function"

// argument is one parsed formal parameter.
type argument = model.ParameterAttrs

// FunctionName returns the name declared after the function keyword at i.
// A "(" before any name marks a closure.
func (s *Stream) FunctionName(i int) (name string, closure bool) {
	for j := i + 1; j < len(s.toks); j++ {
		switch s.toks[j].Kind {
		case token.T_STRING:
			return s.toks[j].Text, false
		case token.T_AMPERSAND:
			if n := s.Next(j); n >= 0 && s.toks[n].Kind == token.T_STRING {
				return s.toks[n].Text, false
			}
		case token.T_OPEN_BRACKET:
			return AnonymousFunction, true
		case token.T_OPEN_CURLY, token.T_SEMICOLON:
			return "", false
		}
	}
	return "", false
}

// ReturnsReference reports `function &name()`.
func (s *Stream) ReturnsReference(i int) bool {
	n := s.Next(i)
	return n >= 0 && s.toks[n].Kind == token.T_AMPERSAND
}

// paramList returns the indexes of the parentheses around the parameter
// list of the function at i.
func (s *Stream) paramList(i int) (open, close int) {
	open = s.nextOf(i, token.T_OPEN_BRACKET)
	if open < 0 {
		return -1, -1
	}
	return open, s.matching(open)
}

// Arguments parses the parameter list of the function at i. A parameter is
// flushed on every comma at depth zero and at the closing bracket; nested
// brackets in defaults or attributes do not split it.
func (s *Stream) Arguments(i int) []model.ParameterAttrs {
	if args, ok := s.args[i]; ok {
		return args
	}
	args := s.parseArguments(i)
	s.args[i] = args
	return args
}

func (s *Stream) parseArguments(i int) []model.ParameterAttrs {
	open, close := s.paramList(i)
	if open < 0 || close < 0 {
		return nil
	}

	var (
		args       []model.ParameterAttrs
		cur        argument
		typeHint   strings.Builder
		inDefault  bool
		defaultBuf strings.Builder
		touched    bool
	)
	flush := func() {
		if !touched {
			return
		}
		cur.TypeHint = strings.TrimPrefix(typeHint.String(), `\`)
		if inDefault {
			cur.HasDefault = true
			cur.DefaultValue = strings.TrimSpace(defaultBuf.String())
		}
		if cur.Name == "" && cur.TypeHint != "" {
			// A hint with no variable was really a default value.
			cur.HasDefault = true
			cur.DefaultValue = cur.TypeHint
			cur.TypeHint = ""
			if strings.EqualFold(cur.DefaultValue, "stdClass") {
				cur.TypeHint = "object"
			}
		}
		args = append(args, cur)
		cur = argument{}
		typeHint.Reset()
		defaultBuf.Reset()
		inDefault = false
		touched = false
	}

	depth := 0
	for j := open + 1; j < close; j++ {
		t := s.toks[j]
		switch t.Kind {
		case token.T_OPEN_BRACKET, token.T_OPEN_SQUARE, token.T_OPEN_CURLY, token.T_ATTRIBUTE:
			depth++
		case token.T_CLOSE_BRACKET, token.T_CLOSE_SQUARE, token.T_CLOSE_CURLY:
			depth--
		}

		if depth == 0 && t.Kind == token.T_COMMA {
			flush()
			continue
		}
		if inDefault {
			defaultBuf.WriteString(t.Text)
			continue
		}
		if depth > 0 || t.Kind == token.T_CLOSE_SQUARE || t.Kind.IsIgnorable() {
			// Attributes and whitespace before the default carry nothing.
			continue
		}

		touched = true
		switch t.Kind {
		case token.T_QUESTION_MARK:
			cur.Nullable = true
		case token.T_AMPERSAND:
			// Only an & right before the variable passes by reference;
			// otherwise it joins an intersection type.
			if n := s.Next(j); n >= 0 && s.toks[n].Is(token.T_VARIABLE, token.T_ELLIPSIS) {
				cur.ByRef = true
			} else if cur.Name == "" {
				typeHint.WriteString(t.Text)
			}
		case token.T_ELLIPSIS:
			cur.Variadic = true
		case token.T_VARIABLE:
			cur.Name = strings.TrimPrefix(t.Text, "$")
		case token.T_EQUAL:
			inDefault = true
		case token.T_STRING, token.T_ARRAY, token.T_CALLABLE, token.T_STATIC,
			token.T_NS_SEPARATOR, token.T_PIPE:
			if cur.Name == "" {
				typeHint.WriteString(t.Text)
			}
		}
	}
	flush()
	return args
}

// ReturnType returns the declared return type of the function at i, or "".
func (s *Stream) ReturnType(i int) string {
	_, close := s.paramList(i)
	if close < 0 {
		return ""
	}
	j := s.Next(close)
	if j >= 0 && s.toks[j].Kind == token.T_USE {
		// The closure use list sits between parameters and return type.
		j = -1
		if o := s.nextOf(s.Next(close), token.T_OPEN_BRACKET); o >= 0 {
			if m := s.matching(o); m >= 0 {
				j = s.Next(m)
			}
		}
	}
	if j < 0 || s.toks[j].Kind != token.T_COLON {
		return ""
	}
	var b strings.Builder
	for k := j + 1; k < len(s.toks); k++ {
		t := s.toks[k]
		if t.Is(token.T_OPEN_CURLY, token.T_SEMICOLON, token.T_DOUBLE_ARROW) {
			break
		}
		if !t.Kind.IsIgnorable() {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// CCN returns the cyclomatic complexity of the function at i: one plus
// every branch token up to the end of its scope, nested scopes included.
// A "?" that opens a nullable type is not a branch.
func (s *Stream) CCN(i int) int {
	ccn := 1
	end := s.EndTokenID(i)
	for j := i + 1; j <= end && j < len(s.toks); j++ {
		k := s.toks[j].Kind
		if !k.IsBranch() {
			continue
		}
		if k == token.T_QUESTION_MARK && s.opensNullableType(j) {
			continue
		}
		ccn++
	}
	return ccn
}

// opensNullableType reports whether the "?" at j starts a nullable type
// rather than a ternary: it follows a parameter separator, a return colon
// or a promoted-property modifier, or it prefixes a type name followed by
// a parameter variable.
func (s *Stream) opensNullableType(j int) bool {
	if p := s.Prev(j); p >= 0 {
		t := s.toks[p]
		if t.Is(token.T_OPEN_BRACKET, token.T_COMMA, token.T_COLON, token.T_READONLY) || t.Kind.IsVisibility() {
			return true
		}
	}

	n, typed := s.Next(j), false
	for n >= 0 && s.toks[n].Is(token.T_STRING, token.T_ARRAY, token.T_CALLABLE, token.T_STATIC, token.T_NS_SEPARATOR) {
		n, typed = s.Next(n), true
	}
	return typed && n >= 0 && s.toks[n].Is(token.T_VARIABLE, token.T_AMPERSAND, token.T_ELLIPSIS)
}

// FunctionAttrs gathers everything the registry needs about the function
// at i.
func (s *Stream) FunctionAttrs(i int, namespace string) model.FunctionAttrs {
	_, closure := s.FunctionName(i)
	return model.FunctionAttrs{
		Namespace:        namespace,
		File:             s.file,
		DocComment:       s.DocComment(i),
		StartLine:        s.Line(i),
		EndLine:          s.EndLine(i),
		Closure:          closure,
		ReturnsReference: s.ReturnsReference(i),
		ReturnType:       s.ReturnType(i),
		CCN:              s.CCN(i),
		Parameters:       s.Arguments(i),
	}
}
