package scanner

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/token"
)

// Parser is the token-stream front end. It walks a file once, registering
// namespaces, imports, declarations, includes, globals and dependencies.
type Parser struct {
	reg *model.Registry
}

func NewParser(reg *model.Registry) *Parser {
	return &Parser{reg: reg}
}

// Registry returns the registry the parser writes into.
func (p *Parser) Registry() *model.Registry { return p.reg }

// Parse walks toks for file. Malformed input degrades to partial
// extraction; the error return is reserved for callers that wrap it.
func (p *Parser) Parse(file string, toks []token.Token) error {
	w := &walker{
		reg:         p.reg,
		s:           NewStream(file, toks),
		nsEnd:       -1,
		uses:        make(map[string]string),
		methods:     make(map[int]bool),
		conditional: make(map[string]bool),
	}
	w.run()
	w.resolveCalls()
	return nil
}

type scope struct {
	name  string
	start int
	end   int
}

// callSite is a function call waiting for resolution until every user
// function in the file is known.
type callSite struct {
	name      string
	namespace string
	startLine int
	endLine   int
	args      []string
}

type walker struct {
	reg *model.Registry
	s   *Stream

	ns    string
	nsEnd int
	uses  map[string]string

	classes     []scope
	functions   []scope
	methods     map[int]bool
	conditional map[string]bool
	calls       []callSite
}

func (w *walker) run() {
	s := w.s
	for i := 0; i < s.Len(); i++ {
		if w.nsEnd >= 0 && i > w.nsEnd {
			w.ns, w.nsEnd = "", -1
			w.uses = make(map[string]string)
		}
		w.classes = popScopes(w.classes, i)
		w.functions = popScopes(w.functions, i)

		t := s.At(i)
		switch t.Kind {
		case token.T_NAMESPACE:
			if s.IsNamespaceDeclaration(i) {
				w.namespace(i)
			} else {
				i = w.call(i)
			}
		case token.T_USE:
			i = w.use(i)
		case token.T_CLASS, token.T_INTERFACE, token.T_TRAIT:
			w.class(i)
		case token.T_ENUM:
			if n := s.Next(i); n >= 0 && s.At(n).Kind == token.T_STRING {
				w.markMethods(i)
			}
		case token.T_FUNCTION:
			w.function(i)
		case token.T_CONST:
			w.constant(i)
		case token.T_NEW:
			w.instantiation(i)
		case token.T_DOUBLE_COLON:
			w.staticCall(i)
		case token.T_STRING, token.T_NS_SEPARATOR:
			i = w.call(i)
		case token.T_VARIABLE:
			if g, ok := s.GlobalVariable(i); ok {
				w.reg.AddGlobal(w.ns, model.GlobalAttrs{Name: g.Name, Key: g.Key, Super: g.Super, Line: t.Line})
			}
		case token.T_INCLUDE, token.T_INCLUDE_ONCE, token.T_REQUIRE, token.T_REQUIRE_ONCE:
			w.include(i)
		case token.T_ATTRIBUTE:
			if m := s.matching(i); m > i {
				i = m
			}
		default:
			if t.Kind.IsMagicConstant() {
				w.magicConstant(i)
			}
		}
	}
}

func popScopes(stack []scope, i int) []scope {
	for len(stack) > 0 && i > stack[len(stack)-1].end {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func (w *walker) namespace(i int) {
	s := w.s
	name := s.NamespaceName(i)
	end := s.EndTokenID(i)
	w.reg.BuildPackage(name, model.PackageAttrs{
		File:       s.File(),
		DocComment: s.DocComment(i),
		StartLine:  s.Line(i),
		EndLine:    s.Line(end),
	})
	w.ns = name
	w.uses = make(map[string]string)
	w.nsEnd = -1
	if end > i {
		w.nsEnd = end
	}
}

// use registers top-level imports. Trait uses inside a class body and
// closure use lists are not imports.
func (w *walker) use(i int) int {
	s := w.s
	if len(w.classes) > 0 {
		return i
	}
	if p := s.Prev(i); p >= 0 && s.At(p).Kind == token.T_CLOSE_BRACKET {
		return i
	}
	for _, u := range s.Uses(i) {
		used := w.reg.AddUse(w.ns, u)
		if u.Kind == model.UseClass {
			w.uses[strings.ToLower(used.Alias())] = used.Name()
		}
	}
	if end := s.EndTokenID(i); end > i {
		return end
	}
	return i
}

// isClassDeclaration rejects Foo::class and anonymous classes.
func (w *walker) isClassDeclaration(i int) bool {
	s := w.s
	p := s.Prev(i)
	if p >= 0 && s.At(p).Is(token.T_DOUBLE_COLON, token.T_NEW) {
		return false
	}
	return s.ClassName(i) != ""
}

func (w *walker) class(i int) {
	s := w.s
	if !w.isClassDeclaration(i) {
		if p := s.Prev(i); p >= 0 && s.At(p).Kind == token.T_NEW {
			w.markMethods(i)
		}
		return
	}

	kind := model.KindClass
	switch s.At(i).Kind {
	case token.T_INTERFACE:
		kind = model.KindInterface
	case token.T_TRAIT:
		kind = model.KindTrait
	}
	name := model.Qualify(w.ns, s.ClassName(i))
	end := s.EndTokenID(i)

	w.reg.BuildClass(name, model.ClassAttrs{
		Kind:       kind,
		Namespace:  w.ns,
		File:       s.File(),
		DocComment: s.DocComment(i),
		StartLine:  s.Line(i),
		EndLine:    s.Line(end),
		Modifiers:  s.ClassModifiers(i),
		Parent:     s.ParentName(i),
		Interfaces: s.InterfaceNames(i),
		Members:    s.ClassMembers(i),
	})
	w.classes = append(w.classes, scope{name: name, start: i, end: end})
	w.markMethods(i)
}

// markMethods flags every function declared directly in the body of the
// class-like construct at i so the walker does not register it as a
// plain function.
func (w *walker) markMethods(i int) {
	s := w.s
	open := -1
	for j := i + 1; j < s.Len(); j++ {
		if s.At(j).Kind == token.T_OPEN_CURLY {
			open = j
			break
		}
	}
	if open < 0 {
		return
	}
	close := s.matching(open)
	if close < 0 {
		close = s.Len() - 1
	}
	depth := 0
	for j := open; j <= close; j++ {
		k := s.At(j).Kind
		switch {
		case k.OpensBlock():
			depth++
		case k.ClosesBlock():
			depth--
		case k == token.T_FUNCTION && depth == 1:
			w.methods[j] = true
		}
	}
	if len(w.classes) == 0 || w.classes[len(w.classes)-1].end != close {
		w.classes = append(w.classes, scope{start: i, end: close})
	}
}

func (w *walker) function(i int) {
	s := w.s
	end := s.EndTokenID(i)
	name, closure := s.FunctionName(i)
	if w.methods[i] {
		method := name
		if len(w.classes) > 0 {
			method = w.classes[len(w.classes)-1].name + "::" + name
		}
		w.functions = append(w.functions, scope{name: method, start: i, end: end})
		return
	}
	if name == "" {
		return
	}
	qualified := model.Qualify(w.ns, name)
	if closure {
		qualified = model.Qualify(w.ns, "{closure}") + "#" + strconv.Itoa(s.Line(i))
	}
	w.reg.BuildFunction(qualified, s.FunctionAttrs(i, w.ns))
	w.functions = append(w.functions, scope{name: qualified, start: i, end: end})
}

func (w *walker) constant(i int) {
	if w.inClassBody(i) {
		return
	}
	for _, c := range w.s.ConstantDeclarations(i) {
		c.Namespace = w.ns
		w.reg.BuildConstant(model.Qualify(w.ns, c.Name), c)
	}
}

// inClassBody reports whether i sits directly in a class body rather than
// inside one of its methods.
func (w *walker) inClassBody(i int) bool {
	if len(w.classes) == 0 {
		return false
	}
	if len(w.functions) == 0 {
		return true
	}
	return w.classes[len(w.classes)-1].start > w.functions[len(w.functions)-1].start
}

func (w *walker) instantiation(i int) {
	s := w.s
	n := s.Next(i)
	if n < 0 || !s.At(n).Is(token.T_STRING, token.T_NS_SEPARATOR, token.T_NAMESPACE) {
		return
	}
	name, last := s.qualifiedName(n)
	if name == "" {
		return
	}
	endLine := s.Line(last)
	args := s.CallArguments(last)
	if o := s.Next(last); o >= 0 && s.At(o).Kind == token.T_OPEN_BRACKET {
		if c := s.matching(o); c >= 0 {
			endLine = s.Line(c)
		}
	}
	w.reg.BuildDependency(w.resolveClass(name), model.DependencyAttrs{
		Namespace:     w.ns,
		File:          s.File(),
		StartLine:     s.Line(i),
		EndLine:       endLine,
		Instantiation: true,
		Arguments:     args,
	})
}

// staticCall registers Foo::bar() where i is the "::".
func (w *walker) staticCall(i int) {
	s := w.s
	m := s.Next(i)
	if m < 0 || s.At(m).Kind != token.T_STRING {
		return
	}
	open := s.Next(m)
	if open < 0 || s.At(open).Kind != token.T_OPEN_BRACKET {
		return
	}

	left := s.Prev(i)
	if left < 0 {
		return
	}
	var class string
	switch s.At(left).Kind {
	case token.T_STATIC:
		class = "static"
	case token.T_STRING:
		start := left
		for p := s.Prev(start); p >= 0 && s.At(p).Is(token.T_STRING, token.T_NS_SEPARATOR); p = s.Prev(p) {
			if p != start-1 {
				break
			}
			start = p
		}
		class, _ = s.qualifiedName(start)
	default:
		return
	}

	endLine := s.Line(m)
	if c := s.matching(open); c >= 0 {
		endLine = s.Line(c)
	}
	w.reg.BuildDependency(w.resolveClass(class)+"::"+s.At(m).Text, model.DependencyAttrs{
		Namespace: w.ns,
		File:      s.File(),
		StartLine: s.Line(left),
		EndLine:   endLine,
		Arguments: s.CallArguments(m),
	})
}

// call records a function call starting at i and returns the index of the
// last name token so qualified names are read once.
func (w *walker) call(i int) int {
	s := w.s
	name, last := s.qualifiedName(i)
	if last < i {
		return i
	}
	if p := s.Prev(i); p >= 0 && notCallPrefix(s, p) {
		return last
	}
	open := s.Next(last)
	if open < 0 || s.At(open).Kind != token.T_OPEN_BRACKET {
		return last
	}
	if strings.Trim(name, `\`) == "" {
		return last
	}

	if c, ok := s.DefineCall(last); ok {
		c.Namespace = w.ns
		w.reg.BuildConstant(c.Name, c)
	}
	args := s.CallArguments(last)
	if strings.EqualFold(model.ShortName(name), "function_exists") && len(args) > 0 {
		w.conditional[strings.ToLower(strings.Trim(args[0], `'"\`))] = true
	}

	endLine := s.Line(last)
	if c := s.matching(open); c >= 0 {
		endLine = s.Line(c)
	}
	w.calls = append(w.calls, callSite{
		name:      name,
		namespace: w.ns,
		startLine: s.Line(i),
		endLine:   endLine,
		args:      args,
	})
	return last
}

// notCallPrefix reports tokens after which a name followed by "(" is a
// declaration, member access or instantiation rather than a function call.
func notCallPrefix(s *Stream, p int) bool {
	switch s.At(p).Kind {
	case token.T_FUNCTION, token.T_OBJECT_OPERATOR, token.T_NULLSAFE_OBJECT_OPERATOR,
		token.T_DOUBLE_COLON, token.T_NEW, token.T_CONST, token.T_USE, token.T_NAMESPACE,
		token.T_CLASS, token.T_INTERFACE, token.T_TRAIT, token.T_ENUM,
		token.T_EXTENDS, token.T_IMPLEMENTS, token.T_INSTEADOF, token.T_GOTO:
		return true
	case token.T_AMPERSAND:
		return s.At(s.Prev(p)).Kind == token.T_FUNCTION
	}
	return false
}

func (w *walker) include(i int) {
	s := w.s
	target := s.IncludeTarget(i)
	if target == "" {
		return
	}
	w.reg.BuildInclude(target, model.IncludeAttrs{
		Kind:       s.IncludeKind(i),
		Namespace:  w.ns,
		File:       s.File(),
		DocComment: s.DocComment(i),
		StartLine:  s.Line(i),
		EndLine:    s.EndLine(i),
	})
}

func (w *walker) magicConstant(i int) {
	s := w.s
	t := s.At(i)
	name := strings.ToUpper(t.Text)

	var value string
	literal := false
	switch t.Kind {
	case token.T_LINE:
		value, literal = strconv.Itoa(t.Line), true
	case token.T_FILE:
		value = s.File()
	case token.T_DIR:
		value = filepath.Dir(s.File())
	case token.T_NS_C:
		if w.ns != "" {
			value = w.ns
		}
	case token.T_CLASS_C, token.T_TRAIT_C:
		if len(w.classes) > 0 {
			value = w.classes[len(w.classes)-1].name
		}
	case token.T_FUNC_C:
		if len(w.functions) > 0 {
			value = model.ShortName(w.functions[len(w.functions)-1].name)
		}
	case token.T_METHOD_C:
		if len(w.functions) > 0 {
			value = w.functions[len(w.functions)-1].name
		}
	}
	if !literal {
		value = "'" + value + "'"
	}
	w.reg.BuildConstant(name, model.ConstantAttrs{
		Name:      name,
		Namespace: w.ns,
		File:      s.File(),
		Line:      t.Line,
		Value:     value,
		Magic:     true,
	})
}

// resolveCalls turns recorded call sites into dependencies. A call to a
// function declared in user code is a user dependency; anything else is
// internal and keyed by its call-site hash.
func (w *walker) resolveCalls() {
	for _, c := range w.calls {
		name, user := w.reg.ResolveFunction(c.namespace, c.name)
		attrs := model.DependencyAttrs{
			Namespace:   c.namespace,
			File:        w.s.File(),
			StartLine:   c.startLine,
			EndLine:     c.endLine,
			Conditional: w.conditional[strings.ToLower(model.ShortName(name))],
			Arguments:   c.args,
		}
		if !user {
			attrs.Internal = true
			attrs.Hash = model.CallSiteHash(c.startLine, c.endLine, w.s.File())
		}
		w.reg.BuildDependency(name, attrs)
	}
}

func (w *walker) resolveClass(name string) string {
	return model.ResolveClass(w.ns, w.uses, name)
}
