// Package builder is the AST front end. It parses PHP with tree-sitter and
// walks the syntax tree with paired enter/leave callbacks, registering what
// it finds in a model.Registry through the same build-or-fetch calls the
// token front end uses.
package builder

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/mvp-joe/php-reflect/internal/token"
)

// Builder parses files with tree-sitter-php and feeds a Registry.
// A Builder is not safe for concurrent use; neither is its Registry.
type Builder struct {
	reg      *model.Registry
	language *sitter.Language
}

func New(reg *model.Registry) *Builder {
	return &Builder{
		reg:      reg,
		language: sitter.NewLanguage(php.LanguagePHP()),
	}
}

// Registry returns the registry the builder writes into.
func (b *Builder) Registry() *model.Registry { return b.reg }

// Build parses source and registers its models under file. Syntax errors
// do not fail the build; the walk extracts whatever the tree holds.
func (b *Builder) Build(file string, source []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(b.language); err != nil {
		return fmt.Errorf("failed to load php grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse php file: %s", file)
	}
	defer tree.Close()

	v := &visitor{
		reg:         b.reg,
		file:        file,
		src:         source,
		uses:        make(map[string]string),
		aliases:     make(map[string]string),
		conditional: make(map[string]bool),
	}
	v.program(tree.RootNode())
	v.resolveCalls()
	return nil
}

// classFrame accumulates the members of the class-like declaration being
// visited. They are registered together when the declaration is left.
type classFrame struct {
	name    string
	attrs   model.ClassAttrs
	members model.Members
	// anonymous classes and enums collect members that are never registered
	anonymous bool
}

type callSite struct {
	name      string
	namespace string
	startLine int
	endLine   int
	args      []string
}

type visitor struct {
	reg  *model.Registry
	file string
	src  []byte

	// ns is overwritten by each namespace node, never stacked.
	ns      string
	pending *pendingNamespace
	uses    map[string]string

	// aliases maps "$var" or "$obj_prop" to the class last assigned to it
	// with new.
	aliases map[string]string

	classes     []*classFrame
	functions   []string
	conditional map[string]bool
	calls       []callSite
}

// pendingNamespace is a namespace whose end line is not known yet.
type pendingNamespace struct {
	name  string
	attrs model.PackageAttrs
}

// program visits the top-level statements. A statement-form namespace runs
// until the next namespace or the end of the file, so its end line follows
// the statements visited after it.
func (v *visitor) program(root *sitter.Node) {
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		v.walk(child)
		if v.pending != nil && kindOf(child.Kind()) != nodeNamespace {
			v.pending.attrs.EndLine = endLine(child)
		}
	}
	v.closeNamespace()
}

func (v *visitor) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	kind := kindOf(node.Kind())
	if v.enter(node, kind) {
		for i := uint(0); i < node.ChildCount(); i++ {
			v.walk(node.Child(i))
		}
	}
	v.leave(node, kind)
}

// enter handles a node before its children. Returning false skips them.
func (v *visitor) enter(node *sitter.Node, kind nodeKind) bool {
	switch kind {
	case nodeNamespace:
		v.enterNamespace(node)
	case nodeUse:
		v.useDeclaration(node)
		return false
	case nodeClass, nodeInterface, nodeTrait:
		v.enterClass(node, kind)
	case nodeEnum, nodeAnonymousClass:
		v.classes = append(v.classes, &classFrame{anonymous: true})
	case nodeFunction:
		name := model.Qualify(v.ns, nodeText(node.ChildByFieldName("name"), v.src))
		v.reg.BuildFunction(name, v.functionAttrs(node, false))
		v.functions = append(v.functions, name)
	case nodeArrowFunction:
		// Not registered; calls in the body still count.
	case nodeClosure:
		name := model.Qualify(v.ns, "{closure}") + "#" + strconv.Itoa(startLine(node))
		v.reg.BuildFunction(name, v.functionAttrs(node, true))
		v.functions = append(v.functions, name)
	case nodeMethod:
		v.enterMethod(node)
	case nodeProperty:
		if f := v.frame(); f != nil {
			f.members.Properties = append(f.members.Properties, v.properties(node)...)
		}
	case nodeConst:
		v.constDeclaration(node)
	case nodeAssignment:
		v.assignment(node)
	case nodeNew:
		v.instantiation(node)
	case nodeMemberCall:
		v.memberCall(node)
	case nodeStaticCall:
		v.staticCall(node)
	case nodeFunctionCall:
		v.functionCall(node)
	case nodeGlobal:
		v.globalDeclaration(node)
		return false
	case nodeVariable:
		v.superGlobal(node)
	case nodeName:
		v.magicConstant(node)
	}
	return true
}

// leave handles a node after its children.
func (v *visitor) leave(node *sitter.Node, kind nodeKind) {
	switch kind {
	case nodeNamespace:
		if node.ChildByFieldName("body") != nil && v.pending != nil {
			v.pending.attrs.EndLine = endLine(node)
			v.closeNamespace()
			v.ns = ""
			v.uses = make(map[string]string)
		}
	case nodeClass, nodeInterface, nodeTrait, nodeEnum, nodeAnonymousClass:
		v.leaveClass()
	case nodeFunction, nodeClosure, nodeMethod:
		if len(v.functions) > 0 {
			v.functions = v.functions[:len(v.functions)-1]
		}
	case nodeInclude:
		v.include(node)
	}
}

func (v *visitor) frame() *classFrame {
	if len(v.classes) == 0 {
		return nil
	}
	return v.classes[len(v.classes)-1]
}

func (v *visitor) enterNamespace(node *sitter.Node) {
	v.closeNamespace()
	name := strings.TrimPrefix(nodeText(node.ChildByFieldName("name"), v.src), `\`)
	v.ns = name
	v.uses = make(map[string]string)
	v.pending = &pendingNamespace{
		name: name,
		attrs: model.PackageAttrs{
			File:       v.file,
			DocComment: docComment(node, v.src),
			StartLine:  startLine(node),
			EndLine:    endLine(node),
		},
	}
}

// closeNamespace flushes the collected attributes into the package.
func (v *visitor) closeNamespace() {
	if v.pending == nil {
		return
	}
	v.reg.BuildPackage(v.pending.name, v.pending.attrs)
	v.pending = nil
}

func (v *visitor) useDeclaration(node *sitter.Node) {
	kind := useKind(node, model.UseClass)
	prefix := ""
	for _, c := range namedChildren(node) {
		switch c.Kind() {
		case "namespace_name":
			prefix = nodeText(c, v.src) + `\`
		case "namespace_use_clause":
			v.useClause(c, prefix, kind, startLine(node))
		case "namespace_use_group":
			for _, gc := range namedChildren(c, "namespace_use_clause") {
				v.useClause(gc, prefix, kind, startLine(node))
			}
		}
	}
}

func (v *visitor) useClause(clause *sitter.Node, prefix string, kind model.UseKind, line int) {
	kind = useKind(clause, kind)
	var name string
	for _, c := range namedChildren(clause, "name", "qualified_name") {
		name = nodeText(c, v.src)
		break
	}
	if name == "" {
		return
	}
	u := v.reg.AddUse(v.ns, model.UseAttrs{
		Name:  prefix + name,
		Alias: nodeText(clause.ChildByFieldName("alias"), v.src),
		Kind:  kind,
		Line:  line,
	})
	if u.Kind() == model.UseClass {
		v.uses[strings.ToLower(u.Alias())] = u.Name()
	}
}

// useKind reads a `function` or `const` keyword directly under node.
func useKind(node *sitter.Node, fallback model.UseKind) model.UseKind {
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c == nil || c.IsNamed() {
			continue
		}
		switch strings.ToLower(c.Kind()) {
		case "function":
			return model.UseFunction
		case "const":
			return model.UseConstant
		}
	}
	return fallback
}

func (v *visitor) enterClass(node *sitter.Node, kind nodeKind) {
	ck := model.KindClass
	switch kind {
	case nodeInterface:
		ck = model.KindInterface
	case nodeTrait:
		ck = model.KindTrait
	}
	parent, interfaces := classHeader(node, v.src)
	name := nodeText(node.ChildByFieldName("name"), v.src)
	v.classes = append(v.classes, &classFrame{
		name:      model.Qualify(v.ns, name),
		anonymous: name == "",
		attrs: model.ClassAttrs{
			Kind:       ck,
			Namespace:  v.ns,
			File:       v.file,
			DocComment: docComment(node, v.src),
			StartLine:  startLine(node),
			EndLine:    endLine(node),
			Modifiers:  modifiers(node, v.src),
			Parent:     parent,
			Interfaces: interfaces,
		},
	})
}

// leaveClass registers the finished class with all of its members at once.
func (v *visitor) leaveClass() {
	f := v.frame()
	if f == nil {
		return
	}
	v.classes = v.classes[:len(v.classes)-1]
	if f.anonymous {
		return
	}
	f.attrs.Members = f.members
	v.reg.BuildClass(f.name, f.attrs)
}

func (v *visitor) enterMethod(node *sitter.Node) {
	m := v.method(node)
	owner := ""
	if f := v.frame(); f != nil {
		f.members.Methods = append(f.members.Methods, m)
		owner = f.name
	}
	v.functions = append(v.functions, owner+"::"+m.Name)
}

func (v *visitor) constDeclaration(node *sitter.Node) {
	consts := v.constants(node)
	if p := node.Parent(); p != nil && p.Kind() == "declaration_list" {
		if f := v.frame(); f != nil {
			f.members.Constants = append(f.members.Constants, consts...)
		}
		return
	}
	for _, c := range consts {
		v.reg.BuildConstant(model.Qualify(v.ns, c.Name), c)
	}
}

// aliasKey identifies a plain variable ("$f") or a property of a variable
// ("$this_repo"). Anything else has no key.
func (v *visitor) aliasKey(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "variable_name":
		return nodeText(node, v.src)
	case "member_access_expression", "nullsafe_member_access_expression":
		obj := node.ChildByFieldName("object")
		prop := node.ChildByFieldName("name")
		if obj == nil || obj.Kind() != "variable_name" || prop == nil || prop.Kind() != "name" {
			return ""
		}
		return nodeText(obj, v.src) + "_" + nodeText(prop, v.src)
	}
	return ""
}

// newClass returns the literal class instantiated by a new expression.
func (v *visitor) newClass(node *sitter.Node) (string, bool) {
	if node == nil || node.Kind() != "object_creation_expression" {
		return "", false
	}
	for _, c := range namedChildren(node) {
		if c.Kind() == "name" || c.Kind() == "qualified_name" {
			return model.ResolveClass(v.ns, v.uses, nodeText(c, v.src)), true
		}
		if c.Kind() != "attribute_list" {
			break
		}
	}
	return "", false
}

// assignment records `$x = new Foo()`; the last assignment wins.
func (v *visitor) assignment(node *sitter.Node) {
	key := v.aliasKey(node.ChildByFieldName("left"))
	if key == "" {
		return
	}
	if class, ok := v.newClass(node.ChildByFieldName("right")); ok {
		v.aliases[key] = class
	}
}

func (v *visitor) instantiation(node *sitter.Node) {
	class, ok := v.newClass(node)
	if !ok {
		return
	}
	v.reg.BuildDependency(class, model.DependencyAttrs{
		Namespace:     v.ns,
		File:          v.file,
		StartLine:     startLine(node),
		EndLine:       endLine(node),
		Instantiation: true,
		Arguments:     arguments(node, v.src),
	})
}

// memberCall registers $x->m() when $x was assigned a known class.
// Calls on anything else are skipped.
func (v *visitor) memberCall(node *sitter.Node) {
	class, ok := v.aliases[v.aliasKey(node.ChildByFieldName("object"))]
	if !ok {
		return
	}
	method := node.ChildByFieldName("name")
	if method == nil || method.Kind() != "name" {
		return
	}
	v.reg.BuildDependency(class+"::"+nodeText(method, v.src), model.DependencyAttrs{
		Namespace: v.ns,
		File:      v.file,
		StartLine: startLine(node),
		EndLine:   endLine(node),
		Arguments: arguments(node, v.src),
	})
}

func (v *visitor) staticCall(node *sitter.Node) {
	scope := node.ChildByFieldName("scope")
	method := node.ChildByFieldName("name")
	if scope == nil || method == nil || method.Kind() != "name" {
		return
	}
	var class string
	switch {
	case scope.Kind() == "relative_scope":
		class = nodeText(scope, v.src)
	case isName(scope):
		class = model.ResolveClass(v.ns, v.uses, nodeText(scope, v.src))
	default:
		return
	}
	v.reg.BuildDependency(class+"::"+nodeText(method, v.src), model.DependencyAttrs{
		Namespace: v.ns,
		File:      v.file,
		StartLine: startLine(node),
		EndLine:   endLine(node),
		Arguments: arguments(node, v.src),
	})
}

// functionCall records a call for resolution once every function in the
// file is known. define() also registers its constant.
func (v *visitor) functionCall(node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if !isName(fn) {
		return
	}
	name := nodeText(fn, v.src)
	args := arguments(node, v.src)

	switch strings.ToLower(model.ShortName(name)) {
	case "define":
		v.define(node, args)
	case "function_exists":
		if len(args) > 0 {
			v.conditional[strings.ToLower(strings.Trim(args[0], `'"\`))] = true
		}
	}
	v.calls = append(v.calls, callSite{
		name:      name,
		namespace: v.ns,
		startLine: startLine(node),
		endLine:   endLine(node),
		args:      args,
	})
}

func (v *visitor) define(node *sitter.Node, args []string) {
	if len(args) < 2 {
		return
	}
	name := unquote(args[0])
	if name == "" || name == args[0] {
		return
	}
	doc := ""
	if p := node.Parent(); p != nil && p.Kind() == "expression_statement" {
		doc = docComment(p, v.src)
	}
	v.reg.BuildConstant(name, model.ConstantAttrs{
		Name:       name,
		Namespace:  v.ns,
		File:       v.file,
		DocComment: doc,
		Line:       startLine(node),
		Value:      args[1],
	})
}

func (v *visitor) include(node *sitter.Node) {
	target := includeTarget(node, v.src)
	if target == "" {
		return
	}
	doc := ""
	if p := node.Parent(); p != nil && p.Kind() == "expression_statement" {
		doc = docComment(p, v.src)
	}
	kind, _ := model.ParseIncludeKind(strings.TrimSuffix(node.Kind(), "_expression"))
	v.reg.BuildInclude(target, model.IncludeAttrs{
		Kind:       kind,
		Namespace:  v.ns,
		File:       v.file,
		DocComment: doc,
		StartLine:  startLine(node),
		EndLine:    endLine(node),
	})
}

func (v *visitor) globalDeclaration(node *sitter.Node) {
	for _, c := range namedChildren(node, "variable_name") {
		name := nodeText(c, v.src)
		v.reg.AddGlobal(v.ns, model.GlobalAttrs{
			Name:  name,
			Super: model.IsSuperGlobal(name),
			Line:  startLine(c),
		})
	}
}

// superGlobal records a superglobal access and the key it subscripts.
func (v *visitor) superGlobal(node *sitter.Node) {
	name := nodeText(node, v.src)
	if !model.IsSuperGlobal(name) {
		return
	}
	key := ""
	if p := node.Parent(); p != nil && p.Kind() == "subscript_expression" {
		parts := namedChildren(p)
		if len(parts) > 1 && parts[0].StartByte() == node.StartByte() {
			switch idx := parts[1]; idx.Kind() {
			case "string", "encapsed_string":
				key = unquote(nodeText(idx, v.src))
			case "variable_name":
				key = nodeText(idx, v.src)
			}
		}
	}
	v.reg.AddGlobal(v.ns, model.GlobalAttrs{
		Name:  name,
		Key:   key,
		Super: true,
		Line:  startLine(node),
	})
}

// magicConstant records __LINE__, __FILE__ and friends with the value
// they have at this point of the file.
func (v *visitor) magicConstant(node *sitter.Node) {
	text := nodeText(node, v.src)
	kind := token.Lookup(text)
	if !kind.IsMagicConstant() {
		return
	}
	if p := node.Parent(); p != nil && oneOf(p.Kind(), "qualified_name", "namespace_name", "named_type") {
		return
	}

	name := strings.ToUpper(text)
	line := startLine(node)
	var value string
	switch kind {
	case token.T_LINE:
		value = strconv.Itoa(line)
	case token.T_FILE:
		value = v.file
	case token.T_DIR:
		value = filepath.Dir(v.file)
	case token.T_NS_C:
		value = v.ns
	case token.T_CLASS_C, token.T_TRAIT_C:
		if f := v.frame(); f != nil && !f.anonymous {
			value = f.name
		}
	case token.T_FUNC_C:
		if len(v.functions) > 0 {
			value = model.ShortName(v.functions[len(v.functions)-1])
		}
	case token.T_METHOD_C:
		if len(v.functions) > 0 {
			value = v.functions[len(v.functions)-1]
		}
	}
	if kind != token.T_LINE {
		value = "'" + value + "'"
	}
	v.reg.BuildConstant(name, model.ConstantAttrs{
		Name:      name,
		Namespace: v.ns,
		File:      v.file,
		Line:      line,
		Value:     value,
		Magic:     true,
	})
}

// resolveCalls turns recorded calls into dependencies: user functions by
// name, everything else as internal calls keyed by call site.
func (v *visitor) resolveCalls() {
	for _, c := range v.calls {
		name, user := v.reg.ResolveFunction(c.namespace, c.name)
		attrs := model.DependencyAttrs{
			Namespace:   c.namespace,
			File:        v.file,
			StartLine:   c.startLine,
			EndLine:     c.endLine,
			Conditional: v.conditional[strings.ToLower(model.ShortName(name))],
			Arguments:   c.args,
		}
		if !user {
			attrs.Internal = true
			attrs.Hash = model.CallSiteHash(c.startLine, c.endLine, v.file)
		}
		v.reg.BuildDependency(name, attrs)
	}
}
