package builder

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/php-reflect/internal/model"
)

// modifiers maps the modifier children of a declaration to model flags.
// `var` declares an implicitly public member.
func modifiers(node *sitter.Node, source []byte) model.Modifier {
	var m model.Modifier
	for _, c := range namedChildren(node) {
		switch c.Kind() {
		case "visibility_modifier":
			word, _, _ := strings.Cut(strings.ToLower(nodeText(c, source)), "(")
			switch word {
			case "public":
				m |= model.ModifierPublic
			case "protected":
				m |= model.ModifierProtected
			case "private":
				m |= model.ModifierPrivate
			}
		case "static_modifier":
			m |= model.ModifierStatic
		case "abstract_modifier":
			m |= model.ModifierAbstract
		case "final_modifier":
			m |= model.ModifierFinal
		case "readonly_modifier":
			m |= model.ModifierReadonly
		case "var_modifier":
			m |= model.ModifierImplicitPublic
		}
	}
	return m
}

// names collects the literal names listed in a base or implements clause.
func names(clause *sitter.Node, source []byte) []string {
	var out []string
	for _, c := range namedChildren(clause, "name", "qualified_name") {
		out = append(out, strings.TrimPrefix(nodeText(c, source), `\`))
	}
	return out
}

// classHeader reads the parent and interface lists. An interface's first
// extended name is its parent; the rest are interfaces.
func classHeader(node *sitter.Node, source []byte) (parent string, interfaces []string) {
	base := names(findChildByType(node, "base_clause"), source)
	if len(base) > 0 {
		parent = base[0]
		if node.Kind() == "interface_declaration" {
			interfaces = append(interfaces, base[1:]...)
		}
	}
	interfaces = append(interfaces, names(findChildByType(node, "class_interface_clause"), source)...)
	return parent, interfaces
}

// typeHint normalizes a type node: a leading "?" becomes the nullable flag
// and a leading separator is dropped.
func typeHint(node *sitter.Node, source []byte) (hint string, nullable bool) {
	if node == nil {
		return "", false
	}
	hint = nodeText(node, source)
	if strings.HasPrefix(hint, "?") {
		nullable = true
		hint = hint[1:]
	}
	return strings.TrimPrefix(strings.TrimSpace(hint), `\`), nullable
}

func parameters(node *sitter.Node, source []byte) []model.ParameterAttrs {
	list := node.ChildByFieldName("parameters")
	var out []model.ParameterAttrs
	for _, p := range namedChildren(list, "simple_parameter", "variadic_parameter", "property_promotion_parameter") {
		hint, nullable := typeHint(p.ChildByFieldName("type"), source)
		a := model.ParameterAttrs{
			TypeHint: hint,
			Nullable: nullable,
			Variadic: p.Kind() == "variadic_parameter",
			ByRef:    p.ChildByFieldName("reference_modifier") != nil,
		}
		if name := p.ChildByFieldName("name"); name != nil {
			if name.Kind() == "by_ref" {
				a.ByRef = true
			}
			a.Name = strings.TrimLeft(nodeText(name, source), "&$ ")
		}
		if def := p.ChildByFieldName("default_value"); def != nil {
			a.HasDefault = true
			a.DefaultValue = nodeText(def, source)
		}
		out = append(out, a)
	}
	return out
}

// returnType returns the declared return type text, or "".
func returnType(node *sitter.Node, source []byte) string {
	return nodeText(node.ChildByFieldName("return_type"), source)
}

func returnsReference(node *sitter.Node) bool {
	return findChildByType(node, "reference_modifier") != nil
}

// ccn is one plus every branch node under node, nested functions included.
func ccn(node *sitter.Node, source []byte) int {
	n := 1
	walkTree(node, func(c *sitter.Node) bool {
		switch {
		case branchNodes[c.Kind()]:
			n++
		case c.Kind() == "binary_expression":
			if op := c.ChildByFieldName("operator"); op != nil && branchOperators[strings.ToLower(nodeText(op, source))] {
				n++
			}
		}
		return true
	})
	return n
}

func (v *visitor) functionAttrs(node *sitter.Node, closure bool) model.FunctionAttrs {
	return model.FunctionAttrs{
		Namespace:        v.ns,
		File:             v.file,
		DocComment:       docComment(node, v.src),
		StartLine:        startLine(node),
		EndLine:          endLine(node),
		Closure:          closure,
		ReturnsReference: returnsReference(node),
		ReturnType:       returnType(node, v.src),
		CCN:              ccn(node, v.src),
		Parameters:       parameters(node, v.src),
	}
}

func (v *visitor) method(node *sitter.Node) model.MethodAttrs {
	return model.MethodAttrs{
		Name:          nodeText(node.ChildByFieldName("name"), v.src),
		Modifiers:     modifiers(node, v.src),
		FunctionAttrs: v.functionAttrs(node, false),
	}
}

// properties reads every property_element of a property declaration; they
// share the declaration's modifiers, type and doc comment.
func (v *visitor) properties(node *sitter.Node) []model.PropertyAttrs {
	mods := modifiers(node, v.src)
	hint, nullable := typeHint(node.ChildByFieldName("type"), v.src)
	if nullable {
		hint = "?" + hint
	}
	doc := docComment(node, v.src)

	var out []model.PropertyAttrs
	for _, el := range namedChildren(node, "property_element") {
		p := model.PropertyAttrs{
			Modifiers:  mods,
			TypeHint:   hint,
			DocComment: doc,
			Line:       startLine(el),
		}
		name := el.ChildByFieldName("name")
		if name == nil {
			name = findChildByType(el, "variable_name")
		}
		p.Name = strings.TrimPrefix(nodeText(name, v.src), "$")
		if def := el.ChildByFieldName("default_value"); def != nil {
			p.HasDefault = true
			p.DefaultValue = nodeText(def, v.src)
		} else if init := findChildByType(el, "property_initializer"); init != nil {
			p.HasDefault = true
			p.DefaultValue = strings.TrimSpace(strings.TrimPrefix(nodeText(init, v.src), "="))
		}
		out = append(out, p)
	}
	return out
}

// constants reads `const A = 1, B = 2;` declarations.
func (v *visitor) constants(node *sitter.Node) []model.ConstantAttrs {
	mods := modifiers(node, v.src)
	doc := docComment(node, v.src)

	var out []model.ConstantAttrs
	for _, el := range namedChildren(node, "const_element") {
		parts := namedChildren(el)
		if len(parts) < 2 || parts[0].Kind() != "name" {
			continue
		}
		out = append(out, model.ConstantAttrs{
			Name:       nodeText(parts[0], v.src),
			Namespace:  v.ns,
			File:       v.file,
			DocComment: doc,
			Line:       startLine(el),
			Value:      nodeText(parts[len(parts)-1], v.src),
			Modifiers:  mods,
		})
	}
	return out
}

// arguments returns the raw text of each argument of a call node.
func arguments(node *sitter.Node, source []byte) []string {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		args = findChildByType(node, "arguments")
	}
	var out []string
	for _, a := range namedChildren(args, "argument", "variadic_placeholder") {
		out = append(out, nodeText(a, source))
	}
	return out
}

// includeTarget concatenates the string literals and variables of an
// include expression, quotes trimmed.
func includeTarget(node *sitter.Node, source []byte) string {
	var b strings.Builder
	for i := uint(0); i < node.NamedChildCount(); i++ {
		walkTree(node.NamedChild(i), func(c *sitter.Node) bool {
			switch c.Kind() {
			case "string", "encapsed_string":
				b.WriteString(unquote(nodeText(c, source)))
				return false
			case "variable_name":
				b.WriteString(nodeText(c, source))
				return false
			}
			return true
		})
	}
	return b.String()
}
