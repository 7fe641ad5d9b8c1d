package model

import (
	"fmt"
	"strings"
	"sync"
)

// Class is the unified class, interface and trait entity. Members are
// extracted from the MemberSource at most once.
type Class struct {
	name       string
	shortName  string
	namespace  string
	kind       ClassKind
	file       string
	docComment string
	startLine  int
	endLine    int
	modifiers  Modifier
	parent     string
	interfaces []string
	calls      int

	source     MemberSource
	once       sync.Once
	constants  []*Constant
	properties []*Property
	methods    []*Method
}

func newClass(name string, attrs ClassAttrs) *Class {
	return &Class{
		name:       name,
		shortName:  ShortName(name),
		namespace:  normalizeNamespace(attrs.Namespace),
		kind:       attrs.Kind,
		file:       attrs.File,
		docComment: attrs.DocComment,
		startLine:  attrs.StartLine,
		endLine:    attrs.EndLine,
		modifiers:  attrs.Modifiers,
		parent:     attrs.Parent,
		interfaces: append([]string(nil), attrs.Interfaces...),
		source:     attrs.Members,
	}
}

func (c *Class) load() {
	c.once.Do(func() {
		if c.source == nil {
			return
		}
		m := c.source.Members()
		c.source = nil

		for _, a := range m.Constants {
			k := newConstant(c.name+"::"+a.Name, a)
			k.class = c.name
			k.namespace = c.namespace
			if k.file == "" {
				k.file = c.file
			}
			c.constants = append(c.constants, k)
		}
		for _, a := range m.Properties {
			c.properties = append(c.properties, newProperty(c, a))
		}
		for _, a := range m.Methods {
			c.methods = append(c.methods, newMethod(c, a))
		}
	})
}

// Name returns the qualified name.
func (c *Class) Name() string          { return c.name }
func (c *Class) ShortName() string     { return c.shortName }
func (c *Class) NamespaceName() string { return c.namespace }
func (c *Class) InNamespace() bool     { return c.namespace != GlobalNamespace }
func (c *Class) Kind() ClassKind       { return c.kind }
func (c *Class) FileName() string      { return c.file }
func (c *Class) DocComment() string    { return c.docComment }
func (c *Class) StartLine() int        { return c.startLine }
func (c *Class) EndLine() int          { return c.endLine }
func (c *Class) Modifiers() Modifier   { return c.modifiers }
func (c *Class) Calls() int            { return c.calls }

func (c *Class) IsClass() bool     { return c.kind == KindClass }
func (c *Class) IsInterface() bool { return c.kind == KindInterface }
func (c *Class) IsTrait() bool     { return c.kind == KindTrait }

// IsAbstract is true for abstract classes and for every interface.
func (c *Class) IsAbstract() bool {
	return c.kind == KindInterface || c.modifiers.Has(ModifierAbstract)
}

func (c *Class) IsFinal() bool { return c.modifiers.Has(ModifierFinal) }

// IsInstantiable reports whether `new` can be applied to the class.
func (c *Class) IsInstantiable() bool {
	return c.kind == KindClass && !c.IsAbstract()
}

// ParentClassName returns the name after `extends`, unresolved. Interfaces
// report their first extended interface here.
func (c *Class) ParentClassName() string { return c.parent }

func (c *Class) InterfaceNames() []string {
	return append([]string(nil), c.interfaces...)
}

// ImplementsInterface matches case-insensitively against the declared names.
func (c *Class) ImplementsInterface(name string) bool {
	for _, i := range c.interfaces {
		if strings.EqualFold(i, name) {
			return true
		}
	}
	return false
}

func (c *Class) ExtensionName() string { return UserExtension }

// Extension always fails: classes found in analyzed sources belong to no
// runtime extension.
func (c *Class) Extension() (string, error) {
	return "", newError(CodeExtensionNotFound, "%s %s does not belong to an extension", c.kind, c.name)
}

func (c *Class) Constants() []*Constant {
	c.load()
	return append([]*Constant(nil), c.constants...)
}

func (c *Class) HasConstant(name string) bool {
	_, err := c.Constant(name)
	return err == nil
}

// Constant looks up a class constant by its case-sensitive short name.
func (c *Class) Constant(name string) (*Constant, error) {
	c.load()
	for _, k := range c.constants {
		if k.shortName == name {
			return k, nil
		}
	}
	return nil, newError(CodeConstantNotFound, "constant %s::%s does not exist", c.name, name)
}

func (c *Class) Properties() []*Property {
	c.load()
	return append([]*Property(nil), c.properties...)
}

func (c *Class) HasProperty(name string) bool {
	_, err := c.Property(name)
	return err == nil
}

// Property looks up a property by name, with or without the leading "$".
func (c *Class) Property(name string) (*Property, error) {
	c.load()
	name = strings.TrimPrefix(name, "$")
	for _, p := range c.properties {
		if p.name == name {
			return p, nil
		}
	}
	return nil, newError(CodePropertyNotFound, "property %s::$%s does not exist", c.name, name)
}

func (c *Class) Methods() []*Method {
	c.load()
	return append([]*Method(nil), c.methods...)
}

func (c *Class) HasMethod(name string) bool {
	_, err := c.Method(name)
	return err == nil
}

// Method looks up a method case-insensitively, as PHP does.
func (c *Class) Method(name string) (*Method, error) {
	c.load()
	for _, m := range c.methods {
		if strings.EqualFold(m.shortName, name) {
			return m, nil
		}
	}
	return nil, newError(CodeMethodNotFound, "method %s::%s() does not exist", c.name, name)
}

// Constructor returns __construct or, for classes outside a namespace, a
// PHP4-style method named after the class.
func (c *Class) Constructor() (*Method, error) {
	for _, m := range c.Methods() {
		if m.IsConstructor() {
			return m, nil
		}
	}
	return nil, newError(CodeMethodNotFound, "class %s has no constructor", c.name)
}

func (c *Class) String() string {
	c.load()
	var b strings.Builder
	if c.docComment != "" {
		b.WriteString(c.docComment)
		b.WriteString("\n")
	}

	label := "Class"
	switch c.kind {
	case KindInterface:
		label = "Interface"
	case KindTrait:
		label = "Trait"
	}
	fmt.Fprintf(&b, "%s [ <%s> ", label, UserExtension)
	if c.kind == KindClass {
		switch {
		case c.modifiers.Has(ModifierAbstract):
			b.WriteString("abstract ")
		case c.modifiers.Has(ModifierFinal):
			b.WriteString("final ")
		}
	}
	fmt.Fprintf(&b, "%s %s", c.kind, c.name)
	switch c.kind {
	case KindClass:
		if c.parent != "" {
			b.WriteString(" extends " + c.parent)
		}
		if len(c.interfaces) > 0 {
			b.WriteString(" implements " + strings.Join(c.interfaces, ", "))
		}
	case KindInterface:
		var extends []string
		if c.parent != "" {
			extends = append(extends, c.parent)
		}
		extends = append(extends, c.interfaces...)
		if len(extends) > 0 {
			b.WriteString(" extends " + strings.Join(extends, ", "))
		}
	}
	b.WriteString(" ] {\n")
	fmt.Fprintf(&b, "  @@ %s %d-%d\n", c.file, c.startLine, c.endLine)

	fmt.Fprintf(&b, "\n  - Constants [%d] {\n", len(c.constants))
	for _, k := range c.constants {
		fmt.Fprintf(&b, "    %s\n", k.String())
	}
	b.WriteString("  }\n")

	var staticProps, props []*Property
	for _, p := range c.properties {
		if p.IsStatic() {
			staticProps = append(staticProps, p)
		} else {
			props = append(props, p)
		}
	}
	var staticMethods, methods []*Method
	for _, m := range c.methods {
		if m.IsStatic() {
			staticMethods = append(staticMethods, m)
		} else {
			methods = append(methods, m)
		}
	}

	writeProperties(&b, "Static properties", staticProps)
	writeMethods(&b, "Static methods", staticMethods)
	writeProperties(&b, "Properties", props)
	writeMethods(&b, "Methods", methods)
	b.WriteString("}\n")
	return b.String()
}

func writeProperties(b *strings.Builder, title string, props []*Property) {
	fmt.Fprintf(b, "\n  - %s [%d] {\n", title, len(props))
	for _, p := range props {
		fmt.Fprintf(b, "    %s\n", p.String())
	}
	b.WriteString("  }\n")
}

func writeMethods(b *strings.Builder, title string, methods []*Method) {
	fmt.Fprintf(b, "\n  - %s [%d] {\n", title, len(methods))
	for i, m := range methods {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent(m.String(), "    "))
	}
	b.WriteString("  }\n")
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			b.WriteString(prefix)
		}
		b.WriteString(l)
	}
	return b.String()
}
