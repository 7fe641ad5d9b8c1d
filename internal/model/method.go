package model

import (
	"fmt"
	"strings"
)

// Method is a function declared in a class body. Its qualified name is
// "Class::method"; the declaring class owns it.
type Method struct {
	*Function
	class     *Class
	modifiers Modifier
}

func newMethod(c *Class, attrs MethodAttrs) *Method {
	fa := attrs.FunctionAttrs
	fa.Namespace = c.namespace
	if fa.File == "" {
		fa.File = c.file
	}
	mods := attrs.Modifiers
	if mods&(ModifierPublic|ModifierProtected|ModifierPrivate) == 0 {
		mods |= ModifierImplicitPublic
	}
	if c.kind == KindInterface {
		mods |= ModifierAbstract
	}
	return &Method{
		Function:  newFunction(c.name+"::"+attrs.Name, fa),
		class:     c,
		modifiers: mods,
	}
}

// DeclaringClass returns the owning class.
func (m *Method) DeclaringClass() *Class { return m.class }
func (m *Method) Modifiers() Modifier    { return m.modifiers }

func (m *Method) IsAbstract() bool  { return m.modifiers.Has(ModifierAbstract) }
func (m *Method) IsFinal() bool     { return m.modifiers.Has(ModifierFinal) }
func (m *Method) IsStatic() bool    { return m.modifiers.Has(ModifierStatic) }
func (m *Method) IsPrivate() bool   { return m.modifiers.Has(ModifierPrivate) }
func (m *Method) IsProtected() bool { return m.modifiers.Has(ModifierProtected) }
func (m *Method) IsPublic() bool    { return !m.IsPrivate() && !m.IsProtected() }

// IsImplicitlyPublic reports a method declared without a visibility keyword.
func (m *Method) IsImplicitlyPublic() bool {
	return m.modifiers.Has(ModifierImplicitPublic)
}

func (m *Method) IsConstructor() bool {
	if strings.EqualFold(m.shortName, "__construct") {
		return true
	}
	return m.class.kind == KindClass && !m.class.InNamespace() &&
		strings.EqualFold(m.shortName, m.class.shortName)
}

func (m *Method) IsDestructor() bool {
	return strings.EqualFold(m.shortName, "__destruct")
}

func (m *Method) String() string {
	var b strings.Builder
	if m.docComment != "" {
		b.WriteString(m.docComment)
		b.WriteString("\n")
	}
	tags := m.extension
	switch {
	case m.IsConstructor():
		tags += ", ctor"
	case m.IsDestructor():
		tags += ", dtor"
	}
	b.WriteString("Method [ <" + tags + "> ")
	if m.IsAbstract() {
		b.WriteString("abstract ")
	}
	if m.IsFinal() {
		b.WriteString("final ")
	}
	if m.IsStatic() {
		b.WriteString("static ")
	}
	fmt.Fprintf(&b, "%s method %s ] {\n", m.modifiers.Visibility(), m.shortName)
	fmt.Fprintf(&b, "  @@ %s %d - %d\n", m.file, m.startLine, m.endLine)
	writeParameters(&b, m.params)
	writeReturnType(&b, m.returnType)
	b.WriteString("}\n")
	return b.String()
}

// Property is a declared class property.
type Property struct {
	name         string
	class        *Class
	modifiers    Modifier
	typeHint     string
	hasDefault   bool
	defaultValue string
	docComment   string
	line         int
}

func newProperty(c *Class, attrs PropertyAttrs) *Property {
	mods := attrs.Modifiers
	if mods&(ModifierPublic|ModifierProtected|ModifierPrivate) == 0 {
		mods |= ModifierImplicitPublic
	}
	return &Property{
		name:         strings.TrimPrefix(attrs.Name, "$"),
		class:        c,
		modifiers:    mods,
		typeHint:     attrs.TypeHint,
		hasDefault:   attrs.HasDefault,
		defaultValue: attrs.DefaultValue,
		docComment:   attrs.DocComment,
		line:         attrs.Line,
	}
}

// Name returns the property name without "$".
func (p *Property) Name() string           { return p.name }
func (p *Property) DeclaringClass() *Class { return p.class }
func (p *Property) Modifiers() Modifier    { return p.modifiers }
func (p *Property) TypeHint() string       { return p.typeHint }
func (p *Property) DocComment() string     { return p.docComment }
func (p *Property) Line() int              { return p.line }
func (p *Property) HasDefaultValue() bool  { return p.hasDefault }
func (p *Property) DefaultValue() string   { return p.defaultValue }
func (p *Property) IsStatic() bool         { return p.modifiers.Has(ModifierStatic) }
func (p *Property) IsReadOnly() bool       { return p.modifiers.Has(ModifierReadonly) }
func (p *Property) IsPrivate() bool        { return p.modifiers.Has(ModifierPrivate) }
func (p *Property) IsProtected() bool      { return p.modifiers.Has(ModifierProtected) }
func (p *Property) IsPublic() bool         { return !p.IsPrivate() && !p.IsProtected() }

func (p *Property) IsImplicitlyPublic() bool {
	return p.modifiers.Has(ModifierImplicitPublic)
}

// IsDefault reports a property declared in the class body, as opposed to
// one created at runtime. Every extracted property is declared.
func (p *Property) IsDefault() bool { return true }

func (p *Property) String() string {
	var b strings.Builder
	b.WriteString("Property [ ")
	b.WriteString(p.modifiers.Visibility() + " ")
	if p.IsStatic() {
		b.WriteString("static ")
	}
	if p.IsReadOnly() {
		b.WriteString("readonly ")
	}
	if p.typeHint != "" {
		b.WriteString(p.typeHint + " ")
	}
	b.WriteString("$" + p.name)
	if p.hasDefault {
		b.WriteString(" = " + p.defaultValue)
	}
	b.WriteString(" ]")
	return b.String()
}
