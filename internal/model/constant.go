package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Constant is a global constant (const, define() or a magic constant) or a
// class constant. Only global constants live in the Registry.
type Constant struct {
	name       string
	shortName  string
	namespace  string
	class      string
	file       string
	docComment string
	line       int
	value      string
	magic      bool
	modifiers  Modifier
	calls      int
}

func newConstant(name string, attrs ConstantAttrs) *Constant {
	return &Constant{
		name:       name,
		shortName:  ShortName(name),
		namespace:  normalizeNamespace(attrs.Namespace),
		file:       attrs.File,
		docComment: attrs.DocComment,
		line:       attrs.Line,
		value:      attrs.Value,
		magic:      attrs.Magic,
		modifiers:  attrs.Modifiers,
	}
}

func (c *Constant) Name() string          { return c.name }
func (c *Constant) ShortName() string     { return c.shortName }
func (c *Constant) NamespaceName() string { return c.namespace }
func (c *Constant) FileName() string      { return c.file }
func (c *Constant) DocComment() string    { return c.docComment }
func (c *Constant) Line() int             { return c.line }
func (c *Constant) Calls() int            { return c.calls }

// Value returns the declared value exactly as written.
func (c *Constant) Value() string { return c.value }

// IsMagic reports whether this is one of the __X__ constants.
func (c *Constant) IsMagic() bool { return c.magic }

// IsScalar reports whether the value is a literal int, float, string, bool
// or null.
func (c *Constant) IsScalar() bool {
	switch valueType(c.value) {
	case "int", "float", "string", "bool", "null":
		return true
	}
	return false
}

// DeclaringClass returns the owning class name for class constants, or "".
func (c *Constant) DeclaringClass() string { return c.class }
func (c *Constant) Modifiers() Modifier    { return c.modifiers }
func (c *Constant) Visibility() string     { return c.modifiers.Visibility() }

func (c *Constant) String() string {
	var b strings.Builder
	b.WriteString("Constant [ ")
	if c.class != "" {
		b.WriteString(c.modifiers.Visibility() + " ")
	}
	name := c.name
	if c.class != "" {
		name = c.shortName
	}
	fmt.Fprintf(&b, "%s %s ] { %s }", valueType(c.value), name, displayValue(c.value))
	return b.String()
}

// valueType guesses the type of a literal expression.
func valueType(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	switch {
	case v == "":
		return "null"
	case lower == "null":
		return "null"
	case lower == "true" || lower == "false":
		return "bool"
	case isQuoted(v):
		return "string"
	case strings.HasPrefix(v, "[") || strings.HasPrefix(lower, "array("):
		return "array"
	}
	n := strings.ReplaceAll(strings.TrimPrefix(v, "-"), "_", "")
	if _, err := strconv.ParseInt(n, 0, 64); err == nil {
		return "int"
	}
	if _, err := strconv.ParseFloat(n, 64); err == nil {
		return "float"
	}
	return "mixed"
}

func displayValue(v string) string {
	v = strings.TrimSpace(v)
	if isQuoted(v) {
		return v[1 : len(v)-1]
	}
	return v
}

func isQuoted(v string) bool {
	if len(v) < 2 {
		return false
	}
	q := v[0]
	return (q == '\'' || q == '"') && v[len(v)-1] == q
}
