package model

import (
	"fmt"
	"strings"
)

// UserExtension is the extension name reported for code found in the
// analyzed sources.
const UserExtension = "user"

// Function is a function or closure declared in user code.
type Function struct {
	name       string
	shortName  string
	namespace  string
	file       string
	docComment string
	startLine  int
	endLine    int
	closure    bool
	byRef      bool
	returnType string
	ccn        int
	extension  string
	calls      int
	params     []*Parameter
}

func newFunction(name string, attrs FunctionAttrs) *Function {
	f := &Function{
		name:       name,
		shortName:  ShortName(name),
		namespace:  normalizeNamespace(attrs.Namespace),
		file:       attrs.File,
		docComment: attrs.DocComment,
		startLine:  attrs.StartLine,
		endLine:    attrs.EndLine,
		closure:    attrs.Closure,
		byRef:      attrs.ReturnsReference,
		returnType: attrs.ReturnType,
		ccn:        attrs.CCN,
		extension:  attrs.Extension,
	}
	if f.ccn < 1 {
		f.ccn = 1
	}
	if f.extension == "" {
		f.extension = UserExtension
	}
	f.params = buildParameters(name, attrs.Parameters)
	return f
}

// Name returns the qualified name, e.g. "App\Util\slugify".
func (f *Function) Name() string          { return f.name }
func (f *Function) ShortName() string     { return f.shortName }
func (f *Function) NamespaceName() string { return f.namespace }
func (f *Function) InNamespace() bool     { return f.namespace != GlobalNamespace }
func (f *Function) FileName() string      { return f.file }
func (f *Function) DocComment() string    { return f.docComment }
func (f *Function) StartLine() int        { return f.startLine }
func (f *Function) EndLine() int          { return f.endLine }
func (f *Function) IsClosure() bool       { return f.closure }
func (f *Function) ReturnsReference() bool {
	return f.byRef
}
func (f *Function) ReturnType() string { return f.returnType }

// CCN returns the cyclomatic complexity; it is never below 1.
func (f *Function) CCN() int   { return f.ccn }
func (f *Function) Calls() int { return f.calls }

func (f *Function) ExtensionName() string { return f.extension }
func (f *Function) IsInternal() bool      { return f.extension != UserExtension }
func (f *Function) IsUserDefined() bool   { return f.extension == UserExtension }

// Extension returns the runtime extension defining the function. User code
// has none.
func (f *Function) Extension() (string, error) {
	if f.IsUserDefined() {
		return "", newError(CodeExtensionNotFound, "function %s does not belong to an extension", f.name)
	}
	return f.extension, nil
}

func (f *Function) Parameters() []*Parameter {
	out := make([]*Parameter, len(f.params))
	copy(out, f.params)
	return out
}

func (f *Function) NumberOfParameters() int { return len(f.params) }

// NumberOfRequiredParameters counts parameters up to and including the
// last required one.
func (f *Function) NumberOfRequiredParameters() int {
	return requiredCount(f.params)
}

func (f *Function) String() string {
	var b strings.Builder
	if f.docComment != "" {
		b.WriteString(f.docComment)
		b.WriteString("\n")
	}
	label, what := "Function", "function "+f.name
	if f.closure {
		label, what = "Closure", "function {closure}"
	}
	fmt.Fprintf(&b, "%s [ <%s> %s ] {\n", label, f.extension, what)
	fmt.Fprintf(&b, "  @@ %s %d - %d\n", f.file, f.startLine, f.endLine)
	writeParameters(&b, f.params)
	writeReturnType(&b, f.returnType)
	b.WriteString("}\n")
	return b.String()
}

func writeParameters(b *strings.Builder, params []*Parameter) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  - Parameters [%d] {\n", len(params))
	for _, p := range params {
		fmt.Fprintf(b, "    %s\n", p.String())
	}
	b.WriteString("  }\n")
}

func writeReturnType(b *strings.Builder, returnType string) {
	if returnType == "" {
		return
	}
	fmt.Fprintf(b, "  - Return [ %s ]\n", returnType)
}

func requiredCount(params []*Parameter) int {
	n := 0
	for i, p := range params {
		if !p.IsOptional() {
			n = i + 1
		}
	}
	return n
}

// ShortName returns the last segment of a qualified name, after "::" or
// the last namespace separator.
func ShortName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Parameter is a formal parameter identified by its position.
type Parameter struct {
	function     string
	position     int
	name         string
	typeHint     string
	nullable     bool
	byRef        bool
	variadic     bool
	hasDefault   bool
	defaultValue string
	optional     bool
}

func buildParameters(function string, attrs []ParameterAttrs) []*Parameter {
	params := make([]*Parameter, 0, len(attrs))
	for i, a := range attrs {
		params = append(params, &Parameter{
			function:     function,
			position:     i,
			name:         strings.TrimPrefix(a.Name, "$"),
			typeHint:     a.TypeHint,
			nullable:     a.Nullable,
			byRef:        a.ByRef,
			variadic:     a.Variadic,
			hasDefault:   a.HasDefault,
			defaultValue: a.DefaultValue,
		})
	}
	// A parameter with a default that precedes a required one is still
	// required.
	optional := true
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		if !p.hasDefault && !p.variadic {
			optional = false
		}
		p.optional = optional && (p.hasDefault || p.variadic)
	}
	return params
}

// DeclaringFunction returns the qualified name of the owning function or
// method.
func (p *Parameter) DeclaringFunction() string { return p.function }
func (p *Parameter) Position() int             { return p.position }

// Name returns the parameter name without the leading "$".
func (p *Parameter) Name() string              { return p.name }
func (p *Parameter) TypeHint() string          { return p.typeHint }
func (p *Parameter) IsNullable() bool          { return p.nullable }
func (p *Parameter) IsPassedByReference() bool { return p.byRef }
func (p *Parameter) IsVariadic() bool          { return p.variadic }
func (p *Parameter) IsOptional() bool          { return p.optional }

func (p *Parameter) IsDefaultValueAvailable() bool {
	return p.hasDefault
}

// AllowsNull is true when there is no type hint, the hint is nullable, or
// the default value is NULL.
func (p *Parameter) AllowsNull() bool {
	if p.typeHint == "" || p.nullable {
		return true
	}
	if strings.EqualFold(p.typeHint, "mixed") || strings.EqualFold(p.typeHint, "null") {
		return true
	}
	return p.hasDefault && strings.EqualFold(p.defaultValue, "null")
}

func (p *Parameter) IsArray() bool    { return strings.EqualFold(p.typeHint, "array") }
func (p *Parameter) IsCallable() bool { return strings.EqualFold(p.typeHint, "callable") }

// DefaultValue returns the raw default expression.
func (p *Parameter) DefaultValue() (string, error) {
	if !p.hasDefault {
		return "", newError(CodeNoDefaultValue, "parameter $%s of %s has no default value", p.name, p.function)
	}
	return p.defaultValue, nil
}

func (p *Parameter) String() string {
	req := "required"
	if p.optional {
		req = "optional"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Parameter #%d [ <%s> ", p.position, req)
	if p.typeHint != "" {
		switch {
		case p.nullable:
			b.WriteString("?" + p.typeHint + " ")
		case p.AllowsNull() && !strings.EqualFold(p.typeHint, "mixed"):
			b.WriteString(p.typeHint + " or NULL ")
		default:
			b.WriteString(p.typeHint + " ")
		}
	}
	if p.byRef {
		b.WriteString("&")
	}
	if p.variadic {
		b.WriteString("...")
	}
	b.WriteString("$" + p.name)
	if p.hasDefault {
		b.WriteString(" = " + p.defaultValue)
	}
	b.WriteString(" ]")
	return b.String()
}
