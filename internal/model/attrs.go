package model

import "strings"

// GlobalNamespace is the package name used for code outside any namespace.
const GlobalNamespace = "+global"

// Modifier is a bit set of declaration modifiers.
type Modifier uint16

const (
	ModifierStatic Modifier = 1 << iota
	ModifierAbstract
	ModifierFinal
	ModifierPublic
	ModifierProtected
	ModifierPrivate
	ModifierReadonly
	// ModifierImplicitPublic marks PHP4-style members declared with `var`
	// or without any visibility keyword.
	ModifierImplicitPublic
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// Visibility returns "public", "protected" or "private". Members without an
// explicit keyword are public.
func (m Modifier) Visibility() string {
	switch {
	case m.Has(ModifierPrivate):
		return "private"
	case m.Has(ModifierProtected):
		return "protected"
	}
	return "public"
}

// ClassKind discriminates the unified class entity.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	}
	return "class"
}

// IncludeKind is one of the four include statements.
type IncludeKind int

const (
	IncludeInclude IncludeKind = iota
	IncludeIncludeOnce
	IncludeRequire
	IncludeRequireOnce
)

func (k IncludeKind) String() string {
	switch k {
	case IncludeIncludeOnce:
		return "include_once"
	case IncludeRequire:
		return "require"
	case IncludeRequireOnce:
		return "require_once"
	}
	return "include"
}

// ParseIncludeKind maps a keyword such as "require_once" to its kind.
func ParseIncludeKind(keyword string) (IncludeKind, bool) {
	switch keyword {
	case "include":
		return IncludeInclude, true
	case "include_once":
		return IncludeIncludeOnce, true
	case "require":
		return IncludeRequire, true
	case "require_once":
		return IncludeRequireOnce, true
	}
	return IncludeInclude, false
}

// UseKind tells what a `use` statement imports.
type UseKind int

const (
	UseClass UseKind = iota
	UseFunction
	UseConstant
)

func (k UseKind) String() string {
	switch k {
	case UseFunction:
		return "function"
	case UseConstant:
		return "const"
	}
	return "class"
}

// PackageAttrs are merged into a package every time it is built.
type PackageAttrs struct {
	File       string
	DocComment string
	StartLine  int
	EndLine    int
	Alias      string
	Import     bool
}

// ClassAttrs describe a class, interface or trait declaration.
type ClassAttrs struct {
	Kind       ClassKind
	Namespace  string
	File       string
	DocComment string
	StartLine  int
	EndLine    int
	Modifiers  Modifier
	Parent     string
	Interfaces []string
	// Members is consulted lazily, the first time a member accessor runs.
	Members MemberSource
}

// FunctionAttrs describe a function, closure or method.
type FunctionAttrs struct {
	Namespace        string
	File             string
	DocComment       string
	StartLine        int
	EndLine          int
	Closure          bool
	ReturnsReference bool
	ReturnType       string
	CCN              int
	Extension        string
	Parameters       []ParameterAttrs
}

// ParameterAttrs describe a single formal parameter.
type ParameterAttrs struct {
	Name         string
	TypeHint     string
	Nullable     bool
	ByRef        bool
	Variadic     bool
	HasDefault   bool
	DefaultValue string
}

// MethodAttrs describe a method inside a class body.
type MethodAttrs struct {
	Name      string
	Modifiers Modifier
	FunctionAttrs
}

// PropertyAttrs describe a declared property.
type PropertyAttrs struct {
	Name         string
	Modifiers    Modifier
	TypeHint     string
	HasDefault   bool
	DefaultValue string
	DocComment   string
	Line         int
}

// ConstantAttrs describe a global or class constant.
type ConstantAttrs struct {
	Name       string
	Namespace  string
	File       string
	DocComment string
	Line       int
	Value      string
	Magic      bool
	Modifiers  Modifier
}

// IncludeAttrs describe an include statement.
type IncludeAttrs struct {
	Kind       IncludeKind
	Namespace  string
	File       string
	DocComment string
	StartLine  int
	EndLine    int
}

// DependencyAttrs describe a single call site.
type DependencyAttrs struct {
	Namespace     string
	File          string
	StartLine     int
	EndLine       int
	Hash          string
	Internal      bool
	Conditional   bool
	Instantiation bool
	Arguments     []string
}

// UseAttrs describe an imported name.
type UseAttrs struct {
	Name  string
	Alias string
	Kind  UseKind
	Line  int
}

// GlobalAttrs describe a global or superglobal variable access.
type GlobalAttrs struct {
	Name  string
	Key   string
	Super bool
	Line  int
}

// Members is the full member list of a class body.
type Members struct {
	Constants  []ConstantAttrs
	Properties []PropertyAttrs
	Methods    []MethodAttrs
}

// MemberSource produces the members of a class body on demand. The token
// front end extracts lazily; the AST front end passes a ready Members value.
type MemberSource interface {
	Members() Members
}

// Members lets a ready member list act as its own source.
func (m Members) Members() Members { return m }

// Qualify prefixes name with namespace ns. Fully qualified names lose their
// leading separator; names in the global namespace are returned as is.
func Qualify(ns, name string) string {
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	if ns == "" || ns == GlobalNamespace {
		return name
	}
	return ns + `\` + name
}

// ResolveClass qualifies a class reference written inside namespace ns.
// uses maps lower-cased import aliases to qualified names. self, static and
// parent are kept as written.
func ResolveClass(ns string, uses map[string]string, name string) string {
	switch strings.ToLower(name) {
	case "self", "static", "parent":
		return name
	}
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	if strings.HasPrefix(strings.ToLower(name), `namespace\`) {
		return Qualify(ns, name[len(`namespace\`):])
	}
	first, rest, qualified := strings.Cut(name, `\`)
	if full, ok := uses[strings.ToLower(first)]; ok {
		if qualified {
			return full + `\` + rest
		}
		return full
	}
	return Qualify(ns, name)
}

func normalizeNamespace(ns string) string {
	if ns == "" {
		return GlobalNamespace
	}
	return ns
}
