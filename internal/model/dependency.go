package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Dependency is a reference from analyzed code to a function, method or
// class. Identity is the name plus a content hash so distinct call sites of
// the same internal function stay apart.
type Dependency struct {
	name          string
	hash          string
	namespace     string
	file          string
	startLine     int
	endLine       int
	internal      bool
	conditional   bool
	instantiation bool
	arguments     []string
	calls         int
}

func newDependency(name string, attrs DependencyAttrs) *Dependency {
	return &Dependency{
		name:          name,
		hash:          attrs.Hash,
		namespace:     normalizeNamespace(attrs.Namespace),
		file:          attrs.File,
		startLine:     attrs.StartLine,
		endLine:       attrs.EndLine,
		internal:      attrs.Internal,
		conditional:   attrs.Conditional,
		instantiation: attrs.Instantiation,
		arguments:     append([]string(nil), attrs.Arguments...),
	}
}

// CallSiteHash fingerprints a call site so identical internal calls at
// different places register as distinct dependencies.
func CallSiteHash(startLine, endLine int, file string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d,%d,%s", startLine, endLine, file)))
	return hex.EncodeToString(sum[:])
}

// DependencyKey returns the registry key for a dependency identity.
func DependencyKey(name, hash string) string {
	if hash == "" {
		return name
	}
	return name + "#" + hash
}

func (d *Dependency) Name() string          { return d.name }
func (d *Dependency) Hash() string          { return d.hash }
func (d *Dependency) Key() string           { return DependencyKey(d.name, d.hash) }
func (d *Dependency) NamespaceName() string { return d.namespace }
func (d *Dependency) FileName() string      { return d.file }
func (d *Dependency) StartLine() int        { return d.startLine }
func (d *Dependency) EndLine() int          { return d.endLine }
func (d *Dependency) Calls() int            { return d.calls }

// IsInternal reports a call to a function not declared in user code.
func (d *Dependency) IsInternal() bool { return d.internal }

// IsConditional reports a call guarded by function_exists().
func (d *Dependency) IsConditional() bool { return d.conditional }

// IsClassInstantiation reports a `new X` expression.
func (d *Dependency) IsClassInstantiation() bool { return d.instantiation }

func (d *Dependency) Arguments() []string {
	return append([]string(nil), d.arguments...)
}

// Extension reports which runtime extension provides an internal function.
// Extension metadata is never loaded during static analysis.
func (d *Dependency) Extension() (string, error) {
	if !d.internal {
		return "", newError(CodeExtensionNotFound, "%s is not provided by an extension", d.name)
	}
	return "", newError(CodeExtensionNotLoaded, "extension metadata for %s is not loaded", d.name)
}

func (d *Dependency) String() string {
	var b strings.Builder
	tags := UserExtension
	if d.internal {
		tags = "internal"
	}
	if d.conditional {
		tags += ", conditional"
	}
	if d.instantiation {
		tags += ", new"
	}
	fmt.Fprintf(&b, "Dependency [ <%s> %s ] [%d] {\n", tags, d.name, d.calls)
	fmt.Fprintf(&b, "  @@ %s %d - %d\n", d.file, d.startLine, d.endLine)
	if len(d.arguments) > 0 {
		fmt.Fprintf(&b, "\n  - Arguments [%d] {\n", len(d.arguments))
		for i, a := range d.arguments {
			fmt.Fprintf(&b, "    Argument #%d [ %s ]\n", i, a)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String()
}
