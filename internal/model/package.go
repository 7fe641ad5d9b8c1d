package model

import (
	"fmt"
	"strings"
)

// Package is a namespace and everything attributed to it. Collections are
// append-only and keep discovery order.
type Package struct {
	name       string
	file       string
	docComment string
	startLine  int
	endLine    int
	alias      string
	isImport   bool
	calls      int

	classes      collection[*Class]
	interfaces   collection[*Class]
	traits       collection[*Class]
	functions    collection[*Function]
	constants    collection[*Constant]
	includes     collection[*Include]
	dependencies collection[*Dependency]
	uses         collection[*Use]
	globals      collection[*Global]
}

func newPackage(name string) *Package {
	return &Package{name: name}
}

// merge folds attrs into the package without overwriting what is known.
func (p *Package) merge(attrs PackageAttrs) {
	if p.file == "" {
		p.file = attrs.File
	}
	if p.docComment == "" {
		p.docComment = attrs.DocComment
	}
	if p.alias == "" {
		p.alias = attrs.Alias
	}
	p.isImport = p.isImport || attrs.Import
	if attrs.StartLine > 0 && (p.startLine == 0 || attrs.StartLine < p.startLine) {
		p.startLine = attrs.StartLine
	}
	if attrs.EndLine > p.endLine {
		p.endLine = attrs.EndLine
	}
}

func (p *Package) Name() string       { return p.name }
func (p *Package) FileName() string   { return p.file }
func (p *Package) DocComment() string { return p.docComment }
func (p *Package) StartLine() int     { return p.startLine }
func (p *Package) EndLine() int       { return p.endLine }
func (p *Package) Alias() string      { return p.alias }
func (p *Package) IsImport() bool     { return p.isImport }
func (p *Package) Calls() int         { return p.calls }

// IsGlobal reports whether this is the package for code outside any
// namespace.
func (p *Package) IsGlobal() bool { return p.name == GlobalNamespace }

func (p *Package) Classes() []*Class           { return p.classes.list() }
func (p *Package) Interfaces() []*Class        { return p.interfaces.list() }
func (p *Package) Traits() []*Class            { return p.traits.list() }
func (p *Package) Functions() []*Function      { return p.functions.list() }
func (p *Package) Constants() []*Constant      { return p.constants.list() }
func (p *Package) Includes() []*Include        { return p.includes.list() }
func (p *Package) Dependencies() []*Dependency { return p.dependencies.list() }
func (p *Package) Uses() []*Use                { return p.uses.list() }
func (p *Package) Globals() []*Global          { return p.globals.list() }

// ResolveAlias returns the qualified class name imported under alias, if
// any.
func (p *Package) ResolveAlias(alias string) (string, bool) {
	for _, u := range p.uses.items {
		if u.kind == UseClass && strings.EqualFold(u.alias, alias) {
			return u.name, true
		}
	}
	return "", false
}

func (p *Package) String() string {
	var b strings.Builder
	if p.docComment != "" {
		b.WriteString(p.docComment)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Package [ %s ] {\n", p.name)
	if p.file != "" {
		fmt.Fprintf(&b, "  @@ %s %d - %d\n", p.file, p.startLine, p.endLine)
	}

	section := func(title string, entries []string) {
		fmt.Fprintf(&b, "\n  - %s [%d] {\n", title, len(entries))
		for _, n := range entries {
			fmt.Fprintf(&b, "    %s\n", n)
		}
		b.WriteString("  }\n")
	}
	section("Uses", names(p.uses.items, func(u *Use) string { return u.String() }))
	section("Constants", names(p.constants.items, (*Constant).Name))
	section("Functions", names(p.functions.items, (*Function).Name))
	section("Classes", names(p.classes.items, (*Class).Name))
	section("Interfaces", names(p.interfaces.items, (*Class).Name))
	section("Traits", names(p.traits.items, (*Class).Name))
	section("Includes", names(p.includes.items, func(i *Include) string { return i.Kind().String() + " " + i.Name() }))
	section("Globals", names(p.globals.items, func(g *Global) string { return g.String() }))
	section("Dependencies", names(p.dependencies.items, func(d *Dependency) string {
		return fmt.Sprintf("%s [%d]", d.Name(), d.Calls())
	}))
	b.WriteString("}\n")
	return b.String()
}

// collection is an insertion-ordered set keyed by identity.
type collection[T any] struct {
	index map[string]int
	items []T
}

// add appends v under key unless key is already present.
func (c *collection[T]) add(key string, v T) bool {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[key]; ok {
		return false
	}
	c.index[key] = len(c.items)
	c.items = append(c.items, v)
	return true
}

func (c *collection[T]) get(key string) (T, bool) {
	var zero T
	i, ok := c.index[key]
	if !ok {
		return zero, false
	}
	return c.items[i], true
}

func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func names[T any](items []T, fn func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
