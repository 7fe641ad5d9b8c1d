package graph

import (
	"sort"
	"strings"

	"github.com/mvp-joe/php-reflect/internal/model"
)

// FromRegistry flattens the declarations and references of a registry
// into nodes and edges. Only user code produces edges: internal
// function calls and self/static/parent references are left out.
func FromRegistry(reg *model.Registry) *GraphData {
	b := &builder{reg: reg, nodes: make(map[string]Node), edges: make(map[edgeKey]Edge)}

	for name, pkg := range reg.Packages() {
		b.nodes[name] = Node{
			ID:        name,
			Kind:      NodePackage,
			Package:   name,
			File:      pkg.FileName(),
			StartLine: pkg.StartLine(),
			EndLine:   pkg.EndLine(),
		}
	}
	b.addClasses(reg.Classes(), NodeClass)
	b.addClasses(reg.Interfaces(), NodeInterface)
	b.addClasses(reg.Traits(), NodeTrait)
	for name, fn := range reg.Functions() {
		if fn.IsClosure() {
			continue
		}
		b.nodes[name] = Node{
			ID:        name,
			Kind:      NodeFunction,
			Package:   fn.NamespaceName(),
			File:      fn.FileName(),
			StartLine: fn.StartLine(),
			EndLine:   fn.EndLine(),
		}
	}

	for name, pkg := range reg.Packages() {
		for _, u := range pkg.Uses() {
			b.link(name, namespaceOf(u.Name()), EdgeImports, pkg.FileName(), u.Line())
		}
	}
	for _, d := range reg.Dependencies() {
		if d.IsInternal() {
			continue
		}
		target, _, _ := strings.Cut(d.Name(), "::")
		if isRelative(target) {
			continue
		}
		b.link(d.NamespaceName(), namespaceOf(target), EdgeDepends, d.FileName(), d.StartLine())
	}

	return b.data()
}

type edgeKey struct {
	from, to string
	typ      EdgeType
}

type builder struct {
	reg   *model.Registry
	nodes map[string]Node
	edges map[edgeKey]Edge
}

func (b *builder) addClasses(classes map[string]*model.Class, kind NodeKind) {
	for name, c := range classes {
		b.nodes[name] = Node{
			ID:        name,
			Kind:      kind,
			Package:   c.NamespaceName(),
			File:      c.FileName(),
			StartLine: c.StartLine(),
			EndLine:   c.EndLine(),
		}
	}
	for name, c := range classes {
		if p := c.ParentClassName(); p != "" {
			b.link(name, b.resolve(c.NamespaceName(), p), EdgeExtends, c.FileName(), c.StartLine())
		}
		for _, iface := range c.InterfaceNames() {
			b.link(name, b.resolve(c.NamespaceName(), iface), EdgeImplements, c.FileName(), c.StartLine())
		}
	}
}

// resolve maps a class name as written in a declaration header to a
// declared class when one matches: as is, through a use alias of the
// namespace, or relative to the namespace. Unmatched names stay as written.
func (b *builder) resolve(ns, name string) string {
	if _, ok := b.reg.Class(name); ok {
		return name
	}
	if pkg, ok := b.reg.Package(ns); ok {
		first, rest, qualified := strings.Cut(name, `\`)
		if full, ok := pkg.ResolveAlias(first); ok {
			if qualified {
				return full + `\` + rest
			}
			return full
		}
	}
	if ns != model.GlobalNamespace {
		if _, ok := b.reg.Class(ns + `\` + name); ok {
			return ns + `\` + name
		}
	}
	return name
}

// link records an edge and, when the target is not declared, an external
// node for it. Self edges are dropped; the first location of an edge wins.
func (b *builder) link(from, to string, typ EdgeType, file string, line int) {
	if from == "" {
		from = model.GlobalNamespace
	}
	if from == to {
		return
	}
	key := edgeKey{from: from, to: to, typ: typ}
	if _, ok := b.edges[key]; ok {
		return
	}
	b.edges[key] = Edge{From: from, To: to, Type: typ, Location: &Location{File: file, Line: line}}
	if _, ok := b.nodes[to]; !ok {
		pkg := to
		if !typ.IsPackageEdge() {
			pkg = namespaceOf(to)
		}
		b.nodes[to] = Node{ID: to, Kind: NodeExternal, Package: pkg}
	}
}

// data returns nodes sorted by ID and edges sorted by endpoints.
func (b *builder) data() *GraphData {
	out := &GraphData{Nodes: []Node{}, Edges: []Edge{}}
	for _, n := range b.nodes {
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range b.edges {
		out.Edges = append(out.Edges, e)
	}
	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].ID < out.Nodes[j].ID })
	sort.Slice(out.Edges, func(i, j int) bool {
		a, c := out.Edges[i], out.Edges[j]
		if a.From != c.From {
			return a.From < c.From
		}
		if a.To != c.To {
			return a.To < c.To
		}
		return a.Type < c.Type
	})
	return out
}

// namespaceOf returns the namespace part of a qualified name.
func namespaceOf(name string) string {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[:i]
	}
	return model.GlobalNamespace
}

func isRelative(name string) bool {
	switch strings.ToLower(name) {
	case "self", "static", "parent":
		return true
	}
	return false
}
