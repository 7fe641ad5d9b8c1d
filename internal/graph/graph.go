// Package graph turns a model registry into package and type graphs:
// package dependencies with cycle detection and a dependency order, and
// the class hierarchy.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/php-reflect/internal/model"
)

// Graph answers dependency and hierarchy queries over GraphData.
type Graph struct {
	data *GraphData

	packages graph.Graph[string, *Node]
	types    graph.Graph[string, *Node]
	// packages with every edge reversed, for dependency-first ordering
	reversed graph.Graph[string, *Node]

	// Reverse indexes for O(1) lookups
	dependencies map[string][]string // package -> [packages it uses]
	dependents   map[string][]string // package -> [packages using it]
	implementors map[string][]string // interface -> [classes]
}

// Build flattens reg and loads the result.
func Build(reg *model.Registry) (*Graph, error) {
	return New(FromRegistry(reg))
}

// New loads flat graph data into in-memory graphs.
func New(data *GraphData) (*Graph, error) {
	g := &Graph{
		data:         data,
		packages:     graph.New(nodeID, graph.Directed()),
		types:        graph.New(nodeID, graph.Directed()),
		reversed:     graph.New(nodeID, graph.Directed()),
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		implementors: make(map[string][]string),
	}

	nodes := make(map[string]*Node, len(data.Nodes))
	for i := range data.Nodes {
		node := &data.Nodes[i]
		nodes[node.ID] = node
		var err error
		switch node.Kind {
		case NodePackage:
			if err = g.packages.AddVertex(node); err == nil {
				err = g.reversed.AddVertex(node)
			}
		case NodeClass, NodeInterface, NodeTrait:
			err = g.types.AddVertex(node)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", node.ID, err)
		}
	}

	for _, edge := range data.Edges {
		target := g.types
		if edge.Type.IsPackageEdge() {
			target = g.packages
		}
		if err := addEdge(target, nodes, edge.From, edge.To, edge.Type); err != nil {
			return nil, err
		}
		if edge.Type.IsPackageEdge() {
			if err := addEdge(g.reversed, nodes, edge.To, edge.From, edge.Type); err != nil {
				return nil, err
			}
		}

		switch edge.Type {
		case EdgeImports, EdgeDepends:
			g.dependencies[edge.From] = appendUnique(g.dependencies[edge.From], edge.To)
			g.dependents[edge.To] = appendUnique(g.dependents[edge.To], edge.From)
		case EdgeImplements:
			g.implementors[edge.To] = appendUnique(g.implementors[edge.To], edge.From)
		}
	}

	for _, index := range []map[string][]string{g.dependencies, g.dependents, g.implementors} {
		for _, ids := range index {
			sort.Strings(ids)
		}
	}
	return g, nil
}

func nodeID(n *Node) string { return n.ID }

// addEdge adds from -> to, creating external vertices for undeclared
// endpoints. Repeated vertices and edges are not errors.
func addEdge(g graph.Graph[string, *Node], nodes map[string]*Node, from, to string, typ EdgeType) error {
	for _, id := range []string{from, to} {
		node, ok := nodes[id]
		if !ok {
			node = &Node{ID: id, Kind: NodeExternal}
		}
		if err := g.AddVertex(node); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add node %s: %w", id, err)
		}
	}
	err := g.AddEdge(from, to, graph.EdgeAttribute("type", string(typ)))
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
	}
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Data returns the flat nodes and edges the graph was loaded from.
func (g *Graph) Data() *GraphData { return g.data }

// Node returns the node with the given ID from either graph.
func (g *Graph) Node(id string) (*Node, bool) {
	if n, err := g.packages.Vertex(id); err == nil {
		return n, true
	}
	if n, err := g.types.Vertex(id); err == nil {
		return n, true
	}
	return nil, false
}

// Dependencies lists the packages pkg imports from or calls into.
func (g *Graph) Dependencies(pkg string) []string { return g.dependencies[pkg] }

// Dependents lists the packages that import from or call into pkg.
func (g *Graph) Dependents(pkg string) []string { return g.dependents[pkg] }

// Implementors lists the classes declaring that they implement iface.
func (g *Graph) Implementors(iface string) []string { return g.implementors[iface] }

// Cycles returns every set of packages that depend on each other, each
// sorted, in order of their first member.
func (g *Graph) Cycles() ([][]string, error) {
	components, err := graph.StronglyConnectedComponents(g.packages)
	if err != nil {
		return nil, fmt.Errorf("failed to compute package cycles: %w", err)
	}
	var cycles [][]string
	for _, c := range components {
		if len(c) < 2 {
			continue
		}
		sort.Strings(c)
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}

// Order returns every package after the packages it depends on. Ties are
// broken by name. It fails when packages depend on each other.
func (g *Graph) Order() ([]string, error) {
	order, err := graph.StableTopologicalSort(g.reversed, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("failed to order packages: %w", err)
	}
	return order, nil
}

// Ancestors returns the parent chain of a class, nearest first. The chain
// stops at the first undeclared class or at a loop.
func (g *Graph) Ancestors(class string) ([]string, error) {
	adjacency, err := g.types.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read class hierarchy: %w", err)
	}

	var chain []string
	seen := map[string]bool{class: true}
	for current := class; ; {
		next := ""
		for target, edge := range adjacency[current] {
			if edge.Properties.Attributes["type"] == string(EdgeExtends) {
				next = target
				break
			}
		}
		if next == "" || seen[next] {
			return chain, nil
		}
		chain = append(chain, next)
		seen[next] = true
		current = next
	}
}
