package graph

import (
	"testing"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Graph:
// - use imports and user dependencies become package edges; internal
//   calls and self/static/parent references do not
// - Dependencies and Dependents are sorted reverse indexes
// - Order lists dependencies before dependents and fails on cycles
// - Cycles reports each strongly connected set of packages once
// - Class headers resolve against declared classes; the rest are external
// - Ancestors follows extends edges; Implementors reverses implements edges

func layeredRegistry() *model.Registry {
	reg := model.NewRegistry()
	for _, ns := range []string{`App\A`, `App\B`, `App\C`} {
		reg.BuildPackage(ns, model.PackageAttrs{File: "src.php", StartLine: 1})
	}
	reg.AddUse(`App\A`, model.UseAttrs{Name: `App\B\Service`, Line: 3})
	reg.BuildDependency(`App\C\Repo::find`, model.DependencyAttrs{Namespace: `App\B`, File: "b.php", StartLine: 7})
	reg.BuildDependency("strlen", model.DependencyAttrs{Namespace: `App\C`, Internal: true, Hash: "h"})
	reg.BuildDependency("self::boot", model.DependencyAttrs{Namespace: `App\C`})
	return reg
}

func TestGraph_PackageDependencies(t *testing.T) {
	t.Parallel()

	g, err := Build(layeredRegistry())
	require.NoError(t, err)

	assert.Equal(t, []string{`App\B`}, g.Dependencies(`App\A`))
	assert.Equal(t, []string{`App\C`}, g.Dependencies(`App\B`))
	assert.Empty(t, g.Dependencies(`App\C`))
	assert.Equal(t, []string{`App\B`}, g.Dependents(`App\C`))

	edges := g.Data().Edges
	require.Len(t, edges, 2)
	assert.Equal(t, Edge{From: `App\A`, To: `App\B`, Type: EdgeImports, Location: &Location{File: "src.php", Line: 3}}, edges[0])
	assert.Equal(t, EdgeDepends, edges[1].Type)
	assert.Equal(t, 7, edges[1].Location.Line)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{`App\C`, `App\B`, `App\A`}, order)

	cycles, err := g.Cycles()
	require.NoError(t, err)
	assert.Empty(t, cycles)
}

func TestGraph_Cycles(t *testing.T) {
	t.Parallel()

	reg := layeredRegistry()
	reg.BuildDependency(`App\A\boot`, model.DependencyAttrs{Namespace: `App\C`, File: "c.php", StartLine: 2})
	reg.BuildPackage("Other", model.PackageAttrs{})

	g, err := Build(reg)
	require.NoError(t, err)

	cycles, err := g.Cycles()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{`App\A`, `App\B`, `App\C`}}, cycles)

	_, err = g.Order()
	assert.Error(t, err)
}

func TestGraph_ClassHierarchy(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	reg.BuildClass(`App\Base`, model.ClassAttrs{Kind: model.KindClass, Namespace: "App", Parent: `Vendor\Root`})
	reg.BuildClass(`App\Child`, model.ClassAttrs{Kind: model.KindClass, Namespace: "App", Parent: "Base", Interfaces: []string{"Countable"}})
	reg.BuildClass(`App\Contract`, model.ClassAttrs{Kind: model.KindInterface, Namespace: "App"})
	reg.BuildClass(`App\Impl`, model.ClassAttrs{Kind: model.KindClass, Namespace: "App", Interfaces: []string{"Contract"}})

	g, err := Build(reg)
	require.NoError(t, err)

	ancestors, err := g.Ancestors(`App\Child`)
	require.NoError(t, err)
	assert.Equal(t, []string{`App\Base`, `Vendor\Root`}, ancestors)

	assert.Equal(t, []string{`App\Child`}, g.Implementors("Countable"))
	assert.Equal(t, []string{`App\Impl`}, g.Implementors(`App\Contract`))

	root, ok := g.Node(`Vendor\Root`)
	require.True(t, ok)
	assert.Equal(t, NodeExternal, root.Kind)

	child, ok := g.Node(`App\Child`)
	require.True(t, ok)
	assert.Equal(t, NodeClass, child.Kind)
	assert.Equal(t, "App", child.Package)
}

func TestGraph_AliasResolution(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	reg.AddUse("App", model.UseAttrs{Name: `Lib\Model`, Alias: "BaseModel"})
	reg.BuildClass(`App\User`, model.ClassAttrs{Kind: model.KindClass, Namespace: "App", Parent: "BaseModel"})

	g, err := Build(reg)
	require.NoError(t, err)

	ancestors, err := g.Ancestors(`App\User`)
	require.NoError(t, err)
	assert.Equal(t, []string{`Lib\Model`}, ancestors)
}

func TestGraph_Empty(t *testing.T) {
	t.Parallel()

	g, err := Build(model.NewRegistry())
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Empty(t, order)
	assert.Empty(t, g.Data().Nodes)
}
