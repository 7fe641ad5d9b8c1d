package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/php-reflect/internal/lexer"
	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parser:
// - `namespace;` followed by a class registers the class in +global
// - Namespaces, uses and namespace constants land in their package
// - Classes, interfaces and traits carry parents, interfaces and members
// - Methods are never registered as plain functions
// - Closures get a line-qualified name
// - Instantiations and static calls resolve through use aliases
// - Calls to user functions are user dependencies; others are internal
//   and keyed per call site
// - function_exists guards mark the guarded call conditional
// - define() registers a constant; magic constants are recorded
// - global and superglobal variables are recorded on the package
// - The four include kinds are recognized
// - Reparsing the same file only bumps call counts

func parseFixture(t *testing.T, reg *model.Registry, name string) string {
	t.Helper()
	path := filepath.Join("..", "..", "testdata", "php", name)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	return parseSource(t, reg, path, string(src))
}

func parseSource(t *testing.T, reg *model.Registry, file, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src))
	require.NoError(t, err)
	require.NoError(t, NewParser(reg).Parse(file, toks))
	return file
}

func TestParse_NamespaceWithoutName(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseFixture(t, reg, "namespace_without_name.php")

	pkg, ok := reg.Package(model.GlobalNamespace)
	require.True(t, ok)
	require.Len(t, pkg.Classes(), 1)
	assert.Equal(t, "MyGlobalClass", pkg.Classes()[0].Name())
	assert.Contains(t, reg.Classes(), "MyGlobalClass")
	assert.Len(t, reg.Packages(), 1)
}

func TestParse_StdClassDefault(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseFixture(t, reg, "parameters.php")

	fn, ok := reg.Function("foo")
	require.True(t, ok)
	params := fn.Parameters()
	require.Len(t, params, 4)
	assert.Equal(t, "Parameter #0 [ <optional> stdClass or NULL $param = NULL ]", params[0].String())
	assert.True(t, params[1].IsPassedByReference())
	assert.True(t, params[1].IsArray())
	assert.True(t, params[2].AllowsNull())
	assert.True(t, params[3].IsVariadic())
	assert.Equal(t, 0, fn.NumberOfRequiredParameters())
}

func TestParse_Includes(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseFixture(t, reg, "includes.php")

	includes := reg.Includes()
	require.Len(t, includes, 4)
	assert.True(t, includes["a.php"].IsInclude())
	assert.True(t, includes["b.php"].IsIncludeOnce())
	assert.True(t, includes["$dir/c.php"].IsRequire())
	assert.True(t, includes["d.php"].IsRequireOnce())
	assert.Equal(t, 5, includes["d.php"].StartLine())
}

func TestParse_Namespaces(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseFixture(t, reg, "namespaces.php")

	assert.Contains(t, reg.Functions(), `First\one`)
	assert.Contains(t, reg.Functions(), `Second\two`)
	assert.Contains(t, reg.Functions(), "three")

	first, ok := reg.Package("First")
	require.True(t, ok)
	assert.Equal(t, 2, first.StartLine())
	assert.Equal(t, 4, first.EndLine())

	global, ok := reg.Package("")
	require.True(t, ok)
	require.Len(t, global.Functions(), 1)
	assert.Equal(t, "three", global.Functions()[0].Name())
}

func TestParse_Shop(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	file := parseFixture(t, reg, "shop.php")

	pkg, ok := reg.Package(`Shop\Domain`)
	require.True(t, ok)
	assert.Equal(t, file, pkg.FileName())
	assert.Equal(t, "/**\n * Shop domain.\n */", pkg.DocComment())
	assert.Equal(t, 5, pkg.StartLine())
	assert.Equal(t, 83, pkg.EndLine())

	t.Run("uses", func(t *testing.T) {
		uses := pkg.Uses()
		require.Len(t, uses, 2)
		assert.Equal(t, `Shop\Support\Money`, uses[0].Name())
		assert.Equal(t, "Log", uses[1].Alias())
		full, ok := pkg.ResolveAlias("Log")
		require.True(t, ok)
		assert.Equal(t, `Shop\Support\Logger`, full)
	})

	t.Run("namespace constants", func(t *testing.T) {
		consts := reg.Constants()
		require.Contains(t, consts, `Shop\Domain\VERSION`)
		assert.Equal(t, "'1.0'", consts[`Shop\Domain\VERSION`].Value())
		assert.Equal(t, "42", consts[`Shop\Domain\BUILD`].Value())
		assert.NotContains(t, consts, `Shop\Domain\MAX_ITEMS`, "class constants stay on the class")
	})

	t.Run("interface", func(t *testing.T) {
		iface, ok := reg.Interfaces()[`Shop\Domain\Priced`]
		require.True(t, ok)
		assert.Equal(t, "Countable", iface.ParentClassName())
		assert.Equal(t, []string{"JsonSerializable"}, iface.InterfaceNames())
		m, err := iface.Method("price")
		require.NoError(t, err)
		assert.True(t, m.IsAbstract())
		assert.Equal(t, "Money", m.ReturnType())
	})

	t.Run("trait", func(t *testing.T) {
		trait, ok := reg.Traits()[`Shop\Domain\Timestamps`]
		require.True(t, ok)
		p, err := trait.Property("createdAt")
		require.NoError(t, err)
		assert.True(t, p.IsProtected())
	})

	t.Run("class", func(t *testing.T) {
		basket, ok := reg.Classes()[`Shop\Domain\Basket`]
		require.True(t, ok)
		assert.True(t, basket.IsAbstract())
		assert.False(t, basket.IsInstantiable())
		assert.Equal(t, `Shop\Base\Model`, basket.ParentClassName())
		assert.True(t, basket.ImplementsInterface("Priced"))
		assert.Equal(t, "/**\n * A basket of items.\n */", basket.DocComment())
		assert.Equal(t, 25, basket.StartLine())
		assert.Equal(t, 62, basket.EndLine())

		c, err := basket.Constant("MAX_ITEMS")
		require.NoError(t, err)
		assert.Equal(t, "10", c.Value())

		items, err := basket.Property("$items")
		require.NoError(t, err)
		assert.True(t, items.IsStatic())
		assert.True(t, items.IsPrivate())
		assert.Equal(t, "[]", items.DefaultValue())

		legacy, err := basket.Property("legacy")
		require.NoError(t, err)
		assert.True(t, legacy.IsImplicitlyPublic())

		ctor, err := basket.Constructor()
		require.NoError(t, err)
		assert.Equal(t, `Shop\Domain\Basket::__construct`, ctor.Name())

		price, err := basket.Method("price")
		require.NoError(t, err)
		assert.Equal(t, 5, price.CCN())
		assert.Equal(t, 45, price.StartLine())
		assert.Equal(t, 54, price.EndLine())
		assert.Equal(t, "/**\n     * Sum of all items.\n     */", price.DocComment())

		validate, err := basket.Method("validate")
		require.NoError(t, err)
		assert.True(t, validate.IsAbstract())
		assert.True(t, validate.IsProtected())

		count, err := basket.Method("COUNT")
		require.NoError(t, err)
		assert.True(t, count.IsImplicitlyPublic())

		_, err = basket.Method("missing")
		assert.True(t, model.IsCode(err, model.CodeMethodNotFound))
	})

	t.Run("functions", func(t *testing.T) {
		fns := reg.Functions()
		assert.NotContains(t, fns, "price")
		assert.NotContains(t, fns, `Shop\Domain\price`)
		assert.NotContains(t, fns, `Shop\Domain\count`)

		helper, ok := fns[`Shop\Domain\helper`]
		require.True(t, ok)
		assert.Equal(t, 64, helper.StartLine())
		assert.Equal(t, 72, helper.EndLine())
		assert.Equal(t, 1, helper.CCN())

		closure, ok := fns[`Shop\Domain\{closure}#68`]
		require.True(t, ok)
		assert.True(t, closure.IsClosure())
		require.Len(t, closure.Parameters(), 1)
		assert.Equal(t, "x", closure.Parameters()[0].Name())

		helper2, ok := fns[`Shop\Domain\helper2`]
		require.True(t, ok)
		assert.Equal(t, 2, helper2.CCN())
	})

	t.Run("dependencies", func(t *testing.T) {
		deps := reg.Dependencies()

		logger, ok := deps[`Shop\Support\Logger`]
		require.True(t, ok)
		assert.True(t, logger.IsClassInstantiation())
		assert.Equal(t, []string{"'basket'"}, logger.Arguments())
		assert.Equal(t, 38, logger.StartLine())

		money, ok := deps[`Shop\Support\Money`]
		require.True(t, ok)
		assert.True(t, money.IsClassInstantiation())

		assert.Contains(t, deps, `Shop\Support\Money::zero`)

		user, ok := deps[`Shop\Domain\helper2`]
		require.True(t, ok)
		assert.False(t, user.IsInternal())
		assert.Empty(t, user.Hash())

		strlen69 := model.DependencyKey("strlen", model.CallSiteHash(69, 69, file))
		strlen71 := model.DependencyKey("strlen", model.CallSiteHash(71, 71, file))
		require.Contains(t, deps, strlen69)
		require.Contains(t, deps, strlen71)
		assert.True(t, deps[strlen69].IsInternal())
		_, err := deps[strlen69].Extension()
		assert.True(t, model.IsCode(err, model.CodeExtensionNotLoaded))

		guarded := model.DependencyKey("mb_strlen", model.CallSiteHash(79, 79, file))
		require.Contains(t, deps, guarded)
		assert.True(t, deps[guarded].IsConditional())

		assert.Len(t, deps, 10)
		assert.Len(t, pkg.Dependencies(), 10)
	})

	t.Run("define and magic constants", func(t *testing.T) {
		consts := reg.Constants()
		debug, ok := consts["SHOP_DEBUG"]
		require.True(t, ok)
		assert.Equal(t, "true", debug.Value())

		line, ok := consts["__LINE__"]
		require.True(t, ok)
		assert.True(t, line.IsMagic())
		assert.Equal(t, "83", line.Value())
	})

	t.Run("globals", func(t *testing.T) {
		globals := pkg.Globals()
		require.Len(t, globals, 3)
		assert.Equal(t, "$config", globals[0].Name())
		assert.False(t, globals[0].IsSuperGlobal())
		assert.Equal(t, "$env", globals[1].Name())
		assert.Equal(t, "$_GET", globals[2].Name())
		assert.Equal(t, "id", globals[2].Key())
		assert.True(t, globals[2].IsSuperGlobal())
	})
}

func TestParse_ReparseBumpsCalls(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	src := "<?php\nfunction f() { return strlen('a'); }\n"
	parseSource(t, reg, "a.php", src)
	parseSource(t, reg, "a.php", src)

	fn, ok := reg.Function("f")
	require.True(t, ok)
	assert.Equal(t, 2, fn.Calls())

	deps := reg.Dependencies()
	require.Len(t, deps, 1)
	for _, d := range deps {
		assert.Equal(t, 2, d.Calls())
	}
}

func TestParse_ClassConstantReferenceIsNotADeclaration(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseSource(t, reg, "a.php", "<?php\n$name = Foo::class;\n$o = new class { function run() {} };\n")

	assert.Empty(t, reg.Classes())
	assert.Empty(t, reg.Functions())
}

func TestParse_GroupedUseAndFunctionImport(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	parseSource(t, reg, "a.php", "<?php\nnamespace App;\nuse Lib\\{Reader, Writer as W};\nuse function Lib\\helper;\nnew W();\n")

	pkg, ok := reg.Package("App")
	require.True(t, ok)
	uses := pkg.Uses()
	require.Len(t, uses, 3)
	assert.Equal(t, `Lib\Reader`, uses[0].Name())
	assert.Equal(t, "W", uses[1].Alias())
	assert.Equal(t, model.UseFunction, uses[2].Kind())

	assert.Contains(t, reg.Dependencies(), `Lib\Writer`)
}

func TestParse_MalformedInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"<?php function",
		"<?php class {",
		"<?php namespace",
		"<?php }}} function f() {",
		"<?php include;",
		"<?php new",
		"<?php Foo::",
	} {
		assert.NotPanics(t, func() {
			parseSource(t, model.NewRegistry(), "bad.php", src)
		}, src)
	}
}
