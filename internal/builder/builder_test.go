package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/php-reflect/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Builder:
// - A variable assigned with new resolves later method calls on it
// - Repeated calls on the same variable count as calls on one dependency
// - Namespaces, uses, classes and members match what the token front end
//   extracts from the same file
// - Method CCN counts branch nodes and short-circuit operators
// - Call sites resolve to user functions or per-site internal dependencies
// - Includes, globals and magic constants are recorded
// - A bare `namespace;` leaves declarations in the global namespace
// - Arrow functions and anonymous classes are never registered
// - Broken input still builds without error

func buildFixture(t *testing.T, reg *model.Registry, name string) string {
	t.Helper()
	path := filepath.Join("..", "..", "testdata", "php", name)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, New(reg).Build(path, src))
	return path
}

func buildSource(t *testing.T, reg *model.Registry, src string) {
	t.Helper()
	require.NoError(t, New(reg).Build("a.php", []byte(src)))
}

func TestBuild_MethodCallsThroughAssignedVariable(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildSource(t, reg, "<?php\n$f = new Foo();\n$f->bar();\n")

	deps := reg.Dependencies()
	require.Contains(t, deps, "Foo")
	assert.True(t, deps["Foo"].IsClassInstantiation())
	require.Contains(t, deps, "Foo::bar")
	assert.Equal(t, 1, deps["Foo::bar"].Calls())
	assert.Equal(t, 3, deps["Foo::bar"].StartLine())

	buildSource(t, reg, "<?php\n$f = new Foo();\n$f->bar();\n")
	assert.Equal(t, 2, reg.Dependencies()["Foo::bar"].Calls())
}

func TestBuild_PropertyAliasAndUnknownReceiver(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildSource(t, reg, "<?php\nnamespace App;\nuse Lib\\Repo;\nclass Service {\n"+
		"    function __construct() { $this->repo = new Repo(); }\n"+
		"    function run($x) { $this->repo->find(1); $x->other(); }\n}\n")

	deps := reg.Dependencies()
	assert.Contains(t, deps, `Lib\Repo`)
	require.Contains(t, deps, `Lib\Repo::find`)
	assert.Equal(t, []string{"1"}, deps[`Lib\Repo::find`].Arguments())
	for name := range deps {
		assert.NotContains(t, name, "other")
	}
}

func TestBuild_Shop(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	file := buildFixture(t, reg, "shop.php")

	pkg, ok := reg.Package(`Shop\Domain`)
	require.True(t, ok)
	assert.Equal(t, "/**\n * Shop domain.\n */", pkg.DocComment())
	assert.Equal(t, 5, pkg.StartLine())
	assert.Equal(t, 83, pkg.EndLine())

	t.Run("uses", func(t *testing.T) {
		uses := pkg.Uses()
		require.Len(t, uses, 2)
		assert.Equal(t, `Shop\Support\Money`, uses[0].Name())
		assert.Equal(t, "Log", uses[1].Alias())
	})

	t.Run("namespace constants", func(t *testing.T) {
		consts := reg.Constants()
		require.Contains(t, consts, `Shop\Domain\VERSION`)
		assert.Equal(t, "'1.0'", consts[`Shop\Domain\VERSION`].Value())
		assert.Equal(t, "42", consts[`Shop\Domain\BUILD`].Value())
	})

	t.Run("interface and trait", func(t *testing.T) {
		iface, ok := reg.Interfaces()[`Shop\Domain\Priced`]
		require.True(t, ok)
		assert.Equal(t, "Countable", iface.ParentClassName())
		assert.Equal(t, []string{"JsonSerializable"}, iface.InterfaceNames())
		m, err := iface.Method("price")
		require.NoError(t, err)
		assert.Equal(t, "Money", m.ReturnType())

		trait, ok := reg.Traits()[`Shop\Domain\Timestamps`]
		require.True(t, ok)
		assert.True(t, trait.HasProperty("createdAt"))
	})

	t.Run("class", func(t *testing.T) {
		basket, ok := reg.Classes()[`Shop\Domain\Basket`]
		require.True(t, ok)
		assert.True(t, basket.IsAbstract())
		assert.Equal(t, `Shop\Base\Model`, basket.ParentClassName())
		assert.Equal(t, []string{"Priced"}, basket.InterfaceNames())
		assert.Equal(t, "/**\n * A basket of items.\n */", basket.DocComment())
		assert.Equal(t, 25, basket.StartLine())
		assert.Equal(t, 62, basket.EndLine())

		c, err := basket.Constant("MAX_ITEMS")
		require.NoError(t, err)
		assert.Equal(t, "10", c.Value())

		items, err := basket.Property("items")
		require.NoError(t, err)
		assert.True(t, items.IsStatic())
		assert.True(t, items.IsPrivate())
		assert.Equal(t, "[]", items.DefaultValue())
		assert.Equal(t, "/** @var array */", items.DocComment())
		assert.True(t, basket.HasProperty("discounts"))

		legacy, err := basket.Property("legacy")
		require.NoError(t, err)
		assert.True(t, legacy.IsImplicitlyPublic())

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
	})

	t.Run("functions", func(t *testing.T) {
		fns := reg.Functions()
		assert.NotContains(t, fns, `Shop\Domain\count`)

		helper, ok := fns[`Shop\Domain\helper`]
		require.True(t, ok)
		assert.Equal(t, 64, helper.StartLine())
		assert.Equal(t, 72, helper.EndLine())
		assert.Equal(t, 1, helper.CCN())

		closure, ok := fns[`Shop\Domain\{closure}#68`]
		require.True(t, ok)
		assert.True(t, closure.IsClosure())

		assert.Equal(t, 2, fns[`Shop\Domain\helper2`].CCN())
	})

	t.Run("dependencies", func(t *testing.T) {
		deps := reg.Dependencies()
		logger, ok := deps[`Shop\Support\Logger`]
		require.True(t, ok)
		assert.Equal(t, []string{"'basket'"}, logger.Arguments())
		assert.Equal(t, 38, logger.StartLine())

		assert.Contains(t, deps, `Shop\Support\Money`)
		assert.Contains(t, deps, `Shop\Support\Money::zero`)
		assert.False(t, deps[`Shop\Domain\helper2`].IsInternal())

		strlen69 := model.DependencyKey("strlen", model.CallSiteHash(69, 69, file))
		require.Contains(t, deps, strlen69)
		assert.True(t, deps[strlen69].IsInternal())
		assert.Contains(t, deps, model.DependencyKey("strlen", model.CallSiteHash(71, 71, file)))

		guarded := model.DependencyKey("mb_strlen", model.CallSiteHash(79, 79, file))
		require.Contains(t, deps, guarded)
		assert.True(t, deps[guarded].IsConditional())

		assert.Len(t, deps, 10)
	})

	t.Run("define, magic constants and globals", func(t *testing.T) {
		consts := reg.Constants()
		assert.Equal(t, "true", consts["SHOP_DEBUG"].Value())
		require.Contains(t, consts, "__LINE__")
		assert.Equal(t, "83", consts["__LINE__"].Value())

		globals := pkg.Globals()
		require.Len(t, globals, 3)
		assert.Equal(t, "$config", globals[0].Name())
		assert.Equal(t, "$_GET", globals[2].Name())
		assert.Equal(t, "id", globals[2].Key())
	})
}

func TestBuild_Includes(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildFixture(t, reg, "includes.php")

	includes := reg.Includes()
	require.Len(t, includes, 4)
	assert.True(t, includes["a.php"].IsInclude())
	assert.True(t, includes["b.php"].IsIncludeOnce())
	assert.True(t, includes["$dir/c.php"].IsRequire())
	assert.True(t, includes["d.php"].IsRequireOnce())
	assert.Equal(t, 5, includes["d.php"].StartLine())
}

func TestBuild_Namespaces(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildFixture(t, reg, "namespaces.php")

	first, ok := reg.Package("First")
	require.True(t, ok)
	assert.Equal(t, 2, first.StartLine())
	assert.Equal(t, 4, first.EndLine())

	assert.Contains(t, reg.Functions(), `Second\two`)
	global, ok := reg.Package(model.GlobalNamespace)
	require.True(t, ok)
	require.Len(t, global.Functions(), 1)
	assert.Equal(t, "three", global.Functions()[0].Name())
}

func TestBuild_NamespaceWithoutName(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildFixture(t, reg, "namespace_without_name.php")

	pkg, ok := reg.Package(model.GlobalNamespace)
	require.True(t, ok)
	require.Len(t, pkg.Classes(), 1)
	assert.Equal(t, "MyGlobalClass", pkg.Classes()[0].Name())
	assert.Contains(t, reg.Classes(), "MyGlobalClass")
	assert.Len(t, reg.Packages(), 1)
}

func TestBuild_Parameters(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildFixture(t, reg, "parameters.php")

	fn, ok := reg.Function("foo")
	require.True(t, ok)
	params := fn.Parameters()
	require.Len(t, params, 4)
	assert.Equal(t, "Parameter #0 [ <optional> stdClass or NULL $param = NULL ]", params[0].String())
	assert.True(t, params[1].IsPassedByReference())
	assert.True(t, params[1].IsArray())
	assert.True(t, params[2].IsNullable())
	assert.True(t, params[3].IsVariadic())
}

func TestBuild_GroupedUse(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildSource(t, reg, "<?php\nnamespace App;\nuse Lib\\{Reader, Writer as W};\nuse function Lib\\helper;\nnew W();\n")

	pkg, ok := reg.Package("App")
	require.True(t, ok)
	uses := pkg.Uses()
	require.Len(t, uses, 3)
	assert.Equal(t, `Lib\Reader`, uses[0].Name())
	assert.Equal(t, "W", uses[1].Alias())
	assert.Equal(t, model.UseFunction, uses[2].Kind())
	assert.Contains(t, reg.Dependencies(), `Lib\Writer`)
}

func TestBuild_AnonymousClassAndArrowFunctionAreNotRegistered(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildSource(t, reg, "<?php\n$o = new class { function run() {} };\n$f = fn($x) => $x + 1;\n")

	assert.Empty(t, reg.Classes())
	assert.Empty(t, reg.Functions())
}

func TestBuild_MagicConstantValues(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	buildSource(t, reg, "<?php\nnamespace App;\nclass A {\n    function m() { return __METHOD__ . __CLASS__; }\n}\n")

	consts := reg.Constants()
	require.Contains(t, consts, "__METHOD__")
	assert.Equal(t, `'App\A::m'`, consts["__METHOD__"].Value())
	assert.Equal(t, `'App\A'`, consts["__CLASS__"].Value())
}

func TestBuild_MalformedInput(t *testing.T) {
	t.Parallel()

	reg := model.NewRegistry()
	assert.NotPanics(t, func() {
		buildSource(t, reg, "<?php\nclass {\nfunction ( {\n")
	})
}
