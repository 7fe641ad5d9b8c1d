package model

import (
	"fmt"
	"strings"
)

// Use is a name imported into a package.
type Use struct {
	name  string
	alias string
	kind  UseKind
	line  int
}

func newUse(attrs UseAttrs) *Use {
	name := strings.TrimPrefix(attrs.Name, `\`)
	alias := attrs.Alias
	if alias == "" {
		alias = ShortName(name)
	}
	return &Use{name: name, alias: alias, kind: attrs.Kind, line: attrs.Line}
}

func (u *Use) Name() string  { return u.name }
func (u *Use) Alias() string { return u.alias }
func (u *Use) Kind() UseKind { return u.kind }
func (u *Use) Line() int     { return u.line }

func (u *Use) String() string {
	prefix := ""
	if u.kind != UseClass {
		prefix = u.kind.String() + " "
	}
	if ShortName(u.name) == u.alias {
		return fmt.Sprintf("Use [ %s%s ]", prefix, u.name)
	}
	return fmt.Sprintf("Use [ %s%s as %s ]", prefix, u.name, u.alias)
}

// Global is a variable accessed through `global` or a superglobal array.
type Global struct {
	name  string
	key   string
	super bool
	line  int
	calls int
}

// superGlobals are always global, wherever they appear.
var superGlobals = map[string]bool{
	"$GLOBALS":              true,
	"$_SERVER":              true,
	"$_GET":                 true,
	"$_POST":                true,
	"$_FILES":               true,
	"$_COOKIE":              true,
	"$_SESSION":             true,
	"$_REQUEST":             true,
	"$_ENV":                 true,
	"$HTTP_RAW_POST_DATA":   true,
	"$http_response_header": true,
	"$argc":                 true,
	"$argv":                 true,
	"$php_errormsg":         true,
}

// IsSuperGlobal reports whether name, including its "$", is one of the
// fourteen superglobal variables.
func IsSuperGlobal(name string) bool { return superGlobals[name] }

func globalKey(name, key string) string {
	if key == "" {
		return name
	}
	return name + "[" + key + "]"
}

func (g *Global) Name() string        { return g.name }
func (g *Global) Key() string         { return g.key }
func (g *Global) IsSuperGlobal() bool { return g.super }
func (g *Global) Line() int           { return g.line }
func (g *Global) Calls() int          { return g.calls }

func (g *Global) String() string {
	kind := "global"
	if g.super {
		kind = "superglobal"
	}
	return fmt.Sprintf("Global [ <%s> %s ]", kind, globalKey(g.name, g.key))
}
