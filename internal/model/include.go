package model

import (
	"fmt"
	"strings"
)

// Include is an include/require statement. Its name is the textual target
// expression, which may be dynamic.
type Include struct {
	name       string
	kind       IncludeKind
	namespace  string
	file       string
	docComment string
	startLine  int
	endLine    int
	calls      int
}

func newInclude(name string, attrs IncludeAttrs) *Include {
	return &Include{
		name:       name,
		kind:       attrs.Kind,
		namespace:  normalizeNamespace(attrs.Namespace),
		file:       attrs.File,
		docComment: attrs.DocComment,
		startLine:  attrs.StartLine,
		endLine:    attrs.EndLine,
	}
}

func (i *Include) Name() string          { return i.name }
func (i *Include) Kind() IncludeKind     { return i.kind }
func (i *Include) NamespaceName() string { return i.namespace }
func (i *Include) FileName() string      { return i.file }
func (i *Include) DocComment() string    { return i.docComment }
func (i *Include) StartLine() int        { return i.startLine }
func (i *Include) EndLine() int          { return i.endLine }
func (i *Include) Calls() int            { return i.calls }

func (i *Include) IsInclude() bool     { return i.kind == IncludeInclude }
func (i *Include) IsIncludeOnce() bool { return i.kind == IncludeIncludeOnce }
func (i *Include) IsRequire() bool     { return i.kind == IncludeRequire }
func (i *Include) IsRequireOnce() bool { return i.kind == IncludeRequireOnce }

func (i *Include) String() string {
	var b strings.Builder
	if i.docComment != "" {
		b.WriteString(i.docComment)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Include [ %s %s ] {\n", i.kind, i.name)
	fmt.Fprintf(&b, "  @@ %s %d - %d\n", i.file, i.startLine, i.endLine)
	b.WriteString("}\n")
	return b.String()
}
