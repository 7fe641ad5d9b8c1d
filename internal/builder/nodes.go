package builder

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText returns the source text covered by node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func startLine(node *sitter.Node) int { return int(node.StartPosition().Row) + 1 }
func endLine(node *sitter.Node) int   { return int(node.EndPosition().Row) + 1 }

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// namedChildren returns the named children of node whose type is one of
// types, or every named child when types is empty.
func namedChildren(node *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	if node == nil {
		return out
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if len(types) == 0 || oneOf(child.Kind(), types...) {
			out = append(out, child)
		}
	}
	return out
}

func oneOf(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

// walkTree calls visitor for node and its descendants in document order;
// returning false skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}

// docComment returns the /** */ comment ending on the line directly above
// node, or on the same line.
func docComment(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}
	text := nodeText(prev, source)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	if endLine(prev) < startLine(node)-1 {
		return ""
	}
	return text
}

// isName reports a name or qualified_name node, i.e. a literal reference.
func isName(node *sitter.Node) bool {
	return node != nil && oneOf(node.Kind(), "name", "qualified_name", "namespace_name")
}

// unquote strips the quotes of a string literal node's text.
func unquote(s string) string {
	return strings.Trim(s, `'"`)
}
