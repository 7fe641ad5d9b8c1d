package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for token:
// - Keyword lookup is case-insensitive and falls back to T_STRING
// - Aliases (die, and, or) map to their canonical kinds
// - Cast lookup accepts every spelling PHP accepts
// - Kind names are stable; unknown values render as T_UNKNOWN
// - Capability predicates classify the kinds scope resolution depends on

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want Kind
	}{
		{"function", T_FUNCTION},
		{"FUNCTION", T_FUNCTION},
		{"Namespace", T_NAMESPACE},
		{"die", T_EXIT},
		{"exit", T_EXIT},
		{"and", T_LOGICAL_AND},
		{"or", T_LOGICAL_OR},
		{"__LINE__", T_LINE},
		{"__halt_compiler", T_HALT_COMPILER},
		{"strlen", T_STRING},
		{"Foo", T_STRING},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lookup(tt.word), tt.word)
	}
}

func TestLookupCast(t *testing.T) {
	t.Parallel()

	k, ok := LookupCast("Integer")
	assert.True(t, ok)
	assert.Equal(t, T_INT_CAST, k)

	k, ok = LookupCast("real")
	assert.True(t, ok)
	assert.Equal(t, T_DOUBLE_CAST, k)

	_, ok = LookupCast("resource")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "T_FUNCTION", T_FUNCTION.String())
	assert.Equal(t, "T_DOC_COMMENT", T_DOC_COMMENT.String())
	assert.Equal(t, "T_UNKNOWN", Kind(-1).String())
	assert.Equal(t, "T_UNKNOWN", Kind(1<<20).String())
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, T_FUNCTION.HasScope())
	assert.True(t, T_NAMESPACE.HasScope())
	assert.False(t, T_IF.HasScope())

	assert.True(t, T_FUNCTION.TerminatesAtSemicolon())
	assert.True(t, T_REQUIRE_ONCE.TerminatesAtSemicolon())
	assert.False(t, T_CLASS.TerminatesAtSemicolon(), "classes always have a body")
	assert.False(t, T_NAMESPACE.TerminatesAtSemicolon())

	for _, k := range []Kind{T_IF, T_ELSEIF, T_FOR, T_FOREACH, T_WHILE, T_CASE, T_CATCH,
		T_BOOLEAN_AND, T_LOGICAL_AND, T_BOOLEAN_OR, T_LOGICAL_OR, T_QUESTION_MARK} {
		assert.True(t, k.IsBranch(), k.String())
	}
	assert.False(t, T_ELSE.IsBranch())
	assert.False(t, T_SWITCH.IsBranch())

	assert.True(t, T_PRIVATE.IsVisibility())
	assert.False(t, T_STATIC.IsVisibility())
	assert.True(t, T_ABSTRACT.IsModifier())
	assert.False(t, T_READONLY.IsModifier())

	assert.True(t, T_DIR.IsMagicConstant())
	assert.False(t, T_STRING.IsMagicConstant())

	assert.True(t, T_WHITESPACE.IsIgnorable())
	assert.True(t, T_DOC_COMMENT.IsIgnorable())
	assert.False(t, T_SEMICOLON.IsIgnorable())

	assert.True(t, T_CURLY_OPEN.OpensBlock())
	assert.True(t, T_DOLLAR_OPEN_CURLY_BRACES.OpensBlock())
	assert.False(t, T_OPEN_BRACKET.OpensBlock())
	assert.True(t, T_CLOSE_CURLY.ClosesBlock())
	assert.True(t, T_INCLUDE.HasIncludeTarget())
	assert.True(t, T_FUNCTION.HasArguments())
}

func TestTokenIs(t *testing.T) {
	t.Parallel()

	tok := Token{Kind: T_VARIABLE, Text: "$a", Line: 3}
	assert.True(t, tok.Is(T_STRING, T_VARIABLE))
	assert.False(t, tok.Is(T_STRING))
	assert.False(t, tok.Is())
}
