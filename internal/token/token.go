package token

// Token is a single lexical unit produced by the token source.
// Tokens are immutable once produced; Index is the 0-based position in the
// owning stream.
type Token struct {
	Kind  Kind
	Text  string
	Line  int
	Index int
}

// Is reports whether the token has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// HasScope reports whether the kind opens a construct whose end boundary
// must be resolved (function, class, interface, trait, namespace, use,
// include family, variable-as-statement).
func (k Kind) HasScope() bool {
	switch k {
	case T_FUNCTION, T_CLASS, T_INTERFACE, T_TRAIT, T_NAMESPACE, T_USE,
		T_INCLUDE, T_INCLUDE_ONCE, T_REQUIRE, T_REQUIRE_ONCE,
		T_VARIABLE, T_CONST:
		return true
	}
	return false
}

// HasArguments reports whether the kind is followed by a parameter list.
func (k Kind) HasArguments() bool {
	return k == T_FUNCTION
}

// HasIncludeTarget reports whether the kind is one of the include family.
func (k Kind) HasIncludeTarget() bool {
	switch k {
	case T_INCLUDE, T_INCLUDE_ONCE, T_REQUIRE, T_REQUIRE_ONCE:
		return true
	}
	return false
}

// TerminatesAtSemicolon reports whether a scope of this kind may end at the
// first top-level ';' instead of a closing brace.
func (k Kind) TerminatesAtSemicolon() bool {
	switch k {
	case T_FUNCTION, T_USE, T_VARIABLE, T_CONST,
		T_INCLUDE, T_INCLUDE_ONCE, T_REQUIRE, T_REQUIRE_ONCE:
		return true
	}
	return false
}

// IsBranch reports whether the kind adds a path to the cyclomatic
// complexity of the enclosing function.
func (k Kind) IsBranch() bool {
	switch k {
	case T_IF, T_ELSEIF, T_FOR, T_FOREACH, T_WHILE, T_CASE, T_CATCH,
		T_BOOLEAN_AND, T_LOGICAL_AND, T_BOOLEAN_OR, T_LOGICAL_OR,
		T_QUESTION_MARK:
		return true
	}
	return false
}

// IsVisibility reports whether the kind is public, protected or private.
func (k Kind) IsVisibility() bool {
	return k == T_PUBLIC || k == T_PROTECTED || k == T_PRIVATE
}

// IsModifier reports whether the kind is static, final or abstract.
func (k Kind) IsModifier() bool {
	return k == T_STATIC || k == T_FINAL || k == T_ABSTRACT
}

// IsMagicConstant reports whether the kind is one of the __X__ constants.
func (k Kind) IsMagicConstant() bool {
	switch k {
	case T_CLASS_C, T_DIR, T_FILE, T_FUNC_C, T_LINE, T_METHOD_C, T_NS_C, T_TRAIT_C:
		return true
	}
	return false
}

// IsComment reports whether the kind is a comment or doc comment.
func (k Kind) IsComment() bool {
	return k == T_COMMENT || k == T_DOC_COMMENT
}

// IsIgnorable reports whether the kind carries no syntax (whitespace and
// comments).
func (k Kind) IsIgnorable() bool {
	return k == T_WHITESPACE || k.IsComment()
}

// IsIdentifier reports whether the kind can appear as a name segment.
func (k Kind) IsIdentifier() bool {
	return k == T_STRING
}

// OpensBlock reports whether the kind increments brace depth.
func (k Kind) OpensBlock() bool {
	return k == T_OPEN_CURLY || k == T_CURLY_OPEN || k == T_DOLLAR_OPEN_CURLY_BRACES
}

// ClosesBlock reports whether the kind decrements brace depth.
func (k Kind) ClosesBlock() bool {
	return k == T_CLOSE_CURLY
}
