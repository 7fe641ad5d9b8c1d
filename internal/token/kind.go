package token

import "strings"

// Kind identifies the lexical category of a token. Names follow the PHP
// tokenizer (token_get_all) one-for-one; single-character tokens use the
// names PHP_Token_Stream gives them.
type Kind int

const (
	T_UNKNOWN Kind = iota

	// Markup and layout
	T_INLINE_HTML
	T_OPEN_TAG
	T_OPEN_TAG_WITH_ECHO
	T_CLOSE_TAG
	T_WHITESPACE
	T_COMMENT
	T_DOC_COMMENT
	T_HALT_COMPILER

	// Identifiers and literals
	T_STRING
	T_VARIABLE
	T_STRING_VARNAME
	T_NUM_STRING
	T_LNUMBER
	T_DNUMBER
	T_CONSTANT_ENCAPSED_STRING
	T_ENCAPSED_AND_WHITESPACE
	T_START_HEREDOC
	T_END_HEREDOC
	T_CURLY_OPEN
	T_DOLLAR_OPEN_CURLY_BRACES

	// Declarations
	T_ABSTRACT
	T_AS
	T_CALLABLE
	T_CLASS
	T_CONST
	T_EXTENDS
	T_FINAL
	T_FN
	T_FUNCTION
	T_GLOBAL
	T_IMPLEMENTS
	T_INSTEADOF
	T_INTERFACE
	T_NAMESPACE
	T_PRIVATE
	T_PROTECTED
	T_PUBLIC
	T_READONLY
	T_STATIC
	T_TRAIT
	T_USE
	T_VAR
	T_ENUM
	T_ATTRIBUTE

	// Include family
	T_INCLUDE
	T_INCLUDE_ONCE
	T_REQUIRE
	T_REQUIRE_ONCE
	T_EVAL

	// Control flow
	T_BREAK
	T_CASE
	T_CATCH
	T_CONTINUE
	T_DECLARE
	T_DEFAULT
	T_DO
	T_ECHO
	T_ELSE
	T_ELSEIF
	T_ENDDECLARE
	T_ENDFOR
	T_ENDFOREACH
	T_ENDIF
	T_ENDSWITCH
	T_ENDWHILE
	T_EXIT
	T_FINALLY
	T_FOR
	T_FOREACH
	T_GOTO
	T_IF
	T_MATCH
	T_RETURN
	T_SWITCH
	T_THROW
	T_TRY
	T_WHILE
	T_YIELD
	T_YIELD_FROM

	// Language constructs
	T_ARRAY
	T_CLONE
	T_EMPTY
	T_INSTANCEOF
	T_ISSET
	T_LIST
	T_NEW
	T_PRINT
	T_UNSET

	// Magic constants
	T_CLASS_C
	T_DIR
	T_FILE
	T_FUNC_C
	T_LINE
	T_METHOD_C
	T_NS_C
	T_TRAIT_C

	// Casts
	T_ARRAY_CAST
	T_BOOL_CAST
	T_DOUBLE_CAST
	T_INT_CAST
	T_OBJECT_CAST
	T_STRING_CAST
	T_UNSET_CAST

	// Multi-character operators
	T_AND_EQUAL
	T_BOOLEAN_AND
	T_BOOLEAN_OR
	T_COALESCE
	T_COALESCE_EQUAL
	T_CONCAT_EQUAL
	T_DEC
	T_DIV_EQUAL
	T_DOUBLE_ARROW
	T_DOUBLE_COLON
	T_ELLIPSIS
	T_INC
	T_IS_EQUAL
	T_IS_GREATER_OR_EQUAL
	T_IS_IDENTICAL
	T_IS_NOT_EQUAL
	T_IS_NOT_IDENTICAL
	T_IS_SMALLER_OR_EQUAL
	T_LOGICAL_AND
	T_LOGICAL_OR
	T_LOGICAL_XOR
	T_MINUS_EQUAL
	T_MOD_EQUAL
	T_MUL_EQUAL
	T_NS_SEPARATOR
	T_NULLSAFE_OBJECT_OPERATOR
	T_OBJECT_OPERATOR
	T_OR_EQUAL
	T_PLUS_EQUAL
	T_POW
	T_POW_EQUAL
	T_SL
	T_SL_EQUAL
	T_SPACESHIP
	T_SR
	T_SR_EQUAL
	T_XOR_EQUAL

	// Single-character tokens
	T_AMPERSAND
	T_AT
	T_BACKTICK
	T_CARET
	T_CLOSE_BRACKET
	T_CLOSE_CURLY
	T_CLOSE_SQUARE
	T_COLON
	T_COMMA
	T_DIV
	T_DOLLAR
	T_DOT
	T_DOUBLE_QUOTES
	T_EQUAL
	T_EXCLAMATION_MARK
	T_GT
	T_LT
	T_MINUS
	T_MULT
	T_OPEN_BRACKET
	T_OPEN_CURLY
	T_OPEN_SQUARE
	T_PERCENT
	T_PIPE
	T_PLUS
	T_QUESTION_MARK
	T_SEMICOLON
	T_TILDE

	kindCount
)

var kindNames = [...]string{
	T_UNKNOWN:                  "T_UNKNOWN",
	T_INLINE_HTML:              "T_INLINE_HTML",
	T_OPEN_TAG:                 "T_OPEN_TAG",
	T_OPEN_TAG_WITH_ECHO:       "T_OPEN_TAG_WITH_ECHO",
	T_CLOSE_TAG:                "T_CLOSE_TAG",
	T_WHITESPACE:               "T_WHITESPACE",
	T_COMMENT:                  "T_COMMENT",
	T_DOC_COMMENT:              "T_DOC_COMMENT",
	T_HALT_COMPILER:            "T_HALT_COMPILER",
	T_STRING:                   "T_STRING",
	T_VARIABLE:                 "T_VARIABLE",
	T_STRING_VARNAME:           "T_STRING_VARNAME",
	T_NUM_STRING:               "T_NUM_STRING",
	T_LNUMBER:                  "T_LNUMBER",
	T_DNUMBER:                  "T_DNUMBER",
	T_CONSTANT_ENCAPSED_STRING: "T_CONSTANT_ENCAPSED_STRING",
	T_ENCAPSED_AND_WHITESPACE:  "T_ENCAPSED_AND_WHITESPACE",
	T_START_HEREDOC:            "T_START_HEREDOC",
	T_END_HEREDOC:              "T_END_HEREDOC",
	T_CURLY_OPEN:               "T_CURLY_OPEN",
	T_DOLLAR_OPEN_CURLY_BRACES: "T_DOLLAR_OPEN_CURLY_BRACES",
	T_ABSTRACT:                 "T_ABSTRACT",
	T_AS:                       "T_AS",
	T_CALLABLE:                 "T_CALLABLE",
	T_CLASS:                    "T_CLASS",
	T_CONST:                    "T_CONST",
	T_EXTENDS:                  "T_EXTENDS",
	T_FINAL:                    "T_FINAL",
	T_FN:                       "T_FN",
	T_FUNCTION:                 "T_FUNCTION",
	T_GLOBAL:                   "T_GLOBAL",
	T_IMPLEMENTS:               "T_IMPLEMENTS",
	T_INSTEADOF:                "T_INSTEADOF",
	T_INTERFACE:                "T_INTERFACE",
	T_NAMESPACE:                "T_NAMESPACE",
	T_PRIVATE:                  "T_PRIVATE",
	T_PROTECTED:                "T_PROTECTED",
	T_PUBLIC:                   "T_PUBLIC",
	T_READONLY:                 "T_READONLY",
	T_STATIC:                   "T_STATIC",
	T_TRAIT:                    "T_TRAIT",
	T_USE:                      "T_USE",
	T_VAR:                      "T_VAR",
	T_ENUM:                     "T_ENUM",
	T_ATTRIBUTE:                "T_ATTRIBUTE",
	T_INCLUDE:                  "T_INCLUDE",
	T_INCLUDE_ONCE:             "T_INCLUDE_ONCE",
	T_REQUIRE:                  "T_REQUIRE",
	T_REQUIRE_ONCE:             "T_REQUIRE_ONCE",
	T_EVAL:                     "T_EVAL",
	T_BREAK:                    "T_BREAK",
	T_CASE:                     "T_CASE",
	T_CATCH:                    "T_CATCH",
	T_CONTINUE:                 "T_CONTINUE",
	T_DECLARE:                  "T_DECLARE",
	T_DEFAULT:                  "T_DEFAULT",
	T_DO:                       "T_DO",
	T_ECHO:                     "T_ECHO",
	T_ELSE:                     "T_ELSE",
	T_ELSEIF:                   "T_ELSEIF",
	T_ENDDECLARE:               "T_ENDDECLARE",
	T_ENDFOR:                   "T_ENDFOR",
	T_ENDFOREACH:               "T_ENDFOREACH",
	T_ENDIF:                    "T_ENDIF",
	T_ENDSWITCH:                "T_ENDSWITCH",
	T_ENDWHILE:                 "T_ENDWHILE",
	T_EXIT:                     "T_EXIT",
	T_FINALLY:                  "T_FINALLY",
	T_FOR:                      "T_FOR",
	T_FOREACH:                  "T_FOREACH",
	T_GOTO:                     "T_GOTO",
	T_IF:                       "T_IF",
	T_MATCH:                    "T_MATCH",
	T_RETURN:                   "T_RETURN",
	T_SWITCH:                   "T_SWITCH",
	T_THROW:                    "T_THROW",
	T_TRY:                      "T_TRY",
	T_WHILE:                    "T_WHILE",
	T_YIELD:                    "T_YIELD",
	T_YIELD_FROM:               "T_YIELD_FROM",
	T_ARRAY:                    "T_ARRAY",
	T_CLONE:                    "T_CLONE",
	T_EMPTY:                    "T_EMPTY",
	T_INSTANCEOF:               "T_INSTANCEOF",
	T_ISSET:                    "T_ISSET",
	T_LIST:                     "T_LIST",
	T_NEW:                      "T_NEW",
	T_PRINT:                    "T_PRINT",
	T_UNSET:                    "T_UNSET",
	T_CLASS_C:                  "T_CLASS_C",
	T_DIR:                      "T_DIR",
	T_FILE:                     "T_FILE",
	T_FUNC_C:                   "T_FUNC_C",
	T_LINE:                     "T_LINE",
	T_METHOD_C:                 "T_METHOD_C",
	T_NS_C:                     "T_NS_C",
	T_TRAIT_C:                  "T_TRAIT_C",
	T_ARRAY_CAST:               "T_ARRAY_CAST",
	T_BOOL_CAST:                "T_BOOL_CAST",
	T_DOUBLE_CAST:              "T_DOUBLE_CAST",
	T_INT_CAST:                 "T_INT_CAST",
	T_OBJECT_CAST:              "T_OBJECT_CAST",
	T_STRING_CAST:              "T_STRING_CAST",
	T_UNSET_CAST:               "T_UNSET_CAST",
	T_AND_EQUAL:                "T_AND_EQUAL",
	T_BOOLEAN_AND:              "T_BOOLEAN_AND",
	T_BOOLEAN_OR:               "T_BOOLEAN_OR",
	T_COALESCE:                 "T_COALESCE",
	T_COALESCE_EQUAL:           "T_COALESCE_EQUAL",
	T_CONCAT_EQUAL:             "T_CONCAT_EQUAL",
	T_DEC:                      "T_DEC",
	T_DIV_EQUAL:                "T_DIV_EQUAL",
	T_DOUBLE_ARROW:             "T_DOUBLE_ARROW",
	T_DOUBLE_COLON:             "T_DOUBLE_COLON",
	T_ELLIPSIS:                 "T_ELLIPSIS",
	T_INC:                      "T_INC",
	T_IS_EQUAL:                 "T_IS_EQUAL",
	T_IS_GREATER_OR_EQUAL:      "T_IS_GREATER_OR_EQUAL",
	T_IS_IDENTICAL:             "T_IS_IDENTICAL",
	T_IS_NOT_EQUAL:             "T_IS_NOT_EQUAL",
	T_IS_NOT_IDENTICAL:         "T_IS_NOT_IDENTICAL",
	T_IS_SMALLER_OR_EQUAL:      "T_IS_SMALLER_OR_EQUAL",
	T_LOGICAL_AND:              "T_LOGICAL_AND",
	T_LOGICAL_OR:               "T_LOGICAL_OR",
	T_LOGICAL_XOR:              "T_LOGICAL_XOR",
	T_MINUS_EQUAL:              "T_MINUS_EQUAL",
	T_MOD_EQUAL:                "T_MOD_EQUAL",
	T_MUL_EQUAL:                "T_MUL_EQUAL",
	T_NS_SEPARATOR:             "T_NS_SEPARATOR",
	T_NULLSAFE_OBJECT_OPERATOR: "T_NULLSAFE_OBJECT_OPERATOR",
	T_OBJECT_OPERATOR:          "T_OBJECT_OPERATOR",
	T_OR_EQUAL:                 "T_OR_EQUAL",
	T_PLUS_EQUAL:               "T_PLUS_EQUAL",
	T_POW:                      "T_POW",
	T_POW_EQUAL:                "T_POW_EQUAL",
	T_SL:                       "T_SL",
	T_SL_EQUAL:                 "T_SL_EQUAL",
	T_SPACESHIP:                "T_SPACESHIP",
	T_SR:                       "T_SR",
	T_SR_EQUAL:                 "T_SR_EQUAL",
	T_XOR_EQUAL:                "T_XOR_EQUAL",
	T_AMPERSAND:                "T_AMPERSAND",
	T_AT:                       "T_AT",
	T_BACKTICK:                 "T_BACKTICK",
	T_CARET:                    "T_CARET",
	T_CLOSE_BRACKET:            "T_CLOSE_BRACKET",
	T_CLOSE_CURLY:              "T_CLOSE_CURLY",
	T_CLOSE_SQUARE:             "T_CLOSE_SQUARE",
	T_COLON:                    "T_COLON",
	T_COMMA:                    "T_COMMA",
	T_DIV:                      "T_DIV",
	T_DOLLAR:                   "T_DOLLAR",
	T_DOT:                      "T_DOT",
	T_DOUBLE_QUOTES:            "T_DOUBLE_QUOTES",
	T_EQUAL:                    "T_EQUAL",
	T_EXCLAMATION_MARK:         "T_EXCLAMATION_MARK",
	T_GT:                       "T_GT",
	T_LT:                       "T_LT",
	T_MINUS:                    "T_MINUS",
	T_MULT:                     "T_MULT",
	T_OPEN_BRACKET:             "T_OPEN_BRACKET",
	T_OPEN_CURLY:               "T_OPEN_CURLY",
	T_OPEN_SQUARE:              "T_OPEN_SQUARE",
	T_PERCENT:                  "T_PERCENT",
	T_PIPE:                     "T_PIPE",
	T_PLUS:                     "T_PLUS",
	T_QUESTION_MARK:            "T_QUESTION_MARK",
	T_SEMICOLON:                "T_SEMICOLON",
	T_TILDE:                    "T_TILDE",
}

// String returns the tokenizer name of the kind, e.g. "T_FUNCTION".
func (k Kind) String() string {
	if k < 0 || k >= kindCount || kindNames[k] == "" {
		return "T_UNKNOWN"
	}
	return kindNames[k]
}

// keywords maps lower-cased reserved words to their kind.
var keywords = map[string]Kind{
	"abstract":        T_ABSTRACT,
	"and":             T_LOGICAL_AND,
	"array":           T_ARRAY,
	"as":              T_AS,
	"break":           T_BREAK,
	"callable":        T_CALLABLE,
	"case":            T_CASE,
	"catch":           T_CATCH,
	"class":           T_CLASS,
	"clone":           T_CLONE,
	"const":           T_CONST,
	"continue":        T_CONTINUE,
	"declare":         T_DECLARE,
	"default":         T_DEFAULT,
	"die":             T_EXIT,
	"do":              T_DO,
	"echo":            T_ECHO,
	"else":            T_ELSE,
	"elseif":          T_ELSEIF,
	"empty":           T_EMPTY,
	"enddeclare":      T_ENDDECLARE,
	"endfor":          T_ENDFOR,
	"endforeach":      T_ENDFOREACH,
	"endif":           T_ENDIF,
	"endswitch":       T_ENDSWITCH,
	"endwhile":        T_ENDWHILE,
	"enum":            T_ENUM,
	"eval":            T_EVAL,
	"exit":            T_EXIT,
	"extends":         T_EXTENDS,
	"final":           T_FINAL,
	"finally":         T_FINALLY,
	"fn":              T_FN,
	"for":             T_FOR,
	"foreach":         T_FOREACH,
	"function":        T_FUNCTION,
	"global":          T_GLOBAL,
	"goto":            T_GOTO,
	"if":              T_IF,
	"implements":      T_IMPLEMENTS,
	"include":         T_INCLUDE,
	"include_once":    T_INCLUDE_ONCE,
	"instanceof":      T_INSTANCEOF,
	"insteadof":       T_INSTEADOF,
	"interface":       T_INTERFACE,
	"isset":           T_ISSET,
	"list":            T_LIST,
	"match":           T_MATCH,
	"namespace":       T_NAMESPACE,
	"new":             T_NEW,
	"or":              T_LOGICAL_OR,
	"print":           T_PRINT,
	"private":         T_PRIVATE,
	"protected":       T_PROTECTED,
	"public":          T_PUBLIC,
	"readonly":        T_READONLY,
	"require":         T_REQUIRE,
	"require_once":    T_REQUIRE_ONCE,
	"return":          T_RETURN,
	"static":          T_STATIC,
	"switch":          T_SWITCH,
	"throw":           T_THROW,
	"trait":           T_TRAIT,
	"try":             T_TRY,
	"unset":           T_UNSET,
	"use":             T_USE,
	"var":             T_VAR,
	"while":           T_WHILE,
	"xor":             T_LOGICAL_XOR,
	"yield":           T_YIELD,
	"__class__":       T_CLASS_C,
	"__dir__":         T_DIR,
	"__file__":        T_FILE,
	"__function__":    T_FUNC_C,
	"__line__":        T_LINE,
	"__method__":      T_METHOD_C,
	"__namespace__":   T_NS_C,
	"__trait__":       T_TRAIT_C,
	"__halt_compiler": T_HALT_COMPILER,
}

// Lookup returns the keyword kind for word, or T_STRING when word is a plain
// identifier. Keywords are case-insensitive.
func Lookup(word string) Kind {
	if k, ok := keywords[strings.ToLower(word)]; ok {
		return k
	}
	return T_STRING
}

// castKinds maps the type name inside a cast expression to its kind.
var castKinds = map[string]Kind{
	"int":     T_INT_CAST,
	"integer": T_INT_CAST,
	"bool":    T_BOOL_CAST,
	"boolean": T_BOOL_CAST,
	"float":   T_DOUBLE_CAST,
	"double":  T_DOUBLE_CAST,
	"real":    T_DOUBLE_CAST,
	"string":  T_STRING_CAST,
	"binary":  T_STRING_CAST,
	"array":   T_ARRAY_CAST,
	"object":  T_OBJECT_CAST,
	"unset":   T_UNSET_CAST,
}

// LookupCast returns the cast kind for a type name such as "int".
func LookupCast(typeName string) (Kind, bool) {
	k, ok := castKinds[strings.ToLower(typeName)]
	return k, ok
}
