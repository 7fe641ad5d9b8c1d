package lexer

import "github.com/mvp-joe/php-reflect/internal/token"

type operator struct {
	text string
	kind token.Kind
}

// operators is ordered longest first so the first prefix match wins.
var operators = []operator{
	{"<=>", token.T_SPACESHIP},
	{"===", token.T_IS_IDENTICAL},
	{"!==", token.T_IS_NOT_IDENTICAL},
	{"**=", token.T_POW_EQUAL},
	{"...", token.T_ELLIPSIS},
	{"<<=", token.T_SL_EQUAL},
	{">>=", token.T_SR_EQUAL},
	{"??=", token.T_COALESCE_EQUAL},
	{"?->", token.T_NULLSAFE_OBJECT_OPERATOR},

	{"==", token.T_IS_EQUAL},
	{"!=", token.T_IS_NOT_EQUAL},
	{"<>", token.T_IS_NOT_EQUAL},
	{"<=", token.T_IS_SMALLER_OR_EQUAL},
	{">=", token.T_IS_GREATER_OR_EQUAL},
	{"&&", token.T_BOOLEAN_AND},
	{"||", token.T_BOOLEAN_OR},
	{"++", token.T_INC},
	{"--", token.T_DEC},
	{"+=", token.T_PLUS_EQUAL},
	{"-=", token.T_MINUS_EQUAL},
	{"*=", token.T_MUL_EQUAL},
	{"/=", token.T_DIV_EQUAL},
	{".=", token.T_CONCAT_EQUAL},
	{"%=", token.T_MOD_EQUAL},
	{"&=", token.T_AND_EQUAL},
	{"|=", token.T_OR_EQUAL},
	{"^=", token.T_XOR_EQUAL},
	{"->", token.T_OBJECT_OPERATOR},
	{"=>", token.T_DOUBLE_ARROW},
	{"::", token.T_DOUBLE_COLON},
	{"??", token.T_COALESCE},
	{"<<", token.T_SL},
	{">>", token.T_SR},
	{"**", token.T_POW},
}

var singleChars = map[byte]token.Kind{
	'&': token.T_AMPERSAND,
	'@': token.T_AT,
	'^': token.T_CARET,
	')': token.T_CLOSE_BRACKET,
	'}': token.T_CLOSE_CURLY,
	']': token.T_CLOSE_SQUARE,
	':': token.T_COLON,
	',': token.T_COMMA,
	'/': token.T_DIV,
	'$': token.T_DOLLAR,
	'.': token.T_DOT,
	'=': token.T_EQUAL,
	'!': token.T_EXCLAMATION_MARK,
	'>': token.T_GT,
	'<': token.T_LT,
	'-': token.T_MINUS,
	'*': token.T_MULT,
	'(': token.T_OPEN_BRACKET,
	'{': token.T_OPEN_CURLY,
	'[': token.T_OPEN_SQUARE,
	'%': token.T_PERCENT,
	'|': token.T_PIPE,
	'+': token.T_PLUS,
	'?': token.T_QUESTION_MARK,
	';': token.T_SEMICOLON,
	'~': token.T_TILDE,
}
