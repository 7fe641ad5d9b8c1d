package lexer

import (
	"strings"
	"testing"

	"github.com/mvp-joe/php-reflect/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Lexer:
// - Inline HTML before the open tag is a single token
// - Whitespace is emitted as explicit tokens and line numbers advance
// - Keywords are case-insensitive; keywords after -> become identifiers
// - Doc comments are distinguished from block and line comments
// - Double-quoted strings without variables stay a single literal
// - Interpolated strings split into quotes, literal parts and variables
// - {$expr} interpolation produces T_CURLY_OPEN balanced by a closing brace
// - Heredoc and nowdoc bodies are framed by start/end tokens
// - Casts, multi-character operators and numbers are recognized
// - __halt_compiler(); is lexed as code and only what follows is data
// - Concatenating all token texts reproduces the source exactly
// - Malformed input never panics

func kinds(toks []token.Token) []token.Kind {
	var out []token.Kind
	for _, t := range toks {
		if t.Kind == token.T_WHITESPACE {
			continue
		}
		out = append(out, t.Kind)
	}
	return out
}

func join(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

func TestTokenize_OpenTagAndInlineHTML(t *testing.T) {
	t.Parallel()

	src := "<html>\n<?php echo 1; ?>\n</html>"
	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	require.NotEmpty(t, toks)
	assert.Equal(t, token.T_INLINE_HTML, toks[0].Kind)
	assert.Equal(t, "<html>\n", toks[0].Text)
	assert.Equal(t, token.T_OPEN_TAG, toks[1].Kind)
	assert.Equal(t, "<?php ", toks[1].Text)
	assert.Equal(t, 2, toks[1].Line)

	assert.Equal(t, []token.Kind{
		token.T_INLINE_HTML, token.T_OPEN_TAG, token.T_ECHO, token.T_LNUMBER,
		token.T_SEMICOLON, token.T_CLOSE_TAG, token.T_INLINE_HTML,
	}, kinds(toks))
	assert.Equal(t, src, join(toks))
}

func TestTokenize_IndexAndLines(t *testing.T) {
	t.Parallel()

	src := "<?php\nfunction foo()\n{\n}\n"
	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	for i, tok := range toks {
		assert.Equal(t, i, tok.Index)
	}

	var fn, closeCurly token.Token
	for _, tok := range toks {
		switch tok.Kind {
		case token.T_FUNCTION:
			fn = tok
		case token.T_CLOSE_CURLY:
			closeCurly = tok
		}
	}
	assert.Equal(t, 2, fn.Line)
	assert.Equal(t, 4, closeCurly.Line)
}

func TestTokenize_Keywords(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize([]byte("<?php CLASS Foo EXTENDS Bar {} $x->list; $y?->class; Foo::print(); Foo::class;"))
	require.NoError(t, err)

	got := kinds(toks)
	assert.Equal(t, token.T_CLASS, got[1])
	assert.Equal(t, token.T_STRING, got[2])
	assert.Equal(t, token.T_EXTENDS, got[3])

	var afterArrow []token.Kind
	for i, tok := range toks {
		if tok.Is(token.T_OBJECT_OPERATOR, token.T_NULLSAFE_OBJECT_OPERATOR, token.T_DOUBLE_COLON) {
			afterArrow = append(afterArrow, toks[i+1].Kind)
		}
	}
	assert.Equal(t, []token.Kind{token.T_STRING, token.T_STRING, token.T_STRING, token.T_CLASS}, afterArrow)
}

func TestTokenize_Comments(t *testing.T) {
	t.Parallel()

	src := "<?php\n/** doc */\n/* block */\n// line\n# hash\n$a;"
	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	var comments []token.Token
	for _, tok := range toks {
		if tok.Kind.IsComment() {
			comments = append(comments, tok)
		}
	}
	require.Len(t, comments, 4)
	assert.Equal(t, token.T_DOC_COMMENT, comments[0].Kind)
	assert.Equal(t, "/** doc */", comments[0].Text)
	assert.Equal(t, token.T_COMMENT, comments[1].Kind)
	assert.Equal(t, "// line\n", comments[2].Text)
	assert.Equal(t, "# hash\n", comments[3].Text)
	assert.Equal(t, 5, comments[3].Line)
	assert.Equal(t, src, join(toks))
}

func TestTokenize_Strings(t *testing.T) {
	t.Parallel()

	t.Run("plain literals", func(t *testing.T) {
		t.Parallel()
		toks, err := Tokenize([]byte(`<?php 'a\'b'; "no vars \" here";`))
		require.NoError(t, err)
		assert.Equal(t, []token.Kind{
			token.T_OPEN_TAG,
			token.T_CONSTANT_ENCAPSED_STRING, token.T_SEMICOLON,
			token.T_CONSTANT_ENCAPSED_STRING, token.T_SEMICOLON,
		}, kinds(toks))
	})

	t.Run("simple interpolation", func(t *testing.T) {
		t.Parallel()
		toks, err := Tokenize([]byte(`<?php "Hello $name!";`))
		require.NoError(t, err)
		assert.Equal(t, []token.Kind{
			token.T_OPEN_TAG,
			token.T_DOUBLE_QUOTES, token.T_ENCAPSED_AND_WHITESPACE, token.T_VARIABLE,
			token.T_ENCAPSED_AND_WHITESPACE, token.T_DOUBLE_QUOTES, token.T_SEMICOLON,
		}, kinds(toks))
	})

	t.Run("curly interpolation", func(t *testing.T) {
		t.Parallel()
		src := `<?php "a {$obj->name} b";`
		toks, err := Tokenize([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, []token.Kind{
			token.T_OPEN_TAG,
			token.T_DOUBLE_QUOTES, token.T_ENCAPSED_AND_WHITESPACE,
			token.T_CURLY_OPEN, token.T_VARIABLE, token.T_OBJECT_OPERATOR, token.T_STRING, token.T_CLOSE_CURLY,
			token.T_ENCAPSED_AND_WHITESPACE, token.T_DOUBLE_QUOTES, token.T_SEMICOLON,
		}, kinds(toks))
		assert.Equal(t, src, join(toks))
	})

	t.Run("array offset interpolation", func(t *testing.T) {
		t.Parallel()
		toks, err := Tokenize([]byte(`<?php "$a[key]";`))
		require.NoError(t, err)
		assert.Equal(t, []token.Kind{
			token.T_OPEN_TAG,
			token.T_DOUBLE_QUOTES, token.T_VARIABLE, token.T_OPEN_SQUARE, token.T_STRING,
			token.T_CLOSE_SQUARE, token.T_DOUBLE_QUOTES, token.T_SEMICOLON,
		}, kinds(toks))
	})
}

func TestTokenize_Heredoc(t *testing.T) {
	t.Parallel()

	src := "<?php\n$a = <<<EOT\nHi $name\nEOT;\n$b = <<<'RAW'\n$literal\nRAW;\n"
	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, join(toks))

	var starts, ends int
	var nowdocBody string
	for i, tok := range toks {
		switch tok.Kind {
		case token.T_START_HEREDOC:
			starts++
			if strings.Contains(tok.Text, "RAW") {
				nowdocBody = toks[i+1].Text
			}
		case token.T_END_HEREDOC:
			ends++
		}
	}
	assert.Equal(t, 2, starts)
	assert.Equal(t, 2, ends)
	assert.Equal(t, "$literal\n", nowdocBody)

	var vars []string
	for _, tok := range toks {
		if tok.Kind == token.T_VARIABLE {
			vars = append(vars, tok.Text)
		}
	}
	assert.Equal(t, []string{"$a", "$name", "$b"}, vars)
}

func TestTokenize_OperatorsAndCasts(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize([]byte("<?php $a ??= (int) $b <=> $c?->d ... 1.5e3 0x1F && $e || !$f;"))
	require.NoError(t, err)

	assert.Equal(t, []token.Kind{
		token.T_OPEN_TAG,
		token.T_VARIABLE, token.T_COALESCE_EQUAL, token.T_INT_CAST, token.T_VARIABLE,
		token.T_SPACESHIP, token.T_VARIABLE, token.T_NULLSAFE_OBJECT_OPERATOR, token.T_STRING,
		token.T_ELLIPSIS, token.T_DNUMBER, token.T_LNUMBER, token.T_BOOLEAN_AND, token.T_VARIABLE,
		token.T_BOOLEAN_OR, token.T_EXCLAMATION_MARK, token.T_VARIABLE, token.T_SEMICOLON,
	}, kinds(toks))
}

func TestTokenize_YieldFrom(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize([]byte("<?php yield from gen(); yield $x;"))
	require.NoError(t, err)

	got := kinds(toks)
	assert.Equal(t, token.T_YIELD_FROM, got[1])
	assert.Contains(t, got, token.T_YIELD)
}

func TestTokenize_HaltCompiler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		data string
		want []token.Kind
	}{
		{
			name: "semicolon",
			src:  "<?php __halt_compiler(); junk <?php class A {}",
			data: " junk <?php class A {}",
			want: []token.Kind{
				token.T_OPEN_TAG, token.T_HALT_COMPILER, token.T_OPEN_BRACKET,
				token.T_CLOSE_BRACKET, token.T_SEMICOLON, token.T_INLINE_HTML,
			},
		},
		{
			name: "close tag",
			src:  "<?php __HALT_COMPILER() ?>\x00\x01",
			data: "\x00\x01",
			want: []token.Kind{
				token.T_OPEN_TAG, token.T_HALT_COMPILER, token.T_OPEN_BRACKET,
				token.T_CLOSE_BRACKET, token.T_CLOSE_TAG, token.T_INLINE_HTML,
			},
		},
		{
			name: "nothing after",
			src:  "<?php __halt_compiler();",
			want: []token.Kind{
				token.T_OPEN_TAG, token.T_HALT_COMPILER, token.T_OPEN_BRACKET,
				token.T_CLOSE_BRACKET, token.T_SEMICOLON,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toks, err := Tokenize([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(toks))
			if tt.data != "" {
				assert.Equal(t, tt.data, toks[len(toks)-1].Text)
			}
			assert.Equal(t, tt.src, join(toks))
		})
	}
}

func TestTokenize_MalformedInputDoesNotPanic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<?php /* never closed",
		"<?php \"unterminated $x",
		"<?php 'unterminated",
		"<?php <<<EOT\nno end",
		"<?php \"{$a",
		"<?php \\",
		"<?php \xff\xfe",
		"",
		"plain text only",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			toks, err := Tokenize([]byte(in))
			require.NoError(t, err)
			assert.Equal(t, in, join(toks))
		}, "input %q", in)
	}
}
