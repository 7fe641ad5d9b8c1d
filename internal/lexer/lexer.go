// Package lexer turns PHP source into the flat token stream consumed by the
// scanner. The stream mirrors PHP's own tokenizer: whitespace and comments
// are kept as explicit tokens, and string interpolation is split into its
// literal and variable parts.
package lexer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/mvp-joe/php-reflect/internal/token"
)

// Lexer scans a single PHP source buffer.
type Lexer struct {
	src    []byte
	pos    int
	line   int
	inPHP  bool
	tokens []token.Token

	// halting is set by __halt_compiler and halted by the ";" or "?>"
	// that ends its call; the rest of the buffer is then data.
	halting bool
	halted  bool
}

// New creates a lexer over src. Scanning starts in inline HTML mode, as PHP
// does, until the first open tag.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize is a convenience wrapper around New(src).Scan().
func Tokenize(src []byte) ([]token.Token, error) {
	return New(src).Scan()
}

// Scan tokenizes the whole buffer. Unterminated comments and strings are
// emitted up to the end of input rather than rejected.
func (l *Lexer) Scan() ([]token.Token, error) {
	for l.pos < len(l.src) {
		if l.halted {
			start := l.pos
			l.pos = len(l.src)
			l.emit(token.T_INLINE_HTML, start)
			break
		}
		if !l.inPHP {
			l.scanInlineHTML()
			continue
		}
		l.scanToken()
	}
	return l.tokens, nil
}

// emit appends the token for src[start:l.pos].
func (l *Lexer) emit(kind token.Kind, start int) {
	text := string(l.src[start:l.pos])
	l.tokens = append(l.tokens, token.Token{
		Kind:  kind,
		Text:  text,
		Line:  l.line,
		Index: len(l.tokens),
	})
	l.line += strings.Count(text, "\n")
	if l.halting && (kind == token.T_SEMICOLON || kind == token.T_CLOSE_TAG) {
		l.halted = true
	}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.src[l.pos:], []byte(s))
}

func (l *Lexer) hasPrefixFold(s string) bool {
	if len(l.src)-l.pos < len(s) {
		return false
	}
	return strings.EqualFold(string(l.src[l.pos:l.pos+len(s)]), s)
}

// lastSignificant returns the kind of the last emitted non-whitespace,
// non-comment token.
func (l *Lexer) lastSignificant() token.Kind {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		if !l.tokens[i].Kind.IsIgnorable() {
			return l.tokens[i].Kind
		}
	}
	return token.T_UNKNOWN
}

func (l *Lexer) scanInlineHTML() {
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '<' && l.peekAt(1) == '?' {
			if l.isOpenTag() {
				break
			}
		}
		l.pos++
	}
	if l.pos > start {
		l.emit(token.T_INLINE_HTML, start)
	}
	if l.pos >= len(l.src) {
		return
	}

	start = l.pos
	if l.hasPrefix("<?=") {
		l.pos += 3
		l.emit(token.T_OPEN_TAG_WITH_ECHO, start)
	} else {
		if l.hasPrefixFold("<?php") {
			l.pos += 5
		} else {
			l.pos += 2
		}
		// The open tag owns a single trailing newline or blank.
		switch {
		case l.hasPrefix("\r\n"):
			l.pos += 2
		case l.pos < len(l.src) && isSpace(l.src[l.pos]):
			l.pos++
		}
		l.emit(token.T_OPEN_TAG, start)
	}
	l.inPHP = true
}

func (l *Lexer) isOpenTag() bool {
	if l.hasPrefix("<?=") {
		return true
	}
	if l.hasPrefixFold("<?php") {
		next := l.peekAt(5)
		return next == 0 || isSpace(next)
	}
	// Short open tag.
	next := l.peekAt(2)
	return next == 0 || isSpace(next)
}

func (l *Lexer) scanToken() {
	c := l.src[l.pos]
	start := l.pos

	switch {
	case isSpace(c):
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		l.emit(token.T_WHITESPACE, start)
		return

	case c == '?' && l.peekAt(1) == '>':
		l.pos += 2
		if l.hasPrefix("\r\n") {
			l.pos += 2
		} else if l.pos < len(l.src) && l.src[l.pos] == '\n' {
			l.pos++
		}
		l.emit(token.T_CLOSE_TAG, start)
		l.inPHP = false
		return

	case c == '#' && l.peekAt(1) == '[':
		l.pos += 2
		l.emit(token.T_ATTRIBUTE, start)
		return

	case c == '#' || (c == '/' && l.peekAt(1) == '/'):
		l.scanLineComment()
		return

	case c == '/' && l.peekAt(1) == '*':
		l.scanBlockComment()
		return

	case c == '$' && isIdentStart(l.peekAt(1)):
		l.pos++
		l.skipIdent()
		l.emit(token.T_VARIABLE, start)
		return

	case isIdentStart(c):
		l.scanWord()
		return

	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		l.scanNumber()
		return

	case c == '\'':
		l.scanSingleQuoted()
		return

	case c == '"':
		l.scanDoubleQuoted()
		return

	case c == '`':
		l.pos++
		l.emit(token.T_BACKTICK, start)
		l.scanEncapsed(func() bool { return l.src[l.pos] == '`' })
		if l.pos < len(l.src) {
			start = l.pos
			l.pos++
			l.emit(token.T_BACKTICK, start)
		}
		return

	case c == '<' && l.hasPrefix("<<<"):
		if l.scanHeredoc() {
			return
		}

	case c == '(':
		if kind, n := l.matchCast(); n > 0 {
			l.pos += n
			l.emit(kind, start)
			return
		}

	case c == '\\':
		l.pos++
		l.emit(token.T_NS_SEPARATOR, start)
		return
	}

	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.pos += len(op.text)
			l.emit(op.kind, start)
			return
		}
	}

	if kind, ok := singleChars[c]; ok {
		l.pos++
		l.emit(kind, start)
		return
	}

	_, size := utf8.DecodeRune(l.src[l.pos:])
	if size < 1 {
		size = 1
	}
	l.pos += size
	l.emit(token.T_UNKNOWN, start)
}

func (l *Lexer) scanLineComment() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			l.pos++
			break
		}
		if c == '?' && l.peekAt(1) == '>' {
			break
		}
		l.pos++
	}
	l.emit(token.T_COMMENT, start)
}

func (l *Lexer) scanBlockComment() {
	start := l.pos
	kind := token.T_COMMENT
	if l.hasPrefix("/**") && isSpace(l.peekAt(3)) {
		kind = token.T_DOC_COMMENT
	}
	end := bytes.Index(l.src[l.pos+2:], []byte("*/"))
	if end < 0 {
		l.pos = len(l.src)
	} else {
		l.pos += 2 + end + 2
	}
	l.emit(kind, start)
}

func (l *Lexer) skipIdent() {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) scanWord() {
	start := l.pos
	l.skipIdent()
	word := string(l.src[start:l.pos])
	kind := token.Lookup(word)

	if kind != token.T_STRING {
		switch l.lastSignificant() {
		case token.T_OBJECT_OPERATOR, token.T_NULLSAFE_OBJECT_OPERATOR, token.T_FUNCTION:
			kind = token.T_STRING
		case token.T_DOUBLE_COLON:
			if kind != token.T_CLASS {
				kind = token.T_STRING
			}
		}
	}

	if kind == token.T_YIELD {
		save := l.pos
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		if l.hasPrefixFold("from") && !isIdentPart(l.peekAt(4)) && l.pos > save {
			l.pos += 4
			l.emit(token.T_YIELD_FROM, start)
			return
		}
		l.pos = save
	}

	l.emit(kind, start)
	if kind == token.T_HALT_COMPILER {
		l.halting = true
	}
}

func (l *Lexer) scanNumber() {
	start := l.pos
	kind := token.T_LNUMBER

	if l.src[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.pos += 2
		for l.pos < len(l.src) && (isHex(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		l.emit(kind, start)
		return
	}
	if l.src[l.pos] == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.pos += 2
		for l.pos < len(l.src) && (l.src[l.pos] == '0' || l.src[l.pos] == '1' || l.src[l.pos] == '_') {
			l.pos++
		}
		l.emit(kind, start)
		return
	}

	l.skipDigits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.peekAt(1) != '.' {
		kind = token.T_DNUMBER
		l.pos++
		l.skipDigits()
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			kind = token.T_DNUMBER
			l.pos += 2
			l.skipDigits()
		}
	}
	l.emit(kind, start)
}

func (l *Lexer) skipDigits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func (l *Lexer) scanSingleQuoted() {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		l.pos++
		if c == '\'' {
			break
		}
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
	l.emit(token.T_CONSTANT_ENCAPSED_STRING, start)
}

func (l *Lexer) scanDoubleQuoted() {
	start := l.pos
	if !l.hasInterpolation(l.pos+1, '"') {
		l.pos++
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c == '\\' {
				l.pos += 2
				continue
			}
			l.pos++
			if c == '"' {
				break
			}
		}
		if l.pos > len(l.src) {
			l.pos = len(l.src)
		}
		l.emit(token.T_CONSTANT_ENCAPSED_STRING, start)
		return
	}

	l.pos++
	l.emit(token.T_DOUBLE_QUOTES, start)
	l.scanEncapsed(func() bool { return l.src[l.pos] == '"' })
	if l.pos < len(l.src) {
		start = l.pos
		l.pos++
		l.emit(token.T_DOUBLE_QUOTES, start)
	}
}

// hasInterpolation reports whether the string starting at from (just after
// the opening quote) contains a variable or {$ expression before quote.
func (l *Lexer) hasInterpolation(from int, quote byte) bool {
	for i := from; i < len(l.src); i++ {
		c := l.src[i]
		switch {
		case c == '\\':
			i++
		case c == quote:
			return false
		case c == '$' && i+1 < len(l.src) && (isIdentStart(l.src[i+1]) || l.src[i+1] == '{'):
			return true
		case c == '{' && i+1 < len(l.src) && l.src[i+1] == '$':
			return true
		}
	}
	return false
}

// scanEncapsed splits interpolated content into literal and variable tokens
// until atEnd reports the terminator at the current position.
func (l *Lexer) scanEncapsed(atEnd func() bool) {
	litStart := l.pos
	flush := func() {
		if l.pos > litStart {
			l.emit(token.T_ENCAPSED_AND_WHITESPACE, litStart)
		}
	}

	for l.pos < len(l.src) {
		if atEnd() {
			flush()
			return
		}
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
			if l.pos > len(l.src) {
				l.pos = len(l.src)
			}
			continue

		case c == '$' && isIdentStart(l.peekAt(1)):
			flush()
			l.scanSimpleInterpolation()
			litStart = l.pos
			continue

		case c == '{' && l.peekAt(1) == '$':
			flush()
			start := l.pos
			l.pos++
			l.emit(token.T_CURLY_OPEN, start)
			l.scanEmbeddedCode()
			litStart = l.pos
			continue

		case c == '$' && l.peekAt(1) == '{':
			flush()
			start := l.pos
			l.pos += 2
			l.emit(token.T_DOLLAR_OPEN_CURLY_BRACES, start)
			if isIdentStart(l.peekAt(0)) {
				save := l.pos
				l.skipIdent()
				next := l.peekAt(0)
				if next == '}' || next == '[' {
					l.emit(token.T_STRING_VARNAME, save)
				} else {
					l.pos = save
				}
			}
			l.scanEmbeddedCode()
			litStart = l.pos
			continue
		}
		l.pos++
	}
	flush()
}

// scanSimpleInterpolation handles "$var", "$var[key]" and "$var->prop".
func (l *Lexer) scanSimpleInterpolation() {
	start := l.pos
	l.pos++
	l.skipIdent()
	l.emit(token.T_VARIABLE, start)

	switch {
	case l.peekAt(0) == '[':
		start = l.pos
		l.pos++
		l.emit(token.T_OPEN_SQUARE, start)
		start = l.pos
		switch c := l.peekAt(0); {
		case c == '$' && isIdentStart(l.peekAt(1)):
			l.pos++
			l.skipIdent()
			l.emit(token.T_VARIABLE, start)
		case isDigit(c) || c == '-':
			l.pos++
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
			l.emit(token.T_NUM_STRING, start)
		case isIdentStart(c):
			l.skipIdent()
			l.emit(token.T_STRING, start)
		}
		if l.peekAt(0) == ']' {
			start = l.pos
			l.pos++
			l.emit(token.T_CLOSE_SQUARE, start)
		}
	case l.hasPrefix("->") && isIdentStart(l.peekAt(2)):
		start = l.pos
		l.pos += 2
		l.emit(token.T_OBJECT_OPERATOR, start)
		start = l.pos
		l.skipIdent()
		l.emit(token.T_STRING, start)
	}
}

// scanEmbeddedCode lexes regular tokens inside {$ ... } or ${ ... } until
// the brace that closes the embedded expression.
func (l *Lexer) scanEmbeddedCode() {
	depth := 1
	for l.pos < len(l.src) && depth > 0 {
		before := len(l.tokens)
		l.scanToken()
		for _, t := range l.tokens[before:] {
			switch {
			case t.Kind.OpensBlock():
				depth++
			case t.Kind.ClosesBlock():
				depth--
			}
		}
	}
}

func (l *Lexer) scanHeredoc() bool {
	start := l.pos
	i := l.pos + 3
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	nowdoc := false
	quote := byte(0)
	if i < len(l.src) && (l.src[i] == '\'' || l.src[i] == '"') {
		quote = l.src[i]
		nowdoc = quote == '\''
		i++
	}
	labelStart := i
	for i < len(l.src) && isIdentPart(l.src[i]) {
		i++
	}
	if i == labelStart || !isIdentStart(l.src[labelStart]) {
		return false
	}
	label := string(l.src[labelStart:i])
	if quote != 0 {
		if i >= len(l.src) || l.src[i] != quote {
			return false
		}
		i++
	}
	switch {
	case i+1 < len(l.src) && l.src[i] == '\r' && l.src[i+1] == '\n':
		i += 2
	case i < len(l.src) && l.src[i] == '\n':
		i++
	default:
		return false
	}

	l.pos = i
	l.emit(token.T_START_HEREDOC, start)

	atEnd := func() bool { return l.atHeredocEnd(label) }
	if nowdoc {
		bodyStart := l.pos
		for l.pos < len(l.src) && !atEnd() {
			l.pos++
		}
		if l.pos > bodyStart {
			l.emit(token.T_ENCAPSED_AND_WHITESPACE, bodyStart)
		}
	} else {
		l.scanEncapsed(atEnd)
	}

	if l.pos < len(l.src) {
		endStart := l.pos
		for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
			l.pos++
		}
		l.pos += len(label)
		l.emit(token.T_END_HEREDOC, endStart)
	}
	return true
}

// atHeredocEnd reports whether the current position starts the closing
// label line of a heredoc.
func (l *Lexer) atHeredocEnd(label string) bool {
	if l.pos > 0 && l.src[l.pos-1] != '\n' {
		return false
	}
	i := l.pos
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if !bytes.HasPrefix(l.src[i:], []byte(label)) {
		return false
	}
	after := i + len(label)
	return after >= len(l.src) || !isIdentPart(l.src[after])
}

// matchCast recognizes "(int)", "( string )" and friends, returning the
// cast kind and its byte length.
func (l *Lexer) matchCast() (token.Kind, int) {
	i := l.pos + 1
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	nameStart := i
	for i < len(l.src) && isIdentPart(l.src[i]) {
		i++
	}
	if i == nameStart {
		return token.T_UNKNOWN, 0
	}
	name := string(l.src[nameStart:i])
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if i >= len(l.src) || l.src[i] != ')' {
		return token.T_UNKNOWN, 0
	}
	kind, ok := token.LookupCast(name)
	if !ok {
		return token.T_UNKNOWN, 0
	}
	return kind, i + 1 - l.pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
