// Package lexer converts JavaScript source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	base      token.Position // absolute position of input[0]
	pos       int            // current byte offset within input
	line      int
	lineStart int
	column    int
	file      string
	prev      token.Type // type of the previous significant token
	newline   bool       // a line terminator was seen since the last token
}

// LexerState captures the lexer position so the parser can look ahead and
// rewind.
type LexerState struct {
	pos       int
	line      int
	lineStart int
	column    int
	prev      token.Type
	newline   bool
}

// New creates a Lexer instance for the given input.
func New(input string) *Lexer {
	return NewAt(input, token.Position{})
}

// NewAt creates a Lexer whose token positions are reported relative to
// start. It is used to lex fragments of a larger file, such as template
// literal interpolations.
func NewAt(input string, start token.Position) *Lexer {
	return &Lexer{
		input:     input,
		base:      start,
		line:      start.Line,
		lineStart: start.LineStart,
		column:    start.Column,
		file:      start.File,
	}
}

// SetFilename sets the file name used in token positions.
func (l *Lexer) SetFilename(name string) {
	l.file = name
}

// Filename returns the file name used in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// SaveState returns the current lexer state.
func (l *Lexer) SaveState() LexerState {
	return LexerState{
		pos:       l.pos,
		line:      l.line,
		lineStart: l.lineStart,
		column:    l.column,
		prev:      l.prev,
		newline:   l.newline,
	}
}

// RestoreState rewinds the lexer to a previously saved state.
func (l *Lexer) RestoreState(s LexerState) {
	l.pos = s.pos
	l.line = s.line
	l.lineStart = s.lineStart
	l.column = s.column
	l.prev = s.prev
	l.newline = s.newline
}

// Next returns the next token from the input. On a lexical error the
// returned token has type ILLEGAL and spans the offending text.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipTrivia(); err != nil {
		return token.Token{
			Type:          token.ILLEGAL,
			StartPosition: err.pos,
			EndPosition:   l.position(),
			NewlineBefore: l.takeNewline(),
		}, err
	}
	newline := l.takeNewline()
	start := l.position()
	if l.pos >= len(l.input) {
		return token.Token{
			Type:          token.EOF,
			StartPosition: start,
			EndPosition:   start,
			NewlineBefore: newline,
		}, nil
	}

	var tok token.Token
	var err *Error
	ch := l.peek()
	switch {
	case isIdentifierStart(ch):
		tok = l.readIdentifier()
	case ch == '#':
		tok, err = l.readPrivateName(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		tok, err = l.readNumber(start)
	case ch == '"' || ch == '\'':
		tok, err = l.readString(start)
	case ch == '`':
		tok, err = l.readTemplate(start)
	case ch == '/' && l.regexAllowed():
		tok, err = l.readRegex(start)
	default:
		tok, err = l.readPunctuator(start)
	}
	tok.StartPosition = start
	tok.EndPosition = l.position()
	tok.NewlineBefore = newline
	// Line breaks inside a template or string do not precede the next token.
	l.newline = false
	if err != nil {
		tok.Type = token.ILLEGAL
		return tok, err
	}
	l.prev = tok.Type
	return tok, nil
}

// Error describes a lexical error at a position in the input.
type Error struct {
	msg string
	pos token.Position
}

func (e *Error) Error() string {
	return e.msg
}

// Position returns the location where the offending text starts.
func (e *Error) Position() token.Position {
	return e.pos
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), pos: pos}
}

func (l *Lexer) takeNewline() bool {
	nl := l.newline
	l.newline = false
	return nl
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.base.Char + l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.file,
	}
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes past the current position, or 0.
func (l *Lexer) peekAt(n int) rune {
	i := l.pos
	for ; n > 0 && i < len(l.input); n-- {
		_, w := utf8.DecodeRuneInString(l.input[i:])
		i += w
	}
	if i >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[i:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	if r == '\r' && l.pos < len(l.input) && l.input[l.pos] == '\n' {
		// The '\n' of a CRLF pair ends the line.
		l.column++
		return r
	}
	if isLineTerminator(r) {
		l.line++
		l.column = 0
		l.lineStart = l.base.Char + l.pos
		l.newline = true
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// skipTrivia consumes whitespace, comments and a leading hashbang line.
func (l *Lexer) skipTrivia() *Error {
	if l.pos == 0 && l.base.Char == 0 && l.hasPrefix("#!") {
		l.skipLine()
	}
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == '/' && l.peekAt(1) == '/':
			l.skipLine()
		case ch == '/' && l.peekAt(1) == '*':
			start := l.position()
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.input) {
				if l.hasPrefix("*/") {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return l.errorf(start, "unterminated comment")
			}
		case isWhitespace(ch) || isLineTerminator(ch):
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipLine() {
	for l.pos < len(l.input) && !isLineTerminator(l.peek()) {
		l.advance()
	}
}

// regexAllowed decides whether a "/" begins a regular expression literal by
// looking at the previous significant token: a regex can appear wherever an
// expression may begin.
func (l *Lexer) regexAllowed() bool {
	switch l.prev {
	case "":
		return true
	case token.IDENT, token.PRIVATE_NAME, token.NUMBER, token.STRING,
		token.TEMPLATE, token.REGEX, token.RPAREN, token.RBRACKET,
		token.PLUS_PLUS, token.MINUS_MINUS, token.THIS, token.SUPER,
		token.TRUE, token.FALSE, token.NULL:
		return false
	}
	return true
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	l.advance()
	for l.pos < len(l.input) && isIdentifierPart(l.peek()) {
		l.advance()
	}
	literal := l.input[start:l.pos]
	return token.Token{Type: token.LookupIdentifier(literal), Literal: literal}
}

func (l *Lexer) readPrivateName(start token.Position) (token.Token, *Error) {
	from := l.pos
	l.advance() // '#'
	if !isIdentifierStart(l.peek()) {
		return token.Token{Literal: "#"}, l.errorf(start, "unexpected character '#'")
	}
	for l.pos < len(l.input) && isIdentifierPart(l.peek()) {
		l.advance()
	}
	return token.Token{Type: token.PRIVATE_NAME, Literal: l.input[from:l.pos]}, nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, *Error) {
	from := l.pos
	var err *Error
	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		radix := unicode.ToLower(l.advance())
		digits := l.readDigits(func(r rune) bool { return isRadixDigit(r, radix) })
		if digits == 0 {
			err = l.errorf(start, "invalid number literal")
		}
		if l.peek() == 'n' {
			l.advance()
		}
	} else {
		l.readDigits(isDigit)
		if l.peek() == '.' {
			l.advance()
			l.readDigits(isDigit)
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			if l.readDigits(isDigit) == 0 {
				err = l.errorf(start, "invalid number literal")
			}
		} else if l.peek() == 'n' {
			l.advance()
		}
	}
	literal := l.input[from:l.pos]
	if err == nil && l.pos < len(l.input) && (isIdentifierStart(l.peek()) || isDigit(l.peek())) {
		for l.pos < len(l.input) && isIdentifierPart(l.peek()) {
			l.advance()
		}
		literal = l.input[from:l.pos]
		err = l.errorf(start, "identifier starts immediately after numeric literal")
	}
	if err == nil && (strings.Contains(literal, "__") || strings.HasSuffix(literal, "_")) {
		err = l.errorf(start, "invalid numeric separator")
	}
	return token.Token{Type: token.NUMBER, Literal: literal}, err
}

// readDigits consumes digits accepted by ok plus numeric separators and
// returns the number of digits read.
func (l *Lexer) readDigits(ok func(rune) bool) int {
	count := 0
	for l.pos < len(l.input) {
		ch := l.peek()
		if ok(ch) {
			count++
		} else if ch != '_' || count == 0 {
			break
		}
		l.advance()
	}
	return count
}

func (l *Lexer) readString(start token.Position) (token.Token, *Error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) || isLineTerminator(l.peek()) {
			return token.Token{Type: token.STRING, Literal: sb.String()},
				l.errorf(start, "unterminated string literal")
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch != '\\' {
			sb.WriteRune(ch)
			continue
		}
		if err := l.readEscape(&sb, start); err != nil {
			return token.Token{Type: token.STRING, Literal: sb.String()}, err
		}
	}
	return token.Token{Type: token.STRING, Literal: sb.String()}, nil
}

// readEscape decodes the escape sequence following a backslash.
func (l *Lexer) readEscape(sb *strings.Builder, start token.Position) *Error {
	if l.pos >= len(l.input) {
		return l.errorf(start, "unterminated string literal")
	}
	ch := l.advance()
	switch ch {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\r':
		if l.peek() == '\n' {
			l.advance()
		}
	case '\n', '\u2028', '\u2029':
		// line continuation
	case 'x':
		return l.readHexEscape(sb, 2, start)
	case 'u':
		if l.peek() == '{' {
			l.advance()
			from := l.pos
			for l.pos < len(l.input) && l.peek() != '}' {
				l.advance()
			}
			hex := l.input[from:l.pos]
			if l.pos >= len(l.input) {
				return l.errorf(start, "invalid unicode escape sequence")
			}
			l.advance()
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || v > unicode.MaxRune {
				return l.errorf(start, "invalid unicode escape sequence")
			}
			sb.WriteRune(rune(v))
			return nil
		}
		return l.readHexEscape(sb, 4, start)
	default:
		sb.WriteRune(ch)
	}
	return nil
}

func (l *Lexer) readHexEscape(sb *strings.Builder, n int, start token.Position) *Error {
	from := l.pos
	for i := 0; i < n; i++ {
		if !isRadixDigit(l.peek(), 'x') {
			return l.errorf(start, "invalid escape sequence")
		}
		l.advance()
	}
	v, _ := strconv.ParseUint(l.input[from:l.pos], 16, 32)
	sb.WriteRune(rune(v))
	return nil
}

// readTemplate reads a template literal. The token literal is the raw text
// between the backticks; interpolations are split out by the parser.
func (l *Lexer) readTemplate(start token.Position) (token.Token, *Error) {
	l.advance() // '`'
	from := l.pos
	if !l.skipTemplateBody() {
		return token.Token{Type: token.TEMPLATE, Literal: l.input[from:l.pos]},
			l.errorf(start, "unterminated template literal")
	}
	literal := l.input[from : l.pos-1]
	return token.Token{Type: token.TEMPLATE, Literal: literal}, nil
}

// skipTemplateBody consumes template text up to and including the closing
// backtick. It returns false if the input ends first.
func (l *Lexer) skipTemplateBody() bool {
	for l.pos < len(l.input) {
		ch := l.advance()
		switch {
		case ch == '\\':
			l.advance()
		case ch == '`':
			return true
		case ch == '$' && l.peek() == '{':
			l.advance()
			if !l.skipInterpolation() {
				return false
			}
		}
	}
	return false
}

// skipInterpolation consumes the inside of a ${...} up to and including the
// matching closing brace.
func (l *Lexer) skipInterpolation() bool {
	depth := 1
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return true
			}
		case '"', '\'':
			for l.pos < len(l.input) {
				c := l.advance()
				if c == '\\' {
					l.advance()
				} else if c == ch || isLineTerminator(c) {
					break
				}
			}
		case '`':
			if !l.skipTemplateBody() {
				return false
			}
		}
	}
	return false
}

func (l *Lexer) readRegex(start token.Position) (token.Token, *Error) {
	from := l.pos
	l.advance() // '/'
	inClass := false
	for {
		if l.pos >= len(l.input) || isLineTerminator(l.peek()) {
			return token.Token{Type: token.REGEX, Literal: l.input[from:l.pos]},
				l.errorf(start, "unterminated regular expression literal")
		}
		ch := l.advance()
		if ch == '\\' {
			if l.pos < len(l.input) && !isLineTerminator(l.peek()) {
				l.advance()
			}
			continue
		}
		if ch == '[' {
			inClass = true
		} else if ch == ']' {
			inClass = false
		} else if ch == '/' && !inClass {
			break
		}
	}
	for l.pos < len(l.input) && isIdentifierPart(l.peek()) {
		l.advance()
	}
	return token.Token{Type: token.REGEX, Literal: l.input[from:l.pos]}, nil
}

// Punctuators ordered so that longer operators are tried first.
var punctuators = []token.Type{
	token.GT_GT_GT_EQUALS,
	token.STRICT_EQ, token.STRICT_NE, token.POW_EQUALS, token.SPREAD,
	token.LT_LT_EQUALS, token.GT_GT_EQUALS, token.GT_GT_GT,
	token.LOGICAL_AND_EQ, token.LOGICAL_OR_EQ, token.NULLISH_EQUALS,
	token.ARROW, token.EQ, token.NOT_EQ, token.LT_EQUALS, token.GT_EQUALS,
	token.AND, token.OR, token.NULLISH, token.QUESTION_DOT, token.PLUS_PLUS,
	token.MINUS_MINUS, token.PLUS_EQUALS, token.MINUS_EQUALS,
	token.ASTERISK_EQUALS, token.SLASH_EQUALS, token.MOD_EQUALS,
	token.AND_EQUALS, token.OR_EQUALS, token.XOR_EQUALS, token.POW,
	token.LT_LT, token.GT_GT,
	token.LBRACE, token.RBRACE, token.LPAREN, token.RPAREN, token.LBRACKET,
	token.RBRACKET, token.PERIOD, token.SEMICOLON, token.COMMA, token.COLON,
	token.QUESTION, token.LT, token.GT, token.PLUS, token.MINUS,
	token.ASTERISK, token.SLASH, token.MOD, token.AMPERSAND, token.BITOR,
	token.CARET, token.BANG, token.TILDE, token.ASSIGN,
}

func (l *Lexer) readPunctuator(start token.Position) (token.Token, *Error) {
	for _, p := range punctuators {
		s := string(p)
		if !l.hasPrefix(s) {
			continue
		}
		// "a?.5:b" is a conditional, not optional chaining.
		if p == token.QUESTION_DOT && isDigit(l.peekAt(2)) {
			continue
		}
		for range s {
			l.advance()
		}
		return token.Token{Type: p, Literal: s}, nil
	}
	ch := l.advance()
	return token.Token{Literal: string(ch)}, l.errorf(start, "unexpected character %q", ch)
}

// GetLineText returns the source line containing tok.
func (l *Lexer) GetLineText(tok token.Token) string {
	return l.LineAt(tok.StartPosition)
}

// LineAt returns the source line containing pos. Positions produced by a
// lexer created with NewAt are only resolved when they fall on a line that
// starts inside its input.
func (l *Lexer) LineAt(pos token.Position) string {
	return LineText(l.input, pos.LineStart-l.base.Char)
}

// LineText returns the full text of the line that starts at byte offset
// lineStart within src.
func LineText(src string, lineStart int) string {
	if lineStart < 0 || lineStart > len(src) {
		return ""
	}
	rest := src[lineStart:]
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func isIdentifierStart(ch rune) bool {
	return ch == '$' || ch == '_' || unicode.IsLetter(ch)
}

func isIdentifierPart(ch rune) bool {
	return isIdentifierStart(ch) || unicode.IsDigit(ch) ||
		unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch) ||
		ch == '\u200c' || ch == '\u200d'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isRadixDigit(ch rune, radix rune) bool {
	switch radix {
	case 'x':
		return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
	case 'o':
		return '0' <= ch && ch <= '7'
	case 'b':
		return ch == '0' || ch == '1'
	}
	return false
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\v', '\f', '\r', '\u00a0', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, ch)
}

func isLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\u2028' || ch == '\u2029'
}
