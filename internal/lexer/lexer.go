// Package lexer implements the Thy scanner: source text in, a flat token
// sequence out.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlmostGalactic/Thyddle/internal/token"
)

// Error is a non-fatal diagnostic produced while scanning. Scanning never
// aborts on an Error; it is recorded and scanning continues, per spec.md §7.
type Error struct {
	Message string
	Pos     token.Position
}

// Lexer turns Thy source text into a token stream.
type Lexer struct {
	input   string
	start   int
	current int
	line    int
	errors  []Error
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Errors returns the diagnostics accumulated while scanning.
func (l *Lexer) Errors() []Error { return l.errors }

// ScanTokens scans the entire input and returns the resulting token
// sequence, always terminated by an EOF token.
func (l *Lexer) ScanTokens() []token.Token {
	var tokens []token.Token
	for {
		tok, ok := l.nextToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) nextToken() (token.Token, bool) {
	l.skipWhitespaceAndComments()
	l.start = l.current

	if l.isAtEnd() {
		return l.makeToken(token.EOF), true
	}

	c := l.advance()

	switch {
	case c == '(':
		return l.makeToken(token.LEFT_PAREN), true
	case c == ')':
		return l.makeToken(token.RIGHT_PAREN), true
	case c == '{':
		return l.makeToken(token.LEFT_BRACE), true
	case c == '}':
		return l.makeToken(token.RIGHT_BRACE), true
	case c == '[':
		return l.makeToken(token.LEFT_BRACKET), true
	case c == ']':
		return l.makeToken(token.RIGHT_BRACKET), true
	case c == ',':
		return l.makeToken(token.COMMA), true
	case c == '.':
		return l.makeToken(token.DOT), true
	case c == '-':
		if l.match('>') {
			return l.makeToken(token.ARROW), true
		}
		return l.makeToken(token.MINUS), true
	case c == '+':
		return l.makeToken(token.PLUS), true
	case c == ';':
		return l.makeToken(token.SEMICOLON), true
	case c == '*':
		return l.makeToken(token.STAR), true
	case c == '%':
		return l.makeToken(token.MODULO), true
	case c == '|':
		return l.makeToken(token.PIPE), true
	case c == ':':
		if l.match(':') {
			return l.makeToken(token.DOUBLE_COLON), true
		}
		return l.makeToken(token.COLON), true
	case c == '!':
		if l.match('=') {
			return l.makeToken(token.BANG_EQUAL), true
		}
		return l.makeToken(token.BANG), true
	case c == '=':
		if l.match('=') {
			return l.makeToken(token.EQUAL_EQUAL), true
		}
		return l.makeToken(token.EQUAL), true
	case c == '<':
		if l.match('=') {
			return l.makeToken(token.LESS_EQUAL), true
		}
		return l.makeToken(token.LESS), true
	case c == '>':
		if l.match('=') {
			return l.makeToken(token.GREATER_EQUAL), true
		}
		return l.makeToken(token.GREATER), true
	case c == '/':
		return l.makeToken(token.SLASH), true
	case c == '"' || c == '\'':
		return l.scanString(c)
	case isDigit(c):
		return l.scanNumber(), true
	case isAlpha(c):
		return l.scanIdentifier(), true
	default:
		l.addError("unexpected character %q", string(c))
		return token.Token{}, false
	}
}

// skipWhitespaceAndComments advances past spaces, newlines, line comments
// (//) and block comments (/* ... */, non-nesting). A '/' that starts
// neither kind of comment is left in place for nextToken to scan as the
// division operator.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		c := l.peek()
		switch c {
		case ' ', '\r', '\t':
			l.current++
		case '\n':
			l.current++
			l.line++
		case '/':
			if l.peekAt(1) == '/' {
				for !l.isAtEnd() && l.peek() != '\n' {
					l.current++
				}
			} else if l.peekAt(1) == '*' {
				l.current += 2
				l.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.current += 2
			return
		}
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}
	l.addError("unterminated block comment")
}

// scanString scans a single- or double-quoted string, or — when the
// opening quote is a double quote immediately followed by two more double
// quotes — a triple-quoted multi-line string. Only the """ form is
// triple-quoted; ''' scans as an empty single-quoted string.
func (l *Lexer) scanString(quote byte) (token.Token, bool) {
	if quote == '"' && l.peek() == '"' && l.peekAt(1) == '"' {
		return l.scanMultilineString()
	}

	var sb strings.Builder
	for !l.isAtEnd() && l.peek() != rune(quote) {
		c := l.peek()
		if c == '\n' {
			l.line++
		}
		if c == '\\' {
			l.current++
			sb.WriteString(l.decodeEscape())
			continue
		}
		sb.WriteRune(c)
		l.current++
	}

	if l.isAtEnd() {
		l.addError("unterminated string")
		return l.makeTokenWithLiteral(token.STRING, sb.String()), true
	}

	l.current++ // closing quote
	return l.makeTokenWithLiteral(token.STRING, sb.String()), true
}

func (l *Lexer) scanMultilineString() (token.Token, bool) {
	l.current += 2 // consume the two remaining opening quotes

	var sb strings.Builder
	for !l.isAtEnd() && !(l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"') {
		c := l.peek()
		if c == '\n' {
			l.line++
		}
		if c == '\\' {
			l.current++
			sb.WriteString(l.decodeEscape())
			continue
		}
		sb.WriteRune(c)
		l.current++
	}

	if l.isAtEnd() {
		l.addError("unterminated multiline string")
		return l.makeTokenWithLiteral(token.MULTILINE_STRING, sb.String()), true
	}

	l.current += 3 // closing triple quote
	return l.makeTokenWithLiteral(token.MULTILINE_STRING, sb.String()), true
}

// decodeEscape decodes the sequence after a backslash already consumed by
// the caller, advancing past the escaped character. Unknown escapes pass
// both the backslash and the character through unchanged.
func (l *Lexer) decodeEscape() string {
	if l.isAtEnd() {
		return "\\"
	}
	c := l.peek()
	l.current++
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '"':
		return "\""
	case '\'':
		return "'"
	default:
		return "\\" + string(c)
	}
}

func (l *Lexer) scanNumber() token.Token {
	// Hex and binary literals: 0x..., 0b...
	if l.input[l.start] == '0' {
		if l.peek() == 'x' || l.peek() == 'X' {
			l.current++
			for isHexDigit(l.peek()) {
				l.current++
			}
			text := l.input[l.start+2 : l.current]
			v, _ := strconv.ParseInt(text, 16, 64)
			return l.makeTokenWithLiteral(token.NUMBER, v)
		}
		if l.peek() == 'b' || l.peek() == 'B' {
			l.current++
			for l.peek() == '0' || l.peek() == '1' {
				l.current++
			}
			text := l.input[l.start+2 : l.current]
			v, _ := strconv.ParseInt(text, 2, 64)
			return l.makeTokenWithLiteral(token.NUMBER, v)
		}
	}

	for isDigit(byte(l.peek())) {
		l.current++
	}

	isFloat := false
	if l.peek() == '.' && isDigit(byte(l.peekAt(1))) {
		isFloat = true
		l.current++
		for isDigit(byte(l.peek())) {
			l.current++
		}
	}

	text := l.input[l.start:l.current]
	if isFloat {
		f, _ := strconv.ParseFloat(text, 64)
		if f == float64(int64(f)) {
			return l.makeTokenWithLiteral(token.NUMBER, int64(f))
		}
		return l.makeTokenWithLiteral(token.NUMBER, f)
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(text, 64)
		return l.makeTokenWithLiteral(token.NUMBER, f)
	}
	return l.makeTokenWithLiteral(token.NUMBER, i)
}

func (l *Lexer) scanIdentifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.current++
	}
	text := l.input[l.start:l.current]
	return l.makeToken(token.Lookup(text))
}

func (l *Lexer) addError(format string, args ...interface{}) {
	l.errors = append(l.errors, Error{
		Message: fmt.Sprintf(format, args...),
		Pos:     token.Position{Line: l.line},
	})
}

func (l *Lexer) makeToken(t token.Type) token.Token {
	return token.Token{
		Type:   t,
		Lexeme: l.input[l.start:l.current],
		Pos:    token.Position{Line: l.line},
	}
}

func (l *Lexer) makeTokenWithLiteral(t token.Type, literal interface{}) token.Token {
	tok := l.makeToken(t)
	tok.Literal = literal
	return tok
}

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.input) }

func (l *Lexer) advance() byte {
	c := l.input[l.current]
	l.current++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.input[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return rune(l.input[l.current])
}

func (l *Lexer) peekAt(n int) rune {
	if l.current+n >= len(l.input) {
		return 0
	}
	return rune(l.input[l.current+n])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c rune) bool {
	return isDigit(byte(c)) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(byte(c)) || isDigit(byte(c))
}
