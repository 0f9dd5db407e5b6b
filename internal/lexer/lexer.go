package lexer

import (
	"unicode"
	"unicode/utf8"

	"lox/internal/diag"
	"lox/internal/token"
)

type Lexer struct {
	input        string
	reporter     diag.Reporter
	position     int               // current byte position in input (points to start of current rune)
	readPosition int               // next byte position in input (start of next rune)
	ch           rune              // current rune under examination; 0 means EOF
	loc          diag.FileLocation // location of the current rune
	nextLoc      diag.FileLocation // location of the rune at readPosition
}

func New(input string, reporter diag.Reporter) *Lexer {
	l := &Lexer{input: input, reporter: reporter}
	l.readChar()
	return l
}

// Scan tokenizes the whole source, reporting lexical problems to r.
// The returned sequence always ends with an EOF token, even when the
// source contained errors (collect-all policy).
func Scan(source string, r diag.Reporter) []token.Token {
	l := New(source, r)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start := l.loc

	switch l.ch {
	case '(':
		return l.single(start, token.LPAREN)
	case ')':
		return l.single(start, token.RPAREN)
	case '{':
		return l.single(start, token.LBRACE)
	case '}':
		return l.single(start, token.RBRACE)
	case ',':
		return l.single(start, token.COMMA)
	case '.':
		return l.single(start, token.PERIOD)
	case ';':
		return l.single(start, token.SEMICOLON)
	case '+':
		return l.single(start, token.PLUS)
	case '-':
		return l.single(start, token.MINUS)
	case '*':
		return l.single(start, token.ASTERISK)
	case '/':
		// comments were consumed by skipWhitespace
		return l.single(start, token.SLASH)
	case '!':
		return l.compound(start, token.BANG, '=', token.NOT_EQ)
	case '=':
		return l.compound(start, token.ASSIGN, '=', token.EQ)
	case '<':
		return l.compound(start, token.LT, '=', token.LT_EQ)
	case '>':
		return l.compound(start, token.GT, '=', token.GT_EQ)
	case '"':
		return l.readString(start)
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Start: start, End: start}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(start)
		}
		if isDecimal(l.ch) {
			return l.readNumber(start)
		}
		literal := string(l.ch)
		l.readChar()
		l.reporter.AddDiagnostic(start, l.loc, "Unexpected character")
		return token.Token{Type: token.ILLEGAL, Literal: literal, Start: start, End: l.loc}
	}
}

func (l *Lexer) single(start diag.FileLocation, t token.TokenType) token.Token {
	literal := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: literal, Start: start, End: l.loc}
}

func (l *Lexer) compound(
	start diag.FileLocation,
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	first := l.ch
	if l.peekChar() == ch1 {
		l.readChar()
		literal := string(first) + string(l.ch)
		l.readChar()
		return token.Token{Type: t1, Literal: literal, Start: start, End: l.loc}
	}
	l.readChar()
	return token.Token{Type: t, Literal: string(first), Start: start, End: l.loc}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else if l.peekChar() == '*' {
				l.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.loc
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			l.reporter.AddDiagnostic(start, l.loc, "Unterminated block comment")
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// readString consumes a string literal. The language has no escape
// sequences and strings may span lines; the token literal is the body
// without the quotes while the span includes them.
func (l *Lexer) readString(start diag.FileLocation) token.Token {
	bodyStart := l.readPosition
	for {
		l.readChar()
		if l.ch == '"' || l.ch == 0 {
			break
		}
	}
	body := l.input[bodyStart:l.position]
	if l.ch == 0 {
		l.reporter.AddDiagnostic(start, l.loc, "Unterminated string")
		return token.Token{Type: token.ILLEGAL, Literal: body, Start: start, End: l.loc}
	}
	l.readChar() // move past the closing quote
	return token.Token{Type: token.STRING, Literal: body, Start: start, End: l.loc}
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier(start diag.FileLocation) token.Token {
	pos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[pos:l.position]
	return token.Token{Type: token.LookupIdent(literal), Literal: literal, Start: start, End: l.loc}
}

// readNumber consumes a decimal literal with an optional fractional part.
// A trailing '.' with no digit after it is left for the next token, so
// "10." scans as NUMBER(10) followed by PERIOD.
func (l *Lexer) readNumber(start diag.FileLocation) token.Token {
	pos := l.position
	for isDecimal(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDecimal(l.peekChar()) {
		l.readChar()
		for isDecimal(l.ch) {
			l.readChar()
		}
	}
	literal := l.input[pos:l.position]
	return token.Token{Type: token.NUMBER, Literal: literal, Start: start, End: l.loc}
}

// readChar advances by one UTF-8 rune, updating byte and line/column positions
func (l *Lexer) readChar() {
	l.loc = l.nextLoc
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	if r == '\n' {
		l.nextLoc = diag.FileLocation{Line: l.loc.Line + 1, Column: 0}
	} else {
		l.nextLoc = diag.FileLocation{Line: l.loc.Line, Column: l.loc.Column + 1}
	}
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// Unicode-aware helpers
func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	// identifier continuation allows any Unicode decimal digit
	return unicode.IsDigit(ch)
}

func isDecimal(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
