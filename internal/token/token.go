package token

import "lox/internal/diag"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // counter, makeCounter, x, y, ...
	NUMBER = "NUMBER" // 1343456, 10.5
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	AND      = "AND"
	CLASS    = "CLASS"
	ELSE     = "ELSE"
	FALSE    = "FALSE"
	FOR      = "FOR"
	FUNCTION = "FUN"
	IF       = "IF"
	NIL      = "NIL"
	OR       = "OR"
	PRINT    = "PRINT"
	RETURN   = "RETURN"
	SUPER    = "SUPER"
	THIS     = "THIS"
	TRUE     = "TRUE"
	VAR      = "VAR"
	WHILE    = "WHILE"
)

// Token carries the lexeme text and its source span. For STRING tokens
// Literal holds the body without the surrounding quotes; the span still
// covers the quotes.
type Token struct {
	Type    TokenType
	Literal string
	Start   diag.FileLocation
	End     diag.FileLocation
}

func (t Token) Span() diag.Span {
	return diag.Span{Start: t.Start, End: t.End}
}

var keywords = map[string]TokenType{
	// constants
	"nil":   NIL,
	"true":  TRUE,
	"false": FALSE,

	// declarations
	"class": CLASS,
	"fun":   FUNCTION,
	"var":   VAR,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"return": RETURN,

	// operators
	"and": AND,
	"or":  OR,

	// object references
	"this":  THIS,
	"super": SUPER,

	"print": PRINT,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// StatementStart reports whether a token type can begin a new statement.
// The parser resynchronizes on these after a syntax error.
func StatementStart(t TokenType) bool {
	switch t {
	case CLASS, FUNCTION, VAR, FOR, IF, WHILE, PRINT, RETURN:
		return true
	default:
		return false
	}
}
