package lexer

import (
	"testing"

	"lox/internal/diag"
	"lox/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
fun add(x, y) {
  x + y;
}
// comment
class Foo < Bar {}
if (five <= 10 and !done) { print "yes"; } else { nil; }
while (true or false) { this.count = 1; }
for (;;) {}
return super.init;
1 == 2; 3 != 4; 5 > 6; 7 >= 8; 9 < 10; 11 - 12; 13 * 14; 15 / 16;
10.5
/* block
comment */ done`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAR, "var"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.FUNCTION, "fun"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.CLASS, "class"},
		{token.IDENT, "Foo"},
		{token.LT, "<"},
		{token.IDENT, "Bar"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "five"},
		{token.LT_EQ, "<="},
		{token.NUMBER, "10"},
		{token.AND, "and"},
		{token.BANG, "!"},
		{token.IDENT, "done"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.STRING, "yes"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.NIL, "nil"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.TRUE, "true"},
		{token.OR, "or"},
		{token.FALSE, "false"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.THIS, "this"},
		{token.PERIOD, "."},
		{token.IDENT, "count"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.FOR, "for"},
		{token.LPAREN, "("},
		{token.SEMICOLON, ";"},
		{token.SEMICOLON, ";"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.SUPER, "super"},
		{token.PERIOD, "."},
		{token.IDENT, "init"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "1"},
		{token.EQ, "=="},
		{token.NUMBER, "2"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "3"},
		{token.NOT_EQ, "!="},
		{token.NUMBER, "4"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "5"},
		{token.GT, ">"},
		{token.NUMBER, "6"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "7"},
		{token.GT_EQ, ">="},
		{token.NUMBER, "8"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "9"},
		{token.LT, "<"},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "11"},
		{token.MINUS, "-"},
		{token.NUMBER, "12"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "13"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "14"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "15"},
		{token.SLASH, "/"},
		{token.NUMBER, "16"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "10.5"},
		{token.IDENT, "done"},
		{token.EOF, ""},
	}

	r := diag.NewSink()
	l := New(input, r)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}

	if r.HasDiagnostics() {
		t.Errorf("unexpected diagnostics: %+v", r.Diagnostics)
	}
}

func TestTokenSpans(t *testing.T) {
	r := diag.NewSink()
	tokens := Scan("(!=\n\"a b\"", r)

	expected := []struct {
		typ        token.TokenType
		start, end diag.FileLocation
	}{
		{token.LPAREN, diag.FileLocation{Line: 0, Column: 0}, diag.FileLocation{Line: 0, Column: 1}},
		{token.NOT_EQ, diag.FileLocation{Line: 0, Column: 1}, diag.FileLocation{Line: 0, Column: 3}},
		{token.STRING, diag.FileLocation{Line: 1, Column: 0}, diag.FileLocation{Line: 1, Column: 5}},
		{token.EOF, diag.FileLocation{Line: 1, Column: 5}, diag.FileLocation{Line: 1, Column: 5}},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count = %d, want %d (%+v)", len(tokens), len(expected), tokens)
	}
	for i, want := range expected {
		tok := tokens[i]
		if tok.Type != want.typ || tok.Start != want.start || tok.End != want.end {
			t.Errorf("tokens[%d] = %q %v-%v, want %q %v-%v",
				i, tok.Type, tok.Start, tok.End, want.typ, want.start, want.end)
		}
	}
	if r.HasDiagnostics() {
		t.Errorf("unexpected diagnostics: %+v", r.Diagnostics)
	}
}

func TestMultiLineStringSpan(t *testing.T) {
	r := diag.NewSink()
	tokens := Scan("\"ab\ncd\" x", r)

	if tokens[0].Type != token.STRING || tokens[0].Literal != "ab\ncd" {
		t.Fatalf("string token = %q %q", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[0].Start != (diag.FileLocation{Line: 0, Column: 0}) ||
		tokens[0].End != (diag.FileLocation{Line: 1, Column: 3}) {
		t.Errorf("string span = %v-%v, want 0:0-1:3", tokens[0].Start, tokens[0].End)
	}
	if tokens[1].Type != token.IDENT || tokens[1].Start != (diag.FileLocation{Line: 1, Column: 4}) {
		t.Errorf("identifier after string = %q at %v", tokens[1].Type, tokens[1].Start)
	}
}

func TestNumberThenPeriod(t *testing.T) {
	r := diag.NewSink()
	tokens := Scan("10.", r)

	if tokens[0].Type != token.NUMBER || tokens[0].Literal != "10" {
		t.Fatalf("tokens[0] = %q %q, want NUMBER 10", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[1].Type != token.PERIOD {
		t.Fatalf("tokens[1] = %q, want PERIOD", tokens[1].Type)
	}
}

func TestScanCollectsAllErrors(t *testing.T) {
	r := diag.NewSink()
	tokens := Scan("@ \"abc", r)

	if len(r.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %d, want 2 (%+v)", len(r.Diagnostics), r.Diagnostics)
	}
	if !r.HasDiagnostic(diag.FileLocation{Line: 0, Column: 0}, diag.FileLocation{Line: 0, Column: 1}, "Unexpected character") {
		t.Errorf("missing unexpected-character diagnostic: %+v", r.Diagnostics)
	}
	if !r.HasDiagnostic(diag.FileLocation{Line: 0, Column: 2}, diag.FileLocation{Line: 0, Column: 6}, "Unterminated string") {
		t.Errorf("missing unterminated-string diagnostic: %+v", r.Diagnostics)
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		t.Errorf("scan did not run to EOF after errors")
	}
}

func TestUnterminatedStringReportsOnce(t *testing.T) {
	r := diag.NewSink()
	Scan("print \"never closed", r)

	count := 0
	for _, d := range r.Diagnostics {
		if d.Message == "Unterminated string" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("unterminated string reported %d times, want 1", count)
	}
}

func TestExcerptDiagnosticsBiasedToDocumentCoordinates(t *testing.T) {
	// A host scanning a two-line excerpt wraps its reporter with the
	// excerpt's document offset; diagnostics come back absolute.
	sink := diag.NewSink()
	r := diag.WithOffset(sink, diag.FileLocation{Line: 10, Column: 4})

	Scan("&\n^", r)

	if !sink.HasDiagnostic(diag.FileLocation{Line: 10, Column: 4}, diag.FileLocation{Line: 10, Column: 5}, "Unexpected character") {
		t.Errorf("first-line diagnostic not document-absolute: %+v", sink.Diagnostics)
	}
	if !sink.HasDiagnostic(diag.FileLocation{Line: 11, Column: 0}, diag.FileLocation{Line: 11, Column: 1}, "Unexpected character") {
		t.Errorf("second-line diagnostic not document-absolute: %+v", sink.Diagnostics)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	r := diag.NewSink()
	tokens := Scan("1 /* open", r)

	if !r.HasDiagnostic(diag.FileLocation{Line: 0, Column: 2}, diag.FileLocation{Line: 0, Column: 9}, "Unterminated block comment") {
		t.Errorf("missing block comment diagnostic: %+v", r.Diagnostics)
	}
	if tokens[0].Type != token.NUMBER || tokens[1].Type != token.EOF {
		t.Errorf("tokens = %+v", tokens)
	}
}
