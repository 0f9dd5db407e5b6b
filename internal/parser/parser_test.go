package parser

import (
	"strings"
	"testing"

	"lox/internal/diag"
	"lox/internal/lexer"
)

func parseSource(r diag.Reporter, src string) *Parser {
	return New(r, lexer.Scan(src, r))
}

func TestProductionForms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"10 + 10;", "(; (+ 10 10))\n"},
		{"10 == 10;", "(; (== 10 10))\n"},
		{"\"a string\";", "(; \"a string\")\n"},
		{"\"a string\" + 10;", "(; (+ \"a string\" 10))\n"},
		{"(\"a string\" + 10);", "(; (group (+ \"a string\" 10)))\n"},
		{"print 10 == 11;", "(print (== 10 11))\n"},
		{" 10 > 11;", "(; (> 10 11))\n"},
		{" 10 * 11;", "(; (* 10 11))\n"},
		{"!!10;", "(; (! (! 10)))\n"},
		{"var a = 10;", "(var a = 10)\n"},
		{"var a;", "(var a)\n"},
		{"{ var a; } ", "(block\n    (var a)\n)\n"},
		{"a = 10 ;", "(; (= a 10))\n"},
		{"nil;", "(; Nil)\n"},
		{"-1 + 2;", "(; (+ (- 1) 2))\n"},
		{"a = b = 10;", "(; (= a (= b 10)))\n"},
		{"callee();", "(; (call callee))\n"},
		{"callee(a, 1 + 2);", "(; (call callee a (+ 1 2)))\n"},
		{"a.b().c;", "(; ((call (a.b)).c))\n"},
		{"this.value;", "(; (this.value))\n"},
		{
			"if ( a == 10 ) a = 10;",
			"(if (== a 10)\n    (; (= a 10))\n)\n",
		},
		{
			"if ( a == 10 ) a = 10 ; else b = 20;",
			"(if-else (== a 10)\n    (; (= a 10))\n    (; (= b 20))\n)\n",
		},
		{
			"if ( a == 10 or b == 20 ) a = 10;",
			"(if (or (== a 10) (== b 20))\n    (; (= a 10))\n)\n",
		},
		{
			"if ( a == 10 and b == 20 ) a = 10;",
			"(if (and (== a 10) (== b 20))\n    (; (= a 10))\n)\n",
		},
		{
			"while ( a == true ) a = false;",
			"(while (== a true)\n    (; (= a false))\n)\n",
		},
		{
			"for ( var i = 1 ; i < 10 ; i = i + 1 ) print i;",
			"(block\n" +
				"    (var i = 1)\n" +
				"    (while (< i 10)\n" +
				"        (block\n" +
				"            (print i)\n" +
				"            (; (= i (+ i 1)))\n" +
				"        )\n" +
				"    )\n" +
				")\n",
		},
		{
			// An omitted condition loops forever.
			"for ( i = 1 ; ; i = i + 1 ) print i;",
			"(block\n" +
				"    (; (= i 1))\n" +
				"    (while true\n" +
				"        (block\n" +
				"            (print i)\n" +
				"            (; (= i (+ i 1)))\n" +
				"        )\n" +
				"    )\n" +
				")\n",
		},
		{
			"for ( ; true ; i = i + 1 ) print i;",
			"(while true\n" +
				"    (block\n" +
				"        (print i)\n" +
				"        (; (= i (+ i 1)))\n" +
				"    )\n" +
				")\n",
		},
		{
			"for ( i = 1 ; true ; ) print i;",
			"(block\n" +
				"    (; (= i 1))\n" +
				"    (while true\n" +
				"        (print i)\n" +
				"    )\n" +
				")\n",
		},
		{
			"fun callee(a, b) { print a; print b ; }",
			"(fun callee(a b)\n    (print a)\n    (print b)\n)\n",
		},
		{
			"fun callee() { print c; print d ; }",
			"(fun callee()\n    (print c)\n    (print d)\n)\n",
		},
		{
			"class a_class { method_1() {} method_2(a) {}}",
			"(class a_class\n    (fun method_1()\n    )\n    (fun method_2(a)\n    )\n)\n",
		},
		{
			"fun callee() { return 10; }",
			"(fun callee()\n    (return 10)\n)\n",
		},
		{
			"fun callee() { return; }",
			"(fun callee()\n    (return)\n)\n",
		},
		{
			"class a_class { init() {this.value = 10;}}",
			"(class a_class\n    (fun init()\n        (; (= this value 10))\n    )\n)\n",
		},
		{
			"class sub_class < super_class {}",
			"(class sub_class < super_class\n)\n",
		},
		{"super.method ; ", "(; (super method))\n"},
	}

	for _, tt := range tests {
		sink := diag.NewSink()
		program := parseSource(sink, tt.input).ParseProgram()

		if len(program.Statements) != 1 {
			t.Fatalf("unexpected statement count for %q. got=%d",
				tt.input, len(program.Statements))
		}
		if sink.HasDiagnostics() {
			t.Fatalf("unexpected diagnostics for %q: %v", tt.input, sink.Diagnostics)
		}

		rendered := RenderStatement(program.Statements[0])
		if rendered != tt.expected {
			t.Errorf("unexpected parse of %q.\ngot:\n%s\nwant:\n%s",
				tt.input, rendered, tt.expected)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/ \"10\"", "Expect expression"},
		{"( \"10\"", "Expect ')' after expression"},
		{"print 10", "Expect ';' after value"},
		{"\"10\"", "Expect ';' after expression"},
		{"\"10\" = 10 ;", "Invalid assignment target"},
		{"if ( a = 10 ) a = 10 ; else { b = 20;", "Expect '}' after block"},
		{"if  a = 10 ) a = 10 ; ", "Expect '(' after 'if'"},
		{"if ( a = 10  a = 10 ; ", "Expect ')' after 'if' condition"},
		{"while  true ) a = 10 ; ", "Expect '(' after 'while'"},
		{"while ( true a = 10 ; ", "Expect ')' after 'while' condition"},
		{"for  i = 1 ; ; i = i + 1 ) print i;", "Expect '(' after 'for'"},
		{"for ( i = 1 ; i = i + 1 ) print i;", "Expect ';' after 'for' loop condition"},
		{"for ( i = 1 ; ; i = i + 1  print i;", "Expect ')' after 'for' clauses"},
		{"callee ( ;", "Expect expression"},
		{"callee ( a ;", "Expect ')' after function arguments"},
		{"callee ( a, ;", "Expect expression"},
		{"fun ( ;", "Expect function name"},
		{"fun callee a ;", "Expect '(' after function name"},
		{"fun callee ( 10 ;", "Expect parameter name"},
		{"fun callee ( a ;", "Expect ')' after function parameters"},
		{"fun callee ( a ) print a;", "Expect '{' before function body"},
		{"class { method_1() {} method_2(a) {}}", "Expect class name"},
		{"class a_class method_1() {} method_2(a) {}}", "Expect '{' before class body"},
		{"class a_class {method_1() {} method_2(a) {}", "Expect '}' after class body"},
		{"class sub_class < {}", "Expect superclass name"},
		{"var = 10;", "Expect a variable name"},
		{"var a = 10", "Expect ';' after variable declaration"},
		{"super 10", "Expect '.' after 'super'"},
		{"super", "Expect '.' after 'super'"},
		{"super.10", "Expect superclass method name"},
		{"fred.10", "Expect property name after '.'"},
	}

	for _, tt := range tests {
		sink := diag.NewSink()
		parseSource(sink, tt.input).ParseProgram()

		if len(sink.Diagnostics) == 0 {
			t.Fatalf("no diagnostics for %q", tt.input)
		}
		if got := sink.Diagnostics[0].Message; got != tt.expected {
			t.Errorf("unexpected first diagnostic for %q. got=%q, want=%q",
				tt.input, got, tt.expected)
		}
	}
}

func TestErrorLocations(t *testing.T) {
	// The location falls on the most recently consumed token, or on the
	// current token when nothing has been consumed yet.
	tests := []struct {
		input   string
		start   diag.FileLocation
		end     diag.FileLocation
		message string
	}{
		{"print 10", diag.FileLocation{Line: 0, Column: 6}, diag.FileLocation{Line: 0, Column: 8}, "Expect ';' after value"},
		{"/ 10;", diag.FileLocation{Line: 0, Column: 0}, diag.FileLocation{Line: 0, Column: 1}, "Expect expression"},
		{"fun ( ;", diag.FileLocation{Line: 0, Column: 0}, diag.FileLocation{Line: 0, Column: 3}, "Expect function name"},
	}

	for _, tt := range tests {
		sink := diag.NewSink()
		parseSource(sink, tt.input).ParseProgram()

		if !sink.HasDiagnostic(tt.start, tt.end, tt.message) {
			t.Errorf("missing diagnostic %q at %v-%v for %q. got=%v",
				tt.message, tt.start, tt.end, tt.input, sink.Diagnostics)
		}
	}
}

func TestSynchronizeRecoversAcrossStatements(t *testing.T) {
	sink := diag.NewSink()
	program := parseSource(sink, "var ;\nprint 1;\nfun ;").ParseProgram()

	if len(program.Statements) != 1 {
		t.Fatalf("expected the healthy statement to survive. got=%d statements",
			len(program.Statements))
	}
	if got := RenderStatement(program.Statements[0]); got != "(print 1)\n" {
		t.Errorf("unexpected surviving statement: %q", got)
	}

	if len(sink.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics. got=%d: %v", len(sink.Diagnostics), sink.Diagnostics)
	}
	if sink.Diagnostics[0].Message != "Expect a variable name" {
		t.Errorf("unexpected first diagnostic: %q", sink.Diagnostics[0].Message)
	}
	if sink.Diagnostics[1].Message != "Expect function name" {
		t.Errorf("unexpected second diagnostic: %q", sink.Diagnostics[1].Message)
	}

	// Failed statements also surface on the message channel.
	if !sink.HasMessage("Expect a variable name") || !sink.HasMessage("Expect function name") {
		t.Errorf("parse failures missing from messages: %v", sink.Messages)
	}
}

func TestParserAlwaysMakesProgress(t *testing.T) {
	// A failure that consumes nothing must not wedge the parse loop.
	sink := diag.NewSink()
	program := parseSource(sink, "var ) x;").ParseProgram()

	if len(program.Statements) != 1 {
		t.Fatalf("expected recovery to keep one statement. got=%d", len(program.Statements))
	}
	if got := RenderStatement(program.Statements[0]); got != "(; x)\n" {
		t.Errorf("unexpected surviving statement: %q", got)
	}
	if len(sink.Diagnostics) != 2 {
		t.Errorf("expected 2 diagnostics. got=%d: %v", len(sink.Diagnostics), sink.Diagnostics)
	}
}

func TestArgumentCountLimit(t *testing.T) {
	args := make([]string, maxCallArguments+2)
	for i := range args {
		args[i] = "1"
	}
	src := "callee(" + strings.Join(args, ", ") + ");"

	sink := diag.NewSink()
	program := parseSource(sink, src).ParseProgram()

	// The cap is report-only: the call still parses.
	if len(program.Statements) != 1 {
		t.Fatalf("expected the call to parse. got=%d statements", len(program.Statements))
	}
	found := false
	for _, d := range sink.Diagnostics {
		if d.Message == "Cannot have more than 255 arguments" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing argument-count diagnostic: %v", sink.Diagnostics)
	}
}

func TestAllowInvalidKeepsDanglingAccess(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"test. ;", "(; (test..))\n"},
		{"super. ;", "(; (super .))\n"},
	}

	for _, tt := range tests {
		sink := diag.NewSink()
		tokens := lexer.Scan(tt.input, sink)
		program := NewAllowInvalid(sink, tokens).ParseProgram()

		if len(program.Statements) != 1 {
			t.Fatalf("unexpected statement count for %q. got=%d",
				tt.input, len(program.Statements))
		}
		rendered := RenderStatement(program.Statements[0])
		if rendered != tt.expected {
			t.Errorf("unexpected parse of %q. got=%q, want=%q",
				tt.input, rendered, tt.expected)
		}

		// Strict mode refuses the same fragment.
		strict := diag.NewSink()
		strictProgram := parseSource(strict, tt.input).ParseProgram()
		if len(strictProgram.Statements) != 0 {
			t.Errorf("strict mode kept invalid fragment %q", tt.input)
		}
	}
}

func TestParseExpressionFragment(t *testing.T) {
	sink := diag.NewSink()
	expr := parseSource(sink, "1 + 2 * 3").ParseExpression()
	if expr == nil {
		t.Fatalf("expected an expression. diagnostics=%v", sink.Diagnostics)
	}
	if got := RenderExpression(expr); got != "(+ 1 (* 2 3))" {
		t.Errorf("unexpected expression. got=%q", got)
	}
	if sink.HasDiagnostics() {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics)
	}
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	sink := diag.NewSink()
	expr := parseSource(sink, "1 + 2 3").ParseExpression()
	if expr != nil {
		t.Fatalf("expected nil expression for trailing tokens")
	}
	if len(sink.Diagnostics) != 1 || sink.Diagnostics[0].Message != "Expect end of expression" {
		t.Errorf("unexpected diagnostics: %v", sink.Diagnostics)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := `class Counter < Base {
  init(start) {
    this.count = start;
  }
  bump() {
    this.count = this.count + 1;
    return this.count;
  }
}
fun run(c) {
  for (var i = 0; i < 3; i = i + 1) {
    print c.bump();
  }
}
run(Counter(10));`

	var rendered [2]string
	for i := range rendered {
		sink := diag.NewSink()
		program := parseSource(sink, src).ParseProgram()
		if sink.HasDiagnostics() {
			t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
		}
		rendered[i] = RenderProgram(program)
	}

	if rendered[0] != rendered[1] {
		t.Errorf("two parses of the same source differ.\nfirst:\n%s\nsecond:\n%s",
			rendered[0], rendered[1])
	}
}
