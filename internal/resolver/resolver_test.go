package resolver

import (
	"testing"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/parser"
)

func resolveSource(t *testing.T, src string) (*ast.Program, *Resolution, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	program := parser.New(sink, lexer.Scan(src, sink)).ParseProgram()
	if sink.HasDiagnostics() {
		t.Fatalf("unexpected parse diagnostics for %q: %v", src, sink.Diagnostics)
	}
	sink.Reset()
	return program, Resolve(sink, program), sink
}

func hasDiagnosticMessage(sink *diag.Sink, message string) bool {
	for _, d := range sink.Diagnostics {
		if d.Message == message {
			return true
		}
	}
	return false
}

func TestScopeStackGlobalScope(t *testing.T) {
	var scopes scopeStack
	span := diag.Span{End: diag.FileLocation{Column: 1}}

	if err := scopes.declare("a", span); err != nil {
		t.Fatalf("unexpected failure declaring at global scope: %v", err)
	}
	if scopes.declaredInCurrentScope("a") {
		t.Errorf("global declaration should not be tracked")
	}

	scopes.define("a")

	if scopes.declaredInCurrentScope("a") {
		t.Errorf("global definition should not be tracked")
	}
	if _, _, ok := scopes.find("a"); ok {
		t.Errorf("global name should not resolve to a depth")
	}
}

func TestScopeStackDeclareDefine(t *testing.T) {
	var scopes scopeStack
	span := diag.Span{End: diag.FileLocation{Column: 1}}

	scopes.begin()

	if err := scopes.declare("a", span); err != nil {
		t.Fatalf("unexpected failure declaring 'a': %v", err)
	}
	if !scopes.declaredInCurrentScope("a") {
		t.Errorf("'a' should be declared but not defined")
	}

	scopes.define("a")

	if scopes.declaredInCurrentScope("a") {
		t.Errorf("'a' should be defined")
	}

	b, depth, ok := scopes.find("a")
	if !ok || depth != 0 {
		t.Fatalf("unexpected depth for 'a'. got=%d, ok=%t", depth, ok)
	}
	if !b.hasSpan || b.span != span {
		t.Errorf("unexpected binding span. got=%+v", b)
	}

	if err := scopes.declare("a", span); err == nil {
		t.Errorf("redeclaring 'a' should fail")
	} else if err.Error() != "Already a variable with the name 'a' is in scope" {
		t.Errorf("unexpected redeclaration message: %q", err.Error())
	}
}

func TestScopeStackDepths(t *testing.T) {
	var scopes scopeStack
	span := diag.Span{}

	_ = scopes.declare("global", span)

	scopes.begin()
	_ = scopes.declare("first", span)

	if _, _, ok := scopes.find("global"); ok {
		t.Errorf("'global' should not resolve")
	}
	if _, depth, ok := scopes.find("first"); !ok || depth != 0 {
		t.Errorf("unexpected depth for 'first'. got=%d, ok=%t", depth, ok)
	}

	scopes.begin()
	_ = scopes.declare("second", span)

	if _, depth, ok := scopes.find("first"); !ok || depth != 1 {
		t.Errorf("unexpected depth for 'first'. got=%d, ok=%t", depth, ok)
	}
	if _, depth, ok := scopes.find("second"); !ok || depth != 0 {
		t.Errorf("unexpected depth for 'second'. got=%d, ok=%t", depth, ok)
	}

	scopes.end()

	if _, depth, ok := scopes.find("first"); !ok || depth != 0 {
		t.Errorf("unexpected depth for 'first' after end. got=%d, ok=%t", depth, ok)
	}
	if _, _, ok := scopes.find("second"); ok {
		t.Errorf("'second' should not resolve after its scope ended")
	}

	scopes.end()

	if _, _, ok := scopes.find("first"); ok {
		t.Errorf("'first' should not resolve after its scope ended")
	}
}

func TestStaticErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"{ var a = 1; var a = 2; }",
			"Already a variable with the name 'a' is in scope",
		},
		{
			"fun broken(a, a) {}",
			"Already a variable with the name 'a' is in scope",
		},
		{
			"fun broken(a) { var a ; }",
			"Already a variable with the name 'a' is in scope",
		},
		{
			"fun broken(a) { var b = 1 ; var b = 2; }",
			"Already a variable with the name 'b' is in scope",
		},
		{
			"{ var a = a; }",
			"Cannot read local variable in its own initialiser",
		},
		{"return false;", "Cannot return from top-level code"},
		{
			"class Example { init() { return 10; } }",
			"Cannot return a value from an initialiser",
		},
		{
			"class Example < Example { }",
			"A class cannot inherit from itself",
		},
		{"print this;", "Cannot use 'this' outside of a class"},
		{"print super.method;", "Cannot use 'super' outside of a class"},
		{
			"class Example { error() { return super.bob; } }",
			"Cannot use 'super' in a class with no superclass",
		},
	}

	for _, tt := range tests {
		_, _, sink := resolveSource(t, tt.input)
		if !hasDiagnosticMessage(sink, tt.expected) {
			t.Errorf("missing diagnostic %q for %q. got=%v",
				tt.expected, tt.input, sink.Diagnostics)
		}
	}
}

func TestErrorsDoNotStopTheWalk(t *testing.T) {
	_, _, sink := resolveSource(t, "return 1;\nprint this;")

	if len(sink.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics. got=%d: %v", len(sink.Diagnostics), sink.Diagnostics)
	}
	if sink.Diagnostics[0].Message != "Cannot return from top-level code" {
		t.Errorf("unexpected first diagnostic: %q", sink.Diagnostics[0].Message)
	}
	if sink.Diagnostics[1].Message != "Cannot use 'this' outside of a class" {
		t.Errorf("unexpected second diagnostic: %q", sink.Diagnostics[1].Message)
	}
}

func TestErrorLocation(t *testing.T) {
	_, _, sink := resolveSource(t, "print this;")

	start := diag.FileLocation{Line: 0, Column: 6}
	end := diag.FileLocation{Line: 0, Column: 10}
	if !sink.HasDiagnostic(start, end, "Cannot use 'this' outside of a class") {
		t.Errorf("missing located diagnostic. got=%v", sink.Diagnostics)
	}
}

func TestReferenceDepths(t *testing.T) {
	program, resolution, sink := resolveSource(t,
		"{ var a = 1; print a; fun inner() { print a; } }")
	if sink.HasDiagnostics() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
	}

	block := program.Statements[0].(*ast.BlockStatement)
	direct := block.Statements[1].(*ast.PrintStatement).Value.(*ast.Identifier)
	inner := block.Statements[2].(*ast.FunctionStatement)
	captured := inner.Function.Body.Statements[0].(*ast.PrintStatement).Value.(*ast.Identifier)

	if depth, ok := resolution.Depths[direct]; !ok || depth != 0 {
		t.Errorf("unexpected depth for direct reference. got=%d, ok=%t", depth, ok)
	}
	if depth, ok := resolution.Depths[captured]; !ok || depth != 1 {
		t.Errorf("unexpected depth for captured reference. got=%d, ok=%t", depth, ok)
	}

	declared := diag.Span{
		Start: diag.FileLocation{Line: 0, Column: 6},
		End:   diag.FileLocation{Line: 0, Column: 7},
	}
	if span, ok := resolution.Definitions[direct]; !ok || span != declared {
		t.Errorf("unexpected definition for direct reference. got=%v, ok=%t", span, ok)
	}
	if span, ok := resolution.Definitions[captured]; !ok || span != declared {
		t.Errorf("unexpected definition for captured reference. got=%v, ok=%t", span, ok)
	}
}

func TestThisAndSuperDepths(t *testing.T) {
	program, resolution, sink := resolveSource(t,
		"class Base {}\nclass Sub < Base { method() { return this; } probe() { return super.m; } }")
	if sink.HasDiagnostics() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
	}

	sub := program.Statements[1].(*ast.ClassStatement)
	thisRef := sub.Methods[0].Function.Body.Statements[0].(*ast.ReturnStatement).
		ReturnValue.(*ast.ThisExpression)
	superRef := sub.Methods[1].Function.Body.Statements[0].(*ast.ReturnStatement).
		ReturnValue.(*ast.SuperExpression)

	// Method bodies sit inside the 'this' scope, which sits inside the
	// 'super' scope for a subclass.
	if depth, ok := resolution.Depths[thisRef]; !ok || depth != 1 {
		t.Errorf("unexpected depth for 'this'. got=%d, ok=%t", depth, ok)
	}
	if depth, ok := resolution.Depths[superRef]; !ok || depth != 2 {
		t.Errorf("unexpected depth for 'super'. got=%d, ok=%t", depth, ok)
	}
	if _, ok := resolution.Definitions[thisRef]; ok {
		t.Errorf("'this' should have no recorded definition")
	}

	// The superclass clause is itself a reference to the base class.
	base := diag.Span{
		Start: diag.FileLocation{Line: 0, Column: 6},
		End:   diag.FileLocation{Line: 0, Column: 10},
	}
	if span, ok := resolution.Definitions[sub.Superclass]; !ok || span != base {
		t.Errorf("unexpected definition for superclass clause. got=%v, ok=%t", span, ok)
	}
}

func TestGlobalSymbols(t *testing.T) {
	_, resolution, sink := resolveSource(t, "var a = 1;\nfun f() {}\nclass C {}")
	if sink.HasDiagnostics() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
	}

	expected := []Symbol{
		{Name: "a", Kind: KindVariable, Span: diag.Span{
			Start: diag.FileLocation{Line: 0, Column: 4},
			End:   diag.FileLocation{Line: 0, Column: 5},
		}},
		{Name: "f", Kind: KindFunction, Span: diag.Span{
			Start: diag.FileLocation{Line: 1, Column: 4},
			End:   diag.FileLocation{Line: 1, Column: 5},
		}},
		{Name: "C", Kind: KindClass, Span: diag.Span{
			Start: diag.FileLocation{Line: 2, Column: 6},
			End:   diag.FileLocation{Line: 2, Column: 7},
		}},
	}

	if len(resolution.Globals) != len(expected) {
		t.Fatalf("unexpected global count. got=%d, want=%d",
			len(resolution.Globals), len(expected))
	}
	for i, want := range expected {
		if resolution.Globals[i] != want {
			t.Errorf("unexpected global %d. got=%+v, want=%+v",
				i, resolution.Globals[i], want)
		}
	}
}

func TestForwardGlobalReference(t *testing.T) {
	program, resolution, sink := resolveSource(t, "fun f() { print g; }\nvar g = 1;")
	if sink.HasDiagnostics() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
	}

	f := program.Statements[0].(*ast.FunctionStatement)
	ref := f.Function.Body.Statements[0].(*ast.PrintStatement).Value.(*ast.Identifier)

	// The declaration comes later in the source, so the walk cannot bind
	// the reference; the symbol list still carries the declaration.
	if _, ok := resolution.Depths[ref]; ok {
		t.Errorf("forward global reference should have no depth")
	}
	if _, ok := resolution.Definitions[ref]; ok {
		t.Errorf("forward global reference should have no recorded definition")
	}

	found := false
	for _, symbol := range resolution.Globals {
		if symbol.Name == "g" && symbol.Kind == KindVariable {
			found = true
		}
	}
	if !found {
		t.Errorf("missing global symbol for 'g'. got=%+v", resolution.Globals)
	}
}
