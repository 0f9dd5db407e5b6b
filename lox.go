// Package lox is the execution core for the Lox scripting language: a
// scanner, a recovering recursive-descent parser, a static scope
// resolver, and a tree-walking interpreter, plus read-only definition
// and completion queries for editors. Every entry operation reports
// through a diag.Reporter and returns normally; language problems are
// diagnostics, never Go errors or panics.
package lox

import (
	"fmt"
	"strings"

	"lox/internal/analysis"
	"lox/internal/diag"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/resolver"
)

// Run executes source top to bottom: the behaviour behind the CLI and
// the REPL.
func Run(r diag.Reporter, source string) {
	Interpret(r, source)
}

// Scan tokenizes source and reports every token as a message, the
// trailing EOF included.
func Scan(r diag.Reporter, source string) {
	for _, tok := range lexer.Scan(source, r) {
		r.AddMessage(fmt.Sprintf("[token]: %s %s", tok.Type, tok.Literal))
	}
}

// Parse scans and parses a full program, reporting each top-level
// statement in s-expression form. Scan errors stop the pipeline before
// the parser runs.
func Parse(r diag.Reporter, source string) {
	tokens := lexer.Scan(source, r)
	if r.HasDiagnostics() {
		r.AddMessage("[parser] not parsing due to scan errors")
		return
	}

	program := parser.New(r, tokens).ParseProgram()
	for _, statement := range program.Statements {
		rendered := strings.TrimSuffix(parser.RenderStatement(statement), "\n")
		r.AddMessage(fmt.Sprintf("[stmt] %s", rendered))
	}
}

// ParseExpression parses source as one bare expression, for callers
// evaluating a selected fragment rather than a whole program. Trailing
// tokens after the expression are an error.
func ParseExpression(r diag.Reporter, source string) {
	tokens := lexer.Scan(source, r)
	if r.HasDiagnostics() {
		r.AddMessage("[parser] not parsing due to scan errors")
		return
	}

	expr := parser.New(r, tokens).ParseExpression()
	if expr != nil {
		r.AddMessage(fmt.Sprintf("[expr] %s", parser.RenderExpression(expr)))
	}
}

// Resolve runs the static pipeline without executing anything: scan,
// parse, then the scope resolution checks. Diagnostics from every stage
// that ran are collected; there is no output on success.
func Resolve(r diag.Reporter, source string) {
	tokens := lexer.Scan(source, r)
	if r.HasDiagnostics() {
		return
	}
	program := parser.New(r, tokens).ParseProgram()
	if r.HasDiagnostics() {
		return
	}
	resolver.Resolve(r, program)
}

// Interpret runs the full pipeline on source. Each stage gates the
// next: scan errors stop the parse, parse errors stop everything
// after, resolution errors stop execution. A fresh global environment
// is built for every call; nothing persists between runs.
func Interpret(r diag.Reporter, source string) {
	tokens := lexer.Scan(source, r)
	if r.HasDiagnostics() {
		r.AddMessage("[parser] not parsing due to scan errors")
		return
	}

	program := parser.New(r, tokens).ParseProgram()
	if r.HasDiagnostics() {
		r.AddMessage("[interpreter] not interpreting due to parsing errors")
		return
	}

	resolution := resolver.Resolve(r, program)
	if r.HasDiagnostics() {
		r.AddMessage("[interpreter] not interpreting due to resolution errors")
		return
	}

	evaluator.Interpret(r, program, resolution)
}

// ProvideDefinition returns the declaration sites for the name at pos
// in source: zero spans or one.
func ProvideDefinition(r diag.Reporter, source string, pos diag.FileLocation) []diag.Span {
	return analysis.ProvideDefinition(r, source, pos)
}

// ProvideCompletions returns the names visible at pos in source,
// ordered inner scope first.
func ProvideCompletions(r diag.Reporter, source string, pos diag.FileLocation) []analysis.Completion {
	return analysis.ProvideCompletions(r, source, pos)
}
