// Package resolver walks a parsed program and binds every identifier
// reference to its declaration before execution. It annotates reference
// nodes with the distance to the holding scope, records declaration
// sites for editor queries, and reports the static errors the grammar
// alone cannot catch.
package resolver

import (
	"fmt"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionInitialiser
	functionMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Kind labels a declaration for the analysis surface.
type Kind string

const (
	KindVariable  Kind = "variable"
	KindParameter Kind = "parameter"
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindMethod    Kind = "method"
	KindField     Kind = "field"
)

// Symbol is one recorded declaration.
type Symbol struct {
	Name string
	Kind Kind
	Span diag.Span
}

// Resolution carries everything the later passes need from the scope
// walk: the interpreter reads Depths, the analysis surface reads
// Definitions and Globals.
type Resolution struct {
	// Depths maps a reference expression to the number of scopes
	// between its use and the scope holding the binding. References
	// with no entry live in the global environment.
	Depths map[ast.Expression]int

	// Definitions maps a reference expression to the span of the name
	// in its declaration. Implicit bindings ('this', 'super') and
	// unresolved names have no entry.
	Definitions map[ast.Expression]diag.Span

	// Globals records the top-level declarations in source order,
	// including ones only reachable by forward reference at run time.
	Globals []Symbol
}

func newResolution() *Resolution {
	return &Resolution{
		Depths:      map[ast.Expression]int{},
		Definitions: map[ast.Expression]diag.Span{},
	}
}

type binding struct {
	defined bool
	hasSpan bool
	span    diag.Span
}

// scopeStack tracks block scopes innermost-last. The global scope is
// deliberately not stored: global names are late bound and never get a
// depth.
type scopeStack struct {
	scopes []map[string]*binding
}

func (s *scopeStack) begin() {
	s.scopes = append(s.scopes, map[string]*binding{})
}

func (s *scopeStack) end() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *scopeStack) global() bool {
	return len(s.scopes) == 0
}

// declare marks name as existing but not yet usable in the innermost
// scope. Declaring at global scope is a no-op.
func (s *scopeStack) declare(name string, span diag.Span) error {
	if s.global() {
		return nil
	}
	top := s.scopes[len(s.scopes)-1]
	if _, ok := top[name]; ok {
		return fmt.Errorf("Already a variable with the name '%s' is in scope", name)
	}
	top[name] = &binding{span: span, hasSpan: true}
	return nil
}

// define marks name ready for use, inserting it when it was never
// declared ('this' and 'super').
func (s *scopeStack) define(name string) {
	if s.global() {
		return
	}
	top := s.scopes[len(s.scopes)-1]
	if b, ok := top[name]; ok {
		b.defined = true
		return
	}
	top[name] = &binding{defined: true}
}

// declaredInCurrentScope reports whether name sits in the innermost
// scope still waiting for its initialiser.
func (s *scopeStack) declaredInCurrentScope(name string) bool {
	if s.global() {
		return false
	}
	b, ok := s.scopes[len(s.scopes)-1][name]
	return ok && !b.defined
}

// find returns the binding for name and its distance from the innermost
// scope. Global names are never found here.
func (s *scopeStack) find(name string) (*binding, int, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if b, ok := s.scopes[i][name]; ok {
			return b, len(s.scopes) - 1 - i, true
		}
	}
	return nil, 0, false
}

// Resolver performs the static scope walk. Errors never stop the walk;
// every problem in the program is reported in one pass.
type Resolver struct {
	reporter        diag.Reporter
	scopes          scopeStack
	resolution      *Resolution
	globals         map[string]diag.Span
	currentFunction functionType
	currentClass    classType
}

// Resolve walks program and returns its resolution. Static errors are
// reported through r; the returned resolution is usable (best effort)
// even when errors were found.
func Resolve(r diag.Reporter, program *ast.Program) *Resolution {
	res := &Resolver{
		reporter:   r,
		resolution: newResolution(),
		globals:    map[string]diag.Span{},
	}
	res.resolveStatements(program.Statements)
	return res.resolution
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, statement := range statements {
		r.resolveStatement(statement)
	}
}

func (r *Resolver) resolveStatement(statement ast.Statement) {
	switch node := statement.(type) {
	case *ast.BlockStatement:
		r.scopes.begin()
		r.resolveStatements(node.Statements)
		r.scopes.end()

	case *ast.ClassStatement:
		r.resolveClassStatement(node)

	case *ast.ExpressionStatement:
		r.resolveExpression(node.Expression)

	case *ast.FunctionStatement:
		r.declare(node.Name.Token, KindFunction)
		r.scopes.define(node.Name.Value)
		r.resolveFunction(functionFunction, node.Function)

	case *ast.IfStatement:
		r.resolveExpression(node.Condition)
		r.resolveStatement(node.ThenBranch)
		if node.ElseBranch != nil {
			r.resolveStatement(node.ElseBranch)
		}

	case *ast.PrintStatement:
		r.resolveExpression(node.Value)

	case *ast.ReturnStatement:
		if r.currentFunction == functionNone {
			r.addDiagnostic(node.Token, "Cannot return from top-level code")
		}
		if node.ReturnValue != nil {
			if r.currentFunction == functionInitialiser {
				r.addDiagnostic(node.Token, "Cannot return a value from an initialiser")
			}
			r.resolveExpression(node.ReturnValue)
		}

	case *ast.VarStatement:
		r.declare(node.Name.Token, KindVariable)
		if node.Value != nil {
			r.resolveExpression(node.Value)
		}
		r.scopes.define(node.Name.Value)

	case *ast.WhileStatement:
		r.resolveExpression(node.Condition)
		r.resolveStatement(node.Body)
	}
}

func (r *Resolver) resolveClassStatement(class *ast.ClassStatement) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(class.Name.Token, KindClass)
	r.scopes.define(class.Name.Value)

	if class.Superclass != nil {
		if class.Name.Value == class.Superclass.Value {
			r.addDiagnostic(class.Superclass.Token, "A class cannot inherit from itself")
		}
		r.currentClass = classSubclass
		r.resolveExpression(class.Superclass)
		r.scopes.begin()
		r.scopes.define("super")
	}

	r.scopes.begin()
	r.scopes.define("this")

	for _, method := range class.Methods {
		fnType := functionMethod
		if method.Name.Value == "init" {
			fnType = functionInitialiser
		}
		r.resolveFunction(fnType, method.Function)
	}

	r.scopes.end()
	if class.Superclass != nil {
		r.scopes.end()
	}

	r.currentClass = enclosingClass
}

// resolveFunction resolves a function body in a fresh scope holding the
// parameters. The body's statements share that scope.
func (r *Resolver) resolveFunction(fnType functionType, function *ast.FunctionLiteral) {
	enclosingFunction := r.currentFunction
	r.currentFunction = fnType

	r.scopes.begin()
	for _, parameter := range function.Parameters {
		r.declare(parameter.Token, KindParameter)
		r.scopes.define(parameter.Value)
	}
	r.resolveStatements(function.Body.Statements)
	r.scopes.end()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpression(expression ast.Expression) {
	switch node := expression.(type) {
	case *ast.Identifier:
		if r.scopes.declaredInCurrentScope(node.Value) {
			r.addDiagnostic(node.Token, "Cannot read local variable in its own initialiser")
		}
		r.resolveLocal(node, node.Value)

	case *ast.AssignExpression:
		r.resolveExpression(node.Value)
		r.resolveLocal(node, node.Name.Value)

	case *ast.InfixExpression:
		r.resolveExpression(node.Left)
		r.resolveExpression(node.Right)

	case *ast.LogicalExpression:
		r.resolveExpression(node.Left)
		r.resolveExpression(node.Right)

	case *ast.PrefixExpression:
		r.resolveExpression(node.Right)

	case *ast.CallExpression:
		r.resolveExpression(node.Function)
		for _, argument := range node.Arguments {
			r.resolveExpression(argument)
		}

	case *ast.GetExpression:
		r.resolveExpression(node.Object)

	case *ast.SetExpression:
		r.resolveExpression(node.Object)
		r.resolveExpression(node.Value)

	case *ast.GroupingExpression:
		r.resolveExpression(node.Expression)

	case *ast.ThisExpression:
		if r.currentClass == classNone {
			r.addDiagnostic(node.Token, "Cannot use 'this' outside of a class")
		}
		r.resolveLocal(node, "this")

	case *ast.SuperExpression:
		if r.currentClass == classNone {
			r.addDiagnostic(node.Token, "Cannot use 'super' outside of a class")
		} else if r.currentClass != classSubclass {
			r.addDiagnostic(node.Token, "Cannot use 'super' in a class with no superclass")
		}
		r.resolveLocal(node, "super")

	case *ast.InvalidGet:
		// Produced only by the completion-tolerant parse; the receiver
		// still needs its binding for receiver inference.
		r.resolveExpression(node.Object)
	}
}

// resolveLocal binds a reference to the nearest enclosing declaration.
// Names not found in any local scope are assumed global: they get no
// depth, and a definition only when a global declaration has already
// been seen.
func (r *Resolver) resolveLocal(expression ast.Expression, name string) {
	if b, depth, ok := r.scopes.find(name); ok {
		r.resolution.Depths[expression] = depth
		if b.hasSpan {
			r.resolution.Definitions[expression] = b.span
		}
		return
	}
	if span, ok := r.globals[name]; ok {
		r.resolution.Definitions[expression] = span
	}
}

// declare records a declaration. Local duplicates are an error; global
// scope tolerates redeclaration and every global declaration is added
// to the resolution's symbol list.
func (r *Resolver) declare(tok token.Token, kind Kind) {
	if r.scopes.global() {
		span := tok.Span()
		r.globals[tok.Literal] = span
		r.resolution.Globals = append(r.resolution.Globals, Symbol{
			Name: tok.Literal,
			Kind: kind,
			Span: span,
		})
		return
	}
	if err := r.scopes.declare(tok.Literal, tok.Span()); err != nil {
		r.addDiagnostic(tok, err.Error())
	}
}

func (r *Resolver) addDiagnostic(tok token.Token, message string) {
	r.reporter.AddDiagnostic(tok.Start, tok.End, message)
}
