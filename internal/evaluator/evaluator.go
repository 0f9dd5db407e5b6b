// Package evaluator walks a resolved syntax tree and executes it. One
// runtime error ends the run: the failure is reported as a diagnostic at
// the offending expression plus a plain message, and evaluation stops.
package evaluator

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/foreign"
	"lox/internal/object"
	"lox/internal/resolver"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// maxCallDepth bounds user-level recursion so a runaway program reports
// a runtime error instead of exhausting the Go stack.
const maxCallDepth = 1024

// Interpret executes a resolved program. All output and failures go
// through the reporter; the call itself never fails.
func Interpret(r diag.Reporter, program *ast.Program, resolution *resolver.Resolution) {
	e := New(r, resolution)
	e.Run(program)
}

type Evaluator struct {
	reporter   diag.Reporter
	resolution *resolver.Resolution
	globals    *object.Environment
	envStack   []*object.Environment
	callDepth  int
	handles    atomic.Int64
}

// New builds an evaluator with a fresh global environment holding the
// native functions. Every run starts from a clean slate.
func New(r diag.Reporter, resolution *resolver.Resolution) *Evaluator {
	globals := object.NewEnvironment()
	for name, fn := range foreign.GetForeignFunctions() {
		globals.Define(name, fn)
	}

	e := &Evaluator{
		reporter:   r,
		resolution: resolution,
		globals:    globals,
	}
	e.PushEnv(globals)
	return e
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("environment stack is empty")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Run executes the program's statements in order, stopping at the first
// runtime error. The error's diagnostic was already recorded where it
// arose; the message sink gets the bare message as well.
func (e *Evaluator) Run(program *ast.Program) {
	slog.Debug("interpreting", slog.Int("statements", len(program.Statements)))

	for _, statement := range program.Statements {
		result := e.Eval(statement)
		if err, ok := result.(*object.Error); ok {
			e.reporter.AddMessage(err.Message)
			return
		}
	}
}

func (e *Evaluator) Eval(node ast.Node) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalStatements(node.Statements)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node)

	case *ast.ExpressionStatement:
		// The value of a bare expression statement is discarded.
		return e.Eval(node.Expression)

	case *ast.VarStatement:
		return e.evalVarStatement(node)

	case *ast.PrintStatement:
		return e.evalPrintStatement(node)

	case *ast.IfStatement:
		return e.evalIfStatement(node)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node)

	case *ast.ReturnStatement:
		return e.evalReturnStatement(node)

	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node)

	case *ast.ClassStatement:
		return e.evalClassStatement(node)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.Nil:
		return NIL

	case *ast.GroupingExpression:
		return e.Eval(node.Expression)

	case *ast.Identifier:
		return e.lookUpVariable(node.Value, node)

	case *ast.AssignExpression:
		return e.evalAssignExpression(node)

	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node)

	case *ast.InfixExpression:
		return e.evalInfixExpression(node)

	case *ast.LogicalExpression:
		return e.evalLogicalExpression(node)

	case *ast.CallExpression:
		return e.evalCallExpression(node)

	case *ast.GetExpression:
		return e.evalGetExpression(node)

	case *ast.SetExpression:
		return e.evalSetExpression(node)

	case *ast.ThisExpression:
		return e.lookUpVariable("this", node)

	case *ast.SuperExpression:
		return e.evalSuperExpression(node)
	}

	return NIL
}

func (e *Evaluator) evalStatements(statements []ast.Statement) object.Object {
	var result object.Object = NIL

	for _, statement := range statements {
		result = e.Eval(statement)

		rt := result.Type()
		if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
			return result
		}
	}

	return result
}

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement) object.Object {
	blockEnv := object.NewEnclosedEnvironment(e.CurrentEnv())
	e.PushEnv(blockEnv)
	defer e.PopEnv()

	return e.evalStatements(block.Statements)
}

func (e *Evaluator) evalVarStatement(node *ast.VarStatement) object.Object {
	var value object.Object = NIL
	if node.Value != nil {
		value = e.Eval(node.Value)
		if e.isError(value) {
			return value
		}
	}

	e.CurrentEnv().Define(node.Name.Value, value)
	return NIL
}

func (e *Evaluator) evalPrintStatement(node *ast.PrintStatement) object.Object {
	value := e.Eval(node.Value)
	if e.isError(value) {
		return value
	}

	e.reporter.AddMessage(fmt.Sprintf("[print] %s", value.Inspect()))
	return NIL
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement) object.Object {
	condition := e.Eval(node.Condition)
	if e.isError(condition) {
		return condition
	}

	if e.isTruthy(condition) {
		return e.Eval(node.ThenBranch)
	}
	if node.ElseBranch != nil {
		return e.Eval(node.ElseBranch)
	}
	return NIL
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement) object.Object {
	for {
		condition := e.Eval(node.Condition)
		if e.isError(condition) {
			return condition
		}
		if !e.isTruthy(condition) {
			return NIL
		}

		result := e.Eval(node.Body)
		rt := result.Type()
		if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
			return result
		}
	}
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement) object.Object {
	var value object.Object = NIL
	if node.ReturnValue != nil {
		value = e.Eval(node.ReturnValue)
		if e.isError(value) {
			return value
		}
	}

	return &object.ReturnValue{Value: value}
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement) object.Object {
	function := &object.Function{
		Name:       node.Name.Value,
		Parameters: node.Function.Parameters,
		Body:       node.Function.Body,
		Closure:    e.CurrentEnv(),
	}
	e.CurrentEnv().Define(node.Name.Value, function)
	return NIL
}

// evalClassStatement defines the class name first so methods can refer
// to the class itself, then fills the binding in once the class object
// exists.
func (e *Evaluator) evalClassStatement(node *ast.ClassStatement) object.Object {
	env := e.CurrentEnv()
	env.Define(node.Name.Value, NIL)

	var superclass *object.Class
	closure := env
	if node.Superclass != nil {
		value := e.Eval(node.Superclass)
		if e.isError(value) {
			return value
		}
		sc, ok := value.(*object.Class)
		if !ok {
			return e.runtimeError(node.Superclass.Span(), "Superclass must be a class")
		}
		superclass = sc

		// Methods close over an extra scope holding super.
		closure = object.NewEnclosedEnvironment(env)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*object.Function)
	for _, method := range node.Methods {
		methods[method.Name.Value] = &object.Function{
			Name:          method.Name.Value,
			Parameters:    method.Function.Parameters,
			Body:          method.Function.Body,
			Closure:       closure,
			IsInitialiser: method.Name.Value == "init",
		}
	}

	class := &object.Class{
		Name:       node.Name.Value,
		Superclass: superclass,
		Methods:    methods,
	}
	env.AssignAt(0, node.Name.Value, class)
	return NIL
}

func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression) object.Object {
	value := e.Eval(node.Value)
	if e.isError(value) {
		return value
	}

	if depth, ok := e.resolution.Depths[node]; ok {
		e.CurrentEnv().AssignAt(depth, node.Name.Value, value)
	} else if !e.globals.Assign(node.Name.Value, value) {
		return e.runtimeError(node.Span(), "Undefined variable '%s'", node.Name.Value)
	}

	return value
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression) object.Object {
	right := e.Eval(node.Right)
	if e.isError(right) {
		return right
	}

	switch node.Operator {
	case "!":
		return nativeBoolToBooleanObject(!e.isTruthy(right))
	case "-":
		value, errObj := e.checkNumberOperand(node, right)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: -value}
	default:
		return e.runtimeError(node.Span(), "Unsupported operand")
	}
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression) object.Object {
	left := e.Eval(node.Left)
	if e.isError(left) {
		return left
	}
	right := e.Eval(node.Right)
	if e.isError(right) {
		return right
	}

	switch node.Operator {
	case "+":
		if leftNum, ok := left.(*object.Number); ok {
			if rightNum, ok := right.(*object.Number); ok {
				return &object.Number{Value: leftNum.Value + rightNum.Value}
			}
		}
		if leftStr, ok := left.(*object.String); ok {
			if rightStr, ok := right.(*object.String); ok {
				return &object.String{Value: leftStr.Value + rightStr.Value}
			}
		}
		return e.runtimeError(node.Span(), "Operands must be two numbers or two strings")

	case "==":
		return nativeBoolToBooleanObject(isEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!isEqual(left, right))
	}

	// The remaining operators work on numbers only. The right operand is
	// checked first, matching the order the messages are reported in.
	rightVal, errObj := e.checkNumberOperand(node, right)
	if errObj != nil {
		return errObj
	}
	leftVal, errObj := e.checkNumberOperand(node, left)
	if errObj != nil {
		return errObj
	}

	switch node.Operator {
	case "-":
		return &object.Number{Value: leftVal - rightVal}
	case "/":
		return &object.Number{Value: leftVal / rightVal}
	case "*":
		return &object.Number{Value: leftVal * rightVal}
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	default:
		return e.runtimeError(node.Span(), "Unsupported operator")
	}
}

// evalLogicalExpression short-circuits and yields an operand value, not
// a coerced boolean.
func (e *Evaluator) evalLogicalExpression(node *ast.LogicalExpression) object.Object {
	left := e.Eval(node.Left)
	if e.isError(left) {
		return left
	}

	if node.Operator == "or" {
		if e.isTruthy(left) {
			return left
		}
	} else if !e.isTruthy(left) {
		return left
	}

	return e.Eval(node.Right)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression) object.Object {
	callee := e.Eval(node.Function)
	if e.isError(callee) {
		return callee
	}

	var args []object.Object
	for _, argument := range node.Arguments {
		arg := e.Eval(argument)
		if e.isError(arg) {
			return arg
		}
		args = append(args, arg)
	}

	return e.callFunction(callee, node.Function, args)
}

// callFunction dispatches a call on any callable value. Arity failures
// and non-callables report at the callee expression.
func (e *Evaluator) callFunction(callee object.Object, calleeExpr ast.Expression, args []object.Object) object.Object {
	switch fn := callee.(type) {
	case *object.Function:
		if len(args) != fn.Arity() {
			return e.runtimeError(calleeExpr.Span(), "Expected %d arguments but got %d", fn.Arity(), len(args))
		}
		return e.applyFunction(fn, calleeExpr, args)

	case *object.Class:
		if len(args) != fn.Arity() {
			return e.runtimeError(calleeExpr.Span(), "Expected %d arguments but got %d", fn.Arity(), len(args))
		}
		instance := object.NewInstance(fn)
		if init, ok := fn.FindMethod("init"); ok {
			if result := e.applyFunction(init.Bind(instance), calleeExpr, args); e.isError(result) {
				return result
			}
		}
		// Instantiation always yields the instance, whatever init did.
		return instance

	case *object.Foreign:
		if len(args) != fn.Arity {
			return e.runtimeError(calleeExpr.Span(), "Expected %d arguments but got %d", fn.Arity, len(args))
		}
		result := fn.Fn(e, args...)
		if err, ok := result.(*object.Error); ok && !err.HasSpan {
			// Native code has no source position; pin the failure to
			// the call site.
			err.Span = calleeExpr.Span()
			err.HasSpan = true
			e.reporter.AddDiagnostic(err.Span.Start, err.Span.End, err.Message)
		}
		return result

	default:
		return e.runtimeError(calleeExpr.Span(), "Can only call functions and classes")
	}
}

// applyFunction runs a user function. The body's statements execute
// directly in the parameter environment, one scope inside the closure.
func (e *Evaluator) applyFunction(fn *object.Function, calleeExpr ast.Expression, args []object.Object) object.Object {
	if e.callDepth >= maxCallDepth {
		return e.runtimeError(calleeExpr.Span(), "Stack overflow")
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	env := object.NewEnclosedEnvironment(fn.Closure)
	for i, param := range fn.Parameters {
		env.Define(param.Value, args[i])
	}

	e.PushEnv(env)
	result := e.evalStatements(fn.Body.Statements)
	e.PopEnv()

	if e.isError(result) {
		return result
	}
	if fn.IsInitialiser {
		// An initialiser yields the receiver, for bare returns too.
		if this, ok := fn.Closure.GetAt(0, "this"); ok {
			return this
		}
		return NIL
	}
	if returnValue, ok := result.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	return NIL
}

func (e *Evaluator) evalGetExpression(node *ast.GetExpression) object.Object {
	obj := e.Eval(node.Object)
	if e.isError(obj) {
		return obj
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return e.runtimeError(node.Object.Span(), "Only instances have fields")
	}
	value, ok := instance.Get(node.Name.Value)
	if !ok {
		return e.runtimeError(node.Object.Span(), "Undefined property '%s'", node.Name.Value)
	}
	return value
}

func (e *Evaluator) evalSetExpression(node *ast.SetExpression) object.Object {
	obj := e.Eval(node.Object)
	if e.isError(obj) {
		return obj
	}
	value := e.Eval(node.Value)
	if e.isError(value) {
		return value
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return e.runtimeError(node.Object.Span(), "Only instances have fields")
	}
	instance.Set(node.Name.Value, value)
	return value
}

// evalSuperExpression resolves the method against the statically bound
// superclass, not the runtime class of the receiver.
func (e *Evaluator) evalSuperExpression(node *ast.SuperExpression) object.Object {
	depth, ok := e.resolution.Depths[node]
	if !ok {
		return e.runtimeError(node.Span(), "Undefined variable 'super'")
	}

	superObj, _ := e.CurrentEnv().GetAt(depth, "super")
	superclass, ok := superObj.(*object.Class)
	if !ok {
		return e.runtimeError(node.Span(), "Undefined variable 'super'")
	}

	// this lives one scope inside the scope holding super.
	thisObj, _ := e.CurrentEnv().GetAt(depth-1, "this")
	instance, ok := thisObj.(*object.Instance)
	if !ok {
		return e.runtimeError(node.Span(), "Undefined variable 'this'")
	}

	method, ok := superclass.FindMethod(node.Method.Value)
	if !ok {
		return e.runtimeError(node.Method.Span(), "Undefined property '%s'", node.Method.Value)
	}
	return method.Bind(instance)
}

func (e *Evaluator) lookUpVariable(name string, expr ast.Expression) object.Object {
	if depth, ok := e.resolution.Depths[expr]; ok {
		if value, ok := e.CurrentEnv().GetAt(depth, name); ok {
			return value
		}
	} else if value, ok := e.globals.Get(name); ok {
		return value
	}

	return e.runtimeError(expr.Span(), "Undefined variable '%s'", name)
}

func (e *Evaluator) checkNumberOperand(expression ast.Expression, obj object.Object) (float64, *object.Error) {
	number, ok := obj.(*object.Number)
	if !ok {
		return 0, e.runtimeError(expression.Span(), "Operand should be a number")
	}
	return number.Value, nil
}

func (e *Evaluator) checkStringOperand(expression ast.Expression, obj object.Object) (string, *object.Error) {
	str, ok := obj.(*object.String)
	if !ok {
		return "", e.runtimeError(expression.Span(), "Operand should be a string")
	}
	return str.Value, nil
}

func (e *Evaluator) isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return obj.Value
	default:
		return true
	}
}

// isEqual compares primitives by value and everything else by identity.
// Values of different types are never equal.
func isEqual(left, right object.Object) bool {
	switch left := left.(type) {
	case *object.Nil:
		_, ok := right.(*object.Nil)
		return ok
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && left.Value == r.Value
	case *object.Number:
		r, ok := right.(*object.Number)
		return ok && left.Value == r.Value
	case *object.String:
		r, ok := right.(*object.String)
		return ok && left.Value == r.Value
	default:
		return left == right
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// runtimeError records the diagnostic where the failure happened and
// returns the error object that unwinds the evaluation.
func (e *Evaluator) runtimeError(span diag.Span, format string, a ...interface{}) *object.Error {
	message := fmt.Sprintf(format, a...)
	e.reporter.AddDiagnostic(span.Start, span.End, message)
	return &object.Error{Message: message, Span: span, HasSpan: true}
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func (e *Evaluator) isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
