package object

import (
	"fmt"
	"strconv"

	"lox/internal/ast"
	"lox/internal/diag"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	FUNCTION_OBJ = "FUNCTION"
	FOREIGN_OBJ  = "FOREIGN"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// EvaluatorContext provides the bridge between native Go code and the
// interpreter, giving Foreign Function Interface (FFI) implementations
// access to the helpers they need without importing the evaluator.
type EvaluatorContext interface {
	NewError(message string, a ...interface{}) *Error
	Nil() *Nil
	NativeBoolToBooleanObject(input bool) *Boolean
	NextHandleID() int64
}

type ForeignFunction func(ctx EvaluatorContext, args ...Object) Object

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return "\"" + s.Value + "\"" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// ReturnValue carries the operand of a return statement back up the
// evaluation of a function body.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error aborts the evaluation that produced it. Span records where the
// failure happened; HasSpan is false for errors raised inside foreign
// functions, which have no source position of their own.
type Error struct {
	Message string
	Span    diag.Span
	HasSpan bool
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Message }

// Function is a user-declared function or method together with the
// environment it closes over.
type Function struct {
	Name          string
	Parameters    []*ast.Identifier
	Body          *ast.BlockStatement
	Closure       *Environment
	IsInitialiser bool
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "\"fun " + f.Name + "\"" }
func (f *Function) Arity() int       { return len(f.Parameters) }

// Bind returns a copy of the function whose closure has this bound to
// the given instance. Method lookups go through here so that the body
// sees the receiver one environment out from its parameters.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{
		Name:          f.Name,
		Parameters:    f.Parameters,
		Body:          f.Body,
		Closure:       env,
		IsInitialiser: f.IsInitialiser,
	}
}

type Foreign struct {
	Name  string
	Arity int
	Fn    ForeignFunction
}

func (f *Foreign) Type() ObjectType { return FOREIGN_OBJ }
func (f *Foreign) Inspect() string  { return "\"native fun " + f.Name + "\"" }

type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "\"class " + c.Name + "\"" }

// FindMethod walks the inheritance chain from the class upwards.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// Arity of a class is the arity of its initialiser, or zero when the
// class declares none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]Object{}}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "\"instance of " + i.Class.Name + "\"" }

// Get looks a property up on the instance. Fields shadow methods;
// methods come back bound to the receiver.
func (i *Instance) Get(name string) (Object, bool) {
	if field, ok := i.Fields[name]; ok {
		return field, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, value Object) {
	i.Fields[name] = value
}
