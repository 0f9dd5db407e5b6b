package evaluator

import (
	"lox/internal/object"
)

// The Evaluator doubles as the object.EvaluatorContext handed to
// foreign functions.

func (e *Evaluator) NewError(message string, a ...interface{}) *object.Error {
	return newError(message, a...)
}

func (e *Evaluator) Nil() *object.Nil {
	return NIL
}

func (e *Evaluator) NativeBoolToBooleanObject(input bool) *object.Boolean {
	return nativeBoolToBooleanObject(input)
}

// NextHandleID issues process-unique ids for native resources such as
// database connections.
func (e *Evaluator) NextHandleID() int64 {
	return e.handles.Add(1)
}
