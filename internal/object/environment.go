package object

import (
	"log/slog"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one lexical scope: a set of named bindings plus a link
// to the enclosing scope. The ID only exists to tell environments apart
// in debug logs.
type Environment struct {
	ID       uint64
	Bindings map[string]*Binding
	Outer    *Environment
}

type Binding struct {
	Value Object
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]*Binding),
	}
}

// NewEnclosedEnvironment initializes an environment nested inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new enclosed env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID),
	)
	return env
}

// Define creates or replaces a binding in this environment only.
func (e *Environment) Define(name string, val Object) {
	e.Bindings[name] = &Binding{Value: val}
}

// Get resolves name in this environment or any enclosing one.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if binding, ok := env.Bindings[name]; ok {
			return binding.Value, true
		}
	}
	return nil, false
}

// Assign overwrites the nearest existing binding for name. It reports
// false when no enclosing environment defines the name.
func (e *Environment) Assign(name string, val Object) bool {
	for env := e; env != nil; env = env.Outer {
		if binding, ok := env.Bindings[name]; ok {
			binding.Value = val
			return true
		}
	}
	return false
}

// Ancestor returns the environment distance hops out from this one.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.Outer
	}
	return env
}

// GetAt reads name directly from the environment at the given distance,
// without searching any further out. The distance comes from static
// resolution, so a miss here means the resolver and evaluator disagree.
func (e *Environment) GetAt(distance int, name string) (Object, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, false
	}
	binding, ok := env.Bindings[name]
	if !ok {
		return nil, false
	}
	return binding.Value, true
}

// AssignAt writes name directly into the environment at the given
// distance.
func (e *Environment) AssignAt(distance int, name string, val Object) bool {
	env := e.Ancestor(distance)
	if env == nil {
		return false
	}
	if binding, ok := env.Bindings[name]; ok {
		binding.Value = val
		return true
	}
	env.Bindings[name] = &Binding{Value: val}
	return true
}
