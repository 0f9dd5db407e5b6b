package object

import (
	"testing"

	"lox/internal/ast"
)

func TestInspect(t *testing.T) {
	base := &Class{Name: "base_class", Methods: map[string]*Function{}}
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Number{Value: 20}, "20"},
		{&Number{Value: 1.5}, "1.5"},
		{&Number{Value: -0.25}, "-0.25"},
		{&String{Value: "value"}, "\"value\""},
		{&String{Value: ""}, "\"\""},
		{TRUE, "true"},
		{FALSE, "false"},
		{NIL, "nil"},
		{&Function{Name: "say_hi"}, "\"fun say_hi\""},
		{&Foreign{Name: "clock"}, "\"native fun clock\""},
		{base, "\"class base_class\""},
		{NewInstance(base), "\"instance of base_class\""},
	}

	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Errorf("wrong inspect output. got=%q, want=%q", got, tt.expected)
		}
	}
}

func TestSingletonBooleans(t *testing.T) {
	if TRUE.Value != true {
		t.Errorf("TRUE does not hold true")
	}
	if FALSE.Value != false {
		t.Errorf("FALSE does not hold false")
	}
	if NIL.Type() != NIL_OBJ {
		t.Errorf("NIL has wrong type. got=%s", NIL.Type())
	}
}

func TestClassFindMethod(t *testing.T) {
	cook := &Function{Name: "cook"}
	eat := &Function{Name: "eat"}
	serve := &Function{Name: "serve"}

	base := &Class{
		Name:    "base_class",
		Methods: map[string]*Function{"cook": cook, "eat": eat},
	}
	sub := &Class{
		Name:       "sub_class",
		Superclass: base,
		Methods:    map[string]*Function{"eat": serve},
	}

	if got, ok := sub.FindMethod("cook"); !ok || got != cook {
		t.Errorf("inherited method not found on subclass")
	}
	if got, ok := sub.FindMethod("eat"); !ok || got != serve {
		t.Errorf("subclass method does not shadow the inherited one")
	}
	if _, ok := sub.FindMethod("missing"); ok {
		t.Errorf("found a method that no class defines")
	}
}

func TestClassArity(t *testing.T) {
	plain := &Class{Name: "plain", Methods: map[string]*Function{}}
	if plain.Arity() != 0 {
		t.Errorf("class without init has arity %d, want 0", plain.Arity())
	}

	init := &Function{
		Name:          "init",
		Parameters:    []*ast.Identifier{{Value: "a"}, {Value: "b"}},
		IsInitialiser: true,
	}
	base := &Class{Name: "base_class", Methods: map[string]*Function{"init": init}}
	if base.Arity() != 2 {
		t.Errorf("class arity does not follow init. got=%d, want 2", base.Arity())
	}

	sub := &Class{Name: "sub_class", Superclass: base, Methods: map[string]*Function{}}
	if sub.Arity() != 2 {
		t.Errorf("subclass does not inherit init arity. got=%d, want 2", sub.Arity())
	}
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	method := &Function{Name: "val", Closure: NewEnvironment()}
	class := &Class{Name: "holder", Methods: map[string]*Function{"val": method}}
	instance := NewInstance(class)

	got, ok := instance.Get("val")
	if !ok {
		t.Fatalf("method not reachable through instance")
	}
	bound, ok := got.(*Function)
	if !ok {
		t.Fatalf("property is not a function. got=%T", got)
	}
	if receiver, ok := bound.Closure.Get("this"); !ok || receiver != instance {
		t.Errorf("bound method closure does not hold the receiver")
	}

	instance.Set("val", &Number{Value: 10})
	got, ok = instance.Get("val")
	if !ok {
		t.Fatalf("field not reachable after set")
	}
	if number, ok := got.(*Number); !ok || number.Value != 10 {
		t.Errorf("field does not shadow the method. got=%s", got.Inspect())
	}
}

func TestBindKeepsInitialiserFlag(t *testing.T) {
	init := &Function{Name: "init", Closure: NewEnvironment(), IsInitialiser: true}
	class := &Class{Name: "holder", Methods: map[string]*Function{"init": init}}
	instance := NewInstance(class)

	bound := init.Bind(instance)
	if !bound.IsInitialiser {
		t.Errorf("binding dropped the initialiser flag")
	}
	if bound.Closure == init.Closure {
		t.Errorf("binding did not enclose a fresh environment")
	}
}
