package ast

import (
	"testing"

	"github.com/martinbrook/bp2bst/internal/lexer"
)

func TestModuleNameAndGet(t *testing.T) {
	m := &Module{
		Type: "cc_library_static",
		Properties: []*Property{
			{Name: "name", Value: &String{Value: "libfoo"}},
			{Name: "srcs", Value: &List{Values: []Expression{&String{Value: "a.c"}}}},
		},
	}
	if m.Name() != "libfoo" {
		t.Errorf("got name %q", m.Name())
	}
	if m.Get("missing") != nil {
		t.Error("expected nil for missing property")
	}
	list, ok := m.Get("srcs").(*List)
	if !ok || len(list.Values) != 1 {
		t.Errorf("got %v", m.Get("srcs"))
	}
}

func TestModuleNameEmptyWhenNotString(t *testing.T) {
	m := &Module{Properties: []*Property{{Name: "name", Value: &Int{Value: 1}}}}
	if m.Name() != "" {
		t.Errorf("got %q, want empty", m.Name())
	}
}

func TestMapGet(t *testing.T) {
	m := &Map{Properties: []*Property{{Name: "x86_64", Value: &String{Value: "v"}}}}
	if m.Get("x86_64") == nil {
		t.Error("expected x86_64 to be found")
	}
	if m.Get("arm") != nil {
		t.Error("expected arm to be absent")
	}
}

func TestFileModulesAndAssignmentsPreserveOrder(t *testing.T) {
	a1 := &Assignment{Name: "a", Value: &String{Value: "1"}}
	mod := &Module{Type: "cc_binary", Properties: []*Property{{Name: "name", Value: &String{Value: "x"}}}}
	a2 := &Assignment{Name: "b", Value: &String{Value: "2"}}
	file := &File{Name: "Android.bp", Defs: []Def{a1, mod, a2}}

	assignments := file.Assignments()
	if len(assignments) != 2 || assignments[0].Name != "a" || assignments[1].Name != "b" {
		t.Errorf("got %+v", assignments)
	}
	modules := file.Modules()
	if len(modules) != 1 || modules[0] != mod {
		t.Errorf("got %+v", modules)
	}
}

func TestExpressionPositions(t *testing.T) {
	pos := lexer.Position{Line: 3, Column: 5}
	exprs := []Expression{
		&String{Position: pos},
		&Bool{Position: pos},
		&Int{Position: pos},
		&List{Position: pos},
		&Map{Position: pos},
		&VariableRef{Position: pos},
		&Operator{Position: pos},
		&Select{Position: pos},
	}
	for _, e := range exprs {
		if e.Pos() != pos {
			t.Errorf("%T: got %v, want %v", e, e.Pos(), pos)
		}
	}
}
