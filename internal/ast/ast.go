// Package ast defines the typed AST nodes produced by the Blueprint parser.
//
// Expression is a closed tagged union: every variant named in the
// language's grammar implements it, and no other type does. Later passes
// (the evaluator, the defaults resolver, module-type handlers) dispatch on
// the concrete type with a type switch rather than through polymorphism —
// the node types themselves carry no behavior beyond construction.
package ast

import "github.com/martinbrook/bp2bst/internal/lexer"

// Expression is implemented by String, Bool, Int, List, Map, VariableRef,
// Operator, and Select — the complete set of Blueprint expression forms.
type Expression interface {
	exprNode()
	Pos() lexer.Position
}

// String is a string literal or (after evaluation) a folded string value.
type String struct {
	Value string
	Position lexer.Position
}

func (s *String) exprNode()            {}
func (s *String) Pos() lexer.Position  { return s.Position }

// Bool is a boolean literal.
type Bool struct {
	Value    bool
	Position lexer.Position
}

func (b *Bool) exprNode()           {}
func (b *Bool) Pos() lexer.Position { return b.Position }

// Int is an integer literal.
type Int struct {
	Value    int64
	Position lexer.Position
}

func (i *Int) exprNode()           {}
func (i *Int) Pos() lexer.Position { return i.Position }

// List is an ordered sequence of expressions.
type List struct {
	Values   []Expression
	Position lexer.Position
}

func (l *List) exprNode()           {}
func (l *List) Pos() lexer.Position { return l.Position }

// Map is an ordered sequence of properties. Property name order is
// preserved for deterministic output; duplicate names are not expected.
type Map struct {
	Properties []*Property
	Position   lexer.Position
}

func (m *Map) exprNode()           {}
func (m *Map) Pos() lexer.Position { return m.Position }

// Get returns the value of the named property, or nil if absent.
func (m *Map) Get(name string) Expression {
	for _, p := range m.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// VariableRef is a reference to a variable bound by a top-level assignment.
// It is resolved away by the evaluator.
type VariableRef struct {
	Name     string
	Position lexer.Position
}

func (v *VariableRef) exprNode()           {}
func (v *VariableRef) Pos() lexer.Position { return v.Position }

// Operator is a binary expression. Only "+" is defined by the grammar.
type Operator struct {
	Left     Expression
	Op       string
	Right    Expression
	Position lexer.Position
}

func (o *Operator) exprNode()           {}
func (o *Operator) Pos() lexer.Position { return o.Position }

// SelectCase is one (patterns, value) arm of a Select expression. Patterns
// is a non-empty sequence of String expressions.
type SelectCase struct {
	Patterns []*String
	Value    Expression
}

// Select is a conditional expression keyed by a named condition function.
// It is preserved verbatim by the evaluator — see spec §4.3 and §9.
type Select struct {
	FuncName string
	FuncArgs []string
	Cases    []SelectCase
	Position lexer.Position
}

func (s *Select) exprNode()           {}
func (s *Select) Pos() lexer.Position { return s.Position }

// Property is a single name/value pair inside a Map or a Module.
type Property struct {
	Name  string
	Value Expression
	Pos   lexer.Position
}

// Assignment is a top-level variable binding, "=" or "+=".
type Assignment struct {
	Name     string
	Value    Expression
	Assigner string // "=" or "+="
	Pos      lexer.Position
}

// Module is a single Blueprint module definition: a type name plus an
// ordered list of properties.
type Module struct {
	Type       string
	Properties []*Property
	Pos        lexer.Position
}

// Name returns the value of the module's "name" property if it is a
// String, otherwise "".
func (m *Module) Name() string {
	for _, p := range m.Properties {
		if p.Name == "name" {
			if s, ok := p.Value.(*String); ok {
				return s.Value
			}
		}
	}
	return ""
}

// Get returns the value of the named property, or nil if absent.
func (m *Module) Get(name string) Expression {
	for _, p := range m.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// Def is implemented by *Assignment and *Module — the two kinds of
// top-level definition a File can contain.
type Def interface {
	defNode()
}

func (a *Assignment) defNode() {}
func (m *Module) defNode()     {}

// File is a parsed Blueprint source file: an ordered sequence of
// assignments and modules in source order.
type File struct {
	Name string
	Defs []Def
}

// Modules returns the Module defs in source order.
func (f *File) Modules() []*Module {
	var out []*Module
	for _, d := range f.Defs {
		if m, ok := d.(*Module); ok {
			out = append(out, m)
		}
	}
	return out
}

// Assignments returns the Assignment defs in source order.
func (f *File) Assignments() []*Assignment {
	var out []*Assignment
	for _, d := range f.Defs {
		if a, ok := d.(*Assignment); ok {
			out = append(out, a)
		}
	}
	return out
}
