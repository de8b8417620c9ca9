// Package eval resolves variable references and folds "+" concatenation
// over Blueprint expressions. Select expressions are deferred — they are
// returned unevaluated, per spec §4.3 and §9, until a future
// selector-evaluator can resolve them against real target configuration.
package eval

import (
	"fmt"

	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/lexer"
)

// Error is raised when a variable reference cannot be resolved.
type Error struct {
	Message string
	Pos     lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Evaluator owns a mutable variable scope keyed by identifier. A fresh
// Evaluator should be used per file; its scope is not reset automatically
// between files so that multiple Add calls can compose a shared prelude.
type Evaluator struct {
	variables map[string]ast.Expression
}

// New creates an Evaluator with an empty scope.
func New() *Evaluator {
	return &Evaluator{variables: make(map[string]ast.Expression)}
}

// AddFileVariables registers every top-level Assignment in file's Defs, in
// source order. A "+=" assignment to an existing name produces an Operator
// node chaining the prior binding and the new value; to an unbound name it
// behaves like "=".
func (e *Evaluator) AddFileVariables(file *ast.File) {
	for _, def := range file.Defs {
		a, ok := def.(*ast.Assignment)
		if !ok {
			continue
		}
		if a.Assigner == "+=" {
			if existing, ok := e.variables[a.Name]; ok {
				e.variables[a.Name] = &ast.Operator{Left: existing, Op: "+", Right: a.Value, Position: a.Pos}
				continue
			}
		}
		e.variables[a.Name] = a.Value
	}
}

// Evaluate recursively resolves expr to a concrete value. VariableRef nodes
// are substituted by their bound expression (itself evaluated); Operator
// nodes fold List+List and String+String; List and Map evaluate their
// children preserving order; Select is returned unchanged.
func (e *Evaluator) Evaluate(expr ast.Expression) (ast.Expression, error) {
	switch v := expr.(type) {
	case *ast.String, *ast.Bool, *ast.Int:
		return expr, nil

	case *ast.VariableRef:
		bound, ok := e.variables[v.Name]
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("undefined variable: %s", v.Name), Pos: v.Position}
		}
		return e.Evaluate(bound)

	case *ast.Operator:
		left, err := e.Evaluate(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Evaluate(v.Right)
		if err != nil {
			return nil, err
		}
		if v.Op == "+" {
			if lList, ok := left.(*ast.List); ok {
				if rList, ok := right.(*ast.List); ok {
					values := make([]ast.Expression, 0, len(lList.Values)+len(rList.Values))
					values = append(values, lList.Values...)
					values = append(values, rList.Values...)
					return &ast.List{Values: values, Position: v.Position}, nil
				}
			}
			if lStr, ok := left.(*ast.String); ok {
				if rStr, ok := right.(*ast.String); ok {
					return &ast.String{Value: lStr.Value + rStr.Value, Position: v.Position}, nil
				}
			}
		}
		return &ast.Operator{Left: left, Op: v.Op, Right: right, Position: v.Position}, nil

	case *ast.List:
		values := make([]ast.Expression, len(v.Values))
		for i, elem := range v.Values {
			ev, err := e.Evaluate(elem)
			if err != nil {
				return nil, err
			}
			values[i] = ev
		}
		return &ast.List{Values: values, Position: v.Position}, nil

	case *ast.Map:
		props := make([]*ast.Property, len(v.Properties))
		for i, p := range v.Properties {
			ev, err := e.Evaluate(p.Value)
			if err != nil {
				return nil, err
			}
			props[i] = &ast.Property{Name: p.Name, Value: ev, Pos: p.Pos}
		}
		return &ast.Map{Properties: props, Position: v.Position}, nil

	case *ast.Select:
		return v, nil

	default:
		return expr, nil
	}
}

// EvaluateModule returns a new Module whose property values have all been
// evaluated, preserving property order.
func (e *Evaluator) EvaluateModule(m *ast.Module) (*ast.Module, error) {
	props := make([]*ast.Property, len(m.Properties))
	for i, p := range m.Properties {
		ev, err := e.Evaluate(p.Value)
		if err != nil {
			return nil, err
		}
		props[i] = &ast.Property{Name: p.Name, Value: ev, Pos: p.Pos}
	}
	return &ast.Module{Type: m.Type, Properties: props, Pos: m.Pos}, nil
}

// AsString extracts a string value, or ok=false on shape mismatch.
func AsString(expr ast.Expression) (string, bool) {
	if s, ok := expr.(*ast.String); ok {
		return s.Value, true
	}
	return "", false
}

// AsBool extracts a bool value, or ok=false on shape mismatch.
func AsBool(expr ast.Expression) (bool, bool) {
	if b, ok := expr.(*ast.Bool); ok {
		return b.Value, true
	}
	return false, false
}

// AsMap extracts a *ast.Map, or nil on shape mismatch.
func AsMap(expr ast.Expression) *ast.Map {
	if m, ok := expr.(*ast.Map); ok {
		return m
	}
	return nil
}

// AsStringList extracts the string values of a List, silently skipping any
// element that isn't a String (mirrors spec §4.3: consumers treat missing
// or malformed data as "property absent" rather than erroring).
func AsStringList(expr ast.Expression) []string {
	list, ok := expr.(*ast.List)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range list.Values {
		if s, ok := AsString(v); ok {
			out = append(out, s)
		}
	}
	return out
}
