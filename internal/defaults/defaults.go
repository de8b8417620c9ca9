// Package defaults resolves cc_defaults inheritance chains: it merges the
// properties of a module's defaults (and their own nested defaults) into a
// single property map, then overlays the module's own properties, following
// the precedence rules in spec §4.4.
package defaults

import (
	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/eval"
)

// Resolver holds the registry of named cc_defaults modules for one
// conversion. It has no ownership semantics beyond that registry: it stores
// references to Module values produced by the evaluator, not copies.
type Resolver struct {
	registry map[string]*ast.Module
}

// New creates an empty Resolver.
func New() *Resolver {
	return &Resolver{registry: make(map[string]*ast.Module)}
}

// RegisterDefaults records every cc_defaults module in modules under its
// name, for later lookup by Resolve.
func (r *Resolver) RegisterDefaults(modules []*ast.Module) {
	for _, m := range modules {
		if m.Type != "cc_defaults" {
			continue
		}
		if name := m.Name(); name != "" {
			r.registry[name] = m
		}
	}
}

// Resolve returns a new Module whose properties are the merge of module's
// defaults chain (in depth-first, first-occurrence order) followed by
// module's own properties. If module has no "defaults" property, or it
// doesn't resolve to a non-empty string list, module is returned unchanged.
func (r *Resolver) Resolve(module *ast.Module) *ast.Module {
	defaultsProp := module.Get("defaults")
	if defaultsProp == nil {
		return module
	}

	names := eval.AsStringList(defaultsProp)
	if len(names) == 0 {
		return module
	}

	var chain []*ast.Module
	visited := make(map[string]bool)
	for _, name := range names {
		r.collectDefaults(name, &chain, visited)
	}

	merged := newOrderedProps()
	for _, d := range chain {
		mergeProperties(merged, d.Properties)
	}
	mergeProperties(merged, filterOut(module.Properties, "defaults"))

	finalProps := merged.list()

	hasName := false
	for _, p := range finalProps {
		if p.Name == "name" {
			hasName = true
			break
		}
	}
	if !hasName {
		if nameProp := module.Get("name"); nameProp != nil {
			finalProps = append([]*ast.Property{{Name: "name", Value: nameProp}}, finalProps...)
		}
	}

	return &ast.Module{Type: module.Type, Properties: finalProps, Pos: module.Pos}
}

func (r *Resolver) collectDefaults(name string, result *[]*ast.Module, visited map[string]bool) {
	if visited[name] {
		return
	}
	visited[name] = true

	d, ok := r.registry[name]
	if !ok {
		// Unknown defaults name: may be defined in another file. Skip silently.
		return
	}

	if nested := d.Get("defaults"); nested != nil {
		for _, nestedName := range eval.AsStringList(nested) {
			r.collectDefaults(nestedName, result, visited)
		}
	}

	*result = append(*result, d)
}

func filterOut(props []*ast.Property, name string) []*ast.Property {
	out := make([]*ast.Property, 0, len(props))
	for _, p := range props {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}

// orderedProps is a map with first-insertion-order iteration, used to merge
// properties while preserving the order in which names were first seen.
type orderedProps struct {
	order []string
	byKey map[string]ast.Expression
}

func newOrderedProps() *orderedProps {
	return &orderedProps{byKey: make(map[string]ast.Expression)}
}

func (o *orderedProps) set(name string, value ast.Expression) {
	if _, ok := o.byKey[name]; !ok {
		o.order = append(o.order, name)
	}
	o.byKey[name] = value
}

func (o *orderedProps) get(name string) (ast.Expression, bool) {
	v, ok := o.byKey[name]
	return v, ok
}

func (o *orderedProps) list() []*ast.Property {
	out := make([]*ast.Property, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, &ast.Property{Name: name, Value: o.byKey[name]})
	}
	return out
}

// mergeProperties merges props into target following spec §4.4's per-property
// rules: "name" and "defaults" are ignored; Lists concatenate; Maps merge
// recursively per-key; anything else, the incoming value wins.
func mergeProperties(target *orderedProps, props []*ast.Property) {
	for _, p := range props {
		if p.Name == "name" || p.Name == "defaults" {
			continue
		}
		if existing, ok := target.get(p.Name); ok {
			target.set(p.Name, mergeValues(existing, p.Value))
		} else {
			target.set(p.Name, p.Value)
		}
	}
}

// mergeValues merges two expressions per spec §4.4's scalar/list/map rules.
func mergeValues(base, overlay ast.Expression) ast.Expression {
	if baseList, ok := base.(*ast.List); ok {
		if overlayList, ok := overlay.(*ast.List); ok {
			values := make([]ast.Expression, 0, len(baseList.Values)+len(overlayList.Values))
			values = append(values, baseList.Values...)
			values = append(values, overlayList.Values...)
			return &ast.List{Values: values, Position: baseList.Position}
		}
	}

	if baseMap, ok := base.(*ast.Map); ok {
		if overlayMap, ok := overlay.(*ast.Map); ok {
			merged := newOrderedProps()
			for _, p := range baseMap.Properties {
				merged.set(p.Name, p.Value)
			}
			for _, p := range overlayMap.Properties {
				if existing, ok := merged.get(p.Name); ok {
					merged.set(p.Name, mergeValues(existing, p.Value))
				} else {
					merged.set(p.Name, p.Value)
				}
			}
			return &ast.Map{Properties: merged.list(), Position: baseMap.Position}
		}
	}

	return overlay
}
