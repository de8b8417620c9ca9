// Package element defines the BuildStream element descriptor produced by
// module-type handlers, and a deterministic, hand-rolled YAML serializer
// for it. See DESIGN.md for why this isn't delegated to a general-purpose
// YAML encoder: spec §4.6 mandates an exact field order, blank-line
// placement, and a narrow quoting rule that a generic marshaler's key
// ordering and quoting heuristics won't reliably reproduce byte-for-byte.
package element

import (
	"fmt"
	"sort"
	"strings"
)

// Source is one entry of an element's "sources" list.
type Source struct {
	Kind string
	Path string
}

// Element is a BuildStream element descriptor: a subset of kind, depends,
// sources, variables, and config, per spec §6.
type Element struct {
	Kind      string
	Depends   []string
	Sources   []Source
	Variables []KV
	Config    []KV
}

// KV is an ordered string-to-string mapping entry. Variables and Config are
// stored as ordered slices, not maps, so handler-assigned insertion order is
// preserved in the rendered output.
type KV struct {
	Key   string
	Value string
}

// NewKVs returns the given pairs as a KV slice, in the order given: callers
// that need deterministic output already sort the keys they pass in (see
// spec §4.5 "Determinism of include-flags").
func NewKVs(pairs ...KV) []KV {
	return pairs
}

var specialChars = "{}[]#&*!|>',@%"

func needsQuoting(s string) bool {
	return strings.ContainsAny(s, specialChars)
}

func renderScalar(s string) string {
	if strings.Contains(s, "\n") {
		var b strings.Builder
		b.WriteString("|\n")
		for _, line := range strings.Split(s, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	}
	if needsQuoting(s) {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Render serializes e as deterministic YAML text per spec §4.6: kind,
// depends, sources, variables, config, each block separated by a blank
// line.
func Render(e *Element) string {
	var b strings.Builder

	b.WriteString("kind: ")
	b.WriteString(e.Kind)
	b.WriteString("\n\n")

	if len(e.Depends) > 0 {
		b.WriteString("depends:\n")
		for _, d := range e.Depends {
			b.WriteString("- ")
			b.WriteString(d)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(e.Sources) > 0 {
		b.WriteString("sources:\n")
		for _, s := range e.Sources {
			b.WriteString("- kind: ")
			b.WriteString(s.Kind)
			b.WriteString("\n")
			b.WriteString("  path: ")
			b.WriteString(s.Path)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(e.Variables) > 0 {
		b.WriteString("variables:\n")
		writeKVBlock(&b, e.Variables, "  ")
		b.WriteString("\n")
	}

	if len(e.Config) > 0 {
		b.WriteString("config:\n")
		writeKVBlock(&b, e.Config, "  ")
		b.WriteString("\n")
	}

	return b.String()
}

func writeKVBlock(b *strings.Builder, kvs []KV, indent string) {
	for _, kv := range kvs {
		rendered := renderScalar(kv.Value)
		if strings.HasPrefix(rendered, "|\n") {
			b.WriteString(indent)
			b.WriteString(kv.Key)
			b.WriteString(": |\n")
			for _, line := range strings.Split(strings.TrimPrefix(rendered, "|\n"), "\n") {
				b.WriteString(line)
				b.WriteString("\n")
			}
			continue
		}
		b.WriteString(indent)
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(rendered)
		b.WriteString("\n")
	}
}

// SortedUnique returns the sorted, de-duplicated union of the given string
// slices — used for include-flags, where spec §9 requires byte-order
// sorting over a set for deterministic output even though every other list
// in this module preserves source order.
func SortedUnique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
