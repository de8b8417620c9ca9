package defaults

import (
	"testing"
	"time"

	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/eval"
	"github.com/martinbrook/bp2bst/internal/parser"
)

func evaluateAll(t *testing.T, src string) []*ast.Module {
	t.Helper()
	file, err := parser.Parse("<test>", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	e := eval.New()
	e.AddFileVariables(file)
	var out []*ast.Module
	for _, m := range file.Modules() {
		ev, err := e.EvaluateModule(m)
		if err != nil {
			t.Fatalf("EvaluateModule() error = %v", err)
		}
		out = append(out, ev)
	}
	return out
}

func TestResolveChainListAppend(t *testing.T) {
	mods := evaluateAll(t, `
cc_defaults { name: "A", cflags: ["-a"] }
cc_defaults { name: "B", defaults: ["A"], cflags: ["-b"] }
cc_library_static { name: "m", defaults: ["B"], srcs: ["x.c"], cflags: ["-c"] }
`)
	r := New()
	r.RegisterDefaults(mods)

	var target *ast.Module
	for _, m := range mods {
		if m.Name() == "m" {
			target = m
		}
	}
	resolved := r.Resolve(target)
	cflags := eval.AsStringList(resolved.Get("cflags"))
	want := []string{"-a", "-b", "-c"}
	if len(cflags) != len(want) {
		t.Fatalf("got %v, want %v", cflags, want)
	}
	for i := range want {
		if cflags[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, cflags[i], want[i])
		}
	}
	srcs := eval.AsStringList(resolved.Get("srcs"))
	if len(srcs) != 1 || srcs[0] != "x.c" {
		t.Errorf("got srcs %v", srcs)
	}
}

func TestResolveNoDefaultsUnchanged(t *testing.T) {
	mods := evaluateAll(t, `cc_library_static { name: "m", srcs: ["x.c"] }`)
	r := New()
	r.RegisterDefaults(mods)
	resolved := r.Resolve(mods[0])
	if resolved != mods[0] {
		t.Error("expected the same module to be returned unchanged")
	}
}

func TestResolveUnknownDefaultsSkippedSilently(t *testing.T) {
	mods := evaluateAll(t, `cc_library_static { name: "m", defaults: ["missing"], srcs: ["x.c"] }`)
	r := New()
	r.RegisterDefaults(mods)
	resolved := r.Resolve(mods[0])
	srcs := eval.AsStringList(resolved.Get("srcs"))
	if len(srcs) != 1 || srcs[0] != "x.c" {
		t.Errorf("got srcs %v", srcs)
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	mods := evaluateAll(t, `
cc_defaults { name: "A", defaults: ["B"], cflags: ["-a"] }
cc_defaults { name: "B", defaults: ["A"], cflags: ["-b"] }
cc_library_static { name: "m", defaults: ["A"], srcs: ["x.c"] }
`)
	r := New()
	r.RegisterDefaults(mods)

	var target *ast.Module
	for _, m := range mods {
		if m.Name() == "m" {
			target = m
		}
	}

	done := make(chan *ast.Module, 1)
	go func() { done <- r.Resolve(target) }()
	var resolved *ast.Module
	select {
	case resolved = <-done:
	case <-time.After(time.Second):
		t.Fatal("Resolve() did not terminate on a defaults cycle")
	}
	cflags := eval.AsStringList(resolved.Get("cflags"))
	if len(cflags) != 2 {
		t.Errorf("got cflags %v", cflags)
	}
}

func TestResolveMapMerge(t *testing.T) {
	mods := evaluateAll(t, `
cc_defaults { name: "A", arch: { x86_64: { cflags: ["-a"] }, arm: { cflags: ["-arm"] } } }
cc_library_static {
  name: "m", defaults: ["A"],
  arch: { x86_64: { cflags: ["-b"] } },
  srcs: ["x.c"],
}
`)
	r := New()
	r.RegisterDefaults(mods)
	var target *ast.Module
	for _, m := range mods {
		if m.Name() == "m" {
			target = m
		}
	}
	resolved := r.Resolve(target)
	arch := eval.AsMap(resolved.Get("arch"))
	if arch == nil {
		t.Fatal("arch missing")
	}
	x64 := eval.AsMap(arch.Get("x86_64"))
	if x64 == nil {
		t.Fatal("x86_64 missing")
	}
	cflags := eval.AsStringList(x64.Get("cflags"))
	want := []string{"-a", "-b"}
	if len(cflags) != len(want) {
		t.Fatalf("got %v, want %v", cflags, want)
	}
	arm := eval.AsMap(arch.Get("arm"))
	if arm == nil {
		t.Fatal("arm overlay lost during merge")
	}
}

func TestResolvePreservesName(t *testing.T) {
	mods := evaluateAll(t, `
cc_defaults { name: "A", cflags: ["-a"] }
cc_library_static { name: "m", defaults: ["A"] }
`)
	r := New()
	r.RegisterDefaults(mods)
	var target *ast.Module
	for _, m := range mods {
		if m.Name() == "m" {
			target = m
		}
	}
	resolved := r.Resolve(target)
	if resolved.Name() != "m" {
		t.Errorf("got name %q", resolved.Name())
	}
}

