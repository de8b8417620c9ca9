// Package convert dispatches evaluated, defaults-resolved modules to
// per-module-type handlers that produce BuildStream element descriptors,
// and orchestrates the full parse-evaluate-resolve-convert pipeline for one
// Blueprint file.
package convert

import (
	"fmt"
	"path"

	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/defaults"
	"github.com/martinbrook/bp2bst/internal/element"
	"github.com/martinbrook/bp2bst/internal/eval"
	"github.com/martinbrook/bp2bst/internal/parser"
)

// GeneratedElement pairs an output filename with its rendered element.
type GeneratedElement struct {
	Filename string
	Content  *element.Element
}

// Result collects the outcome of converting one Blueprint file, mirroring
// the diagnostic categories a module can fall into: converted, skipped
// (known but deliberately produces nothing), unsupported (no handler at
// all), or errored.
type Result struct {
	Elements    []GeneratedElement
	Skipped     []string
	Unsupported []string
	Errors      []string
}

// Handler converts one evaluated, defaults-resolved module into an element,
// or returns (nil, nil) to indicate the module should be skipped.
type Handler interface {
	CanHandle(moduleType string) bool
	Convert(module *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error)
	types() []string
}

var registry = []Handler{
	ccLibraryStaticHandler{},
	ccLibrarySharedHandler{},
	ccLibraryHandler{},
	ccBinaryHandler{},
	ccDefaultsHandler{},
	prebuiltEtcHandler{},
	skippedHandler{},
}

func getHandler(moduleType string) Handler {
	for _, h := range registry {
		if h.CanHandle(moduleType) {
			return h
		}
	}
	return nil
}

// SupportedTypes returns every module type a registered handler recognizes,
// including the deliberately-skipped ones.
func SupportedTypes() []string {
	var out []string
	for _, h := range registry {
		out = append(out, h.types()...)
	}
	return out
}

// Converter drives the full pipeline for a target architecture, accumulating
// cc_defaults registrations across every file it converts so defaults
// declared in one file can be consumed by modules in another, per spec §7.
type Converter struct {
	TargetArch string
	resolver   *defaults.Resolver
	evaluator  *eval.Evaluator
}

// New creates a Converter for the given target architecture.
func New(targetArch string) *Converter {
	return &Converter{
		TargetArch: targetArch,
		resolver:   defaults.New(),
		evaluator:  eval.New(),
	}
}

// ConvertSource parses and converts Blueprint source text. fileName is used
// only for diagnostics; sourceDir is the directory containing the original
// Android.bp, embedded into generated local_external sources; outputPrefix
// is prepended to every generated element's filename.
func (c *Converter) ConvertSource(fileName, src, sourceDir, outputPrefix string) *Result {
	result := &Result{}

	file, err := parser.Parse(fileName, src)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parse error in %s: %s", fileName, err))
		return result
	}

	c.evaluator.AddFileVariables(file)

	var evaluated []*ast.Module
	for _, m := range file.Modules() {
		ev, err := c.evaluator.EvaluateModule(m)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("evaluation error for %s %q: %s", m.Type, m.Name(), err))
			continue
		}
		evaluated = append(evaluated, ev)
	}

	c.resolver.RegisterDefaults(evaluated)

	for _, m := range evaluated {
		handler := getHandler(m.Type)
		if handler == nil {
			result.Unsupported = append(result.Unsupported, fmt.Sprintf("%s '%s'", m.Type, orUnknown(m.Name())))
			continue
		}

		resolved := c.resolver.Resolve(m)

		gen, err := handler.Convert(resolved, c.TargetArch, sourceDir)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("conversion error for %s %q: %s", m.Type, m.Name(), err))
			continue
		}
		if gen == nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s '%s'", m.Type, orUnknown(m.Name())))
			continue
		}

		if outputPrefix != "" {
			gen.Filename = path.Join(outputPrefix, gen.Filename)
		}
		result.Elements = append(result.Elements, *gen)
	}

	return result
}

func orUnknown(name string) string {
	if name == "" {
		return "?"
	}
	return name
}

// cLibraryBase implements the property extraction shared by every cc_*
// handler: srcs/cflags (with arch overlay), include dirs, and library
// dependencies.
type cLibraryBase struct{}

func (cLibraryBase) srcs(m *ast.Module, targetArch string) []string {
	out := eval.AsStringList(m.Get("srcs"))
	if archSpecific := archOverlay(m, targetArch); archSpecific != nil {
		out = append(out, eval.AsStringList(archSpecific.Get("srcs"))...)
	}
	return out
}

func (cLibraryBase) cflags(m *ast.Module, targetArch string) []string {
	out := eval.AsStringList(m.Get("cflags"))
	if archSpecific := archOverlay(m, targetArch); archSpecific != nil {
		out = append(out, eval.AsStringList(archSpecific.Get("cflags"))...)
	}
	return out
}

func archOverlay(m *ast.Module, targetArch string) *ast.Map {
	archMap := eval.AsMap(m.Get("arch"))
	if archMap == nil {
		return nil
	}
	return eval.AsMap(archMap.Get(targetArch))
}

func (cLibraryBase) includeDirs(m *ast.Module) []string {
	var out []string
	out = append(out, eval.AsStringList(m.Get("local_include_dirs"))...)
	out = append(out, eval.AsStringList(m.Get("include_dirs"))...)
	return out
}

func (cLibraryBase) exportIncludeDirs(m *ast.Module) []string {
	return eval.AsStringList(m.Get("export_include_dirs"))
}

var libDepProps = []string{"static_libs", "shared_libs", "whole_static_libs", "header_libs"}

func (cLibraryBase) libDeps(m *ast.Module) []string {
	var out []string
	for _, propName := range libDepProps {
		for _, libName := range eval.AsStringList(m.Get(propName)) {
			out = append(out, fmt.Sprintf("external/%s.bst", libName))
		}
	}
	return out
}

// buildCcElement assembles the common aosp_cc element shape shared by
// libraries and binaries; buildType and the name variable key (lib-name or
// binary-name) differ between them.
func (b cLibraryBase) buildCcElement(m *ast.Module, targetArch, sourceDir, buildType, nameKey string) *element.Element {
	name := m.Name()
	srcs := b.srcs(m, targetArch)
	cflags := b.cflags(m, targetArch)
	includeDirs := b.includeDirs(m)
	exportIncludeDirs := b.exportIncludeDirs(m)

	vars := []element.KV{
		{Key: "build-type", Value: buildType},
		{Key: nameKey, Value: name},
		{Key: "src-files", Value: joinSpace(srcs)},
	}
	if len(cflags) > 0 {
		vars = append(vars, element.KV{Key: "extra-cflags", Value: joinSpace(cflags)})
	}
	if len(includeDirs) > 0 || len(exportIncludeDirs) > 0 {
		all := element.SortedUnique(includeDirs, exportIncludeDirs)
		var flags []string
		for _, d := range all {
			flags = append(flags, "-I"+d)
		}
		vars = append(vars, element.KV{Key: "include-flags", Value: joinSpace(flags)})
	}

	e := &element.Element{
		Kind:      "aosp_cc",
		Depends:   []string{"base/aosp-sdk.bst"},
		Variables: vars,
	}
	if sourceDir != "" {
		e.Sources = []element.Source{{Kind: "local_external", Path: sourceDir}}
	}
	e.Depends = append(e.Depends, b.libDeps(m)...)
	return e
}

func joinSpace(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

type ccLibraryStaticHandler struct{ cLibraryBase }

func (ccLibraryStaticHandler) types() []string { return []string{"cc_library_static"} }
func (h ccLibraryStaticHandler) CanHandle(t string) bool { return t == "cc_library_static" }

func (h ccLibraryStaticHandler) Convert(m *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error) {
	name := m.Name()
	if name == "" {
		return nil, nil
	}
	e := h.buildCcElement(m, targetArch, sourceDir, "static", "lib-name")
	return &GeneratedElement{Filename: name + ".bst", Content: e}, nil
}

type ccLibrarySharedHandler struct{ cLibraryBase }

func (ccLibrarySharedHandler) types() []string { return []string{"cc_library_shared"} }
func (h ccLibrarySharedHandler) CanHandle(t string) bool { return t == "cc_library_shared" }

func (h ccLibrarySharedHandler) Convert(m *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error) {
	name := m.Name()
	if name == "" {
		return nil, nil
	}
	e := h.buildCcElement(m, targetArch, sourceDir, "shared", "lib-name")
	return &GeneratedElement{Filename: name + ".bst", Content: e}, nil
}

// ccLibraryHandler covers cc_library, which Soong expands into both static
// and shared variants. Per spec §9's Open Question on dual-variant
// emission, we follow the original's simplification and emit a single
// shared-flavored element rather than two elements sharing a basename.
type ccLibraryHandler struct{ cLibraryBase }

func (ccLibraryHandler) types() []string { return []string{"cc_library"} }
func (h ccLibraryHandler) CanHandle(t string) bool { return t == "cc_library" }

func (h ccLibraryHandler) Convert(m *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error) {
	name := m.Name()
	if name == "" {
		return nil, nil
	}
	e := h.buildCcElement(m, targetArch, sourceDir, "shared", "lib-name")
	return &GeneratedElement{Filename: name + ".bst", Content: e}, nil
}

type ccBinaryHandler struct{ cLibraryBase }

func (ccBinaryHandler) types() []string { return []string{"cc_binary", "cc_binary_host"} }
func (h ccBinaryHandler) CanHandle(t string) bool { return t == "cc_binary" || t == "cc_binary_host" }

func (h ccBinaryHandler) Convert(m *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error) {
	name := m.Name()
	if name == "" {
		return nil, nil
	}
	e := h.buildCcElement(m, targetArch, sourceDir, "binary", "binary-name")
	return &GeneratedElement{Filename: name + ".bst", Content: e}, nil
}

// ccDefaultsHandler always skips: cc_defaults modules are consumed by
// internal/defaults, never converted to an element in their own right.
type ccDefaultsHandler struct{}

func (ccDefaultsHandler) types() []string               { return []string{"cc_defaults"} }
func (ccDefaultsHandler) CanHandle(t string) bool        { return t == "cc_defaults" }
func (ccDefaultsHandler) Convert(*ast.Module, string, string) (*GeneratedElement, error) {
	return nil, nil
}

type prebuiltEtcHandler struct{}

func (prebuiltEtcHandler) types() []string { return []string{"prebuilt_etc", "prebuilt_etc_host"} }
func (prebuiltEtcHandler) CanHandle(t string) bool {
	return t == "prebuilt_etc" || t == "prebuilt_etc_host"
}

func (prebuiltEtcHandler) Convert(m *ast.Module, targetArch, sourceDir string) (*GeneratedElement, error) {
	name := m.Name()
	if name == "" {
		return nil, nil
	}
	src, ok := eval.AsString(m.Get("src"))
	if !ok || src == "" {
		return nil, nil
	}

	e := &element.Element{
		Kind: "import",
		Config: []element.KV{
			{Key: "source", Value: src},
			{Key: "target", Value: "/etc"},
		},
	}
	if sourceDir != "" {
		e.Sources = []element.Source{{Kind: "local_external", Path: sourceDir}}
	}
	return &GeneratedElement{Filename: name + ".bst", Content: e}, nil
}

// skippedHandler covers module types that are recognized but intentionally
// produce no element: packaging/license metadata, NDK surface declarations,
// test/fuzz/benchmark targets, genrules, filegroups, and VNDK prebuilts.
type skippedHandler struct{}

var skippedTypes = []string{
	"package", "license", "ndk_headers", "ndk_library",
	"cc_test", "cc_test_host", "cc_fuzz", "cc_benchmark",
	"genrule", "filegroup",
	"vndk_prebuilt_shared",
}

func (skippedHandler) types() []string { return skippedTypes }

func (skippedHandler) CanHandle(t string) bool {
	for _, s := range skippedTypes {
		if s == t {
			return true
		}
	}
	return false
}

func (skippedHandler) Convert(*ast.Module, string, string) (*GeneratedElement, error) {
	return nil, nil
}
