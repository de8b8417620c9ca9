package bp2bst

import (
	"strings"
	"testing"
)

func TestConvertReaderProducesElement(t *testing.T) {
	src := `cc_binary { name: "hello", srcs: ["hello.c"] }`
	r, err := ConvertReader(strings.NewReader(src), "Android.bp", Options{})
	if err != nil {
		t.Fatalf("ConvertReader() error = %v", err)
	}
	if len(r.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(r.Elements))
	}
	if r.Elements[0].Filename != "hello.bst" {
		t.Errorf("got filename %q", r.Elements[0].Filename)
	}
}

func TestConvertReaderDefaultsTargetArch(t *testing.T) {
	src := `cc_binary { name: "hello", arch: { x86_64: { srcs: ["x.c"] } } }`
	r, err := ConvertReader(strings.NewReader(src), "Android.bp", Options{})
	if err != nil {
		t.Fatalf("ConvertReader() error = %v", err)
	}
	var srcFiles string
	for _, kv := range r.Elements[0].Content.Variables {
		if kv.Key == "src-files" {
			srcFiles = kv.Value
		}
	}
	if srcFiles != "x.c" {
		t.Errorf("expected default target arch x86_64 to pick up overlay srcs, got %q", srcFiles)
	}
}

func TestConvertFileMissingReturnsError(t *testing.T) {
	_, err := ConvertFile("/nonexistent/Android.bp", Options{})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestConvertReaderAppliesOutputPrefix(t *testing.T) {
	src := `cc_binary { name: "hello", srcs: ["hello.c"] }`
	r, err := ConvertReader(strings.NewReader(src), "Android.bp", Options{OutputPrefix: "external/hello"})
	if err != nil {
		t.Fatalf("ConvertReader() error = %v", err)
	}
	if r.Elements[0].Filename != "external/hello/hello.bst" {
		t.Errorf("got filename %q", r.Elements[0].Filename)
	}
}
