package element

import "testing"

func TestRenderBasicCcElement(t *testing.T) {
	e := &Element{
		Kind:    "aosp_cc",
		Depends: []string{"base/aosp-sdk.bst"},
		Sources: []Source{{Kind: "local_external", Path: "/aosp/external/bzip2"}},
		Variables: []KV{
			{Key: "build-type", Value: "static"},
			{Key: "lib-name", Value: "libbz2"},
			{Key: "src-files", Value: "blocksort.c huffman.c"},
		},
	}
	got := Render(e)
	want := "kind: aosp_cc\n\n" +
		"depends:\n- base/aosp-sdk.bst\n\n" +
		"sources:\n- kind: local_external\n  path: /aosp/external/bzip2\n\n" +
		"variables:\n  build-type: static\n  lib-name: libbz2\n  src-files: blocksort.c huffman.c\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderOmitsEmptyBlocks(t *testing.T) {
	e := &Element{Kind: "import", Config: []KV{{Key: "source", Value: "x"}, {Key: "target", Value: "/etc"}}}
	got := Render(e)
	want := "kind: import\n\nconfig:\n  source: x\n  target: /etc\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderQuotesSpecialChars(t *testing.T) {
	e := &Element{
		Kind:      "aosp_cc",
		Variables: []KV{{Key: "extra-cflags", Value: "-DFOO={1}"}},
	}
	got := Render(e)
	want := "kind: aosp_cc\n\nvariables:\n  extra-cflags: \"-DFOO={1}\"\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderBlockScalarForMultiline(t *testing.T) {
	e := &Element{
		Kind:      "aosp_cc",
		Variables: []KV{{Key: "notes", Value: "line one\nline two"}},
	}
	got := Render(e)
	want := "kind: aosp_cc\n\nvariables:\n  notes: |\n    line one\n    line two\n\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSortedUniqueDedupesAndSorts(t *testing.T) {
	got := SortedUnique([]string{"b", "a"}, []string{"a", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
