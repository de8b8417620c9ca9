package element

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestRenderSnapshots locks down the exact byte-for-byte .bst text produced
// for each element shape convert's handlers build, the way fixture_test.go
// in the interpreter pins interpreter output.
func TestRenderSnapshots(t *testing.T) {
	cases := map[string]*Element{
		"cc_library_static": {
			Kind:    "aosp_cc",
			Depends: []string{"base/aosp-sdk.bst", "external/libbar.bst"},
			Sources: []Source{{Kind: "local_external", Path: "/aosp/external/foo"}},
			Variables: []KV{
				{Key: "build-type", Value: "static"},
				{Key: "lib-name", Value: "libfoo"},
				{Key: "src-files", Value: "a.c b.c"},
				{Key: "extra-cflags", Value: "-Wall -O2"},
				{Key: "include-flags", Value: "-Iinclude"},
			},
		},
		"import_prebuilt_etc": {
			Kind:    "import",
			Sources: []Source{{Kind: "local_external", Path: "/aosp/device/conf"}},
			Config: []KV{
				{Key: "source", Value: "my.conf"},
				{Key: "target", Value: "/etc"},
			},
		},
		"no_depends_no_sources": {
			Kind:      "aosp_cc",
			Variables: []KV{{Key: "build-type", Value: "binary"}},
		},
	}

	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			snaps.MatchSnapshot(t, Render(e))
		})
	}
}
