// Package bp2bst is the public facade for converting Android.bp Blueprint
// files into BuildStream .bst element descriptors. It wraps the
// parse/evaluate/resolve/convert pipeline in internal/convert behind two
// entry points: ConvertReader and ConvertFile.
//
// A Converter created internally for one call is not reused across calls,
// so concurrent callers can run one goroutine per file, each with its own
// Options, without sharing mutable state.
package bp2bst

import (
	"io"
	"os"

	"github.com/martinbrook/bp2bst/internal/convert"
)

// Options configures a single conversion.
type Options struct {
	// TargetArch selects which arch-overlay branch of an "arch" map is
	// flattened into srcs/cflags. Defaults to "x86_64" if empty.
	TargetArch string

	// SourceDir is recorded verbatim as the path of any local_external
	// source entry in generated elements.
	SourceDir string

	// OutputPrefix is prepended to every generated element's filename.
	OutputPrefix string
}

func (o Options) targetArch() string {
	if o.TargetArch == "" {
		return "x86_64"
	}
	return o.TargetArch
}

// ConvertReader reads all of r and converts it as one Blueprint file. The
// filename is used only to label diagnostics.
func ConvertReader(r io.Reader, filename string, opts Options) (*convert.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := convert.New(opts.targetArch())
	return c.ConvertSource(filename, string(data), opts.SourceDir, opts.OutputPrefix), nil
}

// ConvertFile opens path and converts its contents.
func ConvertFile(path string, opts Options) (*convert.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ConvertReader(f, path, opts)
}
