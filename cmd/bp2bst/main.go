// Command bp2bst converts Android.bp Blueprint module definitions into
// BuildStream .bst element descriptors.
package main

import (
	"fmt"
	"os"

	"github.com/martinbrook/bp2bst/cmd/bp2bst/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
