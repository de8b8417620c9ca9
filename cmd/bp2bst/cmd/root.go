package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bp2bst",
	Short: "Convert Android.bp Blueprint modules to BuildStream elements",
	Long: `bp2bst converts Android Soong Blueprint (Android.bp) module definitions
into BuildStream (.bst) element descriptors.

It parses a Blueprint file's module and variable definitions, evaluates
variable references and list/string concatenation, resolves cc_defaults
inheritance chains, and dispatches each module to a handler for its type
to produce one .bst element per convertible module.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print skipped/unsupported module counts to stderr")
}
