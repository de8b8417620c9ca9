package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/martinbrook/bp2bst/internal/parser"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Summarize the modules in an Android.bp file",
	Long: `Info parses an Android.bp file and prints, for each module, its type,
name, and property names — without evaluating expressions or resolving
cc_defaults chains.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	bpPath := args[0]
	data, err := os.ReadFile(bpPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", bpPath, err)
	}

	file, err := parser.Parse(bpPath, string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", bpPath, err)
	}

	fmt.Printf("File: %s\n", bpPath)
	fmt.Printf("Variables: %d\n", len(file.Assignments()))
	fmt.Printf("Modules: %d\n\n", len(file.Modules()))

	for _, m := range file.Modules() {
		name := m.Name()
		if name == "" {
			name = "<unnamed>"
		}
		var props []string
		for _, p := range m.Properties {
			props = append(props, p.Name)
		}
		fmt.Printf("  %s %q\n", m.Type, name)
		fmt.Printf("    properties: %s\n", strings.Join(props, ", "))
	}
	return nil
}
