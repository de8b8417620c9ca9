package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/martinbrook/bp2bst/internal/ast"
	"github.com/martinbrook/bp2bst/internal/diag"
	"github.com/martinbrook/bp2bst/internal/parser"
	"github.com/spf13/cobra"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse an Android.bp file and dump its definition list",
	Long: `Parse reads and parses an Android.bp file without evaluating variable
references or resolving cc_defaults, and prints one line per top-level
definition in source order. Useful for debugging grammar issues.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseFormat, "format", "text", "output format: text or yaml")
}

func runParse(_ *cobra.Command, args []string) error {
	bpPath := args[0]
	data, err := os.ReadFile(bpPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", bpPath, err)
	}

	file, err := parser.Parse(bpPath, string(data))
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			fmt.Fprintln(os.Stderr, diag.New(pe.Pos, pe.Message, string(data), bpPath).Format())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("parsing %s failed", bpPath)
	}

	if parseFormat == "yaml" {
		return dumpParseYAML(file)
	}

	fmt.Printf("File: %s\n", file.Name)
	fmt.Printf("Definitions: %d\n\n", len(file.Defs))
	for _, def := range file.Defs {
		switch d := def.(type) {
		case *ast.Assignment:
			fmt.Printf("  %s %s ...\n", d.Name, d.Assigner)
		case *ast.Module:
			fmt.Printf("  %s %q\n", d.Type, d.Name())
		}
	}
	return nil
}

// parseDump is a YAML-friendly projection of a parsed file; it exists
// because ast.File's Defs slice mixes two node kinds that goccy/go-yaml
// has no way to distinguish on its own.
type parseDump struct {
	File        string   `yaml:"file"`
	Assignments []string `yaml:"assignments"`
	Modules     []string `yaml:"modules"`
}

func dumpParseYAML(file *ast.File) error {
	dump := parseDump{File: file.Name}
	for _, a := range file.Assignments() {
		dump.Assignments = append(dump.Assignments, fmt.Sprintf("%s %s", a.Name, a.Assigner))
	}
	for _, m := range file.Modules() {
		dump.Modules = append(dump.Modules, fmt.Sprintf("%s %q", m.Type, m.Name()))
	}

	out, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Errorf("formatting YAML: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
