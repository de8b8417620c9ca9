package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/martinbrook/bp2bst/internal/diag"
	"github.com/martinbrook/bp2bst/internal/element"
	"github.com/martinbrook/bp2bst/pkg/bp2bst"
	"github.com/spf13/cobra"
)

var (
	convertTargetArch string
	convertOutputDir  string
	convertAOSPRoot   string
	convertPrefix     string
	convertDryRun     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <path>",
	Short: "Convert an Android.bp file into .bst element files",
	Long: `Convert runs the full pipeline over a single Android.bp file and writes
one .bst file per convertible module.

Examples:
  # Convert and write elements under ./elements
  bp2bst convert external/bzip2/Android.bp

  # Preview the generated YAML without writing any files
  bp2bst convert --dry-run external/bzip2/Android.bp`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertTargetArch, "target-arch", "x86_64", "arch overlay branch to flatten into srcs/cflags")
	convertCmd.Flags().StringVar(&convertOutputDir, "output-dir", "elements", "directory to write generated .bst files under")
	convertCmd.Flags().StringVar(&convertAOSPRoot, "aosp-root", "", "AOSP source tree root, used to resolve the module's source directory")
	convertCmd.Flags().StringVar(&convertPrefix, "prefix", "", "prefix prepended to every generated element's filename")
	convertCmd.Flags().BoolVarP(&convertDryRun, "dry-run", "n", false, "print generated element YAML to stdout instead of writing files")
}

func runConvert(_ *cobra.Command, args []string) error {
	bpPath := args[0]
	if _, err := os.Stat(bpPath); err != nil {
		return fmt.Errorf("cannot read %s: %w", bpPath, err)
	}

	sourceDir := filepath.Dir(bpPath)
	if convertAOSPRoot != "" {
		if rel, err := filepath.Rel(convertAOSPRoot, sourceDir); err == nil {
			sourceDir = rel
		}
	}

	result, err := bp2bst.ConvertFile(bpPath, bp2bst.Options{
		TargetArch:   convertTargetArch,
		SourceDir:    sourceDir,
		OutputPrefix: convertPrefix,
	})
	if err != nil {
		return fmt.Errorf("converting %s: %w", bpPath, err)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatMessages(result.Errors))
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d element(s), %d skipped, %d unsupported\n",
			len(result.Elements), len(result.Skipped), len(result.Unsupported))
	}

	if len(result.Elements) == 0 {
		return fmt.Errorf("no elements generated from %s", bpPath)
	}

	for _, e := range result.Elements {
		rendered := element.Render(e.Content)
		if convertDryRun {
			fmt.Printf("# %s\n%s\n", e.Filename, rendered)
			continue
		}

		outPath := filepath.Join(convertOutputDir, e.Filename)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}

	return nil
}
