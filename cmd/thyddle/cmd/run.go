package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlmostGalactic/Thyddle/internal/diag"
	"github.com/AlmostGalactic/Thyddle/internal/interp"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Thy script",
	Long: `Execute a Thy program from a file or inline expression.

Examples:
  # Run a script file
  thyddle run script.thy

  # Evaluate inline code
  thyddle run -e "console.output.println(\"hi\");"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string

	switch {
	case evalExpr != "":
		source = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	it := interp.New(os.Stdout, os.Stdin)
	if filename != "<eval>" {
		it.SetModuleDir(filepath.Dir(filename))
	}

	result, parseErrs := it.Run(source)
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			d := diag.New(e.Message, source, filename, e.Pos)
			fmt.Fprintln(os.Stderr, d.Format(true))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}

	if runtime.IsError(result) {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", result.String())
		return fmt.Errorf("execution failed")
	}

	return nil
}
