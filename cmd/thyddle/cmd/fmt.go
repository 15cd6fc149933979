package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/AlmostGalactic/Thyddle/internal/diag"
	"github.com/AlmostGalactic/Thyddle/internal/lexer"
	"github.com/AlmostGalactic/Thyddle/internal/parser"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format Thy source files",
	Long: `Format reads Thy source, parses it into an AST, and prints the
AST's canonical source form back out.

By default fmt writes the formatted source to standard output. If no
file is given it reads from standard input.

  thyddle fmt script.thy       # format to stdout
  thyddle fmt -w script.thy    # overwrite the file
  cat script.thy | thyddle fmt`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to the source file instead of stdout")
}

func runFmt(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return formatStdin()
	}

	hasErrors := false
	for _, path := range args {
		if err := formatFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatStdin() error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}
	formatted, err := formatSource(string(src), "<stdin>")
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	formatted, err := formatSource(string(src), filename)
	if err != nil {
		return err
	}

	if fmtWrite {
		if !bytes.Equal(src, []byte(formatted)) {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
			if verbose {
				fmt.Printf("Formatted %s\n", filename)
			}
		}
		return nil
	}

	fmt.Print(formatted)
	return nil
}

func formatSource(source, filename string) (string, error) {
	l := lexer.New(source)
	toks := l.ScanTokens()
	if lexErrs := l.Errors(); len(lexErrs) > 0 {
		return "", formatDiagErrors(lexErrsToDiags(lexErrs, source, filename))
	}

	p := parser.New(toks)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		diags := make([]*diag.Diagnostic, len(errs))
		for i, e := range errs {
			diags[i] = diag.New(e.Message, source, filename, e.Pos)
		}
		return "", formatDiagErrors(diags)
	}

	return program.String(), nil
}

func lexErrsToDiags(errs []lexer.Error, source, filename string) []*diag.Diagnostic {
	diags := make([]*diag.Diagnostic, len(errs))
	for i, e := range errs {
		diags[i] = diag.New(e.Message, source, filename, e.Pos)
	}
	return diags
}

func formatDiagErrors(diags []*diag.Diagnostic) error {
	return fmt.Errorf("%s", diag.FormatAll(diags, false))
}
