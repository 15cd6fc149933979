package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/AlmostGalactic/Thyddle/internal/diag"
	"github.com/AlmostGalactic/Thyddle/internal/interp"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Thy session",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL reads one line at a time from stdin, evaluates it against a
// single long-lived interpreter, and prints the result of expressions
// that produce a value. A line consisting of just "exit()" ends the
// session; it is matched as literal text, and Thy has no exit built-in.
func runREPL(_ *cobra.Command, _ []string) error {
	it := interp.New(os.Stdout, os.Stdin)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Thy REPL — enter 'exit()' to quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit()" {
			break
		}

		result, parseErrs := it.Run(line)
		if len(parseErrs) > 0 {
			for _, e := range parseErrs {
				d := diag.New(e.Message, line, "", e.Pos)
				fmt.Fprintln(os.Stderr, d.Format(true))
			}
			continue
		}

		if runtime.IsError(result) {
			fmt.Fprintln(os.Stderr, result.String())
			continue
		}
		if result != runtime.Nil {
			fmt.Println(result.String())
		}
	}

	return nil
}
