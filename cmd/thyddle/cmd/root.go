package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "thyddle",
	Short: "Thy language interpreter",
	Long: `thyddle runs and formats programs written in Thy, a small
dynamically-typed scripting language with closures, arrays, objects,
and module imports.

With no subcommand and no file argument, thyddle starts an interactive
REPL.`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runREPL(c, args)
		}
		return runScript(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
