// Command thyddle is the Thy language interpreter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/AlmostGalactic/Thyddle/cmd/thyddle/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
