package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/edfsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "edfsim:", cmd.Describe(err))
		os.Exit(cmd.ExitCode(err))
	}
}
