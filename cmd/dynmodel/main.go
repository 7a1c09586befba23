// Command dynmodel queries and edits a SQLite table from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dynmodel/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dynmodel:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
