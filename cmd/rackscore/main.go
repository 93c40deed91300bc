package main

import (
	"fmt"
	"os"

	"github.com/kmorrow/rackscore/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rackscore: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
