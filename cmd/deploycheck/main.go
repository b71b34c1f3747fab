package main

import (
	"fmt"
	"os"

	"github.com/shakedco/deploycheck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deploycheck:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
