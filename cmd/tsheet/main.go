package main

import (
	"context"
	"fmt"
	"os"

	"timesheet-tracker/internal/cli"
	"timesheet-tracker/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), NewAppFactory().Build)

	if err := root.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.NewErrorHandler().HandleSimple(err))
		os.Exit(1)
	}
}
