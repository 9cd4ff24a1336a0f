// Command taskctl is a terminal client for the tasks API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/phrazzld/tasks-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout, nil).Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
