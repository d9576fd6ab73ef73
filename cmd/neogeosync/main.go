// Package main is the entry point for the neogeosync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/cmd/neogeosync/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New(commands.DefaultBackend())
	cli.SetArgs(args)
	if err := cli.Execute(ctx); err != nil {
		// zerr prints a report with metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
