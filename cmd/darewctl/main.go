package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"darew.com/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "darewctl:", err)
		os.Exit(1)
	}
}
