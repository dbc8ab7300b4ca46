package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/project-avie/avie/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
