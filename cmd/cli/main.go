package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dsmirnov/docshare/internal/cli"
	"github.com/dsmirnov/docshare/internal/config"
	"github.com/dsmirnov/docshare/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "exiting with error", "error", err)
		os.Exit(1)
	}
}
