package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/coined/internal/app"
	"github.com/dtroode/coined/internal/cli"
	"github.com/dtroode/coined/internal/config"
	"github.com/dtroode/coined/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	build := func(ctx context.Context) (*app.App, error) {
		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize app", "error", err)
		}
		return a, nil
	}

	info := cli.BuildInfo{
		Version: buildVersion,
		Date:    buildDate,
		Commit:  buildCommit,
	}

	if err := cli.Execute(ctx, build, info); err != nil {
		stop()
		os.Exit(1)
	}
}
