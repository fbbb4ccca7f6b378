package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"barbersbuddies/pkg/logger"
	"barbersbuddies/seeder/internal/app/seeder/cli"
	"barbersbuddies/seeder/internal/app/seeder/config"
)

func main() {
	cfg := config.Load()
	logger.Init("seeder", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.NewStoreRunner(cfg)).ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Seeder failed")
		stop()
		os.Exit(1)
	}
}
