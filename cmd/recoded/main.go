package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x6666/ddns-client/internal/app"
	"github.com/0x6666/ddns-client/internal/config"
	"github.com/0x6666/ddns-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recoded start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("recoded starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agent, err := app.NewAgent(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize agent", "error", err)
		return err
	}

	if err := agent.Run(ctx); err != nil {
		return fmt.Errorf("agent run: %w", err)
	}

	return nil
}
