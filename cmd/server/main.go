package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"
	"github.com/finvault/finvault/infra/initializer"
	"github.com/finvault/finvault/pkg/app"
	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger := initializer.SetupLogger(cfg.Log)

	uow, err := initializer.SetupUoW(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	a := app.New(cfg, uow, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Scheduler.Start(ctx)
	defer a.Scheduler.Stop()

	fiberApp := webapi.SetupApp(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fiberApp.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig)
		return fiberApp.Shutdown()
	}
}
