package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-hr-auth/config"
	"github.com/goliatone/go-hr-auth/logging"
	"github.com/goliatone/go-hr-auth/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	dev := flag.Bool("dev", false, "human readable logs")
	flag.Parse()

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, *dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GeneratedSigningKey() {
		logger.Warn("no signing key configured, generated one; tokens will not survive a restart")
	}
	logger.Debug("configuration loaded", zap.String("config", cfg.String()))

	app, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("cannot build server", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	sig := WaitExitSignal()
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
