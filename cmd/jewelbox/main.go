// Package main is the entry point for the jewel showcase.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/app"
	"github.com/Faultbox/jewelbox/internal/config"
	"github.com/Faultbox/jewelbox/internal/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred calls, logger.Sync included,
// complete before main exits.
func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if config.WriteRequested() {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Writing config: %v\n", err)
			return 1
		}
		fmt.Println(config.SavePath())
		return 0
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Jewelbox ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return 1
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("showcase error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally")
	return 0
}
