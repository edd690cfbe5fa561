package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fitwise/fitness-client/internal/app"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var core *app.App
	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
		logger.SetDefault(log)
		core, err = app.New(ctx, cfg, log)
		return core, err
	}

	err := RootCmd(open).ExecuteContext(ctx)
	if core != nil {
		if cerr := core.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
