package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/userdock/server/pkg/config"
	"github.com/userdock/server/pkg/platform"
	"github.com/userdock/server/pkg/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real environments set the variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection, logger)
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.Error(err))
	}
	defer st.Close(ctx)

	p := platform.NewPlatform(st, logger)
	if err := p.Start(); err != nil {
		logger.Fatal("Failed to start platform", zap.Error(err))
	}

	srv := platform.NewServer(p, logger)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
