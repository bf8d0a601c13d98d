// Package main runs the background confirmation worker: it re-verifies
// transactions the API reported as unconfirmed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adboard/backend/config"
	"github.com/adboard/backend/internal/chain"
	"github.com/adboard/backend/internal/confirm"
	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/worker"
	"github.com/adboard/backend/pkg/queue"
	"github.com/adboard/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var reader market.Reader
	if cfg.Chain.MockMode {
		reader = market.NewMockReader()
	} else {
		client := chain.NewClient(cfg.Chain.RPCURL, cfg.Chain.APITimeout, logger)
		reader = market.NewChainReader(client, cfg.Chain.PackageID, cfg.Chain.ModuleName, cfg.Chain.FactoryID, logger)
	}

	// Rechecks only read; the executor is never used here.
	workflow := confirm.NewWorkflow(reader, confirm.StaticExecutor{}, logger)
	statuses := confirm.NewStatusStore(rdb.Client)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	processor := worker.NewConfirmationProcessor(workflow, statuses, jobQueue, logger)
	go processor.Run(ctx)
	logger.Info("confirmation worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
