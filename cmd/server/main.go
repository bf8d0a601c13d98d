// Package main runs the AdBoard marketplace backend HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adboard/backend/config"
	"github.com/adboard/backend/internal/accounts"
	"github.com/adboard/backend/internal/adspaces"
	"github.com/adboard/backend/internal/auth"
	"github.com/adboard/backend/internal/chain"
	"github.com/adboard/backend/internal/confirm"
	"github.com/adboard/backend/internal/leases"
	"github.com/adboard/backend/internal/market"
	"github.com/adboard/backend/internal/middleware"
	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/internal/operators"
	"github.com/adboard/backend/internal/roles"
	"github.com/adboard/backend/internal/transactions"
	"github.com/adboard/backend/internal/txbuilder"
	"github.com/adboard/backend/internal/uploads"
	"github.com/adboard/backend/pkg/queue"
	"github.com/adboard/backend/pkg/redis"
	"github.com/adboard/backend/pkg/response"
	"github.com/adboard/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	client := chain.NewClient(cfg.Chain.RPCURL, cfg.Chain.APITimeout, logger)

	// Mock vs real is decided once, here. Nothing downstream branches on it.
	var (
		reader   market.Reader
		resolver roles.Resolver
		executor confirm.Executor
		balance  accounts.BalanceFunc
	)
	if cfg.Chain.MockMode {
		reader = market.NewMockReader()
		resolver = roles.StaticResolver{Role: models.RoleAdministrator}
		executor = confirm.StaticExecutor{}
		balance = func(ctx context.Context, address string) (models.Amount, error) {
			return models.Amount(1_000_000_000), nil
		}
		logger.Info("mock mode enabled, serving fixture data")
	} else {
		reader = market.NewChainReader(client, cfg.Chain.PackageID, cfg.Chain.ModuleName, cfg.Chain.FactoryID, logger)
		resolver = roles.NewChainResolver(client, cfg.Chain.PackageID, cfg.Chain.ModuleName, cfg.Chain.FactoryID, logger)
		executor = client
		balance = func(ctx context.Context, address string) (models.Amount, error) {
			raw, err := client.GetBalance(ctx, address)
			if err != nil {
				return 0, err
			}
			return models.ParseAmount(raw)
		}
	}
	cachedRoles := roles.NewCachedResolver(resolver, rdb.Client, cfg.Chain.RoleCacheTTL, logger)

	builder := txbuilder.New(cfg.Chain.PackageID, cfg.Chain.ModuleName, cfg.Chain.FactoryID, cfg.Chain.ClockID, cfg.Chain.MockMode)

	walrus := storage.NewWalrus(storage.WalrusConfig{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
		EpochDays:     cfg.Walrus.EpochDays,
		Attempts:      cfg.Walrus.UploadAttempts,
		Delay:         cfg.Walrus.UploadDelay,
		Timeout:       cfg.Walrus.UploadTimeout,
		MaxFileSize:   cfg.Walrus.MaxFileSize,
	}, logger)

	var archive *storage.Archive
	if cfg.Archive.Bucket != "" {
		archive, err = storage.NewArchive(ctx, storage.ArchiveConfig{
			Region:          cfg.Archive.Region,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			Bucket:          cfg.Archive.Bucket,
		}, logger)
		if err != nil {
			logger.Warn("creative archive disabled", zap.Error(err))
			archive = nil
		}
	}

	workflow := confirm.NewWorkflow(reader, executor, logger)
	statuses := confirm.NewStatusStore(rdb.Client)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	sessions := auth.NewSessionService(cfg.Session.Secret, cfg.Session.ExpireHours)
	sessionHandler := auth.NewHandler(sessions, cachedRoles, logger)
	adSpaceHandler := adspaces.NewHandler(reader, builder, logger)
	leaseHandler := leases.NewHandler(reader, builder, logger)
	operatorHandler := operators.NewHandler(builder, logger)
	accountHandler := accounts.NewHandler(reader, cachedRoles, balance, logger)
	uploadHandler := uploads.NewHandler(walrus, archive, logger)
	txHandler := transactions.NewHandler(workflow, statuses, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{
			"status":  "ok",
			"network": cfg.Chain.Network,
			"mock":    cfg.Chain.MockMode,
			"redis":   rdb.Healthy(c.Request.Context()),
		})
	})

	// Public: session issue and chain reads.
	router.POST("/session", sessionHandler.Connect)
	router.GET("/adspaces", adSpaceHandler.List)
	router.GET("/adspaces/:id", adSpaceHandler.Get)
	router.GET("/leases/:id", leaseHandler.Get)
	router.GET("/accounts/:address/leases", accountHandler.ListLeases)
	router.GET("/accounts/:address/role", accountHandler.GetRole)
	router.GET("/accounts/:address/balance", accountHandler.GetBalance)
	router.GET("/transactions/:digest/status", txHandler.Status)

	// Session-bound API.
	api := router.Group("")
	api.Use(middleware.Session(sessions, cachedRoles))
	{
		api.POST("/uploads", uploadHandler.Prepare)

		api.POST("/tx/purchase", leaseHandler.BuildPurchase)
		api.POST("/tx/renew", leaseHandler.BuildRenew)
		api.POST("/tx/content", leaseHandler.BuildUpdateContent)
		api.POST("/tx/submit", txHandler.Submit)

		api.POST("/tx/adspaces", middleware.RequireRole(models.RoleOperator), adSpaceHandler.BuildCreate)
		api.POST("/tx/adspaces/:id/price", middleware.RequireRole(models.RoleOperator), adSpaceHandler.BuildUpdatePrice)

		api.POST("/tx/operators", middleware.RequireRole(models.RoleAdministrator), operatorHandler.BuildRegister)
		api.DELETE("/tx/operators/:address", middleware.RequireRole(models.RoleAdministrator), operatorHandler.BuildRemove)
		api.POST("/tx/platform-ratio", middleware.RequireRole(models.RoleAdministrator), operatorHandler.BuildUpdateRatio)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("network", string(cfg.Chain.Network)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
