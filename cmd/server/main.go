package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/orbitpay/ledger/internal/adapter/http"
	"github.com/orbitpay/ledger/internal/adapter/http/handler"
	"github.com/orbitpay/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/orbitpay/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/orbitpay/ledger/internal/adapter/repository/redis"
	"github.com/orbitpay/ledger/internal/infrastructure/config"
	"github.com/orbitpay/ledger/internal/infrastructure/eventpublisher"
	"github.com/orbitpay/ledger/internal/infrastructure/kafka"
	"github.com/orbitpay/ledger/internal/infrastructure/logger"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/infrastructure/postgres"
	"github.com/orbitpay/ledger/internal/infrastructure/redis"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	depositRepo := postgresRepo.NewDepositRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	swapRepo := postgresRepo.NewSwapRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	configRepo := postgresRepo.NewConfigRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, idGen, m)
	configUC := usecase.NewConfigUseCase(configRepo, cache, log)
	depositUC := usecase.NewDepositUseCase(txManager, depositRepo, outboxRepo, ledgerUC, idGen, m)
	withdrawUC := usecase.NewWithdrawUseCase(txManager, withdrawalRepo, outboxRepo, ledgerUC, configUC, idGen, m, money.MustNew(cfg.WithdrawFeeRate))
	transferUC := usecase.NewTransferUseCase(txManager, transferRepo, accountRepo, outboxRepo, ledgerUC, idGen, m, retrier)
	swapUC := usecase.NewSwapUseCase(txManager, swapRepo, accountRepo, outboxRepo, ledgerUC, configUC, idGen, m, retrier)
	rewardUC := usecase.NewRewardUseCase(txManager, entryRepo, outboxRepo, ledgerUC, idGen, m)
	assetsUC := usecase.NewAssetsUseCase(accountRepo)
	entryUC := usecase.NewEntryUseCase(entryRepo)

	// Outbox relay: publish to Kafka when brokers are configured, log otherwise
	var publisher eventpublisher.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing outbox events to kafka")
	} else {
		publisher = eventpublisher.NewLogPublisher(log)
		log.Info().Msg("no kafka brokers configured, logging outbox events")
	}

	relay := eventpublisher.NewRelay(outboxRepo, publisher, log, m, eventpublisher.RelayConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		Retention:    cfg.OutboxRetention,
	})
	relayCtx, relayCancel := context.WithCancel(ctx)
	defer relayCancel()
	go relay.Run(relayCtx)

	// Initialize handlers
	assetsHandler := handler.NewAssetsHandler(assetsUC, ledgerUC)
	entryHandler := handler.NewEntryHandler(entryUC)
	depositHandler := handler.NewDepositHandler(depositUC)
	withdrawHandler := handler.NewWithdrawHandler(withdrawUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	swapHandler := handler.NewSwapHandler(swapUC)
	rewardHandler := handler.NewRewardHandler(rewardUC)
	configHandler := handler.NewConfigHandler(configUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AssetsHandler:    assetsHandler,
		EntryHandler:     entryHandler,
		DepositHandler:   depositHandler,
		WithdrawHandler:  withdrawHandler,
		TransferHandler:  transferHandler,
		SwapHandler:      swapHandler,
		RewardHandler:    rewardHandler,
		ConfigHandler:    configHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Metrics:          m,
		Logger:           log,
		RateLimiter:      rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Periodically drop idle rate limiters
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-relayCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	relayCancel()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
