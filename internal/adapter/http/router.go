package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/orbitpay/ledger/internal/adapter/http/handler"
	"github.com/orbitpay/ledger/internal/adapter/http/middleware"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AssetsHandler    *handler.AssetsHandler
	EntryHandler     *handler.EntryHandler
	DepositHandler   *handler.DepositHandler
	WithdrawHandler  *handler.WithdrawHandler
	TransferHandler  *handler.TransferHandler
	SwapHandler      *handler.SwapHandler
	RewardHandler    *handler.RewardHandler
	ConfigHandler    *handler.ConfigHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Per-user views
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/accounts", cfg.AssetsHandler.ListAccounts)
			r.Get("/accounts/{type}/{currency}", cfg.AssetsHandler.GetAccount)
			r.Get("/accounts/{type}/{currency}/verify", cfg.AssetsHandler.Verify)
			r.Get("/assets", cfg.AssetsHandler.Summary)
			r.Get("/entries", cfg.EntryHandler.ListByUser)
			r.Get("/deposits", cfg.DepositHandler.ListByUser)
			r.Get("/withdrawals", cfg.WithdrawHandler.ListByUser)
			r.Get("/transfers", cfg.TransferHandler.ListByUser)
			r.Get("/swaps", cfg.SwapHandler.ListByUser)
		})

		// Entry lookups by account
		r.Get("/accounts/{id}/entries", cfg.EntryHandler.ListByAccount)

		// Deposits
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.DepositHandler.Create)
			r.Get("/{id}", cfg.DepositHandler.Get)
			r.Post("/{id}/confirm", cfg.DepositHandler.Confirm)
			r.Post("/{id}/reject", cfg.DepositHandler.Reject)
		})

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.WithdrawHandler.Apply)
			r.Get("/{id}", cfg.WithdrawHandler.Get)
			r.Post("/{id}/approve", cfg.WithdrawHandler.Approve)
			r.Post("/{id}/pay", cfg.WithdrawHandler.Pay)
			r.Post("/{id}/reject", cfg.WithdrawHandler.Reject)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		// Swaps
		r.Route("/swaps", func(r chi.Router) {
			r.Post("/quote", cfg.SwapHandler.Quote)
			r.Post("/", cfg.SwapHandler.Create)
			r.Get("/{id}", cfg.SwapHandler.Get)
		})

		// Rewards
		r.Post("/rewards", cfg.RewardHandler.Grant)

		// System configuration
		r.Route("/configs", func(r chi.Router) {
			r.Get("/{key}", cfg.ConfigHandler.Get)
			r.Put("/{key}", cfg.ConfigHandler.Set)
		})
	})

	return r
}
