package eventpublisher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/usecase"
)

// Publisher delivers a single outbox event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// LogPublisher writes events to the log. It is the fallback when no broker is
// configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.OutboxEvent) error {
	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		Msg("outbox event published")
	return nil
}

// Relay polls the outbox table and pushes unpublished events through a
// Publisher. Events stay in the table until publish succeeds, so delivery is
// at-least-once and consumers must dedupe on event ID.
type Relay struct {
	outboxRepo   usecase.OutboxRepository
	publisher    Publisher
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	retention    time.Duration
}

// RelayConfig holds Relay settings.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Retention    time.Duration
}

// NewRelay creates a Relay. Metrics may be nil.
func NewRelay(outboxRepo usecase.OutboxRepository, publisher Publisher, logger zerolog.Logger, m *metrics.Metrics, cfg RelayConfig) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Relay{
		outboxRepo:   outboxRepo,
		publisher:    publisher,
		logger:       logger,
		metrics:      m,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		retention:    cfg.Retention,
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.PublishPending(ctx); err != nil {
				r.logger.Error().Err(err).Msg("outbox publish cycle failed")
			}
		case <-cleanupTicker.C:
			r.cleanup(ctx)
		}
	}
}

// PublishPending publishes one batch of unpublished events. Events that fail
// to publish are left in place for the next cycle.
func (r *Relay) PublishPending(ctx context.Context) error {
	events, err := r.outboxRepo.GetUnpublished(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.OutboxBacklog.Set(float64(len(events)))
	}

	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			if r.metrics != nil {
				r.metrics.OutboxPublishError.Inc()
			}
			r.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish outbox event")
			continue
		}

		if err := r.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			r.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark outbox event published")
			continue
		}

		if r.metrics != nil {
			r.metrics.OutboxPublished.Inc()
		}
	}

	return nil
}

func (r *Relay) cleanup(ctx context.Context) {
	if r.retention <= 0 {
		return
	}

	cutoff := time.Now().UTC().Add(-r.retention)
	if err := r.outboxRepo.DeletePublished(ctx, cutoff); err != nil {
		r.logger.Error().Err(err).Msg("failed to delete published outbox events")
	}
}
