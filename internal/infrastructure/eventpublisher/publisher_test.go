package eventpublisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/eventpublisher"
	"github.com/orbitpay/ledger/internal/usecase/mocks"
)

type capturePublisher struct {
	published []*domain.OutboxEvent
	failIDs   map[string]bool
}

func (p *capturePublisher) Publish(_ context.Context, event *domain.OutboxEvent) error {
	if p.failIDs[event.ID] {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func seedOutbox(t *testing.T, repo *mocks.MockOutboxRepository, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		err := repo.Create(ctx, nil, &domain.OutboxEvent{
			ID:            id,
			AggregateID:   "agg-" + id,
			AggregateType: domain.AggregateTypeDeposit,
			EventType:     domain.EventTypeDepositConfirmed,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed event %s: %v", id, err)
		}
	}
}

func TestRelayPublishPending(t *testing.T) {
	repo := mocks.NewMockOutboxRepository()
	seedOutbox(t, repo, "evt-1", "evt-2")

	pub := &capturePublisher{}
	relay := eventpublisher.NewRelay(repo, pub, zerolog.Nop(), nil, eventpublisher.RelayConfig{BatchSize: 10})

	if err := relay.PublishPending(context.Background()); err != nil {
		t.Fatalf("publish cycle failed: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(pub.published))
	}

	remaining, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected all events marked published, %d remain", len(remaining))
	}
}

func TestRelayKeepsFailedEvents(t *testing.T) {
	repo := mocks.NewMockOutboxRepository()
	seedOutbox(t, repo, "evt-ok", "evt-bad")

	pub := &capturePublisher{failIDs: map[string]bool{"evt-bad": true}}
	relay := eventpublisher.NewRelay(repo, pub, zerolog.Nop(), nil, eventpublisher.RelayConfig{BatchSize: 10})

	if err := relay.PublishPending(context.Background()); err != nil {
		t.Fatalf("publish cycle failed: %v", err)
	}

	remaining, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "evt-bad" {
		t.Fatalf("expected only failed event to remain, got %v", remaining)
	}

	// Next cycle retries the failed event.
	pub.failIDs = nil
	if err := relay.PublishPending(context.Background()); err != nil {
		t.Fatalf("retry cycle failed: %v", err)
	}

	remaining, err = repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected retry to drain outbox, %d remain", len(remaining))
	}
}

func TestRelayPropagatesRepoError(t *testing.T) {
	repo := &mocks.MockOutboxRepository{
		GetUnpublishedFunc: func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
			return nil, errors.New("db down")
		},
	}

	relay := eventpublisher.NewRelay(repo, &capturePublisher{}, zerolog.Nop(), nil, eventpublisher.RelayConfig{})

	if err := relay.PublishPending(context.Background()); err == nil {
		t.Fatalf("expected error when outbox query fails")
	}
}

func TestLogPublisher(t *testing.T) {
	pub := eventpublisher.NewLogPublisher(zerolog.Nop())

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: domain.EventTypeRewardGranted,
	})
	if err != nil {
		t.Fatalf("log publisher should never fail: %v", err)
	}
}
