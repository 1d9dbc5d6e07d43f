package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// RewardUseCase grants platform rewards (referral bonuses, campaign
// payouts) by crediting the user's spot account. Grants are idempotent per
// reference id; a unique index on (biz_type, ref_id) for reward entries
// guarantees it under concurrent grants.
type RewardUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	ledger     *LedgerUseCase
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewRewardUseCase creates a new RewardUseCase.
func NewRewardUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *RewardUseCase {
	return &RewardUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		ledger:     ledger,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// GrantParams describes a reward grant.
type GrantParams struct {
	UserID   string
	Currency string
	Amount   money.Decimal
	RefID    string
	Reason   string
}

// Grant credits the reward to the user's spot account. If an entry for the
// same reward reference already exists the existing entry is returned and
// no second credit happens.
func (uc *RewardUseCase) Grant(ctx context.Context, p GrantParams) (*domain.LedgerEntry, error) {
	if err := domain.ValidateUserID(p.UserID); err != nil {
		return nil, err
	}

	currency, err := domain.NormalizeCurrency(p.Currency)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePositiveAmount(p.Amount); err != nil {
		return nil, err
	}

	if p.RefID != "" {
		existing, err := uc.entryRepo.GetByBizRef(ctx, domain.BizTypeReward, p.RefID)
		if err == nil && len(existing) > 0 {
			return existing[0], nil
		}
	}

	refID := p.RefID
	if refID == "" {
		refID = uc.idGen.Generate()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.ledger.CreditTx(txCtx, tx, MovementParams{
		UserID:      p.UserID,
		AccountType: domain.AccountTypeSpot,
		Currency:    currency,
		Amount:      p.Amount,
		BizType:     domain.BizTypeReward,
		RefID:       refID,
		Metadata:    map[string]any{"reason": p.Reason},
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return uc.existingGrant(ctx, refID)
		}

		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   refID,
		AggregateType: domain.AggregateTypeReward,
		EventType:     domain.EventTypeRewardGranted,
		Payload: map[string]any{
			"ref_id":   refID,
			"user_id":  p.UserID,
			"currency": currency,
			"amount":   p.Amount.Round(money.Scale).String(),
			"reason":   p.Reason,
			"entry_id": entry.ID,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RewardsGranted.WithLabelValues(currency).Inc()
	}

	return entry, nil
}

// existingGrant returns the entry written by a concurrent grant that won the
// unique index race for the same reference id.
func (uc *RewardUseCase) existingGrant(ctx context.Context, refID string) (*domain.LedgerEntry, error) {
	existing, err := uc.entryRepo.GetByBizRef(ctx, domain.BizTypeReward, refID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, domain.ErrEntryNotFound
	}

	return existing[0], nil
}
