package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// TransferUseCase moves funds between a user's own account types (spot and
// contract) in one atomic transaction: debit the source, credit the
// destination, record the transfer. Both legs carry the same biz reference
// so the entry pair can be matched back to the transfer.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	accountRepo  AccountRepository
	outboxRepo   OutboxRepository
	ledger       *LedgerUseCase
	idGen        IDGenerator
	metrics      *metrics.Metrics
	retrier      Retrier
}

// NewTransferUseCase creates a new TransferUseCase. retrier may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	transferRepo TransferRepository,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		outboxRepo:   outboxRepo,
		ledger:       ledger,
		idGen:        idGen,
		metrics:      metrics,
		retrier:      retrier,
	}
}

// TransferParams describes a move between two account types of one user.
type TransferParams struct {
	UserID   string
	Currency string
	FromType domain.AccountType
	ToType   domain.AccountType
	Amount   money.Decimal
}

// Transfer executes the move. Row locks are taken in canonical key order so
// two opposing transfers on the same pair cannot deadlock; the debit leg is
// re-fetched by its lock, so ordering never changes which leg is checked
// for sufficiency.
func (uc *TransferUseCase) Transfer(ctx context.Context, p TransferParams) (*domain.InternalTransfer, error) {
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

	if _, err := domain.ParseAccountType(string(p.FromType)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseAccountType(string(p.ToType)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transfer := &domain.InternalTransfer{
		ID:        uc.idGen.Generate(),
		UserID:    p.UserID,
		Currency:  currency,
		FromType:  p.FromType,
		ToType:    p.ToType,
		Amount:    p.Amount.Round(money.Scale),
		CreatedAt: now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	fromKey := domain.AccountKey{UserID: p.UserID, Type: p.FromType, Currency: currency}
	toKey := domain.AccountKey{UserID: p.UserID, Type: p.ToType, Currency: currency}

	// A deadlock or serialization failure rolls the whole transaction back,
	// so the move is re-run from a clean slate by the retrier.
	execute := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Lock both rows up front in canonical key order so opposing transfers
		// on the same pair acquire locks the same way and cannot deadlock. The
		// destination may not exist yet and is created here under its lock.
		for _, key := range domain.SortKeys(fromKey, toKey) {
			if key == fromKey {
				if _, err := uc.accountRepo.GetByKeyForUpdate(txCtx, tx, key); err != nil {
					return err
				}
				continue
			}
			if _, err := uc.accountRepo.GetOrCreateForUpdate(txCtx, tx, uc.idGen.Generate(), key, now); err != nil {
				return err
			}
		}

		metadata := map[string]any{
			"from_type": string(p.FromType),
			"to_type":   string(p.ToType),
		}

		debitEntry, err := uc.ledger.DebitTx(txCtx, tx, MovementParams{
			UserID:      p.UserID,
			AccountType: p.FromType,
			Currency:    currency,
			Amount:      transfer.Amount,
			BizType:     domain.BizTypeTransfer,
			RefID:       transfer.ID,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}

		creditEntry, err := uc.ledger.CreditTx(txCtx, tx, MovementParams{
			UserID:      p.UserID,
			AccountType: p.ToType,
			Currency:    currency,
			Amount:      transfer.Amount,
			BizType:     domain.BizTypeTransfer,
			RefID:       transfer.ID,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}

		if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   transfer.ID,
			AggregateType: domain.AggregateTypeTransfer,
			EventType:     domain.EventTypeTransferCompleted,
			Payload: map[string]any{
				"transfer_id":     transfer.ID,
				"user_id":         transfer.UserID,
				"currency":        transfer.Currency,
				"from_type":       string(transfer.FromType),
				"to_type":         string(transfer.ToType),
				"amount":          transfer.Amount.String(),
				"debit_entry_id":  debitEntry.ID,
				"credit_entry_id": creditEntry.ID,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if err := retryTx(ctx, uc.retrier, execute); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.WithLabelValues(transfer.Currency).Inc()
	}

	return transfer, nil
}

// GetByID returns a transfer by id.
func (uc *TransferUseCase) GetByID(ctx context.Context, transferID string) (*domain.InternalTransfer, error) {
	return uc.transferRepo.GetByID(ctx, transferID)
}

// ListByUser returns the user's transfers, newest first.
func (uc *TransferUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.InternalTransfer, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)

	return uc.transferRepo.ListByUser(ctx, userID, limit, offset)
}
