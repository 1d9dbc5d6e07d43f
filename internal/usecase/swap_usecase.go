package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/infrastructure/metrics"
	"github.com/orbitpay/ledger/internal/money"
)

// SwapUseCase converts between currencies on the spot account at a
// configured rate. A swap is a debit in the source currency and a credit in
// the destination currency inside one transaction, with the rate snapshot
// persisted on the swap record.
type SwapUseCase struct {
	txManager   TransactionManager
	swapRepo    SwapRepository
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	ledger      *LedgerUseCase
	config      *ConfigUseCase
	idGen       IDGenerator
	metrics     *metrics.Metrics
	retrier     Retrier
}

// NewSwapUseCase creates a new SwapUseCase. retrier may be nil.
func NewSwapUseCase(
	txManager TransactionManager,
	swapRepo SwapRepository,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	config *ConfigUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	retrier Retrier,
) *SwapUseCase {
	return &SwapUseCase{
		txManager:   txManager,
		swapRepo:    swapRepo,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		ledger:      ledger,
		config:      config,
		idGen:       idGen,
		metrics:     metrics,
		retrier:     retrier,
	}
}

// SwapParams describes a currency conversion request.
type SwapParams struct {
	UserID       string
	FromCurrency string
	ToCurrency   string
	AmountFrom   money.Decimal
}

// Quote is a priced but unexecuted swap.
type Quote struct {
	FromCurrency string
	ToCurrency   string
	Rate         money.Decimal
	AmountFrom   money.Decimal
	AmountTo     money.Decimal
}

func (uc *SwapUseCase) price(ctx context.Context, p SwapParams) (*Quote, error) {
	if err := domain.ValidateUserID(p.UserID); err != nil {
		return nil, err
	}

	from, err := domain.NormalizeCurrency(p.FromCurrency)
	if err != nil {
		return nil, err
	}

	to, err := domain.NormalizeCurrency(p.ToCurrency)
	if err != nil {
		return nil, err
	}

	if from == to {
		return nil, domain.ErrSameCurrency
	}

	if err := domain.ValidatePositiveAmount(p.AmountFrom); err != nil {
		return nil, err
	}

	rate, err := uc.config.SwapRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	amountFrom := p.AmountFrom.Round(money.Scale)
	amountTo := amountFrom.Mul(rate).Round(money.Scale)

	if !amountTo.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	return &Quote{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		AmountFrom:   amountFrom,
		AmountTo:     amountTo,
	}, nil
}

// GetQuote prices a swap without executing it.
func (uc *SwapUseCase) GetQuote(ctx context.Context, p SwapParams) (*Quote, error) {
	return uc.price(ctx, p)
}

// Swap prices and executes the conversion. The rate is re-read at execution
// time so a stale quote cannot fix the price.
func (uc *SwapUseCase) Swap(ctx context.Context, p SwapParams) (*domain.Swap, error) {
	quote, err := uc.price(ctx, p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	swap := &domain.Swap{
		ID:           uc.idGen.Generate(),
		UserID:       p.UserID,
		FromCurrency: quote.FromCurrency,
		ToCurrency:   quote.ToCurrency,
		RateSnapshot: quote.Rate,
		AmountFrom:   quote.AmountFrom,
		AmountTo:     quote.AmountTo,
		CreatedAt:    now,
	}

	fromKey := domain.AccountKey{UserID: p.UserID, Type: domain.AccountTypeSpot, Currency: quote.FromCurrency}
	toKey := domain.AccountKey{UserID: p.UserID, Type: domain.AccountTypeSpot, Currency: quote.ToCurrency}

	// A deadlock or serialization failure rolls the whole transaction back,
	// so the conversion is re-run from a clean slate by the retrier.
	execute := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Same canonical lock ordering as transfers: both spot rows are locked
		// before either leg runs.
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
			"from_currency": quote.FromCurrency,
			"to_currency":   quote.ToCurrency,
			"rate":          quote.Rate.String(),
		}

		debitEntry, err := uc.ledger.DebitTx(txCtx, tx, MovementParams{
			UserID:      p.UserID,
			AccountType: domain.AccountTypeSpot,
			Currency:    quote.FromCurrency,
			Amount:      quote.AmountFrom,
			BizType:     domain.BizTypeSwap,
			RefID:       swap.ID,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}

		creditEntry, err := uc.ledger.CreditTx(txCtx, tx, MovementParams{
			UserID:      p.UserID,
			AccountType: domain.AccountTypeSpot,
			Currency:    quote.ToCurrency,
			Amount:      quote.AmountTo,
			BizType:     domain.BizTypeSwap,
			RefID:       swap.ID,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}

		if err := uc.swapRepo.Create(txCtx, tx, swap); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   swap.ID,
			AggregateType: domain.AggregateTypeSwap,
			EventType:     domain.EventTypeSwapCompleted,
			Payload: map[string]any{
				"swap_id":         swap.ID,
				"user_id":         swap.UserID,
				"from_currency":   swap.FromCurrency,
				"to_currency":     swap.ToCurrency,
				"rate":            swap.RateSnapshot.String(),
				"amount_from":     swap.AmountFrom.String(),
				"amount_to":       swap.AmountTo.String(),
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
		uc.metrics.SwapsCompleted.WithLabelValues(swap.FromCurrency, swap.ToCurrency).Inc()
	}

	return swap, nil
}

// GetByID returns a swap by id.
func (uc *SwapUseCase) GetByID(ctx context.Context, swapID string) (*domain.Swap, error) {
	return uc.swapRepo.GetByID(ctx, swapID)
}

// ListByUser returns the user's swaps, newest first.
func (uc *SwapUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Swap, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)

	return uc.swapRepo.ListByUser(ctx, userID, limit, offset)
}
