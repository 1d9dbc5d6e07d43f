package usecase

import (
	"context"

	"github.com/orbitpay/ledger/internal/domain"
)

// EntryUseCase serves ledger entry history. Entries are append-only, so
// every read here is a plain snapshot query.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// ListByUser returns the user's entries, newest first.
func (uc *EntryUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)

	return uc.entryRepo.ListByUser(ctx, userID, limit, offset)
}

// ListByAccount returns an account's entries, newest first.
func (uc *EntryUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	limit, offset = clampPagination(limit, offset)

	return uc.entryRepo.ListByAccount(ctx, accountID, limit, offset)
}

// GetByBizRef returns the entries written for a business operation, letting
// callers trace a deposit, payout or transfer back to its ledger lines.
func (uc *EntryUseCase) GetByBizRef(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByBizRef(ctx, bizType, refID)
}
