package usecase_test

import (
	"context"
	"testing"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
	"github.com/orbitpay/ledger/internal/usecase/mocks"
)

func newRewardFixture() (*usecase.RewardUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	accRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(txMgr, accRepo, entryRepo, idGen, nil)
	uc := usecase.NewRewardUseCase(txMgr, entryRepo, outboxRepo, ledger, idGen, nil)
	return uc, accRepo, entryRepo
}

func TestRewardUseCase_Grant(t *testing.T) {
	uc, accRepo, _ := newRewardFixture()
	ctx := context.Background()

	entry, err := uc.Grant(ctx, usecase.GrantParams{
		UserID:   "user-1",
		Currency: "USDT",
		Amount:   money.MustNew("5"),
		RefID:    "campaign-42",
		Reason:   "signup bonus",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.BizType != domain.BizTypeReward {
		t.Errorf("biz_type = %s, want reward", entry.BizType)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, err := accRepo.GetByKey(ctx, key)
	if err != nil {
		t.Fatalf("spot account not created: %v", err)
	}
	if !account.Available.Equal(money.MustNew("5")) {
		t.Errorf("available = %s, want 5", account.Available)
	}
}

func TestRewardUseCase_GrantIdempotentPerRef(t *testing.T) {
	uc, accRepo, entryRepo := newRewardFixture()
	ctx := context.Background()

	p := usecase.GrantParams{
		UserID:   "user-1",
		Currency: "USDT",
		Amount:   money.MustNew("5"),
		RefID:    "campaign-42",
		Reason:   "signup bonus",
	}

	first, err := uc.Grant(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.Grant(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second grant returned a new entry: %s != %s", second.ID, first.ID)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, _ := accRepo.GetByKey(ctx, key)
	if !account.Available.Equal(money.MustNew("5")) {
		t.Errorf("available = %s, want 5 (single credit)", account.Available)
	}
	if got := len(entryRepo.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
}

func TestRewardUseCase_GrantLosesDuplicateRace(t *testing.T) {
	uc, _, entryRepo := newRewardFixture()
	ctx := context.Background()

	// A concurrent grant commits the winning entry between this grant's
	// duplicate check and its insert. The insert hits the unique index on
	// (biz_type, ref_id) and the loser must return the winner's entry.
	winner := &domain.LedgerEntry{
		ID:      "entry-winner",
		UserID:  "user-1",
		BizType: domain.BizTypeReward,
		RefID:   "campaign-42",
		Amount:  money.MustNew("5"),
	}

	lookups := 0
	entryRepo.GetByBizRefFunc = func(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error) {
		lookups++
		if lookups == 1 {
			return nil, nil
		}
		return []*domain.LedgerEntry{winner}, nil
	}
	entryRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
		return domain.ErrDuplicateEntry
	}

	entry, err := uc.Grant(ctx, usecase.GrantParams{
		UserID:   "user-1",
		Currency: "USDT",
		Amount:   money.MustNew("5"),
		RefID:    "campaign-42",
		Reason:   "signup bonus",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != winner.ID {
		t.Errorf("entry = %s, want the committed entry %s", entry.ID, winner.ID)
	}
	if lookups != 2 {
		t.Errorf("lookups = %d, want 2", lookups)
	}
}
