package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
	"github.com/orbitpay/ledger/internal/usecase/mocks"
)

func newLedgerUseCase() (*usecase.LedgerUseCase, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	accRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	uc := usecase.NewLedgerUseCase(txMgr, accRepo, entryRepo, idGen, nil)
	return uc, accRepo, entryRepo
}

func TestLedgerUseCase_Credit(t *testing.T) {
	uc, accRepo, entryRepo := newLedgerUseCase()
	ctx := context.Background()

	entry, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100.50"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, err := accRepo.GetByKey(ctx, key)
	if err != nil {
		t.Fatalf("account not created on first credit: %v", err)
	}
	if !account.Available.Equal(money.MustNew("100.50")) {
		t.Errorf("available = %s, want 100.50", account.Available)
	}
	if !account.Frozen.IsZero() {
		t.Errorf("frozen = %s, want 0", account.Frozen)
	}

	if !entry.Amount.Equal(money.MustNew("100.50")) {
		t.Errorf("entry amount = %s, want 100.50", entry.Amount)
	}
	if !entry.BalanceAfter.Equal(money.MustNew("100.50")) {
		t.Errorf("entry balance_after = %s, want 100.50", entry.BalanceAfter)
	}

	// Second credit accumulates on the existing account.
	entry2, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("0.000001"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry2.BalanceAfter.Equal(money.MustNew("100.500001")) {
		t.Errorf("entry balance_after = %s, want 100.500001", entry2.BalanceAfter)
	}

	if got := len(entryRepo.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}

func TestLedgerUseCase_Debit(t *testing.T) {
	uc, accRepo, _ := newLedgerUseCase()
	ctx := context.Background()

	_, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100.50"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := uc.Debit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("50.25"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !entry.Amount.Equal(money.MustNew("-50.25")) {
		t.Errorf("entry amount = %s, want -50.25", entry.Amount)
	}
	if !entry.BalanceAfter.Equal(money.MustNew("50.25")) {
		t.Errorf("entry balance_after = %s, want 50.25", entry.BalanceAfter)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, _ := accRepo.GetByKey(ctx, key)
	if !account.Available.Equal(money.MustNew("50.25")) {
		t.Errorf("available = %s, want 50.25", account.Available)
	}
}

func TestLedgerUseCase_DebitInsufficient(t *testing.T) {
	uc, accRepo, entryRepo := newLedgerUseCase()
	ctx := context.Background()

	_, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("10"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.Debit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("10.000001"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Failed debit leaves balance and history untouched.
	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, _ := accRepo.GetByKey(ctx, key)
	if !account.Available.Equal(money.MustNew("10")) {
		t.Errorf("available = %s, want 10", account.Available)
	}
	if got := len(entryRepo.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
}

func TestLedgerUseCase_OnlyCreditCreatesAccounts(t *testing.T) {
	uc, _, _ := newLedgerUseCase()
	ctx := context.Background()

	p := usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("1"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	}

	if _, err := uc.Debit(ctx, p); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Debit on missing account: expected ErrAccountNotFound, got %v", err)
	}
	if err := uc.Freeze(ctx, p); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Freeze on missing account: expected ErrAccountNotFound, got %v", err)
	}
	if err := uc.Unfreeze(ctx, p); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Unfreeze on missing account: expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_FreezeUnfreeze(t *testing.T) {
	uc, accRepo, entryRepo := newLedgerUseCase()
	ctx := context.Background()

	_, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	freeze := usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("30"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	}

	if err := uc.Freeze(ctx, freeze); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	account, _ := accRepo.GetByKey(ctx, key)
	if !account.Available.Equal(money.MustNew("70")) {
		t.Errorf("available = %s, want 70", account.Available)
	}
	if !account.Frozen.Equal(money.MustNew("30")) {
		t.Errorf("frozen = %s, want 30", account.Frozen)
	}
	if !account.Total().Equal(money.MustNew("100")) {
		t.Errorf("total = %s, want 100", account.Total())
	}

	// Freeze and unfreeze leave no trace in the entry history.
	if got := len(entryRepo.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}

	if err := uc.Unfreeze(ctx, freeze); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, _ = accRepo.GetByKey(ctx, key)
	if !account.Available.Equal(money.MustNew("100")) {
		t.Errorf("available = %s, want 100", account.Available)
	}
	if !account.Frozen.IsZero() {
		t.Errorf("frozen = %s, want 0", account.Frozen)
	}
}

func TestLedgerUseCase_FreezeUnfreezeBounds(t *testing.T) {
	uc, _, _ := newLedgerUseCase()
	ctx := context.Background()

	_, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = uc.Freeze(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100.01"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("freeze over available: expected ErrInsufficientBalance, got %v", err)
	}

	err = uc.Unfreeze(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("0.01"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	})
	if !errors.Is(err, domain.ErrInsufficientFrozen) {
		t.Errorf("unfreeze over frozen: expected ErrInsufficientFrozen, got %v", err)
	}
}

func TestLedgerUseCase_RejectsNegativeAmount(t *testing.T) {
	uc, _, _ := newLedgerUseCase()
	ctx := context.Background()

	_, err := uc.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("-5"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLedgerUseCase_VerifyAccount(t *testing.T) {
	uc, accRepo, _ := newLedgerUseCase()
	ctx := context.Background()

	base := usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		BizType:     domain.BizTypeDeposit,
		RefID:       "dep-1",
	}

	base.Amount = money.MustNew("100.50")
	if _, err := uc.Credit(ctx, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	debit := base
	debit.Amount = money.MustNew("50.25")
	debit.BizType = domain.BizTypeWithdraw
	if _, err := uc.Debit(ctx, debit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	result, err := uc.VerifyAccount(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Consistent {
		t.Errorf("expected consistent account, diff = %s", result.Difference)
	}

	// A freeze writes no entry but must not break verification.
	err = uc.Freeze(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("10"),
		BizType:     domain.BizTypeWithdraw,
		RefID:       "wd-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err = uc.VerifyAccount(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Consistent {
		t.Errorf("expected consistent account with frozen funds, diff = %s", result.Difference)
	}

	// Corrupt the stored balance; the replay must notice.
	account, _ := accRepo.GetByKey(ctx, key)
	account.Available = account.Available.Add(money.MustNew("0.000001"))

	result, err = uc.VerifyAccount(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consistent {
		t.Error("expected inconsistent account after tampering")
	}
}
