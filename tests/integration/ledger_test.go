package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
	"github.com/orbitpay/ledger/tests/testutil"
)

func TestLedgerMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	suite := testutil.NewSuite(testDB.Pool)

	t.Run("credit creates the account on first use", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		key := domain.AccountKey{UserID: userID, Type: domain.AccountTypeSpot, Currency: "USDT"}

		entry, err := suite.Ledger.Credit(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("100"),
			BizType:     domain.BizTypeDeposit,
			RefID:       testutil.GenerateID(),
		})
		if err != nil {
			t.Fatalf("credit failed: %v", err)
		}

		if !entry.BalanceAfter.Equal(money.MustNew("100")) {
			t.Errorf("expected balance_after 100, got %s", entry.BalanceAfter)
		}

		account, err := suite.Accounts.GetByKey(ctx, key)
		if err != nil {
			t.Fatalf("account not found after credit: %v", err)
		}

		if !account.Available.Equal(money.MustNew("100")) {
			t.Errorf("expected available 100, got %s", account.Available)
		}
	})

	t.Run("debit rejects missing account", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		_, err := suite.Ledger.Debit(ctx, usecase.MovementParams{
			UserID:      testutil.GenerateID(),
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("10"),
			BizType:     domain.BizTypeWithdraw,
			RefID:       testutil.GenerateID(),
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("debit rejects insufficient balance", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "50")

		_, err := suite.Ledger.Debit(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("50.000001"),
			BizType:     domain.BizTypeWithdraw,
			RefID:       testutil.GenerateID(),
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
	})

	t.Run("freeze and unfreeze move funds without entries", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "100")

		key := domain.AccountKey{UserID: userID, Type: domain.AccountTypeSpot, Currency: "USDT"}

		err := suite.Ledger.Freeze(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("40"),
			BizType:     domain.BizTypeWithdraw,
			RefID:       testutil.GenerateID(),
		})
		if err != nil {
			t.Fatalf("freeze failed: %v", err)
		}

		account, err := suite.Accounts.GetByKey(ctx, key)
		if err != nil {
			t.Fatal(err)
		}

		if !account.Available.Equal(money.MustNew("60")) || !account.Frozen.Equal(money.MustNew("40")) {
			t.Errorf("expected 60/40 after freeze, got %s/%s", account.Available, account.Frozen)
		}

		entries, err := suite.Entries.ListByAccount(ctx, account.ID, 100, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the credit entry, got %d entries", len(entries))
		}

		err = suite.Ledger.Unfreeze(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("40"),
			BizType:     domain.BizTypeWithdraw,
			RefID:       testutil.GenerateID(),
		})
		if err != nil {
			t.Fatalf("unfreeze failed: %v", err)
		}

		account, err = suite.Accounts.GetByKey(ctx, key)
		if err != nil {
			t.Fatal(err)
		}

		if !account.Available.Equal(money.MustNew("100")) || !account.Frozen.IsZero() {
			t.Errorf("expected 100/0 after unfreeze, got %s/%s", account.Available, account.Frozen)
		}
	})

	t.Run("verification matches entry history through freezes", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "200")

		key := domain.AccountKey{UserID: userID, Type: domain.AccountTypeSpot, Currency: "USDT"}

		if err := suite.Ledger.Freeze(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("75"),
			BizType:     domain.BizTypeWithdraw,
			RefID:       testutil.GenerateID(),
		}); err != nil {
			t.Fatal(err)
		}

		if _, err := suite.Ledger.Debit(ctx, usecase.MovementParams{
			UserID:      userID,
			AccountType: domain.AccountTypeSpot,
			Currency:    "USDT",
			Amount:      money.MustNew("25"),
			BizType:     domain.BizTypeTransfer,
			RefID:       testutil.GenerateID(),
		}); err != nil {
			t.Fatal(err)
		}

		result, err := suite.Ledger.VerifyAccount(ctx, key)
		if err != nil {
			t.Fatalf("verification failed: %v", err)
		}

		if !result.Consistent {
			t.Errorf("expected consistent account, got difference %s", result.Difference)
		}

		if !result.EntrySum.Equal(money.MustNew("175")) {
			t.Errorf("expected entry sum 175, got %s", result.EntrySum)
		}
	})
}

func mustCredit(t *testing.T, suite *testutil.Suite, userID, currency, amount string) {
	t.Helper()

	_, err := suite.Ledger.Credit(context.Background(), usecase.MovementParams{
		UserID:      userID,
		AccountType: domain.AccountTypeSpot,
		Currency:    currency,
		Amount:      money.MustNew(amount),
		BizType:     domain.BizTypeDeposit,
		RefID:       testutil.GenerateID(),
	})
	if err != nil {
		t.Fatalf("seed credit failed: %v", err)
	}
}
