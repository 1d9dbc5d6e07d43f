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

func TestWithdrawalLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	suite := testutil.NewSuite(testDB.Pool)

	spotKey := func(userID string) domain.AccountKey {
		return domain.AccountKey{UserID: userID, Type: domain.AccountTypeSpot, Currency: "USDT"}
	}

	t.Run("apply freezes the full requested amount", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "1000")

		withdrawal, err := suite.Withdrawals.Apply(ctx, usecase.ApplyParams{
			UserID:    userID,
			Currency:  "USDT",
			Chain:     "TRC20",
			ToAddress: "TXYZabc123",
			Amount:    money.MustNew("100"),
		})
		if err != nil {
			t.Fatalf("apply failed: %v", err)
		}

		if withdrawal.Status != domain.WithdrawalStatusPending {
			t.Errorf("expected pending, got %s", withdrawal.Status)
		}
		if !withdrawal.Fee.Equal(money.MustNew("10")) {
			t.Errorf("expected fee 10, got %s", withdrawal.Fee)
		}
		if !withdrawal.AmountActual.Equal(money.MustNew("90")) {
			t.Errorf("expected actual 90, got %s", withdrawal.AmountActual)
		}

		account, err := suite.Accounts.GetByKey(ctx, spotKey(userID))
		if err != nil {
			t.Fatal(err)
		}
		if !account.Available.Equal(money.MustNew("900")) || !account.Frozen.Equal(money.MustNew("100")) {
			t.Errorf("expected 900/100, got %s/%s", account.Available, account.Frozen)
		}
	})

	t.Run("pay debits the frozen amount", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "1000")

		withdrawal, err := suite.Withdrawals.Apply(ctx, usecase.ApplyParams{
			UserID:    userID,
			Currency:  "USDT",
			Chain:     "TRC20",
			ToAddress: "TXYZabc123",
			Amount:    money.MustNew("200"),
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := suite.Withdrawals.Approve(ctx, withdrawal.ID); err != nil {
			t.Fatalf("approve failed: %v", err)
		}

		paid, err := suite.Withdrawals.Pay(ctx, withdrawal.ID, "0xdeadbeef")
		if err != nil {
			t.Fatalf("pay failed: %v", err)
		}

		if paid.Status != domain.WithdrawalStatusPaid {
			t.Errorf("expected paid, got %s", paid.Status)
		}
		if paid.TxID != "0xdeadbeef" {
			t.Errorf("expected tx id recorded, got %q", paid.TxID)
		}

		account, err := suite.Accounts.GetByKey(ctx, spotKey(userID))
		if err != nil {
			t.Fatal(err)
		}
		if !account.Available.Equal(money.MustNew("800")) || !account.Frozen.IsZero() {
			t.Errorf("expected 800/0 after payout, got %s/%s", account.Available, account.Frozen)
		}

		result, err := suite.Ledger.VerifyAccount(ctx, spotKey(userID))
		if err != nil {
			t.Fatal(err)
		}
		if !result.Consistent {
			t.Errorf("account inconsistent after payout, difference %s", result.Difference)
		}
	})

	t.Run("pay requires approval first", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "1000")

		withdrawal, err := suite.Withdrawals.Apply(ctx, usecase.ApplyParams{
			UserID:    userID,
			Currency:  "USDT",
			Chain:     "TRC20",
			ToAddress: "TXYZabc123",
			Amount:    money.MustNew("100"),
		})
		if err != nil {
			t.Fatal(err)
		}

		_, err = suite.Withdrawals.Pay(ctx, withdrawal.ID, "0xdeadbeef")
		if !errors.Is(err, domain.ErrWithdrawalNotApproved) {
			t.Fatalf("expected ErrWithdrawalNotApproved, got %v", err)
		}
	})

	t.Run("reject releases the frozen amount", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "500")

		withdrawal, err := suite.Withdrawals.Apply(ctx, usecase.ApplyParams{
			UserID:    userID,
			Currency:  "USDT",
			Chain:     "TRC20",
			ToAddress: "TXYZabc123",
			Amount:    money.MustNew("300"),
		})
		if err != nil {
			t.Fatal(err)
		}

		rejected, err := suite.Withdrawals.Reject(ctx, withdrawal.ID)
		if err != nil {
			t.Fatalf("reject failed: %v", err)
		}
		if rejected.Status != domain.WithdrawalStatusRejected {
			t.Errorf("expected rejected, got %s", rejected.Status)
		}

		account, err := suite.Accounts.GetByKey(ctx, spotKey(userID))
		if err != nil {
			t.Fatal(err)
		}
		if !account.Available.Equal(money.MustNew("500")) || !account.Frozen.IsZero() {
			t.Errorf("expected 500/0 after rejection, got %s/%s", account.Available, account.Frozen)
		}
	})

	t.Run("apply rejects amounts the balance cannot cover", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		mustCredit(t, suite, userID, "USDT", "50")

		_, err := suite.Withdrawals.Apply(ctx, usecase.ApplyParams{
			UserID:    userID,
			Currency:  "USDT",
			Chain:     "TRC20",
			ToAddress: "TXYZabc123",
			Amount:    money.MustNew("51"),
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
	})
}
