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

type transferFixture struct {
	uc         *usecase.TransferUseCase
	ledger     *usecase.LedgerUseCase
	accRepo    *mocks.MockAccountRepository
	entryRepo  *mocks.MockEntryRepository
	outboxRepo *mocks.MockOutboxRepository
}

func newTransferFixture() *transferFixture {
	accRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	transferRepo := mocks.NewMockTransferRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(txMgr, accRepo, entryRepo, idGen, nil)
	uc := usecase.NewTransferUseCase(txMgr, transferRepo, accRepo, outboxRepo, ledger, idGen, nil, nil)

	return &transferFixture{
		uc:         uc,
		ledger:     ledger,
		accRepo:    accRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
	}
}

func (f *transferFixture) fund(t *testing.T, accountType domain.AccountType, amount string) {
	t.Helper()
	_, err := f.ledger.Credit(context.Background(), usecase.MovementParams{
		UserID:      "user-1",
		AccountType: accountType,
		Currency:    "USDT",
		Amount:      money.MustNew(amount),
		BizType:     domain.BizTypeDeposit,
		RefID:       "seed",
	})
	if err != nil {
		t.Fatalf("seed credit failed: %v", err)
	}
}

func TestTransferUseCase_Transfer(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	f.fund(t, domain.AccountTypeSpot, "100")

	transfer, err := f.uc.Transfer(ctx, usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeSpot,
		ToType:   domain.AccountTypeContract,
		Amount:   money.MustNew("40"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spotKey := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	contractKey := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeContract, Currency: "USDT"}

	spot, _ := f.accRepo.GetByKey(ctx, spotKey)
	contract, err := f.accRepo.GetByKey(ctx, contractKey)
	if err != nil {
		t.Fatalf("destination account not created: %v", err)
	}

	if !spot.Available.Equal(money.MustNew("60")) {
		t.Errorf("spot available = %s, want 60", spot.Available)
	}
	if !contract.Available.Equal(money.MustNew("40")) {
		t.Errorf("contract available = %s, want 40", contract.Available)
	}

	// Conservation: the debit and credit legs cancel out exactly.
	sum := money.Zero()
	legs := 0
	for _, e := range f.entryRepo.Entries() {
		if e.BizType == domain.BizTypeTransfer && e.RefID == transfer.ID {
			sum = sum.Add(e.Amount)
			legs++
		}
	}
	if legs != 2 {
		t.Errorf("transfer legs = %d, want 2", legs)
	}
	if !sum.IsZero() {
		t.Errorf("leg sum = %s, want 0", sum)
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeTransferCompleted {
		t.Errorf("expected one transfer.completed event, got %v", events)
	}
}

func TestTransferUseCase_SameTypeRejected(t *testing.T) {
	f := newTransferFixture()
	f.fund(t, domain.AccountTypeSpot, "100")

	_, err := f.uc.Transfer(context.Background(), usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeSpot,
		ToType:   domain.AccountTypeSpot,
		Amount:   money.MustNew("10"),
	})
	if !errors.Is(err, domain.ErrSameAccountType) {
		t.Errorf("expected ErrSameAccountType, got %v", err)
	}
}

func TestTransferUseCase_UnknownTypeRejected(t *testing.T) {
	f := newTransferFixture()
	f.fund(t, domain.AccountTypeSpot, "100")

	for _, p := range []usecase.TransferParams{
		{UserID: "user-1", Currency: "USDT", FromType: "margin", ToType: domain.AccountTypeSpot, Amount: money.MustNew("10")},
		{UserID: "user-1", Currency: "USDT", FromType: domain.AccountTypeSpot, ToType: "margin", Amount: money.MustNew("10")},
	} {
		_, err := f.uc.Transfer(context.Background(), p)
		if !errors.Is(err, domain.ErrInvalidAccountType) {
			t.Errorf("from=%s to=%s: expected ErrInvalidAccountType, got %v", p.FromType, p.ToType, err)
		}
	}
}

func TestTransferUseCase_InsufficientSource(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()
	f.fund(t, domain.AccountTypeSpot, "10")

	_, err := f.uc.Transfer(ctx, usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeSpot,
		ToType:   domain.AccountTypeContract,
		Amount:   money.MustNew("10.01"),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Source untouched after the failed move.
	spotKey := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeSpot, Currency: "USDT"}
	spot, _ := f.accRepo.GetByKey(ctx, spotKey)
	if !spot.Available.Equal(money.MustNew("10")) {
		t.Errorf("spot available = %s, want 10", spot.Available)
	}
}

func TestTransferUseCase_MissingSource(t *testing.T) {
	f := newTransferFixture()

	_, err := f.uc.Transfer(context.Background(), usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeContract,
		ToType:   domain.AccountTypeSpot,
		Amount:   money.MustNew("10"),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransferUseCase_ZeroAmountRejected(t *testing.T) {
	f := newTransferFixture()
	f.fund(t, domain.AccountTypeSpot, "100")

	_, err := f.uc.Transfer(context.Background(), usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeSpot,
		ToType:   domain.AccountTypeContract,
		Amount:   money.Zero(),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

// retryOnceRetrier re-runs the operation a single time after any failure.
type retryOnceRetrier struct {
	attempts int
}

func (r *retryOnceRetrier) Retry(ctx context.Context, op func() error) error {
	r.attempts++
	if err := op(); err != nil {
		r.attempts++
		return op()
	}
	return nil
}

func TestTransferUseCase_RetriesTransientFailure(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	transferRepo := mocks.NewMockTransferRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(txMgr, accRepo, entryRepo, idGen, nil)
	retrier := &retryOnceRetrier{}
	uc := usecase.NewTransferUseCase(txMgr, transferRepo, accRepo, outboxRepo, ledger, idGen, nil, retrier)

	ctx := context.Background()
	if _, err := ledger.Credit(ctx, usecase.MovementParams{
		UserID:      "user-1",
		AccountType: domain.AccountTypeSpot,
		Currency:    "USDT",
		Amount:      money.MustNew("100"),
		BizType:     domain.BizTypeDeposit,
		RefID:       "seed",
	}); err != nil {
		t.Fatalf("seed credit failed: %v", err)
	}

	// First Begin of the transfer fails, the retried attempt succeeds.
	calls := 0
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return &mocks.MockTransaction{}, nil
	}

	transfer, err := uc.Transfer(ctx, usecase.TransferParams{
		UserID:   "user-1",
		Currency: "USDT",
		FromType: domain.AccountTypeSpot,
		ToType:   domain.AccountTypeContract,
		Amount:   money.MustNew("25"),
	})
	if err != nil {
		t.Fatalf("expected retried transfer to succeed, got %v", err)
	}
	if retrier.attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", retrier.attempts)
	}

	contractKey := domain.AccountKey{UserID: "user-1", Type: domain.AccountTypeContract, Currency: "USDT"}
	contract, err := accRepo.GetByKey(ctx, contractKey)
	if err != nil {
		t.Fatal(err)
	}
	if !contract.Available.Equal(money.MustNew("25")) {
		t.Errorf("contract available = %s, want 25", contract.Available)
	}
	if transfer.Amount.Cmp(money.MustNew("25")) != 0 {
		t.Errorf("transfer amount = %s, want 25", transfer.Amount)
	}
}
