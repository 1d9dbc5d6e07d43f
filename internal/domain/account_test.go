package domain

import (
	"errors"
	"testing"

	"github.com/orbitpay/ledger/internal/money"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input   string
		want    AccountType
		wantErr bool
	}{
		{input: "spot", want: AccountTypeSpot},
		{input: "contract", want: AccountTypeContract},
		{input: "margin", wantErr: true},
		{input: "", wantErr: true},
		{input: "SPOT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAccountType) {
					t.Fatalf("expected ErrInvalidAccountType, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("ParseAccountType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAccountCanDebit(t *testing.T) {
	account := &Account{Available: money.MustNew("100.50")}

	if err := account.CanDebit(money.MustNew("100.50")); err != nil {
		t.Errorf("debit of full balance should pass, got %v", err)
	}

	if err := account.CanDebit(money.MustNew("100.500001")); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestAccountCanFreezeUnfreeze(t *testing.T) {
	account := &Account{
		Available: money.MustNew("100"),
		Frozen:    money.MustNew("25"),
	}

	if err := account.CanFreeze(money.MustNew("100")); err != nil {
		t.Errorf("freeze within available should pass, got %v", err)
	}

	if err := account.CanFreeze(money.MustNew("101")); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}

	if err := account.CanUnfreeze(money.MustNew("25")); err != nil {
		t.Errorf("unfreeze within frozen should pass, got %v", err)
	}

	if err := account.CanUnfreeze(money.MustNew("25.000001")); !errors.Is(err, ErrInsufficientFrozen) {
		t.Errorf("expected ErrInsufficientFrozen, got %v", err)
	}
}

func TestAccountTotal(t *testing.T) {
	account := &Account{
		Available: money.MustNew("80.25"),
		Frozen:    money.MustNew("19.75"),
	}

	if got := account.Total(); !got.Equal(money.MustNew("100")) {
		t.Errorf("Total() = %s, want 100", got)
	}
}

func TestSortKeysCanonicalOrder(t *testing.T) {
	a := AccountKey{UserID: "u1", Type: AccountTypeSpot, Currency: "USDT"}
	b := AccountKey{UserID: "u1", Type: AccountTypeContract, Currency: "USDT"}

	// Order must not depend on which leg is the debit.
	forward := SortKeys(a, b)
	reverse := SortKeys(b, a)

	for i := range forward {
		if forward[i] != reverse[i] {
			t.Fatalf("lock order differs for the same pair: %v vs %v", forward, reverse)
		}
	}

	if !forward[0].Less(forward[1]) {
		t.Errorf("keys not in ascending order: %v", forward)
	}
}
