package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/orbitpay/ledger/internal/money"
)

// AccountType distinguishes the sub-account a balance lives in.
type AccountType string

const (
	AccountTypeSpot     AccountType = "spot"
	AccountTypeContract AccountType = "contract"
)

// ParseAccountType validates a raw account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeSpot, AccountTypeContract:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
}

// Account is a balance record for one (user, account type, currency) triple.
// At most one non-deleted account exists per triple; both balances are
// always non-negative. Only the ledger engine mutates accounts.
type Account struct {
	ID        string
	UserID    string
	Type      AccountType
	Currency  string
	Available money.Decimal
	Frozen    money.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Key returns the identity triple of this account.
func (a *Account) Key() AccountKey {
	return AccountKey{UserID: a.UserID, Type: a.Type, Currency: a.Currency}
}

// CanDebit checks whether the available balance covers amount.
func (a *Account) CanDebit(amount money.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientBalance
	}

	return nil
}

// CanFreeze checks whether amount can move from available to frozen.
func (a *Account) CanFreeze(amount money.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientBalance
	}

	return nil
}

// CanUnfreeze checks whether amount can move from frozen back to available.
func (a *Account) CanUnfreeze(amount money.Decimal) error {
	if a.Frozen.LessThan(amount) {
		return ErrInsufficientFrozen
	}

	return nil
}

// Total returns available + frozen.
func (a *Account) Total() money.Decimal {
	return a.Available.Add(a.Frozen)
}

// AccountKey identifies an account by its (user, type, currency) triple.
type AccountKey struct {
	UserID   string
	Type     AccountType
	Currency string
}

func (k AccountKey) String() string {
	return k.UserID + "/" + string(k.Type) + "/" + k.Currency
}

// Less defines the canonical lock-acquisition order for multi-account
// operations. Every code path that locks more than one account must acquire
// row locks in ascending key order regardless of which leg is the debit;
// otherwise two opposite-direction transfers over the same pair can deadlock.
func (k AccountKey) Less(other AccountKey) bool {
	return k.String() < other.String()
}

// SortKeys returns the given account keys in canonical locking order.
func SortKeys(keys ...AccountKey) []AccountKey {
	sorted := make([]AccountKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	return sorted
}
