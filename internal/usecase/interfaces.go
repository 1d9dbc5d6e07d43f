package usecase

import (
	"context"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByKey(ctx context.Context, key domain.AccountKey) (*domain.Account, error)
	GetByKeyForUpdate(ctx context.Context, tx Transaction, key domain.AccountKey) (*domain.Account, error)
	// GetOrCreateForUpdate resolves the account for key under a row lock,
	// creating it with zero balances if absent. Creation must be safe
	// against concurrent creators of the same triple (upsert, not
	// check-then-create); id is used only when a new row is inserted.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, id string, key domain.AccountKey, now time.Time) (*domain.Account, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, available, frozen money.Decimal, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only; there is no update or delete.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetByBizRef(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error)
	SumByAccount(ctx context.Context, accountID string) (money.Decimal, error)
}

// DepositRepository defines data access for deposit records.
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.Deposit) error
	GetByID(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Deposit, error)
	Update(ctx context.Context, tx Transaction, deposit *domain.Deposit) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deposit, error)
}

// WithdrawalRepository defines data access for withdrawal records.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx Transaction, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Withdrawal, error)
	Update(ctx context.Context, tx Transaction, withdrawal *domain.Withdrawal) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Withdrawal, error)
}

// TransferRepository defines data access for internal transfer records.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.InternalTransfer) error
	GetByID(ctx context.Context, id string) (*domain.InternalTransfer, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.InternalTransfer, error)
}

// SwapRepository defines data access for swap records.
type SwapRepository interface {
	Create(ctx context.Context, tx Transaction, swap *domain.Swap) error
	GetByID(ctx context.Context, id string) (*domain.Swap, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Swap, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// ConfigRepository defines data access for system configuration values.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation after a transient database failure. The
// operation must be safe to repeat from scratch.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
