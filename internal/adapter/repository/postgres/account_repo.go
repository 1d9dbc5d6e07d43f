package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

const accountColumns = `id, user_id, type, currency, available, frozen, created_at, updated_at, deleted_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByKey retrieves an account by its (user, type, currency) key.
func (r *AccountRepository) GetByKey(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND type = $2 AND currency = $3 AND deleted_at IS NULL`,
		key.UserID, string(key.Type), key.Currency,
	)

	return scanAccount(row)
}

// GetByKeyForUpdate retrieves an account by key with a FOR UPDATE lock.
func (r *AccountRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key domain.AccountKey) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND type = $2 AND currency = $3 AND deleted_at IS NULL
		FOR UPDATE`,
		key.UserID, string(key.Type), key.Currency,
	)

	return scanAccount(row)
}

// GetOrCreateForUpdate resolves the account for key under a FOR UPDATE
// lock, inserting a zero-balance row if none exists. The insert is an
// upsert against the key's partial unique index so concurrent creators of
// the same triple converge on one row.
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, id string, key domain.AccountKey, now time.Time) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO accounts (id, user_id, type, currency, available, frozen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $5)
		ON CONFLICT (user_id, type, currency) WHERE deleted_at IS NULL DO NOTHING`,
		id, key.UserID, string(key.Type), key.Currency, timeToPgTimestamptz(now),
	)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND type = $2 AND currency = $3 AND deleted_at IS NULL
		FOR UPDATE`,
		key.UserID, string(key.Type), key.Currency,
	)

	return scanAccount(row)
}

// UpdateBalances writes the available and frozen balances of an account.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, available, frozen money.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE accounts
		SET available = $2, frozen = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL`,
		id, decimalToNumeric(available), decimalToNumeric(frozen), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ListByUser lists all accounts owned by a user.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY currency, type`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		accType   string
		available pgtype.Numeric
		frozen    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID, &account.UserID, &accType, &account.Currency,
		&available, &frozen, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Type = domain.AccountType(accType)
	account.Available = numericToDecimal(available)
	account.Frozen = numericToDecimal(frozen)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	account.DeletedAt = pgTimestamptzToTimePtr(deletedAt)

	return &account, nil
}
