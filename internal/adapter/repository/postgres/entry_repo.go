package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

const entryColumns = `id, user_id, account_id, currency, amount, balance_after, biz_type, ref_id, metadata, created_at`

// EntryRepository implements usecase.EntryRepository. Entries are
// append-only; the repository exposes no update or delete.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a ledger entry inside the caller's transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_entries (id, user_id, account_id, currency, amount, balance_after, biz_type, ref_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.UserID, entry.AccountID, entry.Currency,
		decimalToNumeric(entry.Amount), decimalToNumeric(entry.BalanceAfter),
		string(entry.BizType), entry.RefID, metadata, timeToPgTimestamptz(entry.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEntry
	}

	return err
}

// isUniqueViolation reports whether err is a unique constraint violation
// (postgres error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ListByUser lists a user's entries, newest first.
func (r *EntryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByAccount lists an account's entries, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByBizRef returns the entries written for one business operation.
func (r *EntryRepository) GetByBizRef(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE biz_type = $1 AND ref_id = $2
		ORDER BY created_at, id`,
		string(bizType), refID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByAccount returns the sum of all entry amounts for an account.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (money.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1`,
		accountID,
	).Scan(&sum)
	if err != nil {
		return money.Zero(), err
	}

	return numericToDecimal(sum), nil
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry        domain.LedgerEntry
		amount       pgtype.Numeric
		balanceAfter pgtype.Numeric
		bizType      string
		metadata     []byte
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.AccountID, &entry.Currency,
		&amount, &balanceAfter, &bizType, &entry.RefID, &metadata, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.BizType = domain.BizType(bizType)
	entry.CreatedAt = createdAt.Time

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, err
		}
	}

	return &entry, nil
}
