package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/usecase"
)

const transferColumns = `id, user_id, currency, from_type, to_type, amount, created_at`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create records a transfer inside the caller's transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.InternalTransfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO internal_transfers (id, user_id, currency, from_type, to_type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		transfer.ID, transfer.UserID, transfer.Currency,
		string(transfer.FromType), string(transfer.ToType),
		decimalToNumeric(transfer.Amount), timeToPgTimestamptz(transfer.CreatedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.InternalTransfer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transferColumns+` FROM internal_transfers WHERE id = $1`, id)
	return scanTransfer(row)
}

// ListByUser lists a user's transfers, newest first.
func (r *TransferRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.InternalTransfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+`
		FROM internal_transfers
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.InternalTransfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.InternalTransfer, error) {
	var (
		transfer  domain.InternalTransfer
		fromType  string
		toType    string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID, &transfer.UserID, &transfer.Currency,
		&fromType, &toType, &amount, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.FromType = domain.AccountType(fromType)
	transfer.ToType = domain.AccountType(toType)
	transfer.Amount = numericToDecimal(amount)
	transfer.CreatedAt = createdAt.Time

	return &transfer, nil
}
