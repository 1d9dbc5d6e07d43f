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

const depositColumns = `id, user_id, currency, chain, address, amount, status, tx_id, confirmed_at, created_at, updated_at`

// DepositRepository implements usecase.DepositRepository.
type DepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

// Create records a new deposit.
func (r *DepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deposits (id, user_id, currency, chain, address, amount, status, tx_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		deposit.ID, deposit.UserID, deposit.Currency, deposit.Chain, deposit.Address,
		decimalToNumeric(deposit.Amount), string(deposit.Status), deposit.TxID,
		timeToPgTimestamptz(deposit.CreatedAt), timeToPgTimestamptz(deposit.UpdatedAt),
	)

	return err
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// GetByIDForUpdate retrieves a deposit by ID with a FOR UPDATE lock.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1 FOR UPDATE`, id)
	return scanDeposit(row)
}

// Update writes a deposit's mutable fields inside the caller's transaction.
func (r *DepositRepository) Update(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE deposits
		SET status = $2, tx_id = $3, confirmed_at = $4, updated_at = $5
		WHERE id = $1`,
		deposit.ID, string(deposit.Status), deposit.TxID,
		timePtrToPgTimestamptz(deposit.ConfirmedAt), timeToPgTimestamptz(deposit.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDepositNotFound
	}

	return nil
}

// ListByUser lists a user's deposits, newest first.
func (r *DepositRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deposit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []*domain.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}

	return deposits, rows.Err()
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		deposit     domain.Deposit
		amount      pgtype.Numeric
		status      string
		confirmedAt pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&deposit.ID, &deposit.UserID, &deposit.Currency, &deposit.Chain, &deposit.Address,
		&amount, &status, &deposit.TxID, &confirmedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}

		return nil, err
	}

	deposit.Amount = numericToDecimal(amount)
	deposit.Status = domain.DepositStatus(status)
	deposit.ConfirmedAt = pgTimestamptzToTimePtr(confirmedAt)
	deposit.CreatedAt = createdAt.Time
	deposit.UpdatedAt = updatedAt.Time

	return &deposit, nil
}
