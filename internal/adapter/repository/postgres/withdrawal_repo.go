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

const withdrawalColumns = `id, user_id, currency, chain, to_address, amount_request, fee, amount_actual, status, tx_id, created_at, updated_at`

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{pool: pool}
}

// Create records a new withdrawal inside the caller's transaction.
func (r *WithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO withdrawals (id, user_id, currency, chain, to_address, amount_request, fee, amount_actual, status, tx_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		withdrawal.ID, withdrawal.UserID, withdrawal.Currency, withdrawal.Chain, withdrawal.ToAddress,
		decimalToNumeric(withdrawal.AmountRequest), decimalToNumeric(withdrawal.Fee), decimalToNumeric(withdrawal.AmountActual),
		string(withdrawal.Status), withdrawal.TxID,
		timeToPgTimestamptz(withdrawal.CreatedAt), timeToPgTimestamptz(withdrawal.UpdatedAt),
	)

	return err
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByIDForUpdate retrieves a withdrawal by ID with a FOR UPDATE lock.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error) {
	pgxTx := tx.(*Tx).PgxTx()
	row := pgxTx.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
	return scanWithdrawal(row)
}

// Update writes a withdrawal's mutable fields inside the caller's
// transaction.
func (r *WithdrawalRepository) Update(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE withdrawals
		SET status = $2, tx_id = $3, updated_at = $4
		WHERE id = $1`,
		withdrawal.ID, string(withdrawal.Status), withdrawal.TxID, timeToPgTimestamptz(withdrawal.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}

	return nil
}

// ListByUser lists a user's withdrawals, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Withdrawal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}

	return withdrawals, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var (
		withdrawal    domain.Withdrawal
		amountRequest pgtype.Numeric
		fee           pgtype.Numeric
		amountActual  pgtype.Numeric
		status        string
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&withdrawal.ID, &withdrawal.UserID, &withdrawal.Currency, &withdrawal.Chain, &withdrawal.ToAddress,
		&amountRequest, &fee, &amountActual, &status, &withdrawal.TxID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWithdrawalNotFound
		}

		return nil, err
	}

	withdrawal.AmountRequest = numericToDecimal(amountRequest)
	withdrawal.Fee = numericToDecimal(fee)
	withdrawal.AmountActual = numericToDecimal(amountActual)
	withdrawal.Status = domain.WithdrawalStatus(status)
	withdrawal.CreatedAt = createdAt.Time
	withdrawal.UpdatedAt = updatedAt.Time

	return &withdrawal, nil
}
