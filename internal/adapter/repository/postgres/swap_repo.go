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

const swapColumns = `id, user_id, from_currency, to_currency, rate_snapshot, amount_from, amount_to, created_at`

// SwapRepository implements usecase.SwapRepository.
type SwapRepository struct {
	pool *pgxpool.Pool
}

// NewSwapRepository creates a new SwapRepository.
func NewSwapRepository(pool *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{pool: pool}
}

// Create records a swap inside the caller's transaction.
func (r *SwapRepository) Create(ctx context.Context, tx usecase.Transaction, swap *domain.Swap) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO swaps (id, user_id, from_currency, to_currency, rate_snapshot, amount_from, amount_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		swap.ID, swap.UserID, swap.FromCurrency, swap.ToCurrency,
		decimalToNumeric(swap.RateSnapshot), decimalToNumeric(swap.AmountFrom), decimalToNumeric(swap.AmountTo),
		timeToPgTimestamptz(swap.CreatedAt),
	)

	return err
}

// GetByID retrieves a swap by ID.
func (r *SwapRepository) GetByID(ctx context.Context, id string) (*domain.Swap, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id = $1`, id)
	return scanSwap(row)
}

// ListByUser lists a user's swaps, newest first.
func (r *SwapRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Swap, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+swapColumns+`
		FROM swaps
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swaps []*domain.Swap
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}

	return swaps, rows.Err()
}

func scanSwap(row pgx.Row) (*domain.Swap, error) {
	var (
		swap       domain.Swap
		rate       pgtype.Numeric
		amountFrom pgtype.Numeric
		amountTo   pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&swap.ID, &swap.UserID, &swap.FromCurrency, &swap.ToCurrency,
		&rate, &amountFrom, &amountTo, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSwapNotFound
		}

		return nil, err
	}

	swap.RateSnapshot = numericToDecimal(rate)
	swap.AmountFrom = numericToDecimal(amountFrom)
	swap.AmountTo = numericToDecimal(amountTo)
	swap.CreatedAt = createdAt.Time

	return &swap, nil
}
