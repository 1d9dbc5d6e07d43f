package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitpay/ledger/internal/usecase"
)

// ConfigRepository implements usecase.ConfigRepository on the
// system_configs table.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

// Get returns the value for key.
func (r *ConfigRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := r.pool.QueryRow(ctx, `SELECT value FROM system_configs WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", usecase.ErrConfigNotFound
		}

		return "", err
	}

	return value, nil
}

// Set upserts the value for key.
func (r *ConfigRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO system_configs (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, timeToPgTimestamptz(time.Now().UTC()),
	)

	return err
}
