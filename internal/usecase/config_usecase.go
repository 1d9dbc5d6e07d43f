package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
)

// ErrConfigNotFound is returned when a configuration key has no value.
var ErrConfigNotFound = errors.New("config key not found")

const (
	configCacheTTL       = 5 * time.Minute
	swapRateKeyPrefix    = "SWAP_RATE_"
	withdrawFeeRateKey   = "WITHDRAW_FEE_RATE"
	withdrawMinAmountKey = "WITHDRAW_MIN_AMOUNT"
)

// ConfigUseCase resolves runtime configuration values from the database
// through a cache. Callers inject the store; nothing here is process-global,
// so tests can swap in fakes and two instances never share hidden state.
type ConfigUseCase struct {
	repo   ConfigRepository
	cache  Cache
	logger zerolog.Logger
}

// NewConfigUseCase creates a new ConfigUseCase. cache may be nil, in which
// case every read goes to the repository.
func NewConfigUseCase(repo ConfigRepository, cache Cache, logger zerolog.Logger) *ConfigUseCase {
	return &ConfigUseCase{repo: repo, cache: cache, logger: logger}
}

// Get returns the value for key, consulting the cache first. A repository
// miss maps to ErrConfigNotFound.
func (uc *ConfigUseCase) Get(ctx context.Context, key string) (string, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil {
			return string(cached), nil
		}
	}

	v, err := uc.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, []byte(v), configCacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("failed to cache config value")
		}
	}

	return v, nil
}

// GetDecimal returns the value for key parsed as a decimal.
func (uc *ConfigUseCase) GetDecimal(ctx context.Context, key string) (money.Decimal, error) {
	v, err := uc.Get(ctx, key)
	if err != nil {
		return money.Zero(), err
	}

	d, err := money.New(v)
	if err != nil {
		return money.Zero(), fmt.Errorf("config %s: %w", key, err)
	}

	return d, nil
}

// Set writes the value for key and drops any cached copy so the next read
// observes the new value.
func (uc *ConfigUseCase) Set(ctx context.Context, key, value string) error {
	if err := uc.repo.Set(ctx, key, value); err != nil {
		return err
	}

	return uc.Invalidate(ctx, key)
}

// Invalidate removes key from the cache.
func (uc *ConfigUseCase) Invalidate(ctx context.Context, key string) error {
	if uc.cache == nil {
		return nil
	}

	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate config value")
		return err
	}

	return nil
}

// SwapRate returns the configured conversion rate from one currency to
// another, keyed SWAP_RATE_<FROM>_<TO>. A missing key maps to
// domain.ErrRateUnavailable.
func (uc *ConfigUseCase) SwapRate(ctx context.Context, from, to string) (money.Decimal, error) {
	key := swapRateKeyPrefix + strings.ToUpper(from) + "_" + strings.ToUpper(to)

	rate, err := uc.GetDecimal(ctx, key)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return money.Zero(), domain.ErrRateUnavailable
		}
		return money.Zero(), err
	}

	if !rate.IsPositive() {
		return money.Zero(), domain.ErrRateUnavailable
	}

	return rate, nil
}

// WithdrawFeeRate returns the configured withdrawal fee percentage, falling
// back to the given default when unset.
func (uc *ConfigUseCase) WithdrawFeeRate(ctx context.Context, fallback money.Decimal) money.Decimal {
	rate, err := uc.GetDecimal(ctx, withdrawFeeRateKey)
	if err != nil {
		return fallback
	}

	if rate.IsNegative() {
		return fallback
	}

	return rate
}

// WithdrawMinAmount returns the configured minimum withdrawal amount, or
// zero when unset.
func (uc *ConfigUseCase) WithdrawMinAmount(ctx context.Context) money.Decimal {
	min, err := uc.GetDecimal(ctx, withdrawMinAmountKey)
	if err != nil {
		return money.Zero()
	}

	return min
}
