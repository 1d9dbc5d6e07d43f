package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/orbitpay/ledger/internal/money"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid or disabled currency code")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrMetadataTooLarge = errors.New("metadata size exceeds limit")
)

// Validation constants
const (
	MaxCurrencyLength = 10
	MaxBizTypeLength  = 50
	MaxMetadataSize   = 10240 // 10KB
	maxAmountLiteral  = "999999999999999999999999999999"
)

// Currencies enabled on the platform. Registration of new currencies is an
// operator concern; callers validate before hitting the ledger engine.
var enabledCurrencies = map[string]bool{
	"USDT": true,
	"USDC": true,
	"BTC":  true,
	"ETH":  true,
}

var currencyPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// ValidateCurrency checks that a currency code is well formed and enabled.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !currencyPattern.MatchString(currency) || !enabledCurrencies[currency] {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}

	return nil
}

// NormalizeCurrency validates a currency code and returns its canonical
// uppercase form.
func NormalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if err := ValidateCurrency(currency); err != nil {
		return "", err
	}

	return currency, nil
}

// ValidateUserID rejects empty owner identities.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUserID
	}

	return nil
}

// ValidatePositiveAmount checks a business amount that must be strictly
// positive (deposits, withdrawals, transfers, swaps).
func ValidatePositiveAmount(amount money.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	maxAmount := money.MustNew(maxAmountLiteral)
	if amount.GreaterThan(maxAmount) {
		return ErrAmountTooLarge
	}

	return nil
}

// ValidateMetadata bounds the size of opaque pass-through metadata.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: %d bytes over %d byte limit", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}
