package usecase

import (
	"context"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
)

// AssetsUseCase answers balance queries. Reads go straight to the
// repository without locks; a snapshot that is an instant stale is fine for
// display, the engine re-checks under its own locks before any mutation.
type AssetsUseCase struct {
	accountRepo AccountRepository
}

// NewAssetsUseCase creates a new AssetsUseCase.
func NewAssetsUseCase(accountRepo AccountRepository) *AssetsUseCase {
	return &AssetsUseCase{accountRepo: accountRepo}
}

// CurrencyAssets aggregates one currency across the user's account types.
type CurrencyAssets struct {
	Currency  string
	Available money.Decimal
	Frozen    money.Decimal
	Total     money.Decimal
}

// GetAccount returns one account by its key.
func (uc *AssetsUseCase) GetAccount(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	if err := domain.ValidateUserID(key.UserID); err != nil {
		return nil, err
	}

	if _, err := domain.ParseAccountType(string(key.Type)); err != nil {
		return nil, err
	}

	currency, err := domain.NormalizeCurrency(key.Currency)
	if err != nil {
		return nil, err
	}
	key.Currency = currency

	return uc.accountRepo.GetByKey(ctx, key)
}

// ListAccounts returns all of the user's accounts.
func (uc *AssetsUseCase) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByUser(ctx, userID)
}

// Summary aggregates the user's holdings per currency across account
// types, keeping the available/frozen split visible.
func (uc *AssetsUseCase) Summary(ctx context.Context, userID string) ([]CurrencyAssets, error) {
	accounts, err := uc.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCurrency := make(map[string]*CurrencyAssets)
	order := make([]string, 0, len(accounts))

	for _, account := range accounts {
		agg, ok := byCurrency[account.Currency]
		if !ok {
			agg = &CurrencyAssets{
				Currency:  account.Currency,
				Available: money.Zero(),
				Frozen:    money.Zero(),
				Total:     money.Zero(),
			}
			byCurrency[account.Currency] = agg
			order = append(order, account.Currency)
		}

		agg.Available = agg.Available.Add(account.Available)
		agg.Frozen = agg.Frozen.Add(account.Frozen)
		agg.Total = agg.Total.Add(account.Total())
	}

	result := make([]CurrencyAssets, 0, len(order))
	for _, currency := range order {
		result = append(result, *byCurrency[currency])
	}

	return result, nil
}
