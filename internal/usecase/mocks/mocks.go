package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/money"
	"github.com/orbitpay/ledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account // keyed by AccountKey.String()

	GetByKeyFunc             func(ctx context.Context, key domain.AccountKey) (*domain.Account, error)
	GetByKeyForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, key domain.AccountKey) (*domain.Account, error)
	GetOrCreateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string, key domain.AccountKey, now time.Time) (*domain.Account, error)
	UpdateBalancesFunc       func(ctx context.Context, tx usecase.Transaction, id string, available, frozen money.Decimal, updatedAt time.Time) error
	ListByUserFunc           func(ctx context.Context, userID string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed inserts an account directly, bypassing the funcs.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Key().String()] = account
}

func (m *MockAccountRepository) GetByKey(ctx context.Context, key domain.AccountKey) (*domain.Account, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[key.String()]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key domain.AccountKey) (*domain.Account, error) {
	if m.GetByKeyForUpdateFunc != nil {
		return m.GetByKeyForUpdateFunc(ctx, tx, key)
	}
	return m.GetByKey(ctx, key)
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, id string, key domain.AccountKey, now time.Time) (*domain.Account, error) {
	if m.GetOrCreateForUpdateFunc != nil {
		return m.GetOrCreateForUpdateFunc(ctx, tx, id, key, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[key.String()]; ok {
		return acc, nil
	}
	acc := &domain.Account{
		ID:        id,
		UserID:    key.UserID,
		Type:      key.Type,
		Currency:  key.Currency,
		Available: money.Zero(),
		Frozen:    money.Zero(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[key.String()] = acc
	return acc, nil
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, available, frozen money.Decimal, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, id, available, frozen, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.ID == id {
			acc.Available = available
			acc.Frozen = frozen
			acc.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Key().String() < accounts[j].Key().String()
	})
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByUserFunc    func(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetByBizRefFunc   func(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error)
	SumByAccountFunc  func(ctx context.Context, accountID string) (money.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// Entries returns a copy of everything appended so far.
func (m *MockEntryRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) GetByBizRef(ctx context.Context, bizType domain.BizType, refID string) ([]*domain.LedgerEntry, error) {
	if m.GetByBizRefFunc != nil {
		return m.GetByBizRefFunc(ctx, bizType, refID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.BizType == bizType && e.RefID == refID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string) (money.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := money.Zero()
	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// MockDepositRepository is a mock implementation of DepositRepository.
type MockDepositRepository struct {
	mu       sync.RWMutex
	deposits map[string]*domain.Deposit

	CreateFunc           func(ctx context.Context, deposit *domain.Deposit) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error
	ListByUserFunc       func(ctx context.Context, userID string, limit, offset int) ([]*domain.Deposit, error)
}

func NewMockDepositRepository() *MockDepositRepository {
	return &MockDepositRepository{
		deposits: make(map[string]*domain.Deposit),
	}
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, deposit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deposits[deposit.ID] = deposit
	return nil
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.deposits[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDepositRepository) Update(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, deposit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deposits[deposit.ID] = deposit
	return nil
}

func (m *MockDepositRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deposit, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var deposits []*domain.Deposit
	for _, d := range m.deposits {
		if d.UserID == userID {
			deposits = append(deposits, d)
		}
	}
	return deposits, nil
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	mu          sync.RWMutex
	withdrawals map[string]*domain.Withdrawal

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Withdrawal, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error
	ListByUserFunc       func(ctx context.Context, userID string, limit, offset int) ([]*domain.Withdrawal, error)
}

func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{
		withdrawals: make(map[string]*domain.Withdrawal),
	}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, withdrawal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[withdrawal.ID] = withdrawal
	return nil
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.withdrawals[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWithdrawalNotFound
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWithdrawalRepository) Update(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, withdrawal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[withdrawal.ID] = withdrawal
	return nil
}

func (m *MockWithdrawalRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Withdrawal, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var withdrawals []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.UserID == userID {
			withdrawals = append(withdrawals, w)
		}
	}
	return withdrawals, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.InternalTransfer

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, transfer *domain.InternalTransfer) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.InternalTransfer, error)
	ListByUserFunc func(ctx context.Context, userID string, limit, offset int) ([]*domain.InternalTransfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.InternalTransfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.InternalTransfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.InternalTransfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.InternalTransfer, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.InternalTransfer
	for _, t := range m.transfers {
		if t.UserID == userID {
			transfers = append(transfers, t)
		}
	}
	return transfers, nil
}

// MockSwapRepository is a mock implementation of SwapRepository.
type MockSwapRepository struct {
	mu    sync.RWMutex
	swaps map[string]*domain.Swap

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, swap *domain.Swap) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Swap, error)
	ListByUserFunc func(ctx context.Context, userID string, limit, offset int) ([]*domain.Swap, error)
}

func NewMockSwapRepository() *MockSwapRepository {
	return &MockSwapRepository{
		swaps: make(map[string]*domain.Swap),
	}
}

func (m *MockSwapRepository) Create(ctx context.Context, tx usecase.Transaction, swap *domain.Swap) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, swap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps[swap.ID] = swap
	return nil
}

func (m *MockSwapRepository) GetByID(ctx context.Context, id string) (*domain.Swap, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.swaps[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSwapNotFound
}

func (m *MockSwapRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Swap, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var swaps []*domain.Swap
	for _, s := range m.swaps {
		if s.UserID == userID {
			swaps = append(swaps, s)
		}
	}
	return swaps, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns a copy of everything recorded so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockConfigRepository is a mock implementation of ConfigRepository.
type MockConfigRepository struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string) error
}

func NewMockConfigRepository() *MockConfigRepository {
	return &MockConfigRepository{
		values: make(map[string]string),
	}
}

func (m *MockConfigRepository) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", usecase.ErrConfigNotFound
}

func (m *MockConfigRepository) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
