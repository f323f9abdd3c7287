// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu         sync.RWMutex
	users      map[string]string // email -> password
	accounts   map[int]service.Account
	txs        map[int][]service.Transaction // accountID -> transactions
	categories map[int]service.Category
	rates      []service.Rate
	nextID     int

	// Stats is returned by Statistics; LastStatsQuery records the query.
	Stats          service.Statistics
	LastStatsQuery service.StatisticsQuery

	// TokenFor is returned by a successful Login. Defaults to "token-<email>".
	TokenFor func(email string) string

	// Error injection for testing
	LoginErr             error
	RegisterErr          error
	ListAccountsErr      error
	GetAccountErr        error
	CreateAccountErr     error
	DeleteAccountErr     error
	ListTransactionsErr  error
	CreateTransactionErr error
	ListCategoriesErr    error
	CreateCategoryErr    error
	DeleteCategoryErr    error
	StatisticsErr        error
	ListRatesErr         error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:      make(map[string]string),
		accounts:   make(map[int]service.Account),
		txs:        make(map[int][]service.Transaction),
		categories: make(map[int]service.Category),
		nextID:     1,
	}
}

// AddUser registers a user directly.
func (f *FakeService) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// AddAccount adds an account with the given ID.
func (f *FakeService) AddAccount(a service.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[a.ID] = a
	f.bump(a.ID)
}

// AddTransaction appends a transaction and updates the account balance.
func (f *FakeService) AddTransaction(tx service.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addTransactionLocked(tx)
}

// AddCategory adds a category with the given ID.
func (f *FakeService) AddCategory(c service.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[c.ID] = c
	f.bump(c.ID)
}

// SetRates replaces the exchange rates.
func (f *FakeService) SetRates(rates []service.Rate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rates = rates
}

// Transactions returns the transactions recorded for an account.
func (f *FakeService) Transactions(accountID int) []service.Transaction {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Transaction(nil), f.txs[accountID]...)
}

func (f *FakeService) bump(id int) {
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

func (f *FakeService) addTransactionLocked(tx service.Transaction) {
	if tx.ID == 0 {
		tx.ID = f.nextID
	}
	f.bump(tx.ID)
	if tx.CategoryID != nil {
		tx.Category = f.categories[*tx.CategoryID].Name
	}
	f.txs[tx.AccountID] = append(f.txs[tx.AccountID], tx)
	a := f.accounts[tx.AccountID]
	a.Balance += tx.Amount
	f.accounts[tx.AccountID] = a
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		return "", service.ErrUnauthorized
	}
	if f.TokenFor != nil {
		return f.TokenFor(creds.Email), nil
	}
	return "token-" + creds.Email, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) (service.User, error) {
	if f.RegisterErr != nil {
		return service.User{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Email]; exists {
		return service.User{}, service.ErrConflict
	}
	f.users[creds.Email] = creds.Password
	id := f.nextID
	f.bump(id)
	return service.User{ID: id, Email: creds.Email}, nil
}

// ListAccounts implements service.Service.
func (f *FakeService) ListAccounts(ctx context.Context) ([]service.Account, error) {
	if f.ListAccountsErr != nil {
		return nil, f.ListAccountsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetAccount implements service.Service.
func (f *FakeService) GetAccount(ctx context.Context, id int) (service.Account, error) {
	if f.GetAccountErr != nil {
		return service.Account{}, f.GetAccountErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.accounts[id]
	if !ok {
		return service.Account{}, service.ErrNotFound
	}
	return a, nil
}

// CreateAccount implements service.Service.
func (f *FakeService) CreateAccount(ctx context.Context, na service.NewAccount) (service.Account, error) {
	if f.CreateAccountErr != nil {
		return service.Account{}, f.CreateAccountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := service.Account{ID: f.nextID, Currency: na.Currency, Comment: na.Comment}
	f.accounts[a.ID] = a
	f.bump(a.ID)
	return a, nil
}

// DeleteAccount implements service.Service.
func (f *FakeService) DeleteAccount(ctx context.Context, id int) error {
	if f.DeleteAccountErr != nil {
		return f.DeleteAccountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.accounts, id)
	delete(f.txs, id)
	return nil
}

// ListTransactions implements service.Service.
func (f *FakeService) ListTransactions(ctx context.Context, accountID int) ([]service.Transaction, error) {
	if f.ListTransactionsErr != nil {
		return nil, f.ListTransactionsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, ok := f.accounts[accountID]; !ok {
		return nil, service.ErrNotFound
	}
	return append([]service.Transaction(nil), f.txs[accountID]...), nil
}

// CreateTransaction implements service.Service.
func (f *FakeService) CreateTransaction(ctx context.Context, accountID int, nt service.NewTransaction) (service.Transaction, error) {
	if f.CreateTransactionErr != nil {
		return service.Transaction{}, f.CreateTransactionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[accountID]; !ok {
		return service.Transaction{}, service.ErrNotFound
	}
	tx := service.Transaction{
		AccountID:  accountID,
		Amount:     nt.Amount,
		Comment:    nt.Comment,
		CategoryID: nt.CategoryID,
	}
	f.addTransactionLocked(tx)
	return f.txs[accountID][len(f.txs[accountID])-1], nil
}

// ListCategories implements service.Service.
func (f *FakeService) ListCategories(ctx context.Context) ([]service.Category, error) {
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Category, 0, len(f.categories))
	for _, c := range f.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CreateCategory implements service.Service.
func (f *FakeService) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	if f.CreateCategoryErr != nil {
		return service.Category{}, f.CreateCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return service.Category{}, service.ErrConflict
		}
	}
	c := service.Category{ID: f.nextID, Name: name}
	f.categories[c.ID] = c
	f.bump(c.ID)
	return c, nil
}

// DeleteCategory implements service.Service.
func (f *FakeService) DeleteCategory(ctx context.Context, id int) error {
	if f.DeleteCategoryErr != nil {
		return f.DeleteCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// Statistics implements service.Service.
func (f *FakeService) Statistics(ctx context.Context, q service.StatisticsQuery) (service.Statistics, error) {
	f.mu.Lock()
	f.LastStatsQuery = q
	f.mu.Unlock()
	if f.StatisticsErr != nil {
		return service.Statistics{}, f.StatisticsErr
	}
	return f.Stats, nil
}

// ListRates implements service.Service.
func (f *FakeService) ListRates(ctx context.Context) ([]service.Rate, error) {
	if f.ListRatesErr != nil {
		return nil, f.ListRatesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Rate(nil), f.rates...), nil
}
