// Package service defines the backend-agnostic interface for finance operations.
package service

import "context"

// Service defines the interface for finance backend operations.
// Commands never talk HTTP directly.
type Service interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates a new user.
	Register(ctx context.Context, creds Credentials) (User, error)

	// ListAccounts returns all accounts with their balances.
	ListAccounts(ctx context.Context) ([]Account, error)

	// GetAccount returns one account.
	GetAccount(ctx context.Context, id int) (Account, error)

	// CreateAccount creates an account and returns it.
	CreateAccount(ctx context.Context, a NewAccount) (Account, error)

	// DeleteAccount deletes an account.
	DeleteAccount(ctx context.Context, id int) error

	// ListTransactions returns the history of an account.
	ListTransactions(ctx context.Context, accountID int) ([]Transaction, error)

	// CreateTransaction records a transaction on an account.
	CreateTransaction(ctx context.Context, accountID int, tx NewTransaction) (Transaction, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a category and returns it.
	CreateCategory(ctx context.Context, name string) (Category, error)

	// DeleteCategory deletes a category.
	DeleteCategory(ctx context.Context, id int) error

	// Statistics returns income and expense aggregates for a period.
	Statistics(ctx context.Context, q StatisticsQuery) (Statistics, error)

	// ListRates returns exchange rates. Does not require a session.
	ListRates(ctx context.Context) ([]Rate, error)
}
