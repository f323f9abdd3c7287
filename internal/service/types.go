// Package service defines the backend-agnostic interface for finance operations.
package service

// Credentials identify a user on login and registration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is a registered user.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Account is a money account in a single currency.
// Balance is computed by the server as the sum of its transactions.
type Account struct {
	ID        int     `json:"id"`
	Currency  string  `json:"currency"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"created_at"`
	Balance   float64 `json:"balance"`
}

// NewAccount is the payload for creating an account.
type NewAccount struct {
	Currency string `json:"currency"`
	Comment  string `json:"comment"`
}

// Transaction is a single income (positive) or expense (negative) entry.
type Transaction struct {
	ID         int     `json:"id"`
	AccountID  int     `json:"account_id"`
	Amount     float64 `json:"amount"`
	Comment    string  `json:"comment"`
	CategoryID *int    `json:"category_id"`
	Category   string  `json:"category"`
	CreatedAt  string  `json:"created_at"`
}

// NewTransaction is the payload for recording a transaction.
type NewTransaction struct {
	Amount     float64 `json:"amount"`
	Comment    string  `json:"comment"`
	CategoryID *int    `json:"category_id"`
}

// Category groups transactions.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// StatisticsQuery selects the period (inclusive, YYYY-MM-DD) and optionally one account.
type StatisticsQuery struct {
	From      string
	To        string
	AccountID *int
}

// CategoryStat aggregates one category within a currency.
type CategoryStat struct {
	CategoryID   *int    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
}

// DailyStat is the income and expense of a single day.
type DailyStat struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CurrencyStats is the statistics of one currency over the period.
type CurrencyStats struct {
	Currency          string         `json:"currency"`
	TotalIncome       float64        `json:"total_income"`
	TotalExpense      float64        `json:"total_expense"`
	IncomeByCategory  []CategoryStat `json:"income_by_category"`
	ExpenseByCategory []CategoryStat `json:"expense_by_category"`
	DailyStats        []DailyStat    `json:"daily_stats"`
}

// Statistics is the full statistics response, split by currency.
type Statistics struct {
	Currencies []CurrencyStats `json:"currencies"`
}

// Rate is the exchange rate of a currency to USD.
type Rate struct {
	ID        int     `json:"id"`
	Currency  string  `json:"currency"`
	RateToUSD float64 `json:"rate_to_usd"`
	UpdatedAt string  `json:"updated_at"`
}
