// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"fintrack/internal/service"
)

const (
	// Separator is the separator line around section headers.
	Separator = "------------"
)

// FormatAccount formats an account line for the accounts view.
// Format: "{ID:>4}  {CUR:<4}  {BALANCE:>14}  {COMMENT}\n"
func FormatAccount(w io.Writer, f AmountFormatter, a service.Account) {
	fmt.Fprintf(w, "%4d  %-4s  %14s  %s\n", a.ID, a.Currency, f.Format(a.Balance), normalizeText(a.Comment))
}

// FormatAccountHeader formats the header of the account detail view.
func FormatAccountHeader(w io.Writer, f AmountFormatter, a service.Account) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "#%d %s [%s]\n", a.ID, normalizeText(a.Comment), a.Currency)
	fmt.Fprintf(w, "balance: %s\n", f.Format(a.Balance))
	fmt.Fprintln(w, Separator)
}

// FormatTransaction formats a transaction line in the account detail view.
// Format: "    {DATE:<10}  {AMOUNT:>14}  {CATEGORY:<12}  {COMMENT}\n"
func FormatTransaction(w io.Writer, f AmountFormatter, tx service.Transaction) {
	category := flatten(tx.Category)
	if strings.TrimSpace(category) == "" {
		category = "-"
	}
	fmt.Fprintf(w, "    %-10s  %14s  %-12s  %s\n", datePart(tx.CreatedAt), f.Format(tx.Amount), category, strings.TrimSpace(flatten(tx.Comment)))
}

// FormatCategory formats a category line.
func FormatCategory(w io.Writer, c service.Category) {
	name := flatten(c.Name)
	if strings.TrimSpace(name) == "" {
		name = "(untitled)"
	}
	fmt.Fprintf(w, "%4d  %s\n", c.ID, name)
}

// FormatStatistics formats the statistics section of one currency.
func FormatStatistics(w io.Writer, f AmountFormatter, cs service.CurrencyStats) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, cs.Currency)
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "income   %14s\n", f.Format(cs.TotalIncome))
	fmt.Fprintf(w, "expense  %14s\n", f.Format(cs.TotalExpense))
	formatCategoryStats(w, f, "income by category:", cs.IncomeByCategory)
	formatCategoryStats(w, f, "expense by category:", cs.ExpenseByCategory)
}

func formatCategoryStats(w io.Writer, f AmountFormatter, title string, stats []service.CategoryStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, s := range stats {
		name := flatten(s.CategoryName)
		if strings.TrimSpace(name) == "" {
			name = "(uncategorized)"
		}
		fmt.Fprintf(w, "    %-20s  %14s  %3d\n", name, f.Format(s.Total), s.Count)
	}
}

// FormatRate formats an exchange rate line.
func FormatRate(w io.Writer, f AmountFormatter, r service.Rate) {
	fmt.Fprintf(w, "%-4s  %12s\n", r.Currency, f.FormatScaled(r.RateToUSD, 4))
}

// normalizeText normalizes free text for single-line display.
// - Empty or whitespace-only text becomes "(no comment)"
// - Newlines are replaced with spaces
func normalizeText(s string) string {
	s = flatten(s)
	if strings.TrimSpace(s) == "" {
		return "(no comment)"
	}
	return s
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// datePart returns the YYYY-MM-DD prefix of a server timestamp.
func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
