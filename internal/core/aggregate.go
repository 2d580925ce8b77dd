package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

type (
	// Aggregate is the derived income/expense/savings summary. It is
	// recomputed from the full transaction list on every call and never
	// stored authoritatively.
	Aggregate struct {
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
		Savings  decimal.Decimal `json:"savings"`
		Total    decimal.Decimal `json:"total"`
	}

	// CategorySummary holds per-category income and expense sums,
	// both reported as non-negative magnitudes.
	CategorySummary struct {
		Category string          `json:"category"`
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}

	// BalancePoint is one step of the running balance over time.
	BalancePoint struct {
		Date    Date            `json:"date"`
		Balance decimal.Decimal `json:"balance"`
	}
)

// ComputeAggregate derives totals over the full list:
// income is the sum of income amounts, expenses the sum of expense
// magnitudes, and savings/total their difference.
func ComputeAggregate(txs []Transaction) Aggregate {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expenses = expenses.Add(t.Amount.Abs())
		}
	}
	savings := income.Sub(expenses)
	return Aggregate{
		Income:   income,
		Expenses: expenses,
		Savings:  savings,
		Total:    savings,
	}
}

// SummarizeByCategory groups transactions by category, sorted by name.
// Transactions without a category fall under DefaultCategory.
func SummarizeByCategory(txs []Transaction) []CategorySummary {
	byName := make(map[string]*CategorySummary)
	for _, t := range txs {
		cat := t.Category
		if cat == "" {
			cat = DefaultCategory
		}
		s, ok := byName[cat]
		if !ok {
			s = &CategorySummary{Category: cat, Income: decimal.Zero, Expenses: decimal.Zero}
			byName[cat] = s
		}
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(t.Amount.Abs())
		}
	}

	out := make([]CategorySummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// BalanceSeries computes the cumulative signed balance ordered by date,
// collapsing same-day transactions into one point.
func BalanceSeries(txs []Transaction) []BalancePoint {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Time.Before(sorted[j].Date.Time)
	})

	var out []BalancePoint
	balance := decimal.Zero
	for _, t := range sorted {
		balance = balance.Add(t.Amount)
		if n := len(out); n > 0 && out[n-1].Date.Equal(t.Date.Time) {
			out[n-1].Balance = balance
			continue
		}
		out = append(out, BalancePoint{Date: t.Date, Balance: balance})
	}
	return out
}
