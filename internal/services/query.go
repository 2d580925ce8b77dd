package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

// QueryService derives read-only views from the ledger.
type QueryService struct {
	ledger *LedgerService
}

func NewQueryService(ledger *LedgerService) *QueryService {
	return &QueryService{ledger: ledger}
}

// BudgetStatus reports whether spending exceeded the configured limit.
type BudgetStatus struct {
	OverBudget bool   `json:"overBudget"`
	Message    string `json:"message"`
}

func (q *QueryService) Totals(ctx context.Context) (core.Aggregate, error) {
	return q.ledger.Aggregate(ctx)
}

func (q *QueryService) ByType(ctx context.Context, typ core.TransactionType) ([]core.Transaction, error) {
	txs, err := q.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByType(txs, typ), nil
}

func (q *QueryService) ByDateRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	txs, err := q.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByDateRange(txs, start, end), nil
}

func (q *QueryService) Categories(ctx context.Context) ([]core.CategorySummary, error) {
	txs, err := q.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return core.SummarizeByCategory(txs), nil
}

func (q *QueryService) Balance(ctx context.Context) ([]core.BalancePoint, error) {
	txs, err := q.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return core.BalanceSeries(txs), nil
}

// FilterByType keeps transactions whose type equals typ.
func FilterByType(txs []core.Transaction, typ core.TransactionType) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// FilterByDateRange keeps transactions with start <= date <= end,
// comparing calendar dates only. A zero bound is open on that side.
func FilterByDateRange(txs []core.Transaction, start, end core.Date) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !start.IsZero() && !t.Date.AfterOrEqual(start) {
			continue
		}
		if !end.IsZero() && !t.Date.BeforeOrEqual(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterText keeps transactions whose item, description or category
// contains the query, case-insensitively. An empty query returns the
// input unfiltered.
func FilterText(txs []core.Transaction, query string) []core.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Item), query) ||
			strings.Contains(strings.ToLower(t.Description), query) ||
			strings.Contains(strings.ToLower(t.Category), query) {
			out = append(out, t)
		}
	}
	return out
}

// ComputeBudgetStatus applies the strict-overspend rule: over budget
// only when a positive limit is set and expenses strictly exceed it.
// A non-positive limit means no budget is configured.
func ComputeBudgetStatus(expenseTotal, budgetLimit decimal.Decimal) BudgetStatus {
	if !budgetLimit.IsPositive() {
		return BudgetStatus{Message: "no budget set"}
	}
	if expenseTotal.GreaterThan(budgetLimit) {
		return BudgetStatus{
			OverBudget: true,
			Message: fmt.Sprintf("over budget: spent %s of %s",
				expenseTotal.String(), budgetLimit.String()),
		}
	}
	return BudgetStatus{
		Message: fmt.Sprintf("within budget: spent %s of %s",
			expenseTotal.String(), budgetLimit.String()),
	}
}
