// Package sheets mirrors committed transactions into a spreadsheet for
// reporting outside the app. It is a secondary sink fed by the sync
// worker, never an authoritative store.
package sheets

import (
	"context"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

// TransactionAppender appends one committed transaction as a row.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
}
