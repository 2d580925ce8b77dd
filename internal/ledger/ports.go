// Package ledger defines the port for the authoritative transaction
// store. Backends live in subpackages; callers pick one via the
// backend factory.
package ledger

import (
	"context"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

type Store interface {
	// List returns all committed transactions in insertion order.
	// Callers needing chronological order sort by date themselves.
	List(ctx context.Context) ([]core.Transaction, error)

	// Append assigns an id (and today's date when the candidate has
	// none), persists the transaction and returns the stored record.
	Append(ctx context.Context, t core.Transaction) (core.Transaction, error)

	// Remove deletes the matching transaction. Removing an unknown id
	// is a no-op, not an error.
	Remove(ctx context.Context, id int64) error

	// Aggregate recomputes the derived totals over the full list.
	Aggregate(ctx context.Context) (core.Aggregate, error)

	Close() error
}
