// Package services holds the business logic between the HTTP layer and
// the stores: ledger orchestration, reminder promotion and the
// aggregation/query operations.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger"
)

// TransactionEvents is the explicit notification interface replacing
// ad-hoc broadcast events: interested parties subscribe to a queue
// instead of listening on a global bus. A nil publisher disables
// notifications entirely.
type TransactionEvents interface {
	PublishTransactionAdded(ctx context.Context, t core.Transaction) error
	PublishTransactionDeleted(ctx context.Context, id int64) error
}

// LedgerService wraps the ledger store with validation, sign
// normalization and event publication.
type LedgerService struct {
	store  ledger.Store
	events TransactionEvents
}

func NewLedgerService(store ledger.Store, events TransactionEvents) *LedgerService {
	return &LedgerService{store: store, events: events}
}

func (s *LedgerService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List(ctx)
}

// Append normalizes and validates the candidate, persists it and
// publishes the added event. A publish failure is logged but never
// fails the request: the transaction is already durable.
func (s *LedgerService) Append(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	candidate = candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}

	stored, err := s.store.Append(ctx, candidate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishTransactionAdded(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction added event",
				"id", stored.ID, "error", err)
		}
	}
	return stored, nil
}

// Remove deletes by id; unknown ids are a no-op. The deleted event is
// published only when the store call succeeded.
func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove transaction: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishTransactionDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction deleted event",
				"id", id, "error", err)
		}
	}
	return nil
}

func (s *LedgerService) Aggregate(ctx context.Context) (core.Aggregate, error) {
	return s.store.Aggregate(ctx)
}

func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
