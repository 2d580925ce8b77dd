package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger/jsonfile"
)

type eventsRecorder struct {
	added   []int64
	deleted []int64
	fail    bool
}

func (r *eventsRecorder) PublishTransactionAdded(_ context.Context, t core.Transaction) error {
	if r.fail {
		return errors.New("broker down")
	}
	r.added = append(r.added, t.ID)
	return nil
}

func (r *eventsRecorder) PublishTransactionDeleted(_ context.Context, id int64) error {
	if r.fail {
		return errors.New("broker down")
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func newTestLedger(t *testing.T, events TransactionEvents) *LedgerService {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewLedgerService(store, events)
}

func TestAppendNormalizesAndPublishes(t *testing.T) {
	rec := &eventsRecorder{}
	svc := newTestLedger(t, rec)
	ctx := context.Background()

	stored, err := svc.Append(ctx, core.Transaction{
		Type:     core.Expense,
		Item:     "Milk",
		Category: "  groceries ",
		Amount:   decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("amount = %s, want -5", stored.Amount)
	}
	if stored.Category != "Groceries" {
		t.Fatalf("category = %q", stored.Category)
	}
	if len(rec.added) != 1 || rec.added[0] != stored.ID {
		t.Fatalf("added event not published: %+v", rec.added)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	svc := newTestLedger(t, nil)
	ctx := context.Background()

	if _, err := svc.Append(ctx, core.Transaction{Type: "transfer", Item: "x"}); err != core.ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.Append(ctx, core.Transaction{Type: core.Income, Item: "  "}); err != core.ErrEmptyItem {
		t.Fatalf("expected ErrEmptyItem, got %v", err)
	}
}

func TestPublishFailureDoesNotFailAppend(t *testing.T) {
	svc := newTestLedger(t, &eventsRecorder{fail: true})

	if _, err := svc.Append(context.Background(), core.Transaction{
		Type: core.Income, Item: "Salary", Amount: decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("append should succeed despite publish failure: %v", err)
	}
}

func TestRemovePublishesDeleted(t *testing.T) {
	rec := &eventsRecorder{}
	svc := newTestLedger(t, rec)
	ctx := context.Background()

	stored, _ := svc.Append(ctx, core.Transaction{
		Type: core.Income, Item: "Salary", Amount: decimal.NewFromInt(100),
	})
	if err := svc.Remove(ctx, stored.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(rec.deleted) != 1 || rec.deleted[0] != stored.ID {
		t.Fatalf("deleted event not published: %+v", rec.deleted)
	}
}
