package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger/jsonfile"
	"github.com/DiegoEstrada07/expense-tracker/internal/reminder"
)

type promoteFixture struct {
	ledger    *LedgerService
	reminders *reminder.Store
	promoter  *Promoter
}

func newPromoteFixture(t *testing.T) promoteFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonfile.New(filepath.Join(dir, "ledger.json"))
	if err != nil {
		t.Fatalf("new ledger store: %v", err)
	}
	rem, err := reminder.New(filepath.Join(dir, "reminders.json"), filepath.Join(dir, "budget.txt"))
	if err != nil {
		t.Fatalf("new reminder store: %v", err)
	}
	svc := NewLedgerService(store, nil)
	return promoteFixture{ledger: svc, reminders: rem, promoter: NewPromoter(svc, rem)}
}

func TestPromoteDueReminder(t *testing.T) {
	f := newPromoteFixture(t)
	ctx := context.Background()
	today := core.Today()

	due, _ := f.reminders.Append(ctx, core.ReminderEntry{
		Name:     "rent",
		Date:     "2026-01-01",
		Category: "bills",
		Amount:   decimal.NewFromInt(800), // stored sign irrelevant to promotion
	}, false)
	future, _ := f.reminders.Append(ctx, core.ReminderEntry{
		Name:   "holiday",
		Date:   "2999-12-31",
		Amount: decimal.NewFromInt(50),
	}, false)

	count, err := f.promoter.Promote(ctx, today)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if count != 1 {
		t.Fatalf("promoted = %d, want 1", count)
	}

	txs, _ := f.ledger.List(ctx)
	if len(txs) != 1 {
		t.Fatalf("expected exactly one ledger transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Type != core.Expense {
		t.Fatalf("type = %q", tx.Type)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(-800)) {
		t.Fatalf("amount = %s, want -800", tx.Amount)
	}
	if !tx.Date.Equal(today.Time) {
		t.Fatalf("promoted date = %v, want today", tx.Date)
	}

	left, _ := f.reminders.List(ctx)
	if len(left) != 1 || left[0].ID != future.ID {
		t.Fatalf("reminder store after promotion: %+v", left)
	}
	_ = due
}

func TestPromoteSkipsMalformedDates(t *testing.T) {
	f := newPromoteFixture(t)
	ctx := context.Background()

	f.reminders.Append(ctx, core.ReminderEntry{Name: "no date", Amount: decimal.NewFromInt(10)}, false)
	f.reminders.Append(ctx, core.ReminderEntry{Name: "bad date", Date: "soon", Amount: decimal.NewFromInt(10)}, false)

	count, err := f.promoter.Promote(ctx, core.Today())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if count != 0 {
		t.Fatalf("promoted = %d, want 0", count)
	}

	left, _ := f.reminders.List(ctx)
	if len(left) != 2 {
		t.Fatalf("malformed entries must stay pending, got %d left", len(left))
	}
}

// flakyStore fails every Append until healed, to exercise per-entry
// failure isolation and retry.
type flakyStore struct {
	inner  *jsonfile.Store
	broken bool
}

func (f *flakyStore) List(ctx context.Context) ([]core.Transaction, error) {
	return f.inner.List(ctx)
}

func (f *flakyStore) Append(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if f.broken {
		return core.Transaction{}, errors.New("disk full")
	}
	return f.inner.Append(ctx, t)
}

func (f *flakyStore) Remove(ctx context.Context, id int64) error { return f.inner.Remove(ctx, id) }

func (f *flakyStore) Aggregate(ctx context.Context) (core.Aggregate, error) {
	return f.inner.Aggregate(ctx)
}

func (f *flakyStore) Close() error { return nil }

func TestPromoteRetriesFailedAppends(t *testing.T) {
	dir := t.TempDir()
	inner, err := jsonfile.New(filepath.Join(dir, "ledger.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	flaky := &flakyStore{inner: inner, broken: true}
	rem, err := reminder.New(filepath.Join(dir, "reminders.json"), filepath.Join(dir, "budget.txt"))
	if err != nil {
		t.Fatalf("new reminder store: %v", err)
	}
	svc := NewLedgerService(flaky, nil)
	p := NewPromoter(svc, rem)
	ctx := context.Background()

	rem.Append(ctx, core.ReminderEntry{Name: "rent", Date: "2026-01-01", Amount: decimal.NewFromInt(800)}, false)

	count, err := p.Promote(ctx, core.Today())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if count != 0 {
		t.Fatalf("promoted = %d, want 0 while store is broken", count)
	}
	left, _ := rem.List(ctx)
	if len(left) != 1 {
		t.Fatalf("failed entry must stay in the reminder store")
	}

	// Next run, once the store recovers, succeeds exactly once.
	flaky.broken = false
	count, err = p.Promote(ctx, core.Today())
	if err != nil || count != 1 {
		t.Fatalf("retry run: count=%d err=%v", count, err)
	}
	txs, _ := svc.List(ctx)
	if len(txs) != 1 {
		t.Fatalf("expected one transaction after retry, got %d", len(txs))
	}
}

func TestPromoteStampedReminderIsNotDuplicated(t *testing.T) {
	f := newPromoteFixture(t)
	ctx := context.Background()

	stored, _ := f.reminders.Append(ctx, core.ReminderEntry{
		Name: "rent", Date: "2026-01-01", Amount: decimal.NewFromInt(800),
	}, false)
	// Simulate a crash after append+stamp but before removal.
	if err := f.reminders.MarkPromoted(ctx, stored.ID, 123456); err != nil {
		t.Fatalf("mark promoted: %v", err)
	}

	count, err := f.promoter.Promote(ctx, core.Today())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if count != 1 {
		t.Fatalf("promoted = %d, want 1", count)
	}

	txs, _ := f.ledger.List(ctx)
	if len(txs) != 0 {
		t.Fatalf("stamped reminder must not append again, got %d transactions", len(txs))
	}
	left, _ := f.reminders.List(ctx)
	if len(left) != 0 {
		t.Fatalf("stamped reminder must be removed, got %+v", left)
	}
}
