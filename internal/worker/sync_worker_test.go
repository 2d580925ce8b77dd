package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/DiegoEstrada07/expense-tracker/internal/amqp"
	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

type fakeAppender struct {
	appended []core.Transaction
	err      error
}

func (f *fakeAppender) AppendTransaction(_ context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, t)
	return nil
}

func TestHandleEventAddedAppendsRow(t *testing.T) {
	appender := &fakeAppender{}
	w := NewSyncWorker(appender)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		Event:    amqp.EventTransactionAdded,
		ID:       1700000000000,
		Type:     "expense",
		Item:     "Groceries",
		Category: "Food",
		Amount:   "-42.50",
		Date:     "2025-03-14",
	})
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if len(appender.appended) != 1 {
		t.Fatalf("expected 1 appended row, got %d", len(appender.appended))
	}
	got := appender.appended[0]
	if got.ID != 1700000000000 {
		t.Errorf("id = %d", got.ID)
	}
	if got.Amount.String() != "-42.5" {
		t.Errorf("amount = %s", got.Amount)
	}
	if got.Date.Format("2006-01-02") != "2025-03-14" {
		t.Errorf("date = %s", got.Date.Format("2006-01-02"))
	}
}

func TestHandleEventDeletedSkipsSheet(t *testing.T) {
	appender := &fakeAppender{}
	w := NewSyncWorker(appender)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		Event: amqp.EventTransactionDeleted,
		ID:    42,
	})
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("deleted event must not touch the sheet")
	}
}

func TestHandleEventMalformedAmountDropped(t *testing.T) {
	appender := &fakeAppender{}
	w := NewSyncWorker(appender)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		Event:  amqp.EventTransactionAdded,
		ID:     7,
		Amount: "not-a-number",
		Date:   "2025-03-14",
	})
	if err != nil {
		t.Fatalf("malformed events must be dropped, not requeued: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("malformed event must not be appended")
	}
}

func TestHandleEventAppendFailurePropagates(t *testing.T) {
	appender := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(appender)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		Event:  amqp.EventTransactionAdded,
		ID:     9,
		Type:   "income",
		Item:   "Salary",
		Amount: "2500",
		Date:   "2025-04-01",
	})
	if err == nil {
		t.Fatal("expected append failure to propagate for requeue")
	}
}
