// Package worker bridges AMQP transaction events into the Google
// Sheets mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/amqp"
	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/sheets"
)

// SyncWorker appends committed transactions to a spreadsheet as they
// arrive on the event queue. Events carry the full transaction, so no
// ledger lookup is needed.
type SyncWorker struct {
	appender sheets.TransactionAppender
}

func NewSyncWorker(appender sheets.TransactionAppender) *SyncWorker {
	return &SyncWorker{appender: appender}
}

// HandleEvent processes a single transaction event. Deleted events are
// acknowledged without touching the sheet: the spreadsheet is an
// append-only audit trail, not a replica.
func (w *SyncWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEvent) error {
	switch msg.Event {
	case amqp.EventTransactionAdded:
		return w.handleAdded(ctx, msg)
	case amqp.EventTransactionDeleted:
		slog.InfoContext(ctx, "Skipping sheet update for deleted transaction",
			"id", msg.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "event", msg.Event)
		return nil
	}
}

func (w *SyncWorker) handleAdded(ctx context.Context, msg *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Syncing transaction to sheet",
		"id", msg.ID,
		"type", msg.Type)

	t, err := transactionFromEvent(msg)
	if err != nil {
		// Malformed events would requeue forever, so drop them loudly.
		slog.ErrorContext(ctx, "Dropping malformed transaction event",
			"id", msg.ID,
			"error", err)
		return nil
	}

	if err := w.appender.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("append transaction %d to sheet: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction synced to sheet", "id", msg.ID)
	return nil
}

func transactionFromEvent(msg *amqp.TransactionEvent) (core.Transaction, error) {
	amount, err := decimal.NewFromString(msg.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", msg.Amount, err)
	}

	date, err := core.ParseDate(msg.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", msg.Date, err)
	}

	return core.Transaction{
		ID:          msg.ID,
		Type:        core.TransactionType(msg.Type),
		Item:        msg.Item,
		Description: msg.Description,
		Category:    msg.Category,
		Amount:      amount,
		Date:        date,
	}, nil
}
