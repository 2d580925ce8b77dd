package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
	"github.com/DiegoEstrada07/expense-tracker/internal/reminder"
)

// Promoter converts due reminders into committed ledger expenses. It is
// the only component that touches both stores.
//
// Each entry goes through three persisted steps: append the expense,
// stamp the reminder with the new transaction id, remove the reminder.
// The stamp makes retries safe: if the process dies between append and
// remove, the next run sees the stamp and only finishes the removal
// instead of appending a second expense.
type Promoter struct {
	ledger    *LedgerService
	reminders *reminder.Store
}

func NewPromoter(ledger *LedgerService, reminders *reminder.Store) *Promoter {
	return &Promoter{ledger: ledger, reminders: reminders}
}

// Promote processes every reminder whose date has arrived as of today.
// Failures are isolated per entry; a failed entry stays in the reminder
// store and is retried on the next run. Returns the number of entries
// fully promoted (appended and removed).
func (p *Promoter) Promote(ctx context.Context, today core.Date) (int, error) {
	entries, err := p.reminders.List(ctx)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, e := range entries {
		if !e.DueBy(today) {
			// Includes entries with missing or malformed dates, which
			// stay pending rather than being dropped.
			continue
		}

		if e.PromotedTxID != 0 {
			// A previous run appended the expense but died before the
			// removal. Finish the removal without a second append.
			if err := p.reminders.Remove(ctx, e.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to remove already-promoted reminder",
					"reminder_id", e.ID, "tx_id", e.PromotedTxID, "error", err)
				continue
			}
			promoted++
			continue
		}

		// Reminders are always committed as expenses, dated at
		// promotion time rather than the original scheduled date.
		tx, err := p.ledger.Append(ctx, core.Transaction{
			Type:     core.Expense,
			Item:     e.Name,
			Category: e.Category,
			Amount:   core.ExpenseLike(e.Amount),
			Date:     core.DateOf(time.Now().UTC()),
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to promote reminder, will retry next run",
				"reminder_id", e.ID, "name", e.Name, "error", err)
			continue
		}

		if err := p.reminders.MarkPromoted(ctx, e.ID, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to stamp promoted reminder",
				"reminder_id", e.ID, "tx_id", tx.ID, "error", err)
			// The expense exists but the stamp did not persist; the
			// next run may append a duplicate. Surfaced loudly here,
			// but processing continues for the remaining entries.
			continue
		}

		if err := p.reminders.Remove(ctx, e.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to remove promoted reminder",
				"reminder_id", e.ID, "tx_id", tx.ID, "error", err)
			// Stamp is persisted, so the next run just removes it.
			continue
		}

		promoted++
		slog.InfoContext(ctx, "Reminder promoted to expense",
			"reminder_id", e.ID, "tx_id", tx.ID, "amount", tx.Amount)
	}

	return promoted, nil
}

// Run promotes once immediately, then on every tick until the context
// is cancelled.
func (p *Promoter) Run(ctx context.Context, interval time.Duration) error {
	if count, err := p.Promote(ctx, core.Today()); err != nil {
		slog.ErrorContext(ctx, "Initial promotion run failed", "error", err)
	} else if count > 0 {
		slog.InfoContext(ctx, "Initial promotion run complete", "promoted", count)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			count, err := p.Promote(ctx, core.Today())
			if err != nil {
				slog.ErrorContext(ctx, "Promotion run failed", "error", err)
				continue
			}
			if count > 0 {
				slog.InfoContext(ctx, "Promotion run complete", "promoted", count)
			}
		}
	}
}
