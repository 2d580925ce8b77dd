// Package reminder implements the store for scheduled, not-yet-committed
// entries. It is deliberately separate from the ledger: its own file,
// its own uuid identity, its own lifecycle. A sibling file holds the
// budget limit as a plain numeric string.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

type Store struct {
	mu         sync.Mutex
	path       string
	budgetPath string
}

func New(path, budgetPath string) (*Store, error) {
	for _, p := range []string{path, budgetPath} {
		if dir := filepath.Dir(p); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create reminder directory: %w", err)
			}
		}
	}
	return &Store{path: path, budgetPath: budgetPath}, nil
}

func (s *Store) load(ctx context.Context) []core.ReminderEntry {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Reminder file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return []core.ReminderEntry{}
	}
	var entries []core.ReminderEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.WarnContext(ctx, "Reminder file corrupt, treating as empty", "path", s.path, "error", err)
		return []core.ReminderEntry{}
	}
	if entries == nil {
		entries = []core.ReminderEntry{}
	}
	return entries
}

func (s *Store) write(entries []core.ReminderEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal reminders: %v", core.ErrPersistence, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write reminders: %v", core.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace reminders: %v", core.ErrPersistence, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]core.ReminderEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

// Append stores a new entry, assigning a uuid when the caller did not
// bring one. With expenseLike set the amount is stored as a negated
// magnitude no matter what sign the user entered.
func (s *Store) Append(ctx context.Context, e core.ReminderEntry, expenseLike bool) (core.ReminderEntry, error) {
	if err := e.Validate(); err != nil {
		return core.ReminderEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Type = core.ReminderType
	e.Name = strings.TrimSpace(e.Name)
	e.Category = core.NormalizeCategory(e.Category)
	if expenseLike {
		e.Amount = core.ExpenseLike(e.Amount)
	}

	entries := append(s.load(ctx), e)
	if err := s.write(entries); err != nil {
		return core.ReminderEntry{}, err
	}

	slog.InfoContext(ctx, "Reminder stored", "id", e.ID, "date", e.Date, "name", e.Name)
	return e, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	if err := s.write(kept); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Reminder removed", "id", id)
	return nil
}

// MarkPromoted stamps the entry with the ledger transaction it was
// promoted into. The stamp is persisted before the entry is removed so
// an interrupted promotion run cannot promote the same entry twice.
func (s *Store) MarkPromoted(ctx context.Context, id string, txID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	found := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i].PromotedTxID = txID
			found = true
			break
		}
	}
	if !found {
		return core.ErrNotFound
	}
	return s.write(entries)
}

// Budget returns the stored budget limit. A missing or malformed file
// reads as zero, meaning no budget is set.
func (s *Store) Budget(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.budgetPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Budget file unreadable, treating as unset", "path", s.budgetPath, "error", err)
		}
		return decimal.Zero, nil
	}
	limit, err := decimal.NewFromString(strings.TrimSpace(string(raw)))
	if err != nil {
		slog.WarnContext(ctx, "Budget file malformed, treating as unset", "path", s.budgetPath, "error", err)
		return decimal.Zero, nil
	}
	return limit, nil
}

// SetBudget persists the limit as a plain numeric string.
func (s *Store) SetBudget(ctx context.Context, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return core.ErrInvalidBudget
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.budgetPath, []byte(limit.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write budget: %v", core.ErrPersistence, err)
	}
	slog.InfoContext(ctx, "Budget limit updated", "limit", limit)
	return nil
}
