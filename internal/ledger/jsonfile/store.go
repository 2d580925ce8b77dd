// Package jsonfile implements the ledger store on a single JSON
// document. Every mutation is a whole-file read-modify-write guarded
// by a mutex, so there is exactly one writer at a time; writes go
// through a temp file and rename so a crash never leaves a torn file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

// document is the persisted file layout. Savings is a redundant cached
// field kept for compatibility with existing data files; it is
// recomputed on every write and never read back as authoritative.
type document struct {
	Transactions []core.Transaction `json:"transactions"`
	Savings      decimal.Decimal    `json:"savings"`
}

type Store struct {
	mu     sync.Mutex
	path   string
	lastID int64
}

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// load reads the backing file. A missing or corrupt file degrades to an
// empty document with a logged warning rather than failing the caller.
func (s *Store) load(ctx context.Context) document {
	doc := document{Transactions: []core.Transaction{}}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Ledger file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.WarnContext(ctx, "Ledger file corrupt, treating as empty", "path", s.path, "error", err)
		return document{Transactions: []core.Transaction{}}
	}
	if doc.Transactions == nil {
		doc.Transactions = []core.Transaction{}
	}
	return doc
}

func (s *Store) write(doc document) error {
	doc.Savings = core.ComputeAggregate(doc.Transactions).Savings
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal ledger: %v", core.ErrPersistence, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write ledger: %v", core.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace ledger: %v", core.ErrPersistence, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx).Transactions, nil
}

func (s *Store) Append(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)

	t.ID = s.nextID(doc.Transactions)
	if t.Date.IsZero() {
		t.Date = core.Today()
	}

	doc.Transactions = append(doc.Transactions, t)
	if err := s.write(doc); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction appended",
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount,
		"category", t.Category)
	return t, nil
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	kept := doc.Transactions[:0]
	for _, t := range doc.Transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(doc.Transactions) {
		// Idempotent delete: unknown id leaves the file untouched.
		return nil
	}
	doc.Transactions = kept
	if err := s.write(doc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction removed", "id", id)
	return nil
}

func (s *Store) Aggregate(ctx context.Context) (core.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeAggregate(s.load(ctx).Transactions), nil
}

func (s *Store) Close() error { return nil }

// nextID derives an id from the current time in milliseconds and bumps
// it past both the last id handed out and any id already in the file,
// so ids stay unique even for same-millisecond appends.
func (s *Store) nextID(existing []core.Transaction) int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for _, t := range existing {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	s.lastID = id
	return id
}
