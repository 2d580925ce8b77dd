// Package sqlite implements the ledger store on modernc.org/sqlite.
// Amounts are stored as decimal strings to keep exact values.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/DiegoEstrada07/expense-tracker/internal/core"
)

type Store struct {
	db *sql.DB

	mu     sync.Mutex
	lastID int64
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, item, description, category, amount, date
		 FROM transactions ORDER BY created_at, id`)
	if err != nil {
		slog.WarnContext(ctx, "Ledger read failed, returning empty list", "error", err)
		return []core.Transaction{}, nil
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t            core.Transaction
			amount, date string
		)
		if err := rows.Scan(&t.ID, &t.Type, &t.Item, &t.Description, &t.Category, &amount, &date); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", core.ErrPersistence, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: amount %q for id %d: %v", core.ErrPersistence, amount, t.ID, err)
		}
		if d, err := core.ParseDate(date); err == nil {
			t.Date = d
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate transactions: %v", core.ErrPersistence, err)
	}
	if out == nil {
		out = []core.Transaction{}
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = s.nextID()
	if t.Date.IsZero() {
		t.Date = core.Today()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, item, description, category, amount, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Item, t.Description, t.Category,
		t.Amount.String(), t.Date.Format("2006-01-02"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: insert transaction: %v", core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Transaction appended",
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount,
		"category", t.Category)
	return t, nil
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete transaction %d: %v", core.ErrPersistence, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "Transaction removed", "id", id)
	}
	return nil
}

func (s *Store) Aggregate(ctx context.Context) (core.Aggregate, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return core.Aggregate{}, err
	}
	return core.ComputeAggregate(txs), nil
}

func (s *Store) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
