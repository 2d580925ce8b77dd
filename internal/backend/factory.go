// Package backend selects and opens the ledger persistence layer.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/DiegoEstrada07/expense-tracker/internal/config"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger/jsonfile"
	"github.com/DiegoEstrada07/expense-tracker/internal/ledger/sqlite"
)

type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// OpenLedger opens the ledger store named by the configuration. The
// caller owns the returned store and must Close it.
func OpenLedger(cfg *config.Config) (ledger.Store, error) {
	backendType := BackendType(cfg.LedgerBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.LedgerBackend)
	}

	switch backendType {
	case SQLiteBackend:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		slog.Info("Ledger backend ready", "backend", backendType, "path", cfg.SQLiteDBPath)
		return store, nil
	default:
		store, err := jsonfile.New(cfg.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("open json ledger: %w", err)
		}
		slog.Info("Ledger backend ready", "backend", backendType, "path", cfg.LedgerPath)
		return store, nil
	}
}
