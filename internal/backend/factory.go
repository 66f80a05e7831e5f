// Package backend selects and constructs the ledger store from config.
package backend

import (
	"fmt"
	"log/slog"

	"fondo/internal/config"
	"fondo/internal/ledger"
	"fondo/internal/ledger/memory"
	"fondo/internal/storage"
)

// NewStore builds the ledger store named by cfg.DataBackend.
func NewStore(cfg *config.Config) (ledger.Store, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, cfg.Owner, cfg.MinDonationMicros)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		slog.Info("Initialized sqlite ledger backend", "path", cfg.SQLiteDBPath)
		return repo, nil
	case "memory":
		slog.Info("Initialized memory ledger backend")
		return memory.New(cfg.Owner, cfg.MinDonationMicros), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
