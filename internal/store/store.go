// Package store opens the note.Store backend selected in configuration.
package store

import (
	"fmt"
	"log/slog"

	"github.com/asmundstavdahl/notes/internal/config"
	"github.com/asmundstavdahl/notes/internal/note"
	"github.com/asmundstavdahl/notes/internal/store/badger"
	"github.com/asmundstavdahl/notes/internal/store/memory"
	"github.com/asmundstavdahl/notes/internal/store/sqlite"
)

// Open returns the backend named by cfg.Driver.
func Open(cfg config.StoreConfig, logger *slog.Logger) (note.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "badger":
		s, err := badger.Open(badger.Config{
			Path:       cfg.Path,
			SyncWrites: true,
			Logger:     logger.With("component", "badger"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}
