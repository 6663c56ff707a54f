// Package backend selects and constructs the persistence layer from
// configuration. The factory returns the store together with a cleanup
// function so connection lifecycle stays explicit: whoever creates the
// backend owns closing it.
package backend

import (
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources. It is always non-nil.
type CleanupFunc func() error

type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger.WithComponent(log.ComponentStorage)}
}

// Create builds the store named by cfg.DataBackend. The returned cleanup
// must be called on shutdown.
func (f *Factory) Create(cfg *config.Config) (store.Store, CleanupFunc, error) {
	t := Type(cfg.DataBackend)
	switch t {
	case SQLite:
		if cfg.SQLiteDBPath == "" {
			return nil, nil, fmt.Errorf("sqlite backend requires a database path")
		}
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil

	case Memory:
		s := memory.NewStore()
		f.logger.Info("initialized memory backend")
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data backend %q (valid: %s, %s)", cfg.DataBackend, SQLite, Memory)
	}
}
