package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
)

// NewBackend opens the backend selected by cfg.Backend. SQL backends are
// migrated before they are returned.
func NewBackend(ctx context.Context, cfg config.Storage, log *logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileBackend(cfg.Files.DataFile, log), nil
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	case config.BackendSQLite, config.BackendPostgres:
		return newSQLBackendFromConfig(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func newSQLBackendFromConfig(ctx context.Context, cfg config.Storage, log *logger.Logger) (Backend, error) {
	connect := NewConnectSQLite
	if cfg.Backend == config.BackendPostgres {
		connect = NewConnectPostgres
	}

	db, err := connect(ctx, cfg.DB.DSN, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewBackend").Msg("error applying migrations")
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return NewSQLBackend(db), nil
}
