// Package bootstrap wires the storage backend selected by configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/pollkit/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollkit/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollkit/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/pollkit/internal/config"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

// ErrEphemeralStore is returned to commands that need data written by another
// process when the configured driver only keeps it in memory.
var ErrEphemeralStore = errors.New("the memory driver does not share data between processes, configure DATABASE_DRIVER=postgres or sqlite")

type Repositories struct {
	Polls     ports.PollRepository
	Responses ports.ResponseRepository
	Results   ports.PollResultRepository

	db *sql.DB
}

// Close releases the underlying database, if any.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// OpenRepositories connects to the configured backend. Postgres must already
// be migrated; the sqlite schema is created on open.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		return &Repositories{
			Polls:     memory.NewPollRepository(),
			Responses: memory.NewResponseRepository(),
			Results:   memory.NewPollResultRepository(),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Polls:     sqlite.NewPollRepository(db),
			Responses: sqlite.NewResponseRepository(db),
			Results:   sqlite.NewPollResultRepository(db),
			db:        db,
		}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach postgres: %w", err)
		}
		return &Repositories{
			Polls:     postgres.NewPollRepository(db),
			Responses: postgres.NewResponseRepository(db),
			Results:   postgres.NewPollResultRepository(db),
			db:        db,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenPersistentRepositories is OpenRepositories for one-shot commands that
// read what the server stored, so the in-process memory driver is refused.
func OpenPersistentRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return nil, ErrEphemeralStore
	}
	return OpenRepositories(ctx, cfg)
}
