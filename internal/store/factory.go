// Package store selects and opens a persistence driver for the repository
// contracts in internal/domain/repository.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/moim/internal/domain/repository"
	"github.com/dropDatabas3/moim/internal/store/memory"
	"github.com/dropDatabas3/moim/internal/store/pg"
)

// Config selects the driver.
type Config struct {
	Driver   string // "memory" | "postgres"
	DSN      string
	Postgres pg.Tuning

	// Migrate applies the embedded schema on open (postgres only).
	Migrate bool
}

// Stores bundles the opened repositories.
type Stores struct {
	Users    repository.UserRepository
	Buckets  repository.BucketRepository
	Messages repository.MessageRepository
	Close    func() error
}

// Open opens the configured driver.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		st, err := pg.New(ctx, cfg.DSN, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := st.Migrate(ctx); err != nil {
				st.Close()
				return nil, err
			}
		}
		return &Stores{
			Users:    st.Users(),
			Buckets:  st.Buckets(),
			Messages: st.Messages(),
			Close:    func() error { st.Close(); return nil },
		}, nil
	case "memory", "":
		st := memory.New()
		return &Stores{
			Users:    st,
			Buckets:  st.Buckets(),
			Messages: st.Messages(),
			Close:    func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
