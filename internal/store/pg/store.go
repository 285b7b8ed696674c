// Package pg is the Postgres store driver, backed by a pgx connection pool.
// Uniqueness of stable id and handle is enforced by unique indexes (see
// migrations/postgres), so a losing concurrent insert surfaces as
// repository.ErrConflict.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/moim/internal/domain/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tuning holds optional pool settings.
type Tuning struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

// Store owns the pool and hands out repositories bound to it.
type Store struct{ pool *pgxpool.Pool }

func New(ctx context.Context, dsn string, t Tuning) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if t.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(t.MaxOpenConns)
	}
	// pgxpool has no idle-conn knob; MinConns is the closest equivalent.
	if t.MaxIdleConns > 0 {
		pcfg.MinConns = int32(t.MaxIdleConns)
	}
	if t.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(t.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool (metrics/migrations).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close closes the pool (idempotent).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Users() repository.UserRepository       { return &userRepo{pool: s.pool} }
func (s *Store) Buckets() repository.BucketRepository   { return &bucketRepo{pool: s.pool} }
func (s *Store) Messages() repository.MessageRepository { return &messageRepo{pool: s.pool} }

// uniqueViolation maps the Postgres 23505 error class to ErrConflict.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrConflict
	}
	return err
}
