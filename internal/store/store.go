// Package store is the Postgres implementation of the booking storage
// contracts. Reads go straight to the pool; writes run in one transaction
// per operation that first takes an advisory lock on the slot key.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"appointment-booking-api/internal/booking"
)

var (
	_ booking.Store = (*Store)(nil)
	_ booking.Tx    = (*txStore)(nil)
)

// slotIndex is the partial unique index backing the slot lock.
const slotIndex = "appointments_live_slot_uniq"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// reader serves every read from whatever q is: the pool or a transaction.
type reader struct {
	q querier
}

type Store struct {
	reader
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{reader: reader{q: pool}, pool: pool}
}

// Open creates a pool and makes sure the database answers.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate applies the schema file at path. The file is idempotent.
func (s *Store) Migrate(ctx context.Context, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, string(sql))
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return errors.New("db not configured")
	}
	return s.pool.Ping(ctx)
}

func (s *Store) Atomic(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&txStore{reader: reader{q: tx}}); err != nil {
		return err
	}
	return mapWriteErr(tx.Commit(ctx))
}

// txStore adds the write half of booking.Tx on top of a transaction.
type txStore struct {
	reader
}

func (t *txStore) LockSlot(ctx context.Context, key booking.SlotKey) error {
	_, err := t.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key.String())
	return err
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %d", booking.ErrNotFound, what, id)
	}
	return err
}

// mapWriteErr turns a hit on the slot index into a slot conflict.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slotIndex {
		return &booking.Conflict{Kind: booking.ErrSlotTaken, Reason: "slot was booked concurrently"}
	}
	return err
}
