package db

import (
	"context"
	"errors"

	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgx.Conn and pgx.Tx so the repos can serve
// plain reads and transactional units with the same SQL.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ports.Store on postgres. Version checks ride on
// conditional updates: UPDATE ... WHERE id = $1 AND version = $2 touching
// zero rows means somebody committed in between.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) Loads() ports.LoadRepo               { return &loadRepo{q: s.db.conn} }
func (s *Store) Bids() ports.BidRepo                 { return &bidRepo{q: s.db.conn} }
func (s *Store) Bookings() ports.BookingRepo         { return &bookingRepo{q: s.db.conn} }
func (s *Store) Transporters() ports.TransporterRepo { return &transporterRepo{q: s.db.conn} }

// WithinTx wraps fn in a single database transaction. A version mismatch
// inside fn surfaces as ErrConcurrencyConflict and rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	pgtx, err := s.db.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer pgtx.Rollback(ctx) // Safe rollback if not committed

	if err := fn(&txStore{q: pgtx}); err != nil {
		return err
	}
	return pgtx.Commit(ctx)
}

type txStore struct {
	q querier
}

func (t *txStore) Loads() ports.LoadRepo               { return &loadRepo{q: t.q} }
func (t *txStore) Bids() ports.BidRepo                 { return &bidRepo{q: t.q} }
func (t *txStore) Bookings() ports.BookingRepo         { return &bookingRepo{q: t.q} }
func (t *txStore) Transporters() ports.TransporterRepo { return &transporterRepo{q: t.q} }

// Nested units join the enclosing transaction.
func (t *txStore) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	return fn(t)
}

// saveOutcome maps a zero-rows conditional update to the right error kind:
// the row is either gone (NotFound) or moved on without us (conflict).
func saveOutcome(ctx context.Context, q querier, existsSQL, id string) error {
	var exists bool
	if err := q.QueryRow(ctx, existsSQL, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return myerrors.ErrNotFound
	}
	return myerrors.ErrConcurrencyConflict
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
