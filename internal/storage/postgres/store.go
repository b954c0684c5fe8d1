package postgres

import (
	"context"
	"fmt"

	"shiftdesk/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations the repositories need; both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store implements storage.Store backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Compile-time check to ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

func (s *Store) Users() storage.UserRepository {
	return &UserRepo{db: s.pool}
}

func (s *Store) Shifts() storage.ShiftRepository {
	return &ShiftRepo{db: s.pool}
}

func (s *Store) Applications() storage.ApplicationRepository {
	return &ApplicationRepo{db: s.pool}
}

func (s *Store) Jobs() storage.JobRepository {
	return &JobRepo{db: s.pool}
}

// BeginTx opens a database transaction and returns repositories scoped to it.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx        pgx.Tx
	committed bool
}

var _ storage.Tx = (*storeTx)(nil)

func (t *storeTx) Shifts() storage.ShiftRepository {
	return &ShiftRepo{db: t.tx}
}

func (t *storeTx) Applications() storage.ApplicationRepository {
	return &ApplicationRepo{db: t.tx}
}

func (t *storeTx) Jobs() storage.JobRepository {
	return &JobRepo{db: t.tx}
}

func (t *storeTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.committed = true
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return nil
	}
	if err := t.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return err
	}
	return nil
}
