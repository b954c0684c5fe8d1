// Package memory provides a map-backed storage.Store. It exists for local
// development and for tests that need real transaction semantics without a
// database. Transactions take the store-wide write lock and roll back by
// restoring a snapshot, so concurrent lifecycle operations serialize the
// same way row locks serialize them on Postgres.
package memory

import (
	"context"
	"sync"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]models.User
	usersByEmail map[string]uuid.UUID
	shifts       map[uuid.UUID]models.Shift
	applications map[uuid.UUID]models.Application
	jobs         map[uuid.UUID]models.Job
}

var _ storage.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]models.User),
		usersByEmail: make(map[string]uuid.UUID),
		shifts:       make(map[uuid.UUID]models.Shift),
		applications: make(map[uuid.UUID]models.Application),
		jobs:         make(map[uuid.UUID]models.Job),
	}
}

func (s *Store) Users() storage.UserRepository {
	return &UserRepo{store: s}
}

func (s *Store) Shifts() storage.ShiftRepository {
	return &ShiftRepo{store: s}
}

func (s *Store) Applications() storage.ApplicationRepository {
	return &ApplicationRepo{store: s}
}

func (s *Store) Jobs() storage.JobRepository {
	return &JobRepo{store: s}
}

// BeginTx acquires the write lock and snapshots every table. The lock is
// held until Commit or Rollback, so at most one transaction runs at a time.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	s.mu.Lock()
	return &storeTx{
		store:            s,
		prevUsers:        copyMap(s.users),
		prevUsersByEmail: copyMap(s.usersByEmail),
		prevShifts:       copyMap(s.shifts),
		prevApplications: copyMap(s.applications),
		prevJobs:         copyMap(s.jobs),
	}, nil
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// storeTx mutates the live maps directly while holding the write lock.
// Rollback restores the snapshot taken at BeginTx.
type storeTx struct {
	store *Store
	done  bool

	prevUsers        map[uuid.UUID]models.User
	prevUsersByEmail map[string]uuid.UUID
	prevShifts       map[uuid.UUID]models.Shift
	prevApplications map[uuid.UUID]models.Application
	prevJobs         map[uuid.UUID]models.Job
}

var _ storage.Tx = (*storeTx)(nil)

func (t *storeTx) Shifts() storage.ShiftRepository {
	return &ShiftRepo{store: t.store, inTx: true}
}

func (t *storeTx) Applications() storage.ApplicationRepository {
	return &ApplicationRepo{store: t.store, inTx: true}
}

func (t *storeTx) Jobs() storage.JobRepository {
	return &JobRepo{store: t.store, inTx: true}
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// Rollback restores the snapshot. After Commit it is a no-op, so the usual
// defer tx.Rollback(ctx) pattern is safe.
func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.users = t.prevUsers
	t.store.usersByEmail = t.prevUsersByEmail
	t.store.shifts = t.prevShifts
	t.store.applications = t.prevApplications
	t.store.jobs = t.prevJobs
	t.store.mu.Unlock()
	return nil
}

// lockRead takes the read lock unless the caller already holds the write
// lock through an open transaction. Returns the matching unlock.
func (s *Store) lockRead(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// lockWrite takes the write lock unless the caller already holds it.
func (s *Store) lockWrite(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
