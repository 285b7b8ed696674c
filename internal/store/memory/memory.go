// Package memory is the in-process store driver: maps guarded by a mutex,
// used in development and tests. Uniqueness of stable id and handle is
// enforced here, at the storage layer, so the service-level existence check
// stays a fast-path optimization rather than a correctness guarantee.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/moim/internal/domain/repository"
)

// Store implements repository.UserRepository and owns the bucket/message
// cascade targets.
type Store struct {
	mu       sync.RWMutex
	byID     map[string]*repository.User
	byHandle map[string]string // handle -> stable id

	buckets  *bucketRepo
	messages *messageRepo
}

func New() *Store {
	return &Store{
		byID:     make(map[string]*repository.User),
		byHandle: make(map[string]string),
		buckets:  &bucketRepo{owners: make(map[string]int)},
		messages: &messageRepo{bySender: make(map[string]int), byReceiver: make(map[string]int)},
	}
}

func (s *Store) Buckets() repository.BucketRepository   { return s.buckets }
func (s *Store) Messages() repository.MessageRepository { return s.messages }

func normHandle(h string) string { return strings.ToLower(strings.TrimSpace(h)) }

func (s *Store) GetByStableID(ctx context.Context, stableID string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[stableID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetByHandle(ctx context.Context, handle string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHandle[normHandle(handle)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *Store) ExistsByStableID(ctx context.Context, stableID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[stableID]
	return ok, nil
}

func (s *Store) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byHandle[normHandle(handle)]
	return ok, nil
}

func (s *Store) Create(ctx context.Context, u repository.User) (*repository.User, error) {
	if u.StableID == "" {
		return nil, repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[u.StableID]; ok {
		return nil, repository.ErrConflict
	}
	if u.Handle != "" {
		if _, ok := s.byHandle[normHandle(u.Handle)]; ok {
			return nil, repository.ErrConflict
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.byID[u.StableID] = &u
	if u.Handle != "" {
		s.byHandle[normHandle(u.Handle)] = u.StableID
	}
	cp := u
	return &cp, nil
}

func (s *Store) Update(ctx context.Context, stableID string, input repository.UpdateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[stableID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if input.Handle != nil && normHandle(*input.Handle) != normHandle(u.Handle) {
		nh := normHandle(*input.Handle)
		if owner, taken := s.byHandle[nh]; taken && owner != stableID {
			return nil, repository.ErrConflict
		}
		if u.Handle != "" {
			delete(s.byHandle, normHandle(u.Handle))
		}
		u.Handle = *input.Handle
		if nh != "" {
			s.byHandle[nh] = stableID
		}
	}
	if input.DisplayName != nil {
		u.DisplayName = *input.DisplayName
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.PasswordHash != nil {
		u.PasswordHash = *input.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()

	cp := *u
	return &cp, nil
}

func (s *Store) Delete(ctx context.Context, stableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[stableID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.Handle != "" {
		delete(s.byHandle, normHandle(u.Handle))
	}
	delete(s.byID, stableID)
	return nil
}

// bucketRepo / messageRepo track per-owner counts; enough to observe the
// deletion cascade in tests and development.

type bucketRepo struct {
	mu     sync.Mutex
	owners map[string]int
}

// Add registers n buckets for an owner (test/dev seeding).
func (r *bucketRepo) Add(stableID string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[stableID] += n
}

func (r *bucketRepo) DeleteByOwner(ctx context.Context, stableID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.owners[stableID]
	delete(r.owners, stableID)
	return n, nil
}

type messageRepo struct {
	mu         sync.Mutex
	bySender   map[string]int
	byReceiver map[string]int
}

// Add registers messages between two users (test/dev seeding).
func (r *messageRepo) Add(sender, receiver string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySender[sender] += n
	r.byReceiver[receiver] += n
}

func (r *messageRepo) DeleteBySender(ctx context.Context, stableID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.bySender[stableID]
	delete(r.bySender, stableID)
	return n, nil
}

func (r *messageRepo) DeleteByReceiver(ctx context.Context, stableID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.byReceiver[stableID]
	delete(r.byReceiver, stableID)
	return n, nil
}
