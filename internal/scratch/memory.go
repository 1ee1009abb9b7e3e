package scratch

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/stockstrip/pkg/models"
)

type memEntry struct {
	matrix    *models.PivotedMatrix
	expiresAt time.Time
}

// MemoryStore keeps matrices in per-stock buckets in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]memEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string]memEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores m under k, replacing any previous entry.
func (s *MemoryStore) Put(_ context.Context, k Key, m *models.PivotedMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[k.Stock]
	if !ok {
		b = make(map[string]memEntry)
		s.buckets[k.Stock] = b
	}
	b[k.member()] = memEntry{matrix: m, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get returns the matrix under k. Expired entries are dropped on access.
func (s *MemoryStore) Get(_ context.Context, k Key) (*models.PivotedMatrix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.buckets[k.Stock][k.member()]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		s.removeLocked(k)
		return nil, ErrNotFound
	}
	return e.matrix, nil
}

// Release removes k, and the stock's bucket once it is empty. Releasing a
// missing key is not an error.
func (s *MemoryStore) Release(_ context.Context, k Key) error {
	s.mu.Lock()
	s.removeLocked(k)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) removeLocked(k Key) {
	b, ok := s.buckets[k.Stock]
	if !ok {
		return
	}
	delete(b, k.member())
	if len(b) == 0 {
		delete(s.buckets, k.Stock)
	}
}

// Cleanup drops expired entries and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for stock, b := range s.buckets {
		for member, e := range b {
			if now.After(e.expiresAt) {
				delete(b, member)
				n++
			}
		}
		if len(b) == 0 {
			delete(s.buckets, stock)
		}
	}
	return n
}

// Buckets returns the number of stocks holding at least one entry.
func (s *MemoryStore) Buckets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
