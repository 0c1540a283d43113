package idempotency

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/people-directory/internal/ports/out/clock"
	"github.com/Overland-East-Bay/people-directory/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the TTL are reported as missing and dropped lazily.
// It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	m  map[idempotency.Fingerprint]idempotency.Record

	clk clock.Clock
	ttl time.Duration
}

// NewStore returns a store whose records expire after ttl; ttl <= 0 keeps them forever.
func NewStore(clk clock.Clock, ttl time.Duration) *Store {
	return &Store{
		m:   make(map[idempotency.Fingerprint]idempotency.Record),
		clk: clk,
		ttl: ttl,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.expired(rec) {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	rec.Body = bytes.Clone(rec.Body)
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clk.Now()
	}
	rec.Body = bytes.Clone(rec.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fp] = rec
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.clk.Now().Sub(rec.CreatedAt) > s.ttl
}
