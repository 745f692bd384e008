// Package memstore keeps transactions in process memory. It backs tests and
// STORE_DRIVER=memory for local development.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

type Store struct {
	mu   sync.RWMutex
	byID map[string]transactions.Transaction
	// seq breaks date ties so newer inserts list first, as an ObjectID sort would.
	seq  map[string]uint64
	next uint64
}

func New() *Store {
	return &Store{
		byID: make(map[string]transactions.Transaction),
		seq:  make(map[string]uint64),
	}
}

func (s *Store) Insert(_ context.Context, t transactions.Transaction) (transactions.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.next++
	s.byID[t.ID] = t
	s.seq[t.ID] = s.next
	return t, nil
}

func (s *Store) FindByOwner(_ context.Context, ownerID string) ([]transactions.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]transactions.Transaction, 0)
	for _, t := range s.byID {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id string) (transactions.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return transactions.Transaction{}, transactions.ErrNotFound
	}
	return t, nil
}

func (s *Store) Update(_ context.Context, id, ownerID string, p transactions.Patch, updatedAt time.Time) (transactions.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok || t.OwnerID != ownerID {
		return transactions.Transaction{}, transactions.ErrNotFound
	}
	p.Apply(&t)
	t.UpdatedAt = updatedAt
	s.byID[id] = t
	return t, nil
}

func (s *Store) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok || t.OwnerID != ownerID {
		return transactions.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.seq, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
