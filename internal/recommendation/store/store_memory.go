package store

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"lifecover/internal/recommendation"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// InMemoryStore keeps submissions in a map; listing sorts on read.
type InMemoryStore struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]recommendation.Submission
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{submissions: make(map[uuid.UUID]recommendation.Submission)}
}

func (s *InMemoryStore) Save(_ context.Context, sub *recommendation.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[sub.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*recommendation.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sub, nil
}

// List returns submissions newest first, ties broken by descending ID.
func (s *InMemoryStore) List(_ context.Context, filter recommendation.ListFilter) ([]*recommendation.Submission, error) {
	s.mu.RLock()
	out := make([]*recommendation.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if !filter.Matches(&sub) {
			continue
		}
		c := sub
		out = append(out, &c)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, compareNewestFirst)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func compareNewestFirst(a, b *recommendation.Submission) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(b.ID[:], a.ID[:])
}
