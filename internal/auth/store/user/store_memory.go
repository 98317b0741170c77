package user

import (
	"context"
	"fmt"
	"sync"

	"lifecover/internal/auth/models"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// InMemoryUserStore keeps credentials keyed by exact email.
type InMemoryUserStore struct {
	mu          sync.RWMutex
	credentials map[string]*models.Credential
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{credentials: make(map[string]*models.Credential)}
}

// Create inserts a new credential. An email already present yields
// sentinel.ErrAlreadyUsed.
func (s *InMemoryUserStore) Create(_ context.Context, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[cred.Email]; ok {
		return fmt.Errorf("credential %s: %w", cred.Email, sentinel.ErrAlreadyUsed)
	}
	stored := *cred
	s.credentials[cred.Email] = &stored
	return nil
}

// Save upserts by email. An existing record keeps its user ID and CreatedAt.
func (s *InMemoryUserStore) Save(_ context.Context, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cred
	if existing, ok := s.credentials[cred.Email]; ok {
		stored.UserID = existing.UserID
		stored.CreatedAt = existing.CreatedAt
		cred.UserID = existing.UserID
		cred.CreatedAt = existing.CreatedAt
	}
	s.credentials[cred.Email] = &stored
	return nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cred, ok := s.credentials[email]; ok {
		found := *cred
		return &found, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID uuid.UUID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cred := range s.credentials {
		if cred.UserID == userID {
			found := *cred
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
