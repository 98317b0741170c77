package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"lifecover/internal/auth/models"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Credential store invariants (exact-match lookup, upsert identity, ErrNotFound)
// are validated here to protect login behavior outside feature coverage.
type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newCredential(email string, role models.Role) *models.Credential {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Credential{
		UserID:       uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	ctx := context.Background()
	cred := newCredential("admin@insurance.com", models.RoleAdmin)
	s.Require().NoError(s.store.Create(ctx, cred))

	s.Run("returns credential by email", func() {
		found, err := s.store.FindByEmail(ctx, "admin@insurance.com")
		s.Require().NoError(err)
		s.Equal(cred, found)
	})

	s.Run("returns credential by id", func() {
		found, err := s.store.FindByID(ctx, cred.UserID)
		s.Require().NoError(err)
		s.Equal(cred.Email, found.Email)
	})

	s.Run("email match is exact", func() {
		_, err := s.store.FindByEmail(ctx, "Admin@Insurance.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown id", func() {
		_, err := s.store.FindByID(ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned credential is a copy", func() {
		found, err := s.store.FindByEmail(ctx, "admin@insurance.com")
		s.Require().NoError(err)
		found.Role = models.RoleUser

		again, err := s.store.FindByEmail(ctx, "admin@insurance.com")
		s.Require().NoError(err)
		s.Equal(models.RoleAdmin, again.Role)
	})
}

func (s *InMemoryUserStoreSuite) TestCreateRejectsDuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newCredential("a@b.com", models.RoleUser)))

	err := s.store.Create(ctx, newCredential("a@b.com", models.RoleAdmin))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryUserStoreSuite) TestSaveUpsertsByEmail() {
	ctx := context.Background()
	original := newCredential("admin@insurance.com", models.RoleUser)
	s.Require().NoError(s.store.Save(ctx, original))

	replacement := newCredential("admin@insurance.com", models.RoleAdmin)
	replacement.PasswordHash = "$2a$10$other"
	s.Require().NoError(s.store.Save(ctx, replacement))

	s.Equal(original.UserID, replacement.UserID, "upsert keeps the stored id")
	found, err := s.store.FindByEmail(ctx, "admin@insurance.com")
	s.Require().NoError(err)
	s.Equal(original.UserID, found.UserID)
	s.Equal(models.RoleAdmin, found.Role)
	s.Equal("$2a$10$other", found.PasswordHash)
}

func (s *InMemoryUserStoreSuite) TestConcurrentAccess() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.store.Save(ctx, newCredential("shared@insurance.com", models.RoleUser))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.store.FindByEmail(ctx, "shared@insurance.com")
		}()
	}
	wg.Wait()

	_, err := s.store.FindByEmail(ctx, "shared@insurance.com")
	s.NoError(err)
}
