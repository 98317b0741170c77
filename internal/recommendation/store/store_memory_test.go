package store

import (
	"context"
	"testing"
	"time"

	"lifecover/internal/recommendation"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	base  time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) submission(offset time.Duration, risk recommendation.RiskTolerance) *recommendation.Submission {
	engine := recommendation.NewEngine()
	profile := recommendation.ApplicantProfile{Age: 40, Income: 50000, Dependents: 1, RiskTolerance: risk}
	at := s.base.Add(offset)
	return &recommendation.Submission{
		ID:             uuid.New(),
		Profile:        profile,
		Recommendation: engine.Recommend(profile),
		ClientIP:       "192.0.2.1",
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	sub := s.submission(0, recommendation.RiskMedium)
	s.Require().NoError(s.store.Save(ctx, sub))

	found, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(*sub, *found)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Save(ctx, sub), sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestListNewestFirst() {
	ctx := context.Background()
	oldest := s.submission(0, recommendation.RiskLow)
	middle := s.submission(time.Minute, recommendation.RiskMedium)
	newest := s.submission(2*time.Minute, recommendation.RiskHigh)
	for _, sub := range []*recommendation.Submission{middle, oldest, newest} {
		s.Require().NoError(s.store.Save(ctx, sub))
	}

	s.Run("all rows in created order", func() {
		got, err := s.store.List(ctx, recommendation.ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		s.Equal(newest.ID, got[0].ID)
		s.Equal(middle.ID, got[1].ID)
		s.Equal(oldest.ID, got[2].ID)
	})

	s.Run("limit", func() {
		got, err := s.store.List(ctx, recommendation.ListFilter{Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(newest.ID, got[0].ID)
	})

	s.Run("risk filter", func() {
		got, err := s.store.List(ctx, recommendation.ListFilter{
			RiskTolerances: []recommendation.RiskTolerance{recommendation.RiskLow, recommendation.RiskHigh},
		})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(newest.ID, got[0].ID)
		s.Equal(oldest.ID, got[1].ID)
	})
}

func (s *InMemoryStoreSuite) TestListTieBreaksOnID() {
	ctx := context.Background()
	a := s.submission(0, recommendation.RiskMedium)
	b := s.submission(0, recommendation.RiskMedium)
	s.Require().NoError(s.store.Save(ctx, a))
	s.Require().NoError(s.store.Save(ctx, b))

	first, err := s.store.List(ctx, recommendation.ListFilter{})
	s.Require().NoError(err)
	second, err := s.store.List(ctx, recommendation.ListFilter{})
	s.Require().NoError(err)
	s.Equal(first[0].ID, second[0].ID)
}

func (s *InMemoryStoreSuite) TestListReturnsCopies() {
	ctx := context.Background()
	sub := s.submission(0, recommendation.RiskMedium)
	s.Require().NoError(s.store.Save(ctx, sub))

	got, err := s.store.List(ctx, recommendation.ListFilter{})
	s.Require().NoError(err)
	got[0].ClientIP = "mutated"

	again, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal("192.0.2.1", again.ClientIP)
}
