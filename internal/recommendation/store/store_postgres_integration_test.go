//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifecover/internal/recommendation"
	"lifecover/internal/recommendation/store"
	"lifecover/pkg/platform/sentinel"
	"lifecover/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "recommendations"))
}

func newSubmission(at time.Time, risk recommendation.RiskTolerance, income float64) *recommendation.Submission {
	profile := recommendation.ApplicantProfile{Age: 30, Income: income, Dependents: 2, RiskTolerance: risk}
	return &recommendation.Submission{
		ID:             uuid.New(),
		Profile:        profile,
		Recommendation: recommendation.NewEngine().Recommend(profile),
		ClientIP:       "203.0.113.9",
		UserAgent:      "Firefox on Linux",
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	sub := newSubmission(now, recommendation.RiskMedium, 60000.25)
	s.Require().NoError(s.store.Save(ctx, sub))

	found, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(sub.Profile, found.Profile)
	s.Equal(sub.Recommendation, found.Recommendation)
	s.Equal("203.0.113.9", found.ClientIP)
	s.Equal("Firefox on Linux", found.UserAgent)
	s.True(now.Equal(found.CreatedAt))

	err = s.store.Save(ctx, sub)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveWithoutClientMetadata() {
	ctx := context.Background()
	sub := newSubmission(time.Now().UTC(), recommendation.RiskLow, 1000)
	sub.ClientIP = ""
	sub.UserAgent = ""
	s.Require().NoError(s.store.Save(ctx, sub))

	found, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Empty(found.ClientIP)
	s.Empty(found.UserAgent)
}

func (s *PostgresStoreSuite) TestListOrderingLimitAndFilter() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	low := newSubmission(base, recommendation.RiskLow, 1000)
	medium := newSubmission(base.Add(time.Second), recommendation.RiskMedium, 2000)
	high := newSubmission(base.Add(2*time.Second), recommendation.RiskHigh, 3000)
	for _, sub := range []*recommendation.Submission{medium, high, low} {
		s.Require().NoError(s.store.Save(ctx, sub))
	}

	all, err := s.store.List(ctx, recommendation.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]uuid.UUID{high.ID, medium.ID, low.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	limited, err := s.store.List(ctx, recommendation.ListFilter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(high.ID, limited[0].ID)

	filtered, err := s.store.List(ctx, recommendation.ListFilter{
		RiskTolerances: []recommendation.RiskTolerance{recommendation.RiskLow, recommendation.RiskMedium},
	})
	s.Require().NoError(err)
	s.Require().Len(filtered, 2)
	s.Equal(medium.ID, filtered[0].ID)
	s.Equal(low.ID, filtered[1].ID)
}

func (s *PostgresStoreSuite) TestListEmpty() {
	got, err := s.store.List(context.Background(), recommendation.ListFilter{Limit: 10})
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}
