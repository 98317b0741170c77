//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "lifecover/pkg/platform/audit"
	auditpg "lifecover/pkg/platform/audit/store/postgres"
	"lifecover/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditpg.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = auditpg.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestAppendAndListRecent() {
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: base,
		UserID:    userID.String(),
		Subject:   "admin@insurance.com",
		Action:    string(audit.EventLoginSucceeded),
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: base.Add(time.Minute),
		Subject:   "nobody@insurance.com",
		Action:    string(audit.EventLoginFailed),
		Reason:    "invalid_credentials",
		IP:        "203.0.113.7",
	}))

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(string(audit.EventLoginFailed), events[0].Action)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Empty(events[0].UserID)
	s.Equal("203.0.113.7", events[0].IP)

	s.Equal(userID.String(), events[1].UserID)
	s.True(base.Equal(events[1].Timestamp))
}
