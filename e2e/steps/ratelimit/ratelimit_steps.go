package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetLastResponseStatus() int
	GetLastResponseHeader(key string) string
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I submit (\d+) recommendation requests$`, steps.submitNRecommendations)
	ctx.Step(`^I fail login (\d+) times$`, steps.failLoginNTimes)
	ctx.Step(`^every request should have been allowed$`, steps.everyRequestAllowed)
	ctx.Step(`^the response should be rate limited$`, steps.responseRateLimited)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) submitNRecommendations(ctx context.Context, n int) error {
	s.statuses = s.statuses[:0]
	for range n {
		err := s.tc.POST("/api/recommendations", map[string]any{
			"age":            40,
			"income":         75000,
			"dependents":     1,
			"risk_tolerance": "medium",
		})
		if err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) failLoginNTimes(ctx context.Context, n int) error {
	s.statuses = s.statuses[:0]
	for range n {
		err := s.tc.POST("/api/auth/login", map[string]any{
			"email":    "nobody@insurance.com",
			"password": "not-the-password",
		})
		if err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) everyRequestAllowed(ctx context.Context) error {
	for i, status := range s.statuses {
		if status == 429 {
			return fmt.Errorf("request %d was rate limited", i+1)
		}
	}
	return nil
}

func (s *ratelimitSteps) responseRateLimited(ctx context.Context) error {
	if got := s.tc.GetLastResponseStatus(); got != 429 {
		return fmt.Errorf("expected 429, got %d", got)
	}
	retryAfter := s.tc.GetLastResponseHeader("Retry-After")
	if n, err := strconv.Atoi(retryAfter); err != nil || n <= 0 {
		return fmt.Errorf("expected positive Retry-After, got %q", retryAfter)
	}
	return nil
}
