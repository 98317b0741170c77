package recommendation

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetAccessToken() string
}

// RegisterSteps registers recommendation submission and listing steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &recommendationSteps{tc: tc}

	ctx.Step(`^I submit a profile aged (\d+) earning (\d+) with (\d+) dependents and "([^"]*)" risk tolerance$`, steps.submitProfile)
	ctx.Step(`^I submit a profile with body:$`, steps.submitRawProfile)
	ctx.Step(`^I list recommendations$`, steps.listRecommendations)
	ctx.Step(`^I list recommendations without a token$`, steps.listWithoutToken)
	ctx.Step(`^the listing should contain at least (\d+) recommendations?$`, steps.listingContainsAtLeast)
}

type recommendationSteps struct {
	tc TestContext
}

func (s *recommendationSteps) submitProfile(ctx context.Context, age, income, dependents int, risk string) error {
	return s.tc.POST("/api/recommendations", map[string]any{
		"age":            age,
		"income":         income,
		"dependents":     dependents,
		"risk_tolerance": risk,
	})
}

func (s *recommendationSteps) submitRawProfile(ctx context.Context, body *godog.DocString) error {
	return s.tc.POST("/api/recommendations", rawJSON(body.Content))
}

func (s *recommendationSteps) listRecommendations(ctx context.Context) error {
	return s.tc.GET("/api/recommendations", map[string]string{
		"Authorization": "Bearer " + s.tc.GetAccessToken(),
	})
}

func (s *recommendationSteps) listWithoutToken(ctx context.Context) error {
	return s.tc.GET("/api/recommendations", nil)
}

func (s *recommendationSteps) listingContainsAtLeast(ctx context.Context, n int) error {
	data, err := s.tc.GetResponseField("data")
	if err != nil {
		return err
	}
	items, ok := data.([]any)
	if !ok {
		return fmt.Errorf("data is not a list: %v", data)
	}
	if len(items) < n {
		return fmt.Errorf("expected at least %d recommendations, got %d", n, len(items))
	}
	return nil
}
