package e2e

import (
	"github.com/cucumber/godog"

	"lifecover/e2e/steps/auth"
	"lifecover/e2e/steps/common"
	"lifecover/e2e/steps/ratelimit"
	"lifecover/e2e/steps/recommendation"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	recommendation.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
