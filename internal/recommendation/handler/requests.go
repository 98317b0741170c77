package handler

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"lifecover/internal/recommendation"
	dErrors "lifecover/pkg/domain-errors"
)

const (
	minAge = 18
	maxAge = 100

	// maxIncome keeps income × multiplier well inside int64 for any
	// realistic dependents count, so stored coverage stays exact.
	maxIncome = 1_000_000_000
)

// SubmitRequest is the HTTP request body for POST /api/recommendations.
// Numbers are accepted as JSON numbers or numeric strings.
type SubmitRequest struct {
	Age           json.Number `json:"age"`
	Income        json.Number `json:"income"`
	Dependents    json.Number `json:"dependents"`
	RiskTolerance string      `json:"risk_tolerance"`

	// Parsed values (populated by Validate)
	profile recommendation.ApplicantProfile
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	var problems []string

	age, ok := parseInt(r.Age)
	if !ok || age < minAge || age > maxAge {
		problems = append(problems, "Age must be between 18 and 100")
	}

	income, err := strconv.ParseFloat(strings.TrimSpace(r.Income.String()), 64)
	if err != nil || math.IsNaN(income) || math.IsInf(income, 0) || income < 0 {
		problems = append(problems, "Income must be a positive number")
	} else if income > maxIncome {
		problems = append(problems, "Income must not exceed 1,000,000,000")
	}

	dependents, ok := parseInt(r.Dependents)
	if !ok || dependents < 0 {
		problems = append(problems, "Dependents must be a non-negative integer")
	}

	risk := recommendation.RiskTolerance(strings.TrimSpace(r.RiskTolerance))
	if !risk.IsValid() {
		problems = append(problems, "Risk tolerance must be low, medium, or high")
	}

	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}

	r.profile = recommendation.ApplicantProfile{
		Age:           age,
		Income:        income,
		Dependents:    dependents,
		RiskTolerance: risk,
	}
	return nil
}

// Profile returns the validated applicant profile.
func (r *SubmitRequest) Profile() recommendation.ApplicantProfile {
	return r.profile
}

func parseInt(n json.Number) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(n.String()))
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseListQuery reads ?limit= and ?risk_tolerance=low,high.
func parseListQuery(limitParam, riskParam string) (recommendation.ListFilter, error) {
	var filter recommendation.ListFilter

	if limitParam = strings.TrimSpace(limitParam); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			return filter, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	if riskParam = strings.TrimSpace(riskParam); riskParam != "" {
		for _, part := range strings.Split(riskParam, ",") {
			risk, ok := recommendation.ParseRiskTolerance(part)
			if !ok {
				return filter, dErrors.New(dErrors.CodeValidation, "risk_tolerance must be low, medium, or high")
			}
			filter.RiskTolerances = append(filter.RiskTolerances, risk)
		}
	}
	return filter, nil
}
