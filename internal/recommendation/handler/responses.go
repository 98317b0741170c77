package handler

import (
	"time"

	"lifecover/internal/recommendation"
)

// SubmitResponse is the data payload of POST /api/recommendations.
type SubmitResponse struct {
	ID                 string `json:"id"`
	RecommendationType string `json:"recommendation_type"`
	CoverageAmount     string `json:"coverage_amount"`
	TermLength         string `json:"term_length"`
	Explanation        string `json:"explanation"`
}

// SubmissionResponse is one row of GET /api/recommendations.
type SubmissionResponse struct {
	ID                 string    `json:"id"`
	Age                int       `json:"age"`
	Income             float64   `json:"income"`
	Dependents         int       `json:"dependents"`
	RiskTolerance      string    `json:"risk_tolerance"`
	RecommendationType string    `json:"recommendation_type"`
	CoverageAmount     string    `json:"coverage_amount"`
	TermLength         string    `json:"term_length"`
	Explanation        string    `json:"explanation"`
	IPAddress          string    `json:"ip_address,omitempty"`
	UserAgent          string    `json:"user_agent,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toSubmitResponse(sub *recommendation.Submission) SubmitResponse {
	return SubmitResponse{
		ID:                 sub.ID.String(),
		RecommendationType: string(sub.Recommendation.ProductType),
		CoverageAmount:     sub.Recommendation.CoverageAmount,
		TermLength:         sub.Recommendation.TermLength,
		Explanation:        sub.Recommendation.Explanation,
	}
}

func toSubmissionResponses(subs []*recommendation.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, SubmissionResponse{
			ID:                 sub.ID.String(),
			Age:                sub.Profile.Age,
			Income:             sub.Profile.Income,
			Dependents:         sub.Profile.Dependents,
			RiskTolerance:      string(sub.Profile.RiskTolerance),
			RecommendationType: string(sub.Recommendation.ProductType),
			CoverageAmount:     sub.Recommendation.CoverageAmount,
			TermLength:         sub.Recommendation.TermLength,
			Explanation:        sub.Recommendation.Explanation,
			IPAddress:          sub.ClientIP,
			UserAgent:          sub.UserAgent,
			CreatedAt:          sub.CreatedAt,
			UpdatedAt:          sub.UpdatedAt,
		})
	}
	return out
}
