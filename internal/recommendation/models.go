package recommendation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskTolerance is the applicant's self-declared appetite for risk.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// RiskTolerances lists the accepted values in ascending order.
var RiskTolerances = []RiskTolerance{RiskLow, RiskMedium, RiskHigh}

func (r RiskTolerance) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

func (r RiskTolerance) String() string {
	return string(r)
}

// ParseRiskTolerance accepts the wire values case-insensitively.
func ParseRiskTolerance(s string) (RiskTolerance, bool) {
	r := RiskTolerance(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// ProductType is the recommended policy family. Values are the display
// strings clients already consume.
type ProductType string

const (
	ProductTermLife  ProductType = "Term Life"
	ProductWholeLife ProductType = "Whole Life"
)

// ApplicantProfile is the engine input. Range checks happen at the HTTP
// boundary; the engine accepts any numbers.
type ApplicantProfile struct {
	Age           int
	Income        float64
	Dependents    int
	RiskTolerance RiskTolerance
}

// Recommendation is the engine output.
type Recommendation struct {
	ProductType ProductType
	Multiplier  float64
	// Coverage is income × multiplier rounded half-up to whole currency units.
	Coverage       int64
	CoverageAmount string
	TermYears      int
	TermLength     string
	Explanation    string
}

// Origin describes where a submission came from.
type Origin struct {
	ClientIP  string
	UserAgent string
	RequestID string
}

// Submission is a stored recommendation together with the profile that
// produced it.
type Submission struct {
	ID             uuid.UUID
	Profile        ApplicantProfile
	Recommendation Recommendation
	ClientIP       string
	UserAgent      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListFilter narrows the admin listing. Zero Limit means the configured maximum.
type ListFilter struct {
	Limit          int
	RiskTolerances []RiskTolerance
}

// Matches reports whether s passes the risk filter.
func (f ListFilter) Matches(s *Submission) bool {
	if len(f.RiskTolerances) == 0 {
		return true
	}
	for _, r := range f.RiskTolerances {
		if s.Profile.RiskTolerance == r {
			return true
		}
	}
	return false
}
