package recommendation

import "math"

const (
	baseMultiplier     = 5.0
	perDependent       = 2.0
	defaultTermYears   = 20
	olderTermYears     = 15
	highRiskTermYears  = 30
	olderAgeThreshold  = 50
	seniorAgeThreshold = 60
	seniorMultiplier   = 0.8
	lowRiskMultiplier  = 1.2
	highRiskMultiplier = 1.5
	halfUnit           = 0.5
)

// terms is the mutable state threaded through the rule chain.
type terms struct {
	product    ProductType
	multiplier float64
	termYears  int
}

// Rules run in this order; risk adjustments see the age-adjusted multiplier.
//  1. Dependents raise coverage
//  2. Age shortens the term; seniors move to whole life at reduced coverage
//  3. Risk tolerance picks the product or term and scales coverage
func applyRules(p ApplicantProfile) terms {
	t := terms{
		product:    ProductTermLife,
		multiplier: baseMultiplier,
		termYears:  defaultTermYears,
	}

	if p.Dependents > 0 {
		t.multiplier += float64(p.Dependents) * perDependent
	}

	if p.Age > olderAgeThreshold {
		t.termYears = olderTermYears
		if p.Age > seniorAgeThreshold {
			t.product = ProductWholeLife
			t.multiplier *= seniorMultiplier
		}
	}

	switch p.RiskTolerance {
	case RiskLow:
		t.product = ProductWholeLife
		t.multiplier *= lowRiskMultiplier
	case RiskHigh:
		t.multiplier *= highRiskMultiplier
		t.termYears = highRiskTermYears
	default:
		// medium and unrecognized values keep the age-adjusted terms
	}

	return t
}

// maxCoverage is 2^63, the first float64 outside the int64 range.
const maxCoverage = float64(1 << 63)

// roundHalfUp rounds .5 toward positive infinity: 2.5 → 3, -2.5 → -2.
// Results outside int64 saturate so coverage never changes sign.
func roundHalfUp(v float64) int64 {
	r := math.Floor(v + halfUnit)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= maxCoverage:
		return math.MaxInt64
	case r <= -maxCoverage:
		return math.MinInt64
	}
	return int64(r)
}
