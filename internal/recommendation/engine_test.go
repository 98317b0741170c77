package recommendation

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"lifecover/pkg/testutil"
)

func TestRecommendScenarios(t *testing.T) {
	engine := NewEngine()

	testutil.Given(t, "a 30 year old with two dependents and medium risk", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 30, Income: 60000, Dependents: 2, RiskTolerance: RiskMedium})

		testutil.Then(t, "term life at 9x income for 20 years", func(t *testing.T) {
			assert.Equal(t, ProductTermLife, rec.ProductType)
			assert.Equal(t, 9.0, rec.Multiplier)
			assert.Equal(t, int64(540000), rec.Coverage)
			assert.Equal(t, "$540,000", rec.CoverageAmount)
			assert.Equal(t, 20, rec.TermYears)
			assert.Equal(t, "20 years", rec.TermLength)
			assert.Equal(t,
				"Based on your profile (age 30, income 60,000, 2 dependents, medium risk tolerance), "+
					"we recommend Term Life Insurance for its affordability and flexibility. "+
					"The coverage amount of $540,000 provides 9x your annual income, "+
					"which should adequately protect your dependents and cover expenses. "+
					"The 20-year term aligns with your expected financial obligations period.",
				rec.Explanation)
		})
	})

	testutil.Given(t, "a 65 year old with low risk tolerance", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 65, Income: 100000, Dependents: 0, RiskTolerance: RiskLow})

		testutil.Then(t, "whole life at 4.8x income for 15 years", func(t *testing.T) {
			assert.Equal(t, ProductWholeLife, rec.ProductType)
			assert.Equal(t, int64(480000), rec.Coverage)
			assert.Equal(t, "$480,000", rec.CoverageAmount)
			assert.Equal(t, "15 years", rec.TermLength)
			assert.Contains(t, rec.Explanation, "we recommend Whole Life Insurance for its guaranteed coverage and cash value component. ")
			assert.Contains(t, rec.Explanation, "provides 4.8x your annual income")
			assert.Contains(t, rec.Explanation, "The 15-year term")
		})
	})

	testutil.Given(t, "a 45 year old with high risk tolerance", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 45, Income: 50000, Dependents: 0, RiskTolerance: RiskHigh})

		testutil.Then(t, "term life at 7.5x income for 30 years", func(t *testing.T) {
			assert.Equal(t, ProductTermLife, rec.ProductType)
			assert.Equal(t, int64(375000), rec.Coverage)
			assert.Equal(t, "$375,000", rec.CoverageAmount)
			assert.Equal(t, "30 years", rec.TermLength)
			assert.Contains(t, rec.Explanation, "provides 7.5x your annual income")
		})
	})
}

func TestRecommendRules(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name       string
		profile    ApplicantProfile
		product    ProductType
		multiplier float64
		termYears  int
	}{
		{"age 50 is not older", ApplicantProfile{Age: 50, Income: 1000, RiskTolerance: RiskMedium}, ProductTermLife, 5, 20},
		{"age 51 shortens term", ApplicantProfile{Age: 51, Income: 1000, Dependents: 1, RiskTolerance: RiskMedium}, ProductTermLife, 7, 15},
		{"age 60 keeps term life", ApplicantProfile{Age: 60, Income: 1000, RiskTolerance: RiskMedium}, ProductTermLife, 5, 15},
		{"age 61 moves to whole life", ApplicantProfile{Age: 61, Income: 1000, RiskTolerance: RiskMedium}, ProductWholeLife, 4, 15},
		{"senior with high risk keeps whole life and gets 30 years", ApplicantProfile{Age: 70, Income: 1000, RiskTolerance: RiskHigh}, ProductWholeLife, 6, 30},
		{"young low risk is whole life", ApplicantProfile{Age: 25, Income: 1000, Dependents: 3, RiskTolerance: RiskLow}, ProductWholeLife, 13.2, 20},
		{"unknown risk behaves like medium", ApplicantProfile{Age: 25, Income: 1000, RiskTolerance: RiskTolerance("extreme")}, ProductTermLife, 5, 20},
		{"negative dependents are ignored", ApplicantProfile{Age: 25, Income: 1000, Dependents: -2, RiskTolerance: RiskMedium}, ProductTermLife, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := engine.Recommend(tt.profile)
			assert.Equal(t, tt.product, rec.ProductType)
			assert.InDelta(t, tt.multiplier, rec.Multiplier, 1e-9)
			assert.Equal(t, tt.termYears, rec.TermYears)
		})
	}
}

func TestRecommendEdgeValues(t *testing.T) {
	engine := NewEngine()

	t.Run("zero income", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 30, Income: 0, RiskTolerance: RiskMedium})
		assert.Equal(t, int64(0), rec.Coverage)
		assert.Equal(t, "$0", rec.CoverageAmount)
	})

	t.Run("negative income yields negative coverage", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 30, Income: -1000, RiskTolerance: RiskMedium})
		assert.Equal(t, int64(-5000), rec.Coverage)
		assert.Equal(t, "$-5,000", rec.CoverageAmount)
	})

	t.Run("fractional income is grouped with decimals in the explanation", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 30, Income: 1234.5, RiskTolerance: RiskMedium})
		assert.Equal(t, int64(6173), rec.Coverage)
		assert.Contains(t, rec.Explanation, "income 1,234.5,")
	})

	t.Run("half units round up", func(t *testing.T) {
		rec := engine.Recommend(ApplicantProfile{Age: 30, Income: 0.5, RiskTolerance: RiskMedium})
		assert.Equal(t, int64(3), rec.Coverage)
	})
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), roundHalfUp(2.5))
	assert.Equal(t, int64(2), roundHalfUp(2.4999))
	assert.Equal(t, int64(-2), roundHalfUp(-2.5))
	assert.Equal(t, int64(-3), roundHalfUp(-2.51))
	assert.Equal(t, int64(0), roundHalfUp(0))
}

func TestRoundHalfUpSaturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), roundHalfUp(math.Exp2(63)))
	assert.Equal(t, int64(math.MaxInt64), roundHalfUp(3e19))
	assert.Equal(t, int64(math.MaxInt64), roundHalfUp(math.Inf(1)))
	assert.Equal(t, int64(math.MinInt64), roundHalfUp(-math.Exp2(63)))
	assert.Equal(t, int64(math.MinInt64), roundHalfUp(-3e19))
	assert.Equal(t, int64(0), roundHalfUp(math.NaN()))
	assert.Equal(t, int64(1<<62), roundHalfUp(math.Exp2(62)))
}

func TestFormatMultiplier(t *testing.T) {
	assert.Equal(t, "9", FormatMultiplier(9))
	assert.Equal(t, "4.8", FormatMultiplier(5*0.8*1.2))
	assert.Equal(t, "7.5", FormatMultiplier(7.5))
	assert.Equal(t, "13.2", FormatMultiplier(11*1.2))
}

func TestRecommendIsDeterministic(t *testing.T) {
	engine := NewEngine()
	profile := ApplicantProfile{Age: 42, Income: 87654.32, Dependents: 3, RiskTolerance: RiskHigh}
	want := engine.Recommend(profile)

	var wg sync.WaitGroup
	results := make([]Recommendation, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = engine.Recommend(profile)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCoverageIsMonotonicInIncome(t *testing.T) {
	engine := NewEngine()
	for _, risk := range RiskTolerances {
		prev := int64(-1)
		for income := 0.0; income <= 500000; income += 12345.67 {
			rec := engine.Recommend(ApplicantProfile{Age: 40, Income: income, Dependents: 1, RiskTolerance: risk})
			require.GreaterOrEqual(t, rec.Coverage, prev, "risk %s income %v", risk, income)
			prev = rec.Coverage
		}
	}
}

func TestCoverageIsMonotonicInDependents(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		name   string
		age    int
		income float64
	}{
		{"young", 30, 60000},
		{"just under older threshold", 50, 85000},
		{"older", 55, 85000},
		{"just under senior threshold", 60, 120000},
		{"senior", 65, 120000},
		{"zero income", 40, 0},
		{"income near the int64 limit", 30, 1e18},
	}

	for _, tt := range tests {
		for _, risk := range RiskTolerances {
			t.Run(tt.name+"/"+string(risk), func(t *testing.T) {
				prev := engine.Recommend(ApplicantProfile{Age: tt.age, Income: tt.income, RiskTolerance: risk})
				require.GreaterOrEqual(t, prev.Coverage, int64(0))
				for dependents := 1; dependents <= 12; dependents++ {
					rec := engine.Recommend(ApplicantProfile{Age: tt.age, Income: tt.income, Dependents: dependents, RiskTolerance: risk})
					require.GreaterOrEqual(t, rec.Multiplier, prev.Multiplier, "dependents %d", dependents)
					require.GreaterOrEqual(t, rec.Coverage, prev.Coverage, "dependents %d", dependents)
					require.NotContains(t, rec.CoverageAmount, "-", "dependents %d", dependents)
					prev = rec
				}
			})
		}
	}
}

func TestRiskOrdering(t *testing.T) {
	engine := NewEngine()
	for _, age := range []int{25, 55, 65} {
		base := ApplicantProfile{Age: age, Income: 75000, Dependents: 2}

		base.RiskTolerance = RiskMedium
		medium := engine.Recommend(base)
		base.RiskTolerance = RiskLow
		low := engine.Recommend(base)
		base.RiskTolerance = RiskHigh
		high := engine.Recommend(base)

		assert.GreaterOrEqual(t, high.Coverage, low.Coverage, "age %d", age)
		assert.GreaterOrEqual(t, low.Coverage, medium.Coverage, "age %d", age)
		assert.Equal(t, 30, high.TermYears)
	}
}

func TestCustomFormatter(t *testing.T) {
	f, err := ParseCurrencyFormatter("de-DE", "€")
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("de-DE"), f.Tag())

	engine := NewEngine(WithFormatter(f))
	rec := engine.Recommend(ApplicantProfile{Age: 30, Income: 60000, Dependents: 2, RiskTolerance: RiskMedium})
	assert.Equal(t, "€540.000", rec.CoverageAmount)

	_, err = ParseCurrencyFormatter("not a locale!", "$")
	assert.Error(t, err)
}

func TestParseRiskTolerance(t *testing.T) {
	r, ok := ParseRiskTolerance(" HIGH ")
	assert.True(t, ok)
	assert.Equal(t, RiskHigh, r)

	_, ok = ParseRiskTolerance("reckless")
	assert.False(t, ok)
}
