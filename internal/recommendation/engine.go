// Package recommendation turns an applicant profile into a life insurance
// product, coverage amount and term, and records each submission.
package recommendation

import (
	"strconv"
	"strings"
)

// Engine is pure: no I/O and no state beyond its formatter, so one instance
// is shared across requests.
type Engine struct {
	formatter CurrencyFormatter
}

type EngineOption func(*Engine)

// WithFormatter sets the locale and symbol used for amounts.
func WithFormatter(f CurrencyFormatter) EngineOption {
	return func(e *Engine) {
		e.formatter = f
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{formatter: DefaultFormatter()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend never fails. Negative or zero income yields a matching coverage.
func (e *Engine) Recommend(p ApplicantProfile) Recommendation {
	t := applyRules(p)

	coverage := roundHalfUp(p.Income * t.multiplier)
	amount := e.formatter.Format(coverage)

	return Recommendation{
		ProductType:    t.product,
		Multiplier:     t.multiplier,
		Coverage:       coverage,
		CoverageAmount: amount,
		TermYears:      t.termYears,
		TermLength:     strconv.Itoa(t.termYears) + " years",
		Explanation:    e.explain(p, t, amount),
	}
}

func (e *Engine) explain(p ApplicantProfile, t terms, amount string) string {
	var b strings.Builder
	b.WriteString("Based on your profile (age ")
	b.WriteString(strconv.Itoa(p.Age))
	b.WriteString(", income ")
	b.WriteString(e.formatter.GroupDecimal(p.Income))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(p.Dependents))
	b.WriteString(" dependents, ")
	b.WriteString(string(p.RiskTolerance))
	b.WriteString(" risk tolerance), ")

	if t.product == ProductTermLife {
		b.WriteString("we recommend Term Life Insurance for its affordability and flexibility. ")
	} else {
		b.WriteString("we recommend Whole Life Insurance for its guaranteed coverage and cash value component. ")
	}

	b.WriteString("The coverage amount of ")
	b.WriteString(amount)
	b.WriteString(" provides ")
	b.WriteString(FormatMultiplier(t.multiplier))
	b.WriteString("x your annual income, ")
	b.WriteString("which should adequately protect your dependents and cover expenses. ")
	b.WriteString("The ")
	b.WriteString(strconv.Itoa(t.termYears))
	b.WriteString("-year term aligns with your expected financial obligations period.")
	return b.String()
}

// FormatMultiplier renders the shortest decimal that round-trips: 9, 4.8, 7.5.
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
