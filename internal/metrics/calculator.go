// Package metrics derives the per-row business metrics of a unified fact.
package metrics

import (
	"github.com/shopspring/decimal"

	"CreativeAnalytics/internal/domain"
)

// Compute fills total revenue, profit, ROI, CPC and the profitability flag.
// ROI is undefined when spend is zero and CPC is undefined when there are no clicks.
func Compute(fact domain.UnifiedFact) domain.UnifiedFact {
	spend := decimal.NewFromFloat(fact.Spend)
	total := decimal.NewFromFloat(fact.BannerRevenue).Add(decimal.NewFromFloat(fact.VideoRevenue))

	fact.TotalRevenue = total.InexactFloat64()
	fact.Profit = total.Sub(spend).InexactFloat64()
	fact.IsProfitable = total.GreaterThan(spend)

	fact.ROI = domain.NullFloat{}
	if !spend.IsZero() {
		fact.ROI = domain.Defined(total.Div(spend).InexactFloat64())
	}

	fact.CPC = domain.NullFloat{}
	if fact.Clicks > 0 {
		fact.CPC = domain.Defined(spend.Div(decimal.NewFromInt(fact.Clicks)).InexactFloat64())
	}

	return fact
}

// ComputeAll applies Compute to every fact in place and returns the slice.
func ComputeAll(facts []domain.UnifiedFact) []domain.UnifiedFact {
	for i := range facts {
		facts[i] = Compute(facts[i])
	}
	return facts
}
