// Package aggregate rolls unified facts up into the per-author ranking.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"CreativeAnalytics/internal/domain"
)

type group struct {
	author     string
	rows       int
	profitable int
	creatives  map[string]struct{}
	campaigns  map[string]struct{}
	spend      decimal.Decimal
	revenue    decimal.Decimal
	profit     decimal.Decimal
	roiSum     decimal.Decimal
	roiCount   int
}

// ByAuthor groups facts by author and ranks the groups by total profit descending,
// then author ascending. Authors without rows never appear.
func ByAuthor(facts []domain.UnifiedFact) []domain.AuthorSummary {
	groups := map[string]*group{}
	for _, f := range facts {
		author := f.Identity.Author
		if author == "" {
			author = domain.Unknown
		}

		g, ok := groups[author]
		if !ok {
			g = &group{
				author:    author,
				creatives: map[string]struct{}{},
				campaigns: map[string]struct{}{},
			}
			groups[author] = g
		}

		g.rows++
		if f.IsProfitable {
			g.profitable++
		}
		g.creatives[f.Identity.ArticleID] = struct{}{}
		if f.CampaignID != "" {
			g.campaigns[f.CampaignID] = struct{}{}
		}
		g.spend = g.spend.Add(decimal.NewFromFloat(f.Spend))
		g.revenue = g.revenue.Add(decimal.NewFromFloat(f.TotalRevenue))
		g.profit = g.profit.Add(decimal.NewFromFloat(f.Profit))
		if f.ROI.Valid {
			g.roiSum = g.roiSum.Add(decimal.NewFromFloat(f.ROI.Float64))
			g.roiCount++
		}
	}

	out := make([]domain.AuthorSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.summary())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalProfit != out[j].TotalProfit {
			return out[i].TotalProfit > out[j].TotalProfit
		}
		return out[i].Author < out[j].Author
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}

func (g *group) summary() domain.AuthorSummary {
	s := domain.AuthorSummary{
		Author:       g.author,
		Rows:         g.rows,
		Creatives:    len(g.creatives),
		Campaigns:    len(g.campaigns),
		TotalSpend:   g.spend.InexactFloat64(),
		TotalRevenue: g.revenue.InexactFloat64(),
		TotalProfit:  g.profit.InexactFloat64(),
		Profitable:   g.profitable,
		SuccessRate:  float64(g.profitable) / float64(g.rows),
	}
	if g.roiCount > 0 {
		s.AvgROI = domain.Defined(g.roiSum.Div(decimal.NewFromInt(int64(g.roiCount))).InexactFloat64())
	}
	return s
}

// Top returns at most n leading summaries.
func Top(summaries []domain.AuthorSummary, n int) []domain.AuthorSummary {
	if n <= 0 || n >= len(summaries) {
		return summaries
	}
	return summaries[:n]
}
