package domain

import "time"

// Unknown marks an identity or attribute field that could not be resolved.
const Unknown = "unknown"

// Other marks a media or creative type outside the recognized vocabulary.
const Other = "other"

// CreativeIdentity is the structured form of a composite campaign or creative name.
type CreativeIdentity struct {
	ArticleID string
	Author    string
	Media     string
	Version   string
	Type      string
	// Partial is set when at least one field fell back to a sentinel.
	Partial bool
}

// HasArticle reports whether the identity can be attributed to a creative.
func (c CreativeIdentity) HasArticle() bool {
	return c.ArticleID != ""
}

// NullFloat is a float metric that may be undefined (zero denominator).
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Defined wraps a computed value.
func Defined(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// UnifiedFact is one row per creative and date after all joins.
type UnifiedFact struct {
	Date         time.Time
	CampaignID   string
	CampaignName string
	AdsetID      string
	AdsetName    string
	Identity     CreativeIdentity
	Headline     string
	CreatedDate  time.Time

	Spend         float64
	Clicks        int64
	Impressions   int64
	BannerRevenue float64
	VideoRevenue  float64

	TotalRevenue float64
	Profit       float64
	ROI          NullFloat
	CPC          NullFloat
	IsProfitable bool
}

// AuthorSummary aggregates fact rows for one author.
type AuthorSummary struct {
	Rank         int
	Author       string
	Rows         int
	Creatives    int
	Campaigns    int
	TotalSpend   float64
	TotalRevenue float64
	TotalProfit  float64
	AvgROI       NullFloat
	Profitable   int
	SuccessRate  float64
}
