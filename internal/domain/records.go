package domain

import "time"

// SpendRecord is a normalized ad-spend row (Facebook Ads export).
type SpendRecord struct {
	Line         int
	Date         time.Time
	CampaignID   string
	CampaignName string
	Spend        float64
	Clicks       int64
	Impressions  int64
}

// MappingRecord links a campaign to the adset that carries its revenue.
type MappingRecord struct {
	Line       int
	CampaignID string
	AdsetID    string
	AdsetName  string
}

// RevenueRecord is a normalized ad-revenue row (Google Ad Manager export).
type RevenueRecord struct {
	Line          int
	Date          time.Time
	AdsetID       string
	BannerRevenue float64
	VideoRevenue  float64
}

// BacklogRecord describes a creative from the production backlog.
type BacklogRecord struct {
	Line        int
	ArticleID   string
	Author      string
	Media       string
	Version     string
	Type        string
	Headline    string
	CreatedDate time.Time
}
