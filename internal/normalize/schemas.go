package normalize

import "CreativeAnalytics/internal/domain"

// Canonical field names shared by schemas and configuration aliases.
const (
	FieldDate          = "date"
	FieldCampaignID    = "campaign_id"
	FieldCampaignName  = "campaign_name"
	FieldSpend         = "spend"
	FieldClicks        = "clicks"
	FieldImpressions   = "impressions"
	FieldAdsetID       = "adset_id"
	FieldAdsetName     = "adset_name"
	FieldBannerRevenue = "banner_revenue"
	FieldVideoRevenue  = "video_revenue"
	FieldArticleID     = "articleid"
	FieldAuthor        = "author"
	FieldMedia         = "media"
	FieldVersion       = "version"
	FieldType          = "type"
	FieldHeadline      = "headline"
	FieldCreatedDate   = "created_date"
)

// SpendSchema describes the ad-spend export.
var SpendSchema = Schema{
	Source: domain.SourceSpend,
	Fields: []Field{
		{Name: FieldDate, Kind: KindDate, Required: true},
		{Name: FieldCampaignID, Kind: KindIdentifier, Required: true},
		{Name: FieldCampaignName, Kind: KindText},
		{Name: FieldSpend, Kind: KindAmount},
		{Name: FieldClicks, Kind: KindCount},
		{Name: FieldImpressions, Kind: KindCount},
	},
}

// MappingSchema describes the campaign-to-adset mapping sheet.
var MappingSchema = Schema{
	Source: domain.SourceMapping,
	Fields: []Field{
		{Name: FieldCampaignID, Kind: KindIdentifier, Required: true},
		{Name: FieldAdsetID, Kind: KindIdentifier, Required: true},
		{Name: FieldAdsetName, Kind: KindText},
	},
}

// RevenueSchema describes the ad-revenue export.
var RevenueSchema = Schema{
	Source: domain.SourceRevenue,
	Fields: []Field{
		{Name: FieldDate, Kind: KindDate, Required: true},
		{Name: FieldAdsetID, Kind: KindIdentifier, Required: true},
		{Name: FieldBannerRevenue, Kind: KindAmount},
		{Name: FieldVideoRevenue, Kind: KindAmount},
	},
}

// BacklogSchema describes the creative backlog.
var BacklogSchema = Schema{
	Source: domain.SourceBacklog,
	Fields: []Field{
		{Name: FieldArticleID, Kind: KindIdentifier, Required: true},
		{Name: FieldAuthor, Kind: KindText},
		{Name: FieldMedia, Kind: KindText},
		{Name: FieldVersion, Kind: KindText},
		{Name: FieldType, Kind: KindText},
		{Name: FieldHeadline, Kind: KindText},
		{Name: FieldCreatedDate, Kind: KindDate},
	},
}

// SpendRecords converts normalized records into spend rows.
func SpendRecords(records []Record) []domain.SpendRecord {
	out := make([]domain.SpendRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.SpendRecord{
			Line:         r.Line,
			Date:         r.Date(FieldDate),
			CampaignID:   r.Text(FieldCampaignID),
			CampaignName: r.Text(FieldCampaignName),
			Spend:        r.Amount(FieldSpend),
			Clicks:       r.Count(FieldClicks),
			Impressions:  r.Count(FieldImpressions),
		})
	}
	return out
}

// MappingRecords converts normalized records into mapping rows.
func MappingRecords(records []Record) []domain.MappingRecord {
	out := make([]domain.MappingRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.MappingRecord{
			Line:       r.Line,
			CampaignID: r.Text(FieldCampaignID),
			AdsetID:    r.Text(FieldAdsetID),
			AdsetName:  r.Text(FieldAdsetName),
		})
	}
	return out
}

// RevenueRecords converts normalized records into revenue rows.
func RevenueRecords(records []Record) []domain.RevenueRecord {
	out := make([]domain.RevenueRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.RevenueRecord{
			Line:          r.Line,
			Date:          r.Date(FieldDate),
			AdsetID:       r.Text(FieldAdsetID),
			BannerRevenue: r.Amount(FieldBannerRevenue),
			VideoRevenue:  r.Amount(FieldVideoRevenue),
		})
	}
	return out
}

// BacklogRecords converts normalized records into backlog rows.
func BacklogRecords(records []Record) []domain.BacklogRecord {
	out := make([]domain.BacklogRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.BacklogRecord{
			Line:        r.Line,
			ArticleID:   r.Text(FieldArticleID),
			Author:      r.Text(FieldAuthor),
			Media:       r.Text(FieldMedia),
			Version:     r.Text(FieldVersion),
			Type:        r.Text(FieldType),
			Headline:    r.Text(FieldHeadline),
			CreatedDate: r.Date(FieldCreatedDate),
		})
	}
	return out
}
