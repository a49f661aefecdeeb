package domain

import "time"

// Output table names.
const (
	FactTableName    = "fact_creative_performance"
	SummaryTableName = "author_performance_summary"
)

// ColumnKind tells sinks and exporters how to render a cell.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindFloat
	KindBool
	KindDate
)

// Column is a named, typed output column.
type Column struct {
	Name string
	Kind ColumnKind
}

// Table is a fully materialized output table. Cells hold string, int64, float64,
// bool, time.Time or nil for undefined values.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames lists column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

var factColumns = []Column{
	{"date", KindDate},
	{"campaign_id", KindText},
	{"campaign_name", KindText},
	{"adset_id", KindText},
	{"adset_name", KindText},
	{"articleid", KindText},
	{"author", KindText},
	{"media", KindText},
	{"version", KindText},
	{"type", KindText},
	{"headline", KindText},
	{"created_date", KindDate},
	{"spend", KindFloat},
	{"clicks", KindInteger},
	{"impressions", KindInteger},
	{"banner_revenue", KindFloat},
	{"video_revenue", KindFloat},
	{"total_revenue", KindFloat},
	{"profit", KindFloat},
	{"roi", KindFloat},
	{"cpc", KindFloat},
	{"is_profitable", KindBool},
}

var summaryColumns = []Column{
	{"rank", KindInteger},
	{"author", KindText},
	{"rows", KindInteger},
	{"creatives", KindInteger},
	{"campaigns", KindInteger},
	{"total_spend", KindFloat},
	{"total_revenue", KindFloat},
	{"total_profit", KindFloat},
	{"avg_roi", KindFloat},
	{"profitable", KindInteger},
	{"success_rate", KindFloat},
}

// FactTable converts unified facts into the fact_creative_performance table.
func FactTable(facts []UnifiedFact) Table {
	rows := make([][]any, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []any{
			f.Date,
			f.CampaignID,
			f.CampaignName,
			f.AdsetID,
			f.AdsetName,
			f.Identity.ArticleID,
			f.Identity.Author,
			f.Identity.Media,
			f.Identity.Version,
			f.Identity.Type,
			f.Headline,
			optionalDate(f.CreatedDate),
			f.Spend,
			f.Clicks,
			f.Impressions,
			f.BannerRevenue,
			f.VideoRevenue,
			f.TotalRevenue,
			f.Profit,
			optionalFloat(f.ROI),
			optionalFloat(f.CPC),
			f.IsProfitable,
		})
	}
	return Table{Name: FactTableName, Columns: factColumns, Rows: rows}
}

// SummaryTable converts author summaries into the author_performance_summary table.
func SummaryTable(summaries []AuthorSummary) Table {
	rows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []any{
			int64(s.Rank),
			s.Author,
			int64(s.Rows),
			int64(s.Creatives),
			int64(s.Campaigns),
			s.TotalSpend,
			s.TotalRevenue,
			s.TotalProfit,
			optionalFloat(s.AvgROI),
			int64(s.Profitable),
			s.SuccessRate,
		})
	}
	return Table{Name: SummaryTableName, Columns: summaryColumns, Rows: rows}
}

func optionalDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func optionalFloat(v NullFloat) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
