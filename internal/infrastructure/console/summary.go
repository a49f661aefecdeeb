package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"CreativeAnalytics/internal/domain"
)

// SummaryRenderer prints the author ranking and run diagnostics as terminal tables.
type SummaryRenderer struct {
	out       io.Writer
	undefined string
}

// NewSummaryRenderer writes to out; undefined ratios render as undefined.
func NewSummaryRenderer(out io.Writer, undefined string) *SummaryRenderer {
	if undefined == "" {
		undefined = "-"
	}
	return &SummaryRenderer{out: out, undefined: undefined}
}

// RenderAuthors prints one line per author in rank order.
func (r *SummaryRenderer) RenderAuthors(summaries []domain.AuthorSummary) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "Author", "Creatives", "Campaigns", "Spend", "Revenue", "Profit", "Avg ROI", "Success"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range summaries {
		avgROI := r.undefined
		if s.AvgROI.Valid {
			avgROI = fmt.Sprintf("%.2f", s.AvgROI.Float64)
		}
		table.Append([]string{
			strconv.Itoa(s.Rank),
			s.Author,
			strconv.Itoa(s.Creatives),
			strconv.Itoa(s.Campaigns),
			fmt.Sprintf("%.2f", s.TotalSpend),
			fmt.Sprintf("%.2f", s.TotalRevenue),
			fmt.Sprintf("%.2f", s.TotalProfit),
			avgROI,
			fmt.Sprintf("%.1f%%", s.SuccessRate*100),
		})
	}

	table.Render()
}

// RenderDiagnostics prints per-source and per-join data-quality counters.
func (r *SummaryRenderer) RenderDiagnostics(diag domain.Diagnostics) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Check", "Count"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, source := range domain.SortedKeys(diag.Sources) {
		stats := diag.Sources[source]
		table.Append([]string{source + " records", strconv.Itoa(stats.Total)})
		table.Append([]string{source + " dropped", strconv.Itoa(stats.Dropped)})
	}
	for _, name := range domain.SortedKeys(diag.Collisions) {
		table.Append([]string{name + " collisions", strconv.Itoa(diag.Collisions[name])})
	}
	table.Append([]string{"orphaned rows", strconv.Itoa(diag.Orphaned)})
	table.Append([]string{"partial identities", strconv.Itoa(diag.Partial)})
	table.Append([]string{"fact rows", strconv.Itoa(diag.FactRows)})
	table.Append([]string{"authors", strconv.Itoa(diag.Authors)})

	table.Render()
}
