package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CreativeAnalytics/internal/domain"
)

func readCSV(t *testing.T, path string, comma rune) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVExporterWritesTables(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "outputs")
	facts := domain.FactTable([]domain.UnifiedFact{{
		Date:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		CampaignID:    "c1",
		CampaignName:  "101 banner v1 android (Ann; QA) video",
		Identity:      domain.CreativeIdentity{ArticleID: "101", Author: "Ann", Media: "video", Version: "v1", Type: "banner"},
		Headline:      "First",
		Spend:         0,
		Clicks:        0,
		BannerRevenue: 10.5,
		TotalRevenue:  10.5,
		Profit:        10.5,
		IsProfitable:  true,
	}})
	summary := domain.SummaryTable([]domain.AuthorSummary{{Rank: 1, Author: "Ann", Rows: 3, SuccessRate: 2.0 / 3.0}})

	exporter := NewCSVExporter(dir, ';', "NA", nil)
	require.NoError(t, exporter.Export(context.Background(), facts, summary))

	rows := readCSV(t, filepath.Join(dir, domain.FactTableName+".csv"), ';')
	require.Len(t, rows, 2)
	assert.Equal(t, facts.ColumnNames(), rows[0])

	got := map[string]string{}
	for i, name := range rows[0] {
		got[name] = rows[1][i]
	}
	assert.Equal(t, "2024-05-01", got["date"])
	assert.Equal(t, "101 banner v1 android (Ann; QA) video", got["campaign_name"])
	assert.Equal(t, "NA", got["created_date"])
	assert.Equal(t, "10.5", got["total_revenue"])
	assert.Equal(t, "0", got["clicks"])
	assert.Equal(t, "NA", got["roi"])
	assert.Equal(t, "NA", got["cpc"])
	assert.Equal(t, "true", got["is_profitable"])

	summaryRows := readCSV(t, filepath.Join(dir, domain.SummaryTableName+".csv"), ';')
	require.Len(t, summaryRows, 2)
	assert.Equal(t, "0.6666666666666666", summaryRows[1][len(summaryRows[1])-1])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestCSVExporterOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewCSVExporter(dir, 0, "", nil)

	first := domain.SummaryTable([]domain.AuthorSummary{{Rank: 1, Author: "a"}, {Rank: 2, Author: "b"}})
	second := domain.SummaryTable([]domain.AuthorSummary{{Rank: 1, Author: "c"}})

	require.NoError(t, exporter.Export(context.Background(), first))
	require.NoError(t, exporter.Export(context.Background(), second))

	rows := readCSV(t, filepath.Join(dir, domain.SummaryTableName+".csv"), ',')
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[1][1])
	assert.Equal(t, "", rows[1][8], "undefined avg_roi uses the empty sentinel")
}

func TestCSVExporterHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCSVExporter(t.TempDir(), ',', "", nil).Export(ctx, domain.SummaryTable(nil))
	require.ErrorIs(t, err, context.Canceled)
}
