package normalize

import (
	"errors"
	"testing"
	"time"

	"CreativeAnalytics/internal/domain"
)

func rawTable(source string, header []string, rows ...[]string) domain.RawTable {
	table := domain.RawTable{Source: source, Header: header}
	for i, row := range rows {
		fields := map[string]string{}
		for c, h := range header {
			fields[h] = row[c]
		}
		table.Records = append(table.Records, domain.RawRecord{Line: i + 2, Fields: fields})
	}
	return table
}

func testNormalizer(maxInvalid float64) *Normalizer {
	return New(Options{
		MaxInvalidFraction: maxInvalid,
		DateFormats:        []string{"2006-01-02"},
	}, nil)
}

func TestNormalizeMapsAliasesAndTypes(t *testing.T) {
	t.Parallel()

	raw := rawTable(domain.SourceSpend,
		[]string{"Date", "Campaign ID", "Campaign Name", "Amount Spent", "Clicks"},
		[]string{"2024-03-01", "123.0", "1 banner v1 android (Ann) video", "$1,000.25", ""},
	)

	records, stats, err := testNormalizer(0).Normalize(raw, SpendSchema, map[string][]string{
		FieldSpend: {"amount_spent"},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stats.Total != 1 || stats.Dropped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rows := SpendRecords(records)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.CampaignID != "123" {
		t.Fatalf("campaign id not canonical: %q", got.CampaignID)
	}
	if got.Spend != 1000.25 {
		t.Fatalf("unexpected spend %v", got.Spend)
	}
	if got.Clicks != 0 {
		t.Fatalf("blank clicks must be zero, got %d", got.Clicks)
	}
	if !got.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got.Date)
	}
}

func TestNormalizeDropsInvalidRecords(t *testing.T) {
	t.Parallel()

	raw := rawTable(domain.SourceRevenue,
		[]string{"date", "adset_id", "banner_revenue", "video_revenue"},
		[]string{"2024-03-01", "a1", "10", "5"},
		[]string{"not a date", "a1", "10", "5"},
		[]string{"2024-03-02", "", "1", "1"},
		[]string{"2024-03-03", "a2", "-4", "1"},
		[]string{"2024-03-04", "a3", "", ""},
	)

	records, stats, err := testNormalizer(0.75).Normalize(raw, RevenueSchema, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if stats.Total != 5 || stats.Dropped != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rows := RevenueRecords(records)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].BannerRevenue != 0 || rows[1].VideoRevenue != 0 {
		t.Fatalf("blank revenue must default to zero, got %+v", rows[1])
	}
}

func TestNormalizeFailsOverThreshold(t *testing.T) {
	t.Parallel()

	raw := rawTable(domain.SourceMapping,
		[]string{"campaign_id", "adset_id"},
		[]string{"c1", "a1"},
		[]string{"c2", ""},
	)

	_, stats, err := testNormalizer(0.25).Normalize(raw, MappingSchema, nil)
	if !errors.Is(err, domain.ErrTooManyInvalid) {
		t.Fatalf("expected ErrTooManyInvalid, got %v", err)
	}
	var srcErr *domain.SourceError
	if !errors.As(err, &srcErr) || srcErr.Source != domain.SourceMapping {
		t.Fatalf("expected mapping SourceError, got %v", err)
	}
	if stats.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", stats.Dropped)
	}
}

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	t.Parallel()

	raw := rawTable(domain.SourceBacklog, []string{"author"}, []string{"ann"})

	if _, _, err := testNormalizer(1).Normalize(raw, BacklogSchema, nil); err == nil {
		t.Fatal("expected error for missing articleid column")
	}
}

func TestCanonicalID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" 42 ":   "42",
		"42.0":   "42",
		"ab.0":   "ab.0",
		"4.20":   "4.20",
		"":       "",
		"cmp-01": "cmp-01",
	}
	for in, want := range cases {
		if got := CanonicalID(in); got != want {
			t.Fatalf("CanonicalID(%q) = %q, want %q", in, got, want)
		}
	}
}
