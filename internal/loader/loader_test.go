package loader

import (
	"context"
	"errors"
	"testing"

	"CreativeAnalytics/internal/domain"
)

type stubLoader struct{ name string }

func (s stubLoader) Name() string { return s.name }

func (s stubLoader) Load(context.Context, Request) (domain.RawTable, error) {
	return domain.RawTable{Source: s.name}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubLoader{name: "csv"})

	l, err := reg.Resolve("csv")
	if err != nil {
		t.Fatalf("resolve csv: %v", err)
	}
	if l.Name() != "csv" {
		t.Fatalf("unexpected loader %s", l.Name())
	}

	if _, err := reg.Resolve("parquet"); !errors.Is(err, domain.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestBuildTablePadsAndSkips(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"", ""},
		{"Date", "Spend", "Clicks"},
		{"2024-01-01", "10"},
		{" ", "", ""},
		{"2024-01-02", "5", "3"},
	}
	header, body, line := SplitHeader(rows)
	if line != 2 {
		t.Fatalf("expected header on line 2, got %d", line)
	}

	table := BuildTable("spend", header, body, line)
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	if got := table.Records[0].Fields["Clicks"]; got != "" {
		t.Fatalf("expected padded empty clicks, got %q", got)
	}
	if table.Records[0].Line != 3 || table.Records[1].Line != 5 {
		t.Fatalf("unexpected line numbers %d, %d", table.Records[0].Line, table.Records[1].Line)
	}
}

func TestBuildTableKeepsFirstDuplicateColumn(t *testing.T) {
	t.Parallel()

	header := []string{"Date", "Spend", "Spend"}
	body := [][]string{
		{"2024-01-01", "10", "999"},
		{"2024-01-02", "5"},
	}

	table := BuildTable("spend", header, body, 1)
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	if got := table.Records[0].Fields["Spend"]; got != "10" {
		t.Fatalf("expected first spend column, got %q", got)
	}
	if got := table.Records[1].Fields["Spend"]; got != "5" {
		t.Fatalf("expected first spend column on short row, got %q", got)
	}
}
