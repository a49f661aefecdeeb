package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/loader"
)

const utf8BOM = "\ufeff"

// CSVLoader reads a delimited text export.
type CSVLoader struct{}

var _ loader.Loader = (*CSVLoader)(nil)

// NewCSVLoader builds the delimited-text strategy.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Name identifies the strategy inside the registry.
func (c *CSVLoader) Name() string {
	return "csv"
}

// Load parses the whole file into memory.
func (c *CSVLoader) Load(ctx context.Context, req loader.Request) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", req.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if req.Delimiter != 0 {
		reader.Comma = req.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", req.Path, err)
	}

	header, body, line := loader.SplitHeader(rows)
	if header == nil {
		return domain.RawTable{}, fmt.Errorf("%s has no header row", req.Path)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	return loader.BuildTable(req.Source, header, body, line), nil
}
