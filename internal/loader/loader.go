package loader

import (
	"context"
	"fmt"

	"CreativeAnalytics/internal/domain"
)

// Request carries all parameters required to read one source.
type Request struct {
	Source    string
	Path      string
	Sheet     string
	Delimiter rune
	Selector  string
}

// Loader captures a single file-format strategy (xlsx, csv, html).
type Loader interface {
	Name() string
	Load(ctx context.Context, req Request) (domain.RawTable, error)
}

// Registry keeps a mapping from format names to their implementations.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: map[string]Loader{}}
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(l Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[l.Name()] = l
}

// Resolve returns a loader by format or ErrUnknownFormat if it is absent.
func (r *Registry) Resolve(format string) (Loader, error) {
	if l, ok := r.loaders[format]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFormat, format)
}

// BuildTable turns a header row plus data rows into a RawTable. Short rows are padded,
// empty rows skipped, and line numbers are 1-based relative to the header line.
// A repeated header name keeps the value of its first column.
func BuildTable(source string, header []string, rows [][]string, headerLine int) domain.RawTable {
	table := domain.RawTable{Source: source, Header: header}
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" {
				continue
			}
			if _, dup := fields[name]; dup {
				continue
			}
			if col < len(row) {
				fields[name] = row[col]
			} else {
				fields[name] = ""
			}
		}
		table.Records = append(table.Records, domain.RawRecord{
			Line:   headerLine + i + 1,
			Fields: fields,
		})
	}
	return table
}

// SplitHeader finds the first non-empty row and returns it with the remaining rows.
func SplitHeader(rows [][]string) (header []string, body [][]string, headerLine int) {
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		return row, rows[i+1:], i + 1
	}
	return nil, nil, 0
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		for _, r := range cell {
			if r != ' ' && r != '\t' {
				return false
			}
		}
	}
	return true
}
