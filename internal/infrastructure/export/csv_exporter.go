package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/multierr"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/ports"
)

// CSVExporter writes each table to <dir>/<name>.csv.
type CSVExporter struct {
	dir       string
	delimiter rune
	undefined string
	logger    *slog.Logger
}

var _ ports.Exporter = (*CSVExporter)(nil)

// NewCSVExporter builds an exporter; undefined cells render as the undefined sentinel.
func NewCSVExporter(dir string, delimiter rune, undefined string, logger *slog.Logger) *CSVExporter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVExporter{dir: dir, delimiter: delimiter, undefined: undefined, logger: logger}
}

// Export writes every table; a file only appears once it is fully written.
func (e *CSVExporter) Export(ctx context.Context, tables ...domain.Table) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(e.dir, table.Name+".csv")
		if err := e.writeFile(path, table); err != nil {
			return fmt.Errorf("export %s: %w", table.Name, err)
		}
		if e.logger != nil {
			e.logger.Info("table exported", "table", table.Name, "path", path, "rows", len(table.Rows))
		}
	}
	return nil
}

func (e *CSVExporter) writeFile(path string, table domain.Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+table.Name+"-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	w.Comma = e.delimiter

	err = e.write(w, table)
	err = multierr.Append(err, tmp.Close())
	if err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (e *CSVExporter) write(w *csv.Writer, table domain.Table) error {
	if err := w.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for j := range table.Columns {
			var v any
			if j < len(row) {
				v = row[j]
			}
			record[j] = e.format(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	return w.Error()
}

func (e *CSVExporter) format(v any) string {
	switch val := v.(type) {
	case nil:
		return e.undefined
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}
