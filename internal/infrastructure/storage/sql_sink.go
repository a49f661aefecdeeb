package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"go.uber.org/multierr"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/ports"
)

const defaultBatchSize = 500

// SQLSink replaces output tables inside a single transaction.
type SQLSink struct {
	db        *sql.DB
	driver    string
	builder   sq.StatementBuilderType
	batchSize int
	logger    *slog.Logger
}

var _ ports.Sink = (*SQLSink)(nil)

// NewSQLSink wires a sql.DB implementation for the given driver.
func NewSQLSink(db *sql.DB, driver string, batchSize int, logger *slog.Logger) *SQLSink {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	if driver == DriverSQLite {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}

	return &SQLSink{
		db:        db,
		driver:    driver,
		builder:   builder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ReplaceTables deletes and reinserts every table. Either all tables are committed or none.
func (s *SQLSink) ReplaceTables(ctx context.Context, tables ...domain.Table) (err error) {
	if s.db == nil {
		return errors.New("sql sink: db is not configured")
	}
	if len(tables) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if s.driver == DriverPostgres {
		if err = s.lock(ctx, tx, tables); err != nil {
			return err
		}
	}

	for _, table := range tables {
		if err = s.replace(ctx, tx, table); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLSink) lock(ctx context.Context, tx *sql.Tx, tables []domain.Table) error {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = pq.QuoteIdentifier(t.Name)
	}
	stmt := fmt.Sprintf("LOCK TABLE %s IN ACCESS EXCLUSIVE MODE", strings.Join(names, ", "))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("lock tables: %w", err)
	}
	return nil
}

func (s *SQLSink) replace(ctx context.Context, tx *sql.Tx, table domain.Table) error {
	name := pq.QuoteIdentifier(table.Name)

	query, args, err := s.builder.Delete(name).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", table.Name, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table.Name, err)
	}

	columns := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = pq.QuoteIdentifier(c.Name)
	}

	for start := 0; start < len(table.Rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}

		insert := s.builder.Insert(name).Columns(columns...)
		for _, row := range table.Rows[start:end] {
			insert = insert.Values(s.cells(table.Columns, row)...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table.Name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s rows %d-%d: %w", table.Name, start, end, err)
		}
	}

	s.info("table replaced", "table", table.Name, "rows", len(table.Rows))
	return nil
}

// cells adapts values to the driver; SQLite has no date type so dates are stored as ISO text.
func (s *SQLSink) cells(columns []domain.Column, row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if t, ok := v.(time.Time); ok && s.driver == DriverSQLite && columns[i].Kind == domain.KindDate {
			out[i] = t.Format("2006-01-02")
			continue
		}
		out[i] = v
	}
	return out
}

func (s *SQLSink) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
