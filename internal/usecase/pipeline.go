package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"CreativeAnalytics/internal/aggregate"
	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/identity"
	"CreativeAnalytics/internal/join"
	"CreativeAnalytics/internal/metrics"
	"CreativeAnalytics/internal/normalize"
	"CreativeAnalytics/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline. Aliases are
// keyed by source name, then canonical field. NewRunID defaults to uuid v4.
type PipelineDeps struct {
	Source     ports.SourceLoader
	Normalizer *normalize.Normalizer
	Aliases    map[string]map[string][]string
	Parser     *identity.Parser
	Engine     *join.Engine
	Sink       ports.Sink
	Exporter   ports.Exporter
	Reporter   ports.DiagnosticsReporter
	Notifier   ports.Notifier
	TopAuthors int
	Logger     *slog.Logger
	NewRunID   func() string
}

// Result is the outcome of one successful run.
type Result struct {
	RunID       string
	Facts       []domain.UnifiedFact
	Authors     []domain.AuthorSummary
	Diagnostics domain.Diagnostics
}

// Pipeline implements the creative performance batch: load, normalize, parse, join,
// compute, aggregate, then persist and export.
type Pipeline struct {
	source     ports.SourceLoader
	normalizer *normalize.Normalizer
	aliases    map[string]map[string][]string
	parser     *identity.Parser
	engine     *join.Engine
	sink       ports.Sink
	exporter   ports.Exporter
	reporter   ports.DiagnosticsReporter
	notifier   ports.Notifier
	topAuthors int
	logger     *slog.Logger
	newRunID   func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		normalizer: deps.Normalizer,
		aliases:    deps.Aliases,
		parser:     deps.Parser,
		engine:     deps.Engine,
		sink:       deps.Sink,
		exporter:   deps.Exporter,
		reporter:   deps.Reporter,
		notifier:   deps.Notifier,
		topAuthors: deps.TopAuthors,
		logger:     deps.Logger,
		newRunID:   deps.NewRunID,
	}
	if p.normalizer == nil {
		p.normalizer = normalize.New(normalize.Options{MaxInvalidFraction: 1}, deps.Logger)
	}
	if p.parser == nil {
		p.parser = identity.NewParser(identity.Vocabulary{})
	}
	if p.engine == nil {
		p.engine = join.NewEngine(deps.Logger)
	}
	if p.newRunID == nil {
		p.newRunID = func() string { return uuid.NewString() }
	}
	return p
}

type normalized struct {
	spend   []domain.SpendRecord
	mapping []domain.MappingRecord
	revenue []domain.RevenueRecord
	backlog []domain.BacklogRecord
}

// Run executes one full recomputation. Source failures abort before anything is written;
// a sink failure aborts before export.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if p.source == nil {
		return Result{}, errors.New("pipeline: source loader is not configured")
	}

	runID := p.newRunID()
	log := p.logger
	if log != nil {
		log = log.With("run_id", runID)
	}
	diag := domain.NewDiagnostics(runID)

	snapshot, err := p.source.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load sources: %w", err)
	}

	data, err := p.normalize(snapshot, &diag, log)
	if err != nil {
		return Result{}, fmt.Errorf("normalize: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	rows := make([]join.SpendRow, 0, len(data.spend))
	for _, s := range data.spend {
		rows = append(rows, join.SpendRow{SpendRecord: s, Identity: p.parser.Parse(s.CampaignName)})
	}
	backlog := make([]domain.BacklogRecord, 0, len(data.backlog))
	for _, b := range data.backlog {
		backlog = append(backlog, p.parser.Attributes(b))
	}

	joined := p.engine.Join(join.Input{
		Spend:   rows,
		Mapping: data.mapping,
		Revenue: data.revenue,
		Backlog: backlog,
	})
	diag.Orphaned = joined.Orphaned
	for name, n := range joined.Collisions {
		diag.Collisions[name] = n
	}
	logInfo(log, "joins complete", "facts", len(joined.Facts), "orphaned", joined.Orphaned, "collisions", diag.TotalCollisions())

	facts := metrics.ComputeAll(joined.Facts)
	authors := aggregate.ByAuthor(facts)
	diag.FactRows = len(facts)
	diag.Authors = len(authors)
	diag.Partial = domain.CountPartial(facts)
	logInfo(log, "aggregation complete", "fact_rows", diag.FactRows, "authors", diag.Authors, "partial", diag.Partial)

	tables := []domain.Table{domain.FactTable(facts), domain.SummaryTable(authors)}

	if p.sink != nil {
		if err := p.sink.ReplaceTables(ctx, tables...); err != nil {
			return Result{}, fmt.Errorf("write tables: %w", err)
		}
		logInfo(log, "tables replaced", "tables", tableNames(tables))
	}

	if p.exporter != nil {
		if err := p.exporter.Export(ctx, tables...); err != nil {
			return Result{}, fmt.Errorf("export tables: %w", err)
		}
		logInfo(log, "tables exported", "tables", tableNames(tables))
	}

	logDiagnostics(log, diag)

	if p.reporter != nil {
		if err := p.reporter.Report(ctx, diag); err != nil {
			logWarn(log, "diagnostics report failed", "error", err)
		}
	}

	if p.notifier != nil {
		digest := buildDigestMessage(diag, aggregate.Top(authors, p.topAuthors))
		if err := p.notifier.PublishDigest(ctx, digest); err != nil {
			logWarn(log, "digest notification failed", "error", err)
		}
	}

	return Result{RunID: runID, Facts: facts, Authors: authors, Diagnostics: diag}, nil
}

func (p *Pipeline) normalize(snapshot domain.Snapshot, diag *domain.Diagnostics, log *slog.Logger) (normalized, error) {
	schemas := []normalize.Schema{
		normalize.BacklogSchema,
		normalize.SpendSchema,
		normalize.MappingSchema,
		normalize.RevenueSchema,
	}

	var out normalized
	for _, schema := range schemas {
		raw, _ := snapshot.Table(schema.Source)
		records, stats, err := p.normalizer.Normalize(raw, schema, p.aliases[schema.Source])
		diag.Sources[schema.Source] = stats
		if err != nil {
			return normalized{}, err
		}
		logInfo(log, "source normalized", "source", schema.Source, "records", stats.Total, "dropped", stats.Dropped)

		switch schema.Source {
		case domain.SourceBacklog:
			out.backlog = normalize.BacklogRecords(records)
		case domain.SourceSpend:
			out.spend = normalize.SpendRecords(records)
		case domain.SourceMapping:
			out.mapping = normalize.MappingRecords(records)
		case domain.SourceRevenue:
			out.revenue = normalize.RevenueRecords(records)
		}
	}
	return out, nil
}

func buildDigestMessage(diag domain.Diagnostics, top []domain.AuthorSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Creative performance run %s\n", diag.RunID)
	fmt.Fprintf(&b, "Fact rows: %d, authors: %d\n", diag.FactRows, diag.Authors)
	fmt.Fprintf(&b, "Dropped: %d, orphaned: %d, collisions: %d\n", diag.TotalDropped(), diag.Orphaned, diag.TotalCollisions())

	if len(top) == 0 {
		return b.String()
	}

	b.WriteString("\nTop authors:\n")
	for _, s := range top {
		fmt.Fprintf(&b, "%d. %s profit %.2f, success %.0f%%\n", s.Rank, s.Author, s.TotalProfit, s.SuccessRate*100)
	}
	return b.String()
}

func logDiagnostics(log *slog.Logger, diag domain.Diagnostics) {
	if log == nil {
		return
	}
	for _, source := range domain.SortedKeys(diag.Sources) {
		stats := diag.Sources[source]
		log.Info("diagnostics", "source", source, "total", stats.Total, "dropped", stats.Dropped)
	}
	for _, name := range domain.SortedKeys(diag.Collisions) {
		log.Info("diagnostics", "join", name, "collisions", diag.Collisions[name])
	}
	log.Info("diagnostics", "orphaned", diag.Orphaned, "partial", diag.Partial, "fact_rows", diag.FactRows, "authors", diag.Authors)
}

func tableNames(tables []domain.Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

func logInfo(log *slog.Logger, msg string, args ...interface{}) {
	if log != nil {
		log.Info(msg, args...)
	}
}

func logWarn(log *slog.Logger, msg string, args ...interface{}) {
	if log != nil {
		log.Warn(msg, args...)
	}
}
