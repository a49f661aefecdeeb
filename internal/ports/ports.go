package ports

import (
	"context"
	"time"

	"CreativeAnalytics/internal/domain"
)

// SourceLoader reads every raw input of a run fully into memory.
type SourceLoader interface {
	Load(ctx context.Context) (domain.Snapshot, error)
}

// Sink persists output tables with full-replace semantics. All tables passed to a
// single call are committed together or not at all.
type Sink interface {
	ReplaceTables(ctx context.Context, tables ...domain.Table) error
}

// Exporter writes output tables as delimited text files.
type Exporter interface {
	Export(ctx context.Context, tables ...domain.Table) error
}

// DiagnosticsReporter publishes per-run data-quality counters.
type DiagnosticsReporter interface {
	Report(ctx context.Context, diag domain.Diagnostics) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
