package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"CreativeAnalytics/internal/config"
	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/identity"
	"CreativeAnalytics/internal/infrastructure/console"
	"CreativeAnalytics/internal/infrastructure/export"
	"CreativeAnalytics/internal/infrastructure/scheduler"
	"CreativeAnalytics/internal/infrastructure/sheets"
	"CreativeAnalytics/internal/infrastructure/storage"
	"CreativeAnalytics/internal/infrastructure/telegram"
	"CreativeAnalytics/internal/infrastructure/telemetry"
	"CreativeAnalytics/internal/join"
	"CreativeAnalytics/internal/loader"
	"CreativeAnalytics/internal/logging"
	"CreativeAnalytics/internal/normalize"
	"CreativeAnalytics/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
	renderer *console.SummaryRenderer
}

// Option customizes the application at construction time.
type Option func(*options)

type options struct {
	out io.Writer
	db  *sql.DB
}

// WithOutput renders the author ranking and diagnostics to out after every run.
func WithOutput(out io.Writer) Option {
	return func(o *options) { o.out = out }
}

// WithDB reuses an already opened database instead of connecting with the configured DSN.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// New builds a runnable application instance. The database sink is only wired when a
// DSN is configured (or a handle is injected).
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, opts ...Option) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &Application{cfg: cfg, logger: baseLogger, db: o.db}
	if o.out != nil {
		a.renderer = console.NewSummaryRenderer(o.out, cfg.Output.Undefined)
	}

	if a.db == nil && cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = db
	}

	if a.db != nil && cfg.Database.AutoMigrate {
		if err := storage.Migrate(ctx, a.db, cfg.Database.Driver); err != nil {
			return nil, multierr.Append(fmt.Errorf("migrate: %w", err), a.Close())
		}
	}

	registry := loader.NewRegistry()
	registry.Register(sheets.NewXLSXLoader())
	registry.Register(sheets.NewCSVLoader())
	registry.Register(sheets.NewHTMLLoader(nil))

	source := sheets.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	normalizer := normalize.New(normalize.Options{
		MaxInvalidFraction: cfg.Normalize.MaxInvalidFraction,
		DateFormats:        cfg.Normalize.DateFormats,
		DecimalComma:       cfg.Normalize.DecimalComma,
	}, baseLogger.With("component", "normalize"))

	parser := identity.NewParser(identity.Vocabulary{
		Media:   cfg.Identity.Media,
		Types:   cfg.Identity.Types,
		Authors: cfg.Identity.Authors,
	})

	deps := usecase.PipelineDeps{
		Source:     source,
		Normalizer: normalizer,
		Aliases:    aliases(cfg.Sources),
		Parser:     parser,
		Engine:     join.NewEngine(baseLogger.With("component", "join")),
		Reporter:   telemetry.NewPrometheusReporter(nil, cfg.Telemetry.Textfile, baseLogger.With("component", "telemetry")),
		TopAuthors: cfg.Notifications.TopAuthors,
		Logger:     baseLogger.With("component", "pipeline"),
	}

	if a.db != nil {
		deps.Sink = storage.NewSQLSink(a.db, cfg.Database.Driver, cfg.Database.BatchSize, baseLogger.With("component", "storage"))
	} else {
		baseLogger.Info("database sink disabled: no dsn configured")
	}

	if cfg.Output.Dir != "" {
		deps.Exporter = export.NewCSVExporter(cfg.Output.Dir, delimiter(cfg.Output.Delimiter), cfg.Output.Undefined, baseLogger.With("component", "export"))
	}

	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		deps.Notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	a.pipeline = usecase.NewPipeline(deps)
	return a, nil
}

// Run performs a single full recomputation.
func (a *Application) Run(ctx context.Context) (usecase.Result, error) {
	res, err := a.pipeline.Run(ctx)
	if err != nil {
		return usecase.Result{}, err
	}
	if a.renderer != nil {
		a.renderer.RenderAuthors(res.Authors)
		a.renderer.RenderDiagnostics(res.Diagnostics)
	}
	return res, nil
}

// Migrate applies the schema migrations to the configured database.
func (a *Application) Migrate(ctx context.Context) error {
	if a.db == nil {
		return errors.New("migrate: no database configured")
	}
	return storage.Migrate(ctx, a.db, a.cfg.Database.Driver)
}

// Schedule re-runs the pipeline on the configured cron expression until ctx is done.
func (a *Application) Schedule(ctx context.Context, runNow bool) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if runNow {
		if _, err := a.Run(ctx); err != nil {
			a.logger.Error("initial run failed", "error", err)
		}
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String(),
		"next_run", driver.Next(time.Now()),
	)

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func aliases(sources config.SourcesConfig) map[string]map[string][]string {
	out := map[string]map[string][]string{}
	for _, name := range domain.Sources {
		if cfg, ok := sources.ByName(name); ok && len(cfg.Columns) > 0 {
			out[name] = cfg.Columns
		}
	}
	return out
}

func delimiter(value string) rune {
	if value == "" {
		return ','
	}
	return []rune(value)[0]
}
