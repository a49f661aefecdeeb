package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"CreativeAnalytics/internal/config"
	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/loader"
	"CreativeAnalytics/internal/ports"
)

// StrategySource implements SourceLoader via registered format strategies.
type StrategySource struct {
	registry *loader.Registry
	sources  config.SourcesConfig
	logger   *slog.Logger
}

var _ ports.SourceLoader = (*StrategySource)(nil)

// NewStrategySource wires the loader registry with config-defined sources.
func NewStrategySource(reg *loader.Registry, sources config.SourcesConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// Load reads all four sources; any failure is fatal for the run.
func (s *StrategySource) Load(ctx context.Context) (domain.Snapshot, error) {
	if s.registry == nil {
		return domain.Snapshot{}, fmt.Errorf("loader registry is not configured")
	}

	var snapshot domain.Snapshot
	for _, name := range domain.Sources {
		cfg, _ := s.sources.ByName(name)

		table, err := s.loadOne(ctx, name, cfg)
		if err != nil {
			return domain.Snapshot{}, domain.NewSourceError(name, err)
		}

		s.info("source loaded", "source", name, "format", cfg.Format, "rows", len(table.Records), "columns", len(table.Header))

		switch name {
		case domain.SourceBacklog:
			snapshot.Backlog = table
		case domain.SourceSpend:
			snapshot.Spend = table
		case domain.SourceMapping:
			snapshot.Mapping = table
		case domain.SourceRevenue:
			snapshot.Revenue = table
		}
	}

	return snapshot, nil
}

func (s *StrategySource) loadOne(ctx context.Context, name string, cfg config.SourceConfig) (domain.RawTable, error) {
	strategy, err := s.registry.Resolve(cfg.Format)
	if err != nil {
		return domain.RawTable{}, err
	}

	req := loader.Request{
		Source:   name,
		Path:     cfg.Path,
		Sheet:    cfg.Sheet,
		Selector: cfg.Selector,
	}
	if cfg.Delimiter != "" {
		req.Delimiter = []rune(cfg.Delimiter)[0]
	}

	return strategy.Load(ctx, req)
}

func (s *StrategySource) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
