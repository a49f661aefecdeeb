package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/ports"
)

// PrometheusReporter exposes per-run data-quality counters as gauges and, when a
// textfile path is configured, writes them for the node-exporter textfile collector.
type PrometheusReporter struct {
	registry    *prometheus.Registry
	textfile    string
	logger      *slog.Logger
	now         func() time.Time
	records     *prometheus.GaugeVec
	dropped     *prometheus.GaugeVec
	collisions  *prometheus.GaugeVec
	orphaned    prometheus.Gauge
	partial     prometheus.Gauge
	factRows    prometheus.Gauge
	authors     prometheus.Gauge
	lastSuccess prometheus.Gauge
	runs        prometheus.Counter
}

var _ ports.DiagnosticsReporter = (*PrometheusReporter)(nil)

// NewPrometheusReporter registers the diagnostics metrics on reg; a nil reg gets a fresh registry.
func NewPrometheusReporter(reg *prometheus.Registry, textfile string, logger *slog.Logger) *PrometheusReporter {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &PrometheusReporter{
		registry: reg,
		textfile: textfile,
		logger:   logger,
		now:      time.Now,
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "creative_etl_records_total",
			Help: "Records read per source in the last run.",
		}, []string{"source"}),
		dropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "creative_etl_records_dropped",
			Help: "Invalid records dropped per source in the last run.",
		}, []string{"source"}),
		collisions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "creative_etl_join_collisions",
			Help: "Duplicate right-side keys per join in the last run.",
		}, []string{"join"}),
		orphaned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creative_etl_orphaned_rows",
			Help: "Spend rows without an article id in the last run.",
		}),
		partial: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creative_etl_partial_identities",
			Help: "Fact rows whose creative identity is incomplete in the last run.",
		}),
		factRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creative_etl_fact_rows",
			Help: "Fact rows written by the last run.",
		}),
		authors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creative_etl_authors",
			Help: "Author summary rows written by the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creative_etl_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "creative_etl_runs_total",
			Help: "Successful runs since process start.",
		}),
	}

	reg.MustRegister(r.records, r.dropped, r.collisions, r.orphaned, r.partial, r.factRows, r.authors, r.lastSuccess, r.runs)
	return r
}

// Report records diag and flushes the textfile if configured.
func (r *PrometheusReporter) Report(ctx context.Context, diag domain.Diagnostics) error {
	r.records.Reset()
	r.dropped.Reset()
	for source, stats := range diag.Sources {
		r.records.WithLabelValues(source).Set(float64(stats.Total))
		r.dropped.WithLabelValues(source).Set(float64(stats.Dropped))
	}

	r.collisions.Reset()
	for name, n := range diag.Collisions {
		r.collisions.WithLabelValues(name).Set(float64(n))
	}

	r.orphaned.Set(float64(diag.Orphaned))
	r.partial.Set(float64(diag.Partial))
	r.factRows.Set(float64(diag.FactRows))
	r.authors.Set(float64(diag.Authors))
	r.lastSuccess.Set(float64(r.now().Unix()))
	r.runs.Inc()

	if r.textfile == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	if r.logger != nil {
		r.logger.Debug("metrics textfile written", "path", r.textfile, "run_id", diag.RunID)
	}
	return nil
}
