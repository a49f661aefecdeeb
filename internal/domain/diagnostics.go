package domain

import "sort"

// Join names used as collision counter keys.
const (
	JoinMapping = "spend_mapping"
	JoinRevenue = "spend_revenue"
	JoinBacklog = "spend_backlog"
)

// SourceStats counts records seen and dropped while normalizing one source.
type SourceStats struct {
	Total   int
	Dropped int
}

// InvalidFraction returns dropped/total, zero for an empty source.
func (s SourceStats) InvalidFraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Dropped) / float64(s.Total)
}

// Diagnostics is the per-run data-quality report.
type Diagnostics struct {
	RunID      string
	Sources    map[string]SourceStats
	Orphaned   int
	Collisions map[string]int
	Partial    int
	FactRows   int
	Authors    int
}

// CountPartial returns how many facts carry an identity with a sentinel field.
func CountPartial(facts []UnifiedFact) int {
	n := 0
	for _, f := range facts {
		if f.Identity.Partial {
			n++
		}
	}
	return n
}

// NewDiagnostics prepares empty counters for a run.
func NewDiagnostics(runID string) Diagnostics {
	return Diagnostics{
		RunID:      runID,
		Sources:    map[string]SourceStats{},
		Collisions: map[string]int{},
	}
}

// TotalCollisions sums duplicate-key collisions over all joins.
func (d Diagnostics) TotalCollisions() int {
	total := 0
	for _, n := range d.Collisions {
		total += n
	}
	return total
}

// TotalDropped sums dropped records over all sources.
func (d Diagnostics) TotalDropped() int {
	total := 0
	for _, s := range d.Sources {
		total += s.Dropped
	}
	return total
}

// SortedKeys returns map keys in lexical order for stable reporting.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
