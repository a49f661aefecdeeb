package domain

// Source names used across configuration, diagnostics and logs.
const (
	SourceBacklog = "backlog"
	SourceSpend   = "spend"
	SourceMapping = "mapping"
	SourceRevenue = "revenue"
)

// Sources lists every input in the order they are loaded.
var Sources = []string{SourceBacklog, SourceSpend, SourceMapping, SourceRevenue}

// RawRecord is one untyped row as it came out of a loader, keyed by the source header.
type RawRecord struct {
	Line   int
	Fields map[string]string
}

// RawTable is a rectangular sheet before normalization.
type RawTable struct {
	Source  string
	Header  []string
	Records []RawRecord
}

// Snapshot holds every raw input of a single run.
type Snapshot struct {
	Backlog RawTable
	Spend   RawTable
	Mapping RawTable
	Revenue RawTable
}

// Table returns the raw table registered under the given source name.
func (s Snapshot) Table(source string) (RawTable, bool) {
	switch source {
	case SourceBacklog:
		return s.Backlog, true
	case SourceSpend:
		return s.Spend, true
	case SourceMapping:
		return s.Mapping, true
	case SourceRevenue:
		return s.Revenue, true
	default:
		return RawTable{}, false
	}
}
