package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CreativeAnalytics/internal/domain"
)

// Kind describes how a raw cell is typed.
type Kind int

const (
	KindText Kind = iota
	KindIdentifier
	KindDate
	KindAmount
	KindCount
)

// Field is one canonical column of a source schema.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema lists the canonical fields expected from a source.
type Schema struct {
	Source string
	Fields []Field
}

// Options carries normalization settings from configuration.
type Options struct {
	MaxInvalidFraction float64
	DateFormats        []string
	DecimalComma       bool
}

// Record is a typed, validated row.
type Record struct {
	Line    int
	text    map[string]string
	dates   map[string]time.Time
	amounts map[string]float64
	counts  map[string]int64
}

// Text returns a text or identifier field; missing identifiers are empty.
func (r Record) Text(name string) string { return r.text[name] }

// Date returns a date field; the zero time means missing.
func (r Record) Date(name string) time.Time { return r.dates[name] }

// Amount returns an additive decimal metric.
func (r Record) Amount(name string) float64 { return r.amounts[name] }

// Count returns an additive integer metric.
func (r Record) Count(name string) int64 { return r.counts[name] }

// Normalizer maps raw tables to typed records.
type Normalizer struct {
	opts   Options
	dates  DateParser
	logger *slog.Logger
}

// New builds a Normalizer from options.
func New(opts Options, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		opts:   opts,
		dates:  NewDateParser(opts.DateFormats),
		logger: logger,
	}
}

// CanonicalName lower-cases a header, trims it and replaces spaces with underscores.
func CanonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// CanonicalID trims an identifier and drops the ".0" Excel appends to numeric ids.
func CanonicalID(raw string) string {
	id := strings.TrimSpace(raw)
	if strings.HasSuffix(id, ".0") && isDigits(strings.TrimSuffix(id, ".0")) {
		id = strings.TrimSuffix(id, ".0")
	}
	return id
}

// Normalize validates every record against schema. Invalid records are dropped and
// counted; exceeding the invalid-fraction threshold fails the source.
func (n *Normalizer) Normalize(raw domain.RawTable, schema Schema, aliases map[string][]string) ([]Record, domain.SourceStats, error) {
	stats := domain.SourceStats{Total: len(raw.Records)}

	columns, err := resolveColumns(raw.Header, schema, aliases)
	if err != nil {
		return nil, stats, domain.NewSourceError(schema.Source, err)
	}

	records := make([]Record, 0, len(raw.Records))
	for _, rr := range raw.Records {
		rec, field, err := n.convert(rr, schema, columns)
		if err != nil {
			stats.Dropped++
			n.debug("record dropped", "source", schema.Source, "line", rr.Line, "field", field, "reason", err.Error())
			continue
		}
		records = append(records, rec)
	}

	if stats.InvalidFraction() > n.opts.MaxInvalidFraction {
		return nil, stats, domain.NewSourceError(schema.Source, fmt.Errorf("%w: %d of %d dropped (max %.2f)",
			domain.ErrTooManyInvalid, stats.Dropped, stats.Total, n.opts.MaxInvalidFraction))
	}

	return records, stats, nil
}

func (n *Normalizer) convert(rr domain.RawRecord, schema Schema, columns map[string]string) (Record, string, error) {
	rec := Record{
		Line:    rr.Line,
		text:    map[string]string{},
		dates:   map[string]time.Time{},
		amounts: map[string]float64{},
		counts:  map[string]int64{},
	}

	for _, f := range schema.Fields {
		value := ""
		if header, ok := columns[f.Name]; ok {
			value = rr.Fields[header]
		}

		switch f.Kind {
		case KindText:
			v := strings.TrimSpace(value)
			if v == "" && f.Required {
				return Record{}, f.Name, errors.New("missing value")
			}
			rec.text[f.Name] = v
		case KindIdentifier:
			v := CanonicalID(value)
			if v == "" && f.Required {
				return Record{}, f.Name, errors.New("missing identifier")
			}
			rec.text[f.Name] = v
		case KindDate:
			d, blank, err := n.dates.Parse(value)
			if err != nil {
				return Record{}, f.Name, err
			}
			if blank && f.Required {
				return Record{}, f.Name, errors.New("missing date")
			}
			rec.dates[f.Name] = d
		case KindAmount:
			d, err := ParseNonNegative(value, n.opts.DecimalComma)
			if err != nil {
				return Record{}, f.Name, err
			}
			rec.amounts[f.Name] = d.InexactFloat64()
		case KindCount:
			c, err := ParseCount(value, n.opts.DecimalComma)
			if err != nil {
				return Record{}, f.Name, err
			}
			rec.counts[f.Name] = c
		}
	}

	return rec, "", nil
}

// resolveColumns maps every schema field to the header it is read from.
func resolveColumns(header []string, schema Schema, aliases map[string][]string) (map[string]string, error) {
	byCanonical := make(map[string]string, len(header))
	for _, h := range header {
		c := CanonicalName(h)
		if _, exists := byCanonical[c]; !exists {
			byCanonical[c] = h
		}
	}

	columns := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		candidates := append([]string{f.Name}, aliases[f.Name]...)
		for _, candidate := range candidates {
			if h, ok := byCanonical[CanonicalName(candidate)]; ok {
				columns[f.Name] = h
				break
			}
		}
		if _, ok := columns[f.Name]; !ok && f.Required {
			return nil, fmt.Errorf("required column %q not found", f.Name)
		}
	}
	return columns, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (n *Normalizer) debug(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
