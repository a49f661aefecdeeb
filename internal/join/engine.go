package join

import (
	"log/slog"

	"CreativeAnalytics/internal/domain"
)

const dayLayout = "2006-01-02"

// SpendRow is a spend record paired with the identity parsed from its campaign name.
type SpendRow struct {
	domain.SpendRecord
	Identity domain.CreativeIdentity
}

// Input groups the normalized tables consumed by the engine.
type Input struct {
	Spend   []SpendRow
	Mapping []domain.MappingRecord
	Revenue []domain.RevenueRecord
	Backlog []domain.BacklogRecord
}

// Result holds the fact precursors plus the data-quality counters of the joins.
type Result struct {
	Facts      []domain.UnifiedFact
	Orphaned   int
	Collisions map[string]int
}

// Engine performs the three sequential left joins.
type Engine struct {
	logger *slog.Logger
}

// NewEngine builds a join engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

type revenueKey struct {
	adsetID string
	day     string
}

// Join keeps every spend row in input order. Duplicate right-side keys resolve to the first
// occurrence and are counted; rows without an article id are dropped as orphans.
func (e *Engine) Join(in Input) Result {
	res := Result{Collisions: map[string]int{
		domain.JoinMapping: 0,
		domain.JoinRevenue: 0,
		domain.JoinBacklog: 0,
	}}

	mapping := make(map[string]domain.MappingRecord, len(in.Mapping))
	for _, m := range in.Mapping {
		if first, dup := mapping[m.CampaignID]; dup {
			res.Collisions[domain.JoinMapping]++
			e.warn("duplicate mapping key", "campaign_id", m.CampaignID, "kept_line", first.Line, "ignored_line", m.Line)
			continue
		}
		mapping[m.CampaignID] = m
	}

	revenue := make(map[revenueKey]domain.RevenueRecord, len(in.Revenue))
	for _, r := range in.Revenue {
		key := revenueKey{adsetID: r.AdsetID, day: r.Date.Format(dayLayout)}
		if first, dup := revenue[key]; dup {
			res.Collisions[domain.JoinRevenue]++
			e.warn("duplicate revenue key", "adset_id", r.AdsetID, "date", key.day, "kept_line", first.Line, "ignored_line", r.Line)
			continue
		}
		revenue[key] = r
	}

	backlog := make(map[string]domain.BacklogRecord, len(in.Backlog))
	for _, b := range in.Backlog {
		if first, dup := backlog[b.ArticleID]; dup {
			res.Collisions[domain.JoinBacklog]++
			e.warn("duplicate backlog key", "articleid", b.ArticleID, "kept_line", first.Line, "ignored_line", b.Line)
			continue
		}
		backlog[b.ArticleID] = b
	}

	res.Facts = make([]domain.UnifiedFact, 0, len(in.Spend))
	for _, s := range in.Spend {
		fact := domain.UnifiedFact{
			Date:         s.Date,
			CampaignID:   s.CampaignID,
			CampaignName: s.CampaignName,
			Identity:     s.Identity,
			Spend:        s.Spend,
			Clicks:       s.Clicks,
			Impressions:  s.Impressions,
		}

		if m, ok := mapping[s.CampaignID]; ok {
			fact.AdsetID = m.AdsetID
			fact.AdsetName = m.AdsetName
		}

		if fact.AdsetID != "" {
			if r, ok := revenue[revenueKey{adsetID: fact.AdsetID, day: s.Date.Format(dayLayout)}]; ok {
				fact.BannerRevenue = r.BannerRevenue
				fact.VideoRevenue = r.VideoRevenue
			}
		}

		if !s.Identity.HasArticle() {
			res.Orphaned++
			e.debug("orphaned spend row", "line", s.Line, "campaign_id", s.CampaignID, "campaign_name", s.CampaignName)
			continue
		}

		enrichFromBacklog(&fact, backlog)
		res.Facts = append(res.Facts, fact)
	}

	return res
}

// enrichFromBacklog copies backlog attributes and fills identity fields the parser could not resolve.
func enrichFromBacklog(fact *domain.UnifiedFact, backlog map[string]domain.BacklogRecord) {
	b, ok := backlog[fact.Identity.ArticleID]
	if !ok {
		fact.Headline = domain.Unknown
		return
	}

	fact.Headline = orUnknown(b.Headline)
	fact.CreatedDate = b.CreatedDate

	id := &fact.Identity
	id.Author = fill(id.Author, b.Author)
	id.Media = fill(id.Media, b.Media)
	id.Version = fill(id.Version, b.Version)
	id.Type = fill(id.Type, b.Type)
	id.Partial = id.Author == domain.Unknown || id.Media == domain.Unknown ||
		id.Version == domain.Unknown || id.Type == domain.Unknown
}

func fill(current, fallback string) string {
	if current == domain.Unknown && fallback != "" {
		return fallback
	}
	return current
}

func orUnknown(v string) string {
	if v == "" {
		return domain.Unknown
	}
	return v
}

func (e *Engine) warn(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
