// Package identity decomposes composite campaign and creative names into
// structured creative identities.
//
// Two conventions are recognized. The descriptive one used by the ad-spend exports:
//
//	<articleid> <type> v<version> android (<author>) <media>
//
// and the positional one used by hand-named creatives:
//
//	<articleid>_<author>_<media>_<version>_<type>
//
// where segments may also be separated by hyphens. Parsing is tolerant: a descriptive
// name cut short keeps the fields it carries, missing positional segments become
// "unknown" and segments after the fifth are ignored.
package identity

import (
	"regexp"
	"strconv"
	"strings"

	"CreativeAnalytics/internal/domain"
)

var descriptiveExpr = regexp.MustCompile(
	`(?i)(?P<articleid>\d+)\s+(?P<type>\w+)\s+(?P<version>v\d+)\s+android\s+\((?P<author>[^)]+)\)\s+(?P<media>\w+)`,
)

// truncatedExpr accepts descriptive names that stop early, e.g. "1004 banner v2 android (Ann)".
var truncatedExpr = regexp.MustCompile(
	`(?i)^(?P<articleid>\d+)(?:$|\s+(?P<type>\w+)(?:\s+(?P<version>v\d+))?(?:\s+android)?(?:\s+\((?P<author>[^)]*)\)?)?(?:\s+(?P<media>\w+))?)`,
)

var articleExpr = regexp.MustCompile(`^[\p{L}\p{N}.]+$`)

var versionExpr = regexp.MustCompile(`(?i)^v?(\d+)$`)

// Vocabulary lists the recognized media and creative types, and optionally the known authors.
type Vocabulary struct {
	Media   []string
	Types   []string
	Authors []string
}

// Parser turns naming strings into identities. It is safe for concurrent use.
type Parser struct {
	media   map[string]struct{}
	types   map[string]struct{}
	authors map[string]string
}

// NewParser builds a parser over the given vocabulary.
func NewParser(v Vocabulary) *Parser {
	p := &Parser{
		media: toSet(v.Media),
		types: toSet(v.Types),
	}
	if len(v.Authors) > 0 {
		p.authors = make(map[string]string, len(v.Authors))
		for _, a := range v.Authors {
			a = strings.TrimSpace(a)
			if a != "" {
				p.authors[strings.ToLower(a)] = a
			}
		}
	}
	return p
}

// Parse never fails: every input yields an identity, possibly all "unknown".
func (p *Parser) Parse(name string) domain.CreativeIdentity {
	name = strings.TrimSpace(name)
	if name == "" {
		return p.finish(domain.CreativeIdentity{}, true)
	}

	if m := descriptiveExpr.FindStringSubmatch(name); m != nil {
		id := domain.CreativeIdentity{
			ArticleID: m[descriptiveExpr.SubexpIndex("articleid")],
			Author:    m[descriptiveExpr.SubexpIndex("author")],
			Media:     m[descriptiveExpr.SubexpIndex("media")],
			Version:   m[descriptiveExpr.SubexpIndex("version")],
			Type:      m[descriptiveExpr.SubexpIndex("type")],
		}
		return p.finish(id, false)
	}

	if m := truncatedExpr.FindStringSubmatch(name); m != nil {
		id := domain.CreativeIdentity{
			ArticleID: m[truncatedExpr.SubexpIndex("articleid")],
			Author:    m[truncatedExpr.SubexpIndex("author")],
			Media:     m[truncatedExpr.SubexpIndex("media")],
			Version:   m[truncatedExpr.SubexpIndex("version")],
			Type:      m[truncatedExpr.SubexpIndex("type")],
		}
		return p.finish(id, true)
	}

	return p.parsePositional(name)
}

func (p *Parser) parsePositional(name string) domain.CreativeIdentity {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	fields := make([]string, 5)
	for i := 0; i < len(fields) && i < len(segments); i++ {
		fields[i] = strings.TrimSpace(segments[i])
	}

	// Free text is not an article id.
	if !articleExpr.MatchString(fields[0]) {
		fields[0] = ""
	}

	id := domain.CreativeIdentity{
		ArticleID: fields[0],
		Author:    fields[1],
		Media:     fields[2],
		Version:   fields[3],
		Type:      fields[4],
	}
	return p.finish(id, len(segments) < len(fields))
}

// finish trims and canonicalizes fields, substituting sentinels.
func (p *Parser) finish(id domain.CreativeIdentity, partial bool) domain.CreativeIdentity {
	id.ArticleID = strings.TrimSpace(id.ArticleID)
	if id.ArticleID == "" {
		partial = true
	}

	id.Author = p.author(id.Author)
	id.Media = classify(id.Media, p.media)
	id.Type = classify(id.Type, p.types)
	id.Version = version(id.Version)

	if id.Author == domain.Unknown || id.Media == domain.Unknown || id.Type == domain.Unknown || id.Version == domain.Unknown {
		partial = true
	}
	id.Partial = partial
	return id
}

func (p *Parser) author(raw string) string {
	a := strings.TrimSpace(raw)
	if a == "" {
		return domain.Unknown
	}
	if p.authors == nil {
		return a
	}
	if known, ok := p.authors[strings.ToLower(a)]; ok {
		return known
	}
	return domain.Unknown
}

// Attributes canonicalizes the identity fields carried by a backlog row with the same
// vocabulary as Parse. Blank fields stay blank so they never override parsed values.
func (p *Parser) Attributes(b domain.BacklogRecord) domain.BacklogRecord {
	if strings.TrimSpace(b.Author) != "" {
		b.Author = p.author(b.Author)
	}
	if strings.TrimSpace(b.Media) != "" {
		b.Media = classify(b.Media, p.media)
	}
	if strings.TrimSpace(b.Type) != "" {
		b.Type = classify(b.Type, p.types)
	}
	if strings.TrimSpace(b.Version) != "" {
		b.Version = version(b.Version)
	}
	return b
}

// classify maps a raw value onto a vocabulary: empty is unknown, unrecognized is other.
func classify(raw string, set map[string]struct{}) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return domain.Unknown
	}
	if _, ok := set[v]; ok {
		return v
	}
	return domain.Other
}

func version(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return domain.Unknown
	}
	if m := versionExpr.FindStringSubmatch(v); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return "v" + strconv.Itoa(n)
		}
	}
	return strings.ToLower(v)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
