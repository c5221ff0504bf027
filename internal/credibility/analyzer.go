package credibility

import (
	"strings"
	"time"
	"unicode/utf8"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/ports"
)

// Analyzer computes weighted credibility scores from publication
// reputation, recency and evidentiary language.
type Analyzer struct {
	now func() time.Time
}

var _ ports.Analyzer = (*Analyzer)(nil)

// NewAnalyzer builds an analyzer; now defaults to time.Now.
func NewAnalyzer(now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{now: now}
}

// Analyze returns scored copies of articles. Articles that already carry a
// score keep it.
func (a *Analyzer) Analyze(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	now := a.now()
	for i, article := range articles {
		if article.Credibility == nil {
			article.Credibility = a.score(article, now)
		}
		out[i] = article
	}
	return out
}

func (a *Analyzer) score(article domain.Article, now time.Time) *domain.Credibility {
	pub := PublicationScore(article.Source)
	rec := RecencyScore(article.PublishedAt, now)
	con := ContentScore(article.FullContent)

	total := pub*publicationWeight + rec*recencyWeight + con*contentWeight
	total = min(max(total, 0), maxScore)

	return &domain.Credibility{
		Score:       total,
		Tier:        TierFor(total),
		Publication: pub,
		Recency:     rec,
		Content:     con,
	}
}

// PublicationScore matches the source name against the reputation tiers.
func PublicationScore(source string) float64 {
	name := strings.ToLower(source)
	for _, tier := range publicationTiers {
		for _, outlet := range tier.outlets {
			if strings.Contains(name, outlet) {
				return tier.score
			}
		}
	}
	return unknownPublicationScore
}

// RecencyScore scores the age of an ISO-8601 timestamp relative to now.
// Unparseable or missing timestamps get a neutral score. Timestamps without
// a zone are read in now's location.
func RecencyScore(publishedAt string, now time.Time) float64 {
	published, ok := parseTimestamp(publishedAt, now.Location())
	if !ok {
		return unknownRecencyScore
	}
	age := now.Sub(published)
	for _, band := range recencyBands {
		if age < band.maxAge {
			return band.score
		}
	}
	return staleRecencyScore
}

// ContentScore counts evidentiary phrases in body text.
func ContentScore(body string) float64 {
	if utf8.RuneCountInString(body) < minContentLength {
		return thinContentScore
	}
	lower := strings.ToLower(body)
	hits := 0
	for _, phrase := range evidencePhrases {
		hits += strings.Count(lower, phrase)
	}
	for _, band := range contentBands {
		if hits >= band.minHits {
			return band.score
		}
	}
	return thinContentScore
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
