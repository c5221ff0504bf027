package credibility

import (
	"time"

	"NewsAggregator/internal/domain"
)

// Weights of the three signals in the final score.
const (
	publicationWeight = 0.4
	recencyWeight     = 0.2
	contentWeight     = 0.4

	maxScore = 5.0
)

// publicationTier pairs a reputation score with outlet name fragments.
// Tiers are checked in slice order; the first fragment contained in the
// lower-cased source name wins.
type publicationTier struct {
	score   float64
	outlets []string
}

var publicationTiers = []publicationTier{
	{score: 5.0, outlets: []string{"reuters", "apnews", "bbc", "guardian", "ft", "wsj"}},
	{score: 4.0, outlets: []string{"nytimes", "washingtonpost", "economist"}},
	{score: 3.5, outlets: []string{"techcrunch", "arstechnica", "wired"}},
}

const unknownPublicationScore = 2.0

// recencyBand scores an article younger than maxAge.
type recencyBand struct {
	maxAge time.Duration
	score  float64
}

const day = 24 * time.Hour

var recencyBands = []recencyBand{
	{maxAge: day, score: 5.0},
	{maxAge: 7 * day, score: 4.5},
	{maxAge: 30 * day, score: 4.0},
}

const (
	staleRecencyScore   = 2.0
	unknownRecencyScore = 3.0
)

// evidencePhrases are counted case-insensitively, overlapping phrases summed.
var evidencePhrases = []string{"according to", "said", "research", "data", "study"}

// contentBand maps an evidence-hit count above minHits to a score.
type contentBand struct {
	minHits int
	score   float64
}

var contentBands = []contentBand{
	{minHits: 4, score: 4.5},
	{minHits: 1, score: 3.5},
	{minHits: 0, score: 2.5},
}

const (
	minContentLength = 100
	thinContentScore = 1.0
)

// tierRule assigns tier when score >= min; checked highest first.
type tierRule struct {
	min  float64
	tier domain.CredibilityTier
}

var tierRules = []tierRule{
	{min: 4.5, tier: domain.TierHighlyCredible},
	{min: 3.5, tier: domain.TierCredible},
	{min: 2.5, tier: domain.TierModeratelyCredible},
}

// TierFor maps a score to its band.
func TierFor(score float64) domain.CredibilityTier {
	for _, rule := range tierRules {
		if score >= rule.min {
			return rule.tier
		}
	}
	return domain.TierLowCredibility
}
