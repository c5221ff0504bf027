package domain

// Article is one discovered news item plus the fields later stages derive from it.
type Article struct {
	URL         string
	Title       string
	Source      string
	PublishedAt string
	Description string
	RawContent  string
	ImageURL    string
	APISource   string

	// FullContent holds extracted body text, or the description when
	// extraction was skipped or fell short. Empty until the extract stage runs.
	FullContent         string
	ExtractionSucceeded bool

	// Credibility is nil until the analyze stage scores the article.
	Credibility *Credibility
}

// Credibility is the weighted score attached by the analyzer.
type Credibility struct {
	Score       float64
	Tier        CredibilityTier
	Publication float64
	Recency     float64
	Content     float64
}

// CredibilityTier is one of four ordered qualitative bands.
type CredibilityTier string

const (
	TierHighlyCredible     CredibilityTier = "highly_credible"
	TierCredible           CredibilityTier = "credible"
	TierModeratelyCredible CredibilityTier = "moderately_credible"
	TierLowCredibility     CredibilityTier = "low_credibility"
)

// Rank orders tiers from lowest (0) to highest (3).
func (t CredibilityTier) Rank() int {
	switch t {
	case TierHighlyCredible:
		return 3
	case TierCredible:
		return 2
	case TierModeratelyCredible:
		return 1
	default:
		return 0
	}
}

// Score returns the credibility score, or 0 when the article is unscored.
func (a Article) Score() float64 {
	if a.Credibility == nil {
		return 0
	}
	return a.Credibility.Score
}

// Tier returns the credibility tier, or "unknown" when the article is unscored.
func (a Article) Tier() string {
	if a.Credibility == nil {
		return "unknown"
	}
	return string(a.Credibility.Tier)
}

// Body prefers extracted content and falls back to the provider description.
func (a Article) Body() string {
	if a.FullContent != "" {
		return a.FullContent
	}
	return a.Description
}
