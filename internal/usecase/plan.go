package usecase

import (
	"strings"

	"NewsAggregator/internal/domain"
)

// intentRule maps keyword cues to an intent. Rules are evaluated in slice
// order and the first rule with any matching keyword wins.
type intentRule struct {
	intent   domain.Intent
	keywords []string
}

var intentRules = []intentRule{
	{intent: domain.IntentBreakingNews, keywords: []string{"latest", "today", "now", "breaking", "just happened"}},
	{intent: domain.IntentAnalysis, keywords: []string{"trend", "analysis", "why", "how", "impact"}},
}

const simplifiedQueryTokens = 3

// ClassifyIntent matches the lower-cased query against intentRules by substring.
func ClassifyIntent(query string) domain.Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.intent
			}
		}
	}
	return domain.IntentGeneral
}

// QueryVariants returns exactly three variants: the query verbatim, the
// query with suffix appended, and its first three whitespace tokens.
func QueryVariants(query, suffix string) []string {
	tokens := strings.Fields(query)
	if len(tokens) > simplifiedQueryTokens {
		tokens = tokens[:simplifiedQueryTokens]
	}
	return []string{
		query,
		strings.TrimSpace(query + " " + suffix),
		strings.Join(tokens, " "),
	}
}
