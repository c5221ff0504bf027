package usecase

import (
	"fmt"
	"strings"

	"NewsAggregator/internal/domain"
)

const (
	summaryArticleLimit = 5
	summaryBodyRunes    = 800
)

const summaryInstructions = `REQUIREMENTS:
1. Write a flowing summary that synthesizes insights from multiple articles
2. Start with the most important finding
3. Integrate information from different sources naturally
4. Use [Source Name] format to attribute claims
5. Identify common themes and key insights
6. Note any conflicting viewpoints
7. Use accessible, professional language
8. Focus on facts, avoid speculation
9. End with implications or what's next`

// BuildSummaryPrompt renders the fixed instruction template around a context
// block built from the first summaryArticleLimit ranked articles.
func BuildSummaryPrompt(query string, ranked []domain.Article) string {
	if len(ranked) > summaryArticleLimit {
		ranked = ranked[:summaryArticleLimit]
	}

	blocks := make([]string, 0, len(ranked))
	for _, a := range ranked {
		source := a.Source
		if source == "" {
			source = "Unknown"
		}
		title := a.Title
		if title == "" {
			title = "N/A"
		}
		blocks = append(blocks, fmt.Sprintf("[Source: %s - %s]\nTitle: %s\nContent: %s",
			source, a.Tier(), title, truncateRunes(a.Body(), summaryBodyRunes)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert news analyst. Synthesize the following articles about %q into a comprehensive, 300-500 word summary.\n\n", query)
	b.WriteString("ARTICLES:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(summaryInstructions)
	b.WriteString("\n\nSUMMARY:")
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
