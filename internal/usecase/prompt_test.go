package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"NewsAggregator/internal/domain"
)

func TestBuildSummaryPromptLimitsContext(t *testing.T) {
	t.Parallel()

	articles := make([]domain.Article, 0, 7)
	for i := range 7 {
		articles = append(articles, domain.Article{
			Title:       fmt.Sprintf("title-%d", i),
			Source:      fmt.Sprintf("source-%d", i),
			FullContent: strings.Repeat("é", 900),
			Credibility: &domain.Credibility{Score: 4, Tier: domain.TierCredible},
		})
	}

	prompt := BuildSummaryPrompt("solar power", articles)

	assert.Contains(t, prompt, `"solar power"`)
	assert.Contains(t, prompt, "[Source: source-4 - credible]")
	assert.NotContains(t, prompt, "source-5")
	assert.Equal(t, 5, strings.Count(prompt, "Title: "))
	assert.Contains(t, prompt, "Content: "+strings.Repeat("é", 800)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("é", 801))
	assert.True(t, strings.HasSuffix(prompt, "SUMMARY:"))
	assert.Contains(t, prompt, "9. End with implications or what's next")
}

func TestBuildSummaryPromptFallbacks(t *testing.T) {
	t.Parallel()

	prompt := BuildSummaryPrompt("solar power", []domain.Article{{Description: "short excerpt"}})

	assert.Contains(t, prompt, "[Source: Unknown - unknown]\nTitle: N/A\nContent: short excerpt")
}
