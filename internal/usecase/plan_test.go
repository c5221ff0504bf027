package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"NewsAggregator/internal/domain"
)

func TestClassifyIntent(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		query string
		want  domain.Intent
	}{
		"breaking cue":            {query: "Latest AI regulation", want: domain.IntentBreakingNews},
		"analysis cue":            {query: "Impact of tariffs on farming", want: domain.IntentAnalysis},
		"breaking wins over both": {query: "why markets fell today", want: domain.IntentBreakingNews},
		"multi word cue":          {query: "what just happened in Paris", want: domain.IntentBreakingNews},
		"substring match":         {query: "things I should know", want: domain.IntentBreakingNews},
		"no cue":                  {query: "quantum computing", want: domain.IntentGeneral},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyIntent(tc.query))
		})
	}
}

func TestQueryVariants(t *testing.T) {
	t.Parallel()

	got := QueryVariants("electric vehicle battery recycling", "news 2025")
	assert.Equal(t, []string{
		"electric vehicle battery recycling",
		"electric vehicle battery recycling news 2025",
		"electric vehicle battery",
	}, got)
}

func TestQueryVariantsShortQueryRepeats(t *testing.T) {
	t.Parallel()

	got := QueryVariants("AI", "news 2025")
	assert.Len(t, got, 3)
	assert.Equal(t, "AI", got[0])
	assert.Equal(t, "AI", got[2])
}
