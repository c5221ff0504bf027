package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAggregator/internal/credibility"
	"NewsAggregator/internal/domain"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type stubSearcher struct {
	articles []domain.Article
	err      error
	queries  []string
	hook     func()
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]domain.Article, error) {
	s.queries = append(s.queries, query)
	if s.hook != nil {
		s.hook()
	}
	return s.articles, s.err
}

type stubExtractor struct {
	panicWith string
	calls     int
}

func (e *stubExtractor) Extract(_ context.Context, articles []domain.Article) []domain.Article {
	e.calls++
	if e.panicWith != "" {
		panic(e.panicWith)
	}
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		a.FullContent = a.Description
		a.ExtractionSucceeded = len([]rune(a.Description)) > 100
		out[i] = a
	}
	return out
}

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func newTestPipeline(s *stubSearcher, e *stubExtractor, g *stubGenerator) *Pipeline {
	deps := PipelineDeps{
		Searcher:   s,
		Extractor:  e,
		Analyzer:   credibility.NewAnalyzer(func() time.Time { return fixedNow }),
		MaxResults: 5,
		Now:        func() time.Time { return fixedNow },
		NewID:      func() string { return "run-1" },
	}
	if g != nil {
		deps.Generator = g
	}
	return NewPipeline(deps)
}

func reutersArticle() domain.Article {
	body := "According to officials, a new study shows progress. According to the lab, results hold. " +
		strings.Repeat("Quantum computing keeps advancing steadily. ", 10)
	return domain.Article{
		URL:         "https://reuters.com/quantum",
		Title:       "Quantum leap",
		Source:      "Reuters",
		PublishedAt: fixedNow.Add(-2 * time.Hour).Format(time.RFC3339),
		Description: body,
	}
}

func blogArticle() domain.Article {
	return domain.Article{
		URL:         "https://randomblog.com/q",
		Title:       "My quantum thoughts",
		Source:      "randomblog.com",
		PublishedAt: fixedNow.Add(-40 * 24 * time.Hour).Format(time.RFC3339),
		Description: strings.Repeat("x", 50),
	}
}

func TestPipelineRunsAllStagesAndRanksByCredibility(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{articles: []domain.Article{blogArticle(), reutersArticle()}}
	generator := &stubGenerator{reply: "Quantum computing is advancing [Reuters]."}
	p := newTestPipeline(searcher, &stubExtractor{}, generator)

	state := p.Run(context.Background(), "quantum computing")

	assert.Empty(t, state.Errors)
	assert.Equal(t, "run-1", state.ID)
	assert.Equal(t, domain.IntentGeneral, state.Intent)
	require.Len(t, state.AnalyzedArticles, 2)
	assert.Equal(t, "Reuters", state.AnalyzedArticles[0].Source)
	assert.InDelta(t, 4.4, state.AnalyzedArticles[0].Score(), 1e-9)
	assert.Equal(t, string(domain.TierCredible), state.AnalyzedArticles[0].Tier())
	assert.InDelta(t, 1.6, state.AnalyzedArticles[1].Score(), 1e-9)
	assert.Equal(t, string(domain.TierLowCredibility), state.AnalyzedArticles[1].Tier())
	assert.Equal(t, "Quantum computing is advancing [Reuters].", state.Summary)
	assert.True(t, state.Succeeded())

	require.Len(t, state.StepLog, 5)
	stages := make([]domain.Stage, 0, len(state.StepLog))
	for _, rec := range state.StepLog {
		stages = append(stages, rec.Stage)
	}
	assert.Equal(t, []domain.Stage{
		domain.StagePlan, domain.StageSearch, domain.StageExtract, domain.StageAnalyze, domain.StageSummarize,
	}, stages)
	assert.Equal(t, 2, state.StepLog[1].Counts[articlesFoundCountKey])
	assert.InDelta(t, 4.4, state.StepLog[3].Scores[topCredibilityScoreKey], 1e-9)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "[Source: Reuters - credible]")
}

func TestPipelineSearchUsesOnlyVerbatimQuery(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{}
	p := newTestPipeline(searcher, &stubExtractor{}, &stubGenerator{reply: "x"})

	state := p.Run(context.Background(), "electric vehicle battery recycling")

	require.Len(t, state.SearchQueryVariants, 3)
	assert.Equal(t, []string{"electric vehicle battery recycling"}, searcher.queries)
}

func TestPipelineDegradesWithoutArticles(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{}
	generator := &stubGenerator{reply: "unused"}
	p := newTestPipeline(&stubSearcher{}, extractor, generator)

	state := p.Run(context.Background(), "nothing matches this")

	assert.Equal(t, []string{
		msgNoArticlesFound,
		msgNothingToExtract,
		msgNothingToAnalyze,
		msgNothingToSummarize,
	}, state.Errors)
	assert.Empty(t, state.RawArticles)
	assert.Empty(t, state.ExtractedArticles)
	assert.Empty(t, state.AnalyzedArticles)
	assert.Empty(t, state.Summary)
	assert.Zero(t, extractor.calls)
	assert.Empty(t, generator.prompts)
	assert.False(t, state.Succeeded())
}

func TestPipelineRecordsSearchFailure(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&stubSearcher{err: errors.New("boom")}, &stubExtractor{}, &stubGenerator{})

	state := p.Run(context.Background(), "markets today")

	require.NotEmpty(t, state.Errors)
	assert.Equal(t, "Search failed: boom", state.Errors[0])
	assert.Equal(t, domain.IntentBreakingNews, state.Intent)
	assert.Len(t, state.Errors, 4)
}

func TestPipelineRecoversFromStagePanic(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{articles: []domain.Article{reutersArticle()}}
	p := newTestPipeline(searcher, &stubExtractor{panicWith: "kaboom"}, &stubGenerator{reply: "x"})

	state := p.Run(context.Background(), "quantum computing")

	assert.Equal(t, []string{
		"Extraction failed: panic: kaboom",
		msgNothingToAnalyze,
		msgNothingToSummarize,
	}, state.Errors)
	assert.Len(t, state.RawArticles, 1)
}

func TestPipelineSummaryFailureLeavesSummaryEmpty(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{articles: []domain.Article{reutersArticle()}}
	p := newTestPipeline(searcher, &stubExtractor{}, &stubGenerator{err: domain.ErrEmptyCompletion})

	state := p.Run(context.Background(), "quantum computing")

	assert.Equal(t, []string{"Summarization failed: " + domain.ErrEmptyCompletion.Error()}, state.Errors)
	assert.Empty(t, state.Summary)
	assert.Len(t, state.AnalyzedArticles, 1)
}

func TestPipelineWithoutGenerator(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{articles: []domain.Article{reutersArticle()}}
	p := newTestPipeline(searcher, &stubExtractor{}, nil)

	state := p.Run(context.Background(), "quantum computing")

	assert.Equal(t, []string{"Summarization failed: " + errNoTextGenerator.Error()}, state.Errors)
}

func TestPipelineCancellationFailsRemainingStages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	searcher := &stubSearcher{articles: []domain.Article{reutersArticle()}, hook: cancel}
	extractor := &stubExtractor{}
	p := newTestPipeline(searcher, extractor, &stubGenerator{reply: "x"})

	state := p.Run(ctx, "quantum computing")

	assert.Equal(t, []string{
		"Search failed: context canceled",
		"Extraction failed: context canceled",
		"Analysis failed: context canceled",
		"Summarization failed: context canceled",
	}, state.Errors)
	assert.Empty(t, state.RawArticles)
	assert.Zero(t, extractor.calls)
	require.Len(t, state.StepLog, 1)
	assert.Equal(t, domain.StagePlan, state.StepLog[0].Stage)
}

func TestRankByCredibilityIsStable(t *testing.T) {
	t.Parallel()

	scored := func(title string, score float64) domain.Article {
		return domain.Article{Title: title, Credibility: &domain.Credibility{Score: score}}
	}
	in := []domain.Article{scored("a", 3.5), scored("b", 4.4), scored("c", 3.5), scored("d", 1.6)}

	got := RankByCredibility(in)
	titles := []string{got[0].Title, got[1].Title, got[2].Title, got[3].Title}
	assert.Equal(t, []string{"b", "a", "c", "d"}, titles)
	assert.Equal(t, "a", in[0].Title)

	again := RankByCredibility(got)
	assert.Equal(t, got, again)
}
