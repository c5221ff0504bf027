package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/metrics"
	"NewsAggregator/internal/ports"
)

const (
	msgNoArticlesFound     = "No articles found from any provider"
	msgNothingToExtract    = "No articles to extract"
	msgNothingToAnalyze    = "No articles to analyze"
	msgNothingToSummarize  = "No articles to summarize"
	defaultMaxResults      = 5
	defaultContextSuffix   = "news 2025"
	summaryLengthCountKey  = "summary_length"
	articlesFoundCountKey  = "articles_found"
	successfulCountKey     = "successful"
	totalArticlesCountKey  = "total_articles"
	analyzedCountKey       = "articles_analyzed"
	topCredibilityScoreKey = "top_credibility"
)

var errNoTextGenerator = errors.New("text generation service is not configured")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Searcher      ports.Searcher
	Extractor     ports.Extractor
	Analyzer      ports.Analyzer
	Generator     ports.TextGenerator
	MaxResults    int
	ContextSuffix string
	RunTimeout    time.Duration
	Now           func() time.Time
	NewID         func() string
	Logger        *slog.Logger
}

// Pipeline runs plan → search → extract → analyze → summarize for one query.
// It is the only owner of stage transitions; every stage always runs and a
// failing stage is recorded in RunState.Errors instead of aborting the run.
type Pipeline struct {
	searcher      ports.Searcher
	extractor     ports.Extractor
	analyzer      ports.Analyzer
	generator     ports.TextGenerator
	maxResults    int
	contextSuffix string
	runTimeout    time.Duration
	now           func() time.Time
	newID         func() string
	logger        *slog.Logger
}

type stageFunc func(ctx context.Context, state domain.RunState) (domain.RunState, error)

type stage struct {
	name domain.Stage
	run  stageFunc
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		searcher:      deps.Searcher,
		extractor:     deps.Extractor,
		analyzer:      deps.Analyzer,
		generator:     deps.Generator,
		maxResults:    deps.MaxResults,
		contextSuffix: deps.ContextSuffix,
		runTimeout:    deps.RunTimeout,
		now:           deps.Now,
		newID:         deps.NewID,
		logger:        deps.Logger,
	}
	if p.maxResults <= 0 {
		p.maxResults = defaultMaxResults
	}
	if p.contextSuffix == "" {
		p.contextSuffix = defaultContextSuffix
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Run executes all five stages for query and always returns a RunState,
// however degraded. Query validation happens before Run.
func (p *Pipeline) Run(ctx context.Context, query string) domain.RunState {
	started := p.now()
	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	state := domain.NewRunState(p.newID(), query, started)
	logger := p.logger.With("run_id", state.ID)
	logger.Info("pipeline started", "query", query)

	for _, st := range p.stages() {
		state = p.runStage(ctx, logger, st, state)
	}

	state.ProcessingTime = p.now().Sub(started)
	metrics.RecordRun(state.Succeeded())
	logger.Info("pipeline finished",
		"articles", len(state.AnalyzedArticles),
		"errors", len(state.Errors),
		"duration_ms", state.ProcessingTime.Milliseconds())
	return state
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{name: domain.StagePlan, run: p.plan},
		{name: domain.StageSearch, run: p.search},
		{name: domain.StageExtract, run: p.extract},
		{name: domain.StageAnalyze, run: p.analyze},
		{name: domain.StageSummarize, run: p.summarize},
	}
}

func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, st stage, state domain.RunState) domain.RunState {
	started := time.Now()
	before := len(state.Errors)

	next := p.invoke(ctx, st, state)

	added := len(next.Errors) - before
	metrics.RecordStage(string(st.name), time.Since(started).Seconds(), added)
	for _, msg := range next.Errors[before:] {
		logger.Warn("stage recorded error", "stage", st.name, "error", msg)
	}
	return next
}

// invoke runs one stage. On error, panic or run cancellation the incoming
// state is passed through with one error appended.
func (p *Pipeline) invoke(ctx context.Context, st stage, state domain.RunState) (out domain.RunState) {
	if err := ctx.Err(); err != nil {
		return failed(state, st.name, err)
	}

	defer func() {
		if r := recover(); r != nil {
			out = failed(state, st.name, fmt.Errorf("panic: %v", r))
		}
	}()

	next, err := st.run(ctx, state)
	if err != nil {
		return failed(state, st.name, err)
	}
	if err := ctx.Err(); err != nil {
		return failed(state, st.name, err)
	}
	return next
}

func failed(state domain.RunState, name domain.Stage, err error) domain.RunState {
	return state.WithError(fmt.Sprintf("%s failed: %v", name.Title(), err))
}

func (p *Pipeline) plan(_ context.Context, state domain.RunState) (domain.RunState, error) {
	intent := ClassifyIntent(state.Query)
	variants := QueryVariants(state.Query, p.contextSuffix)

	state.Intent = intent
	state.SearchQueryVariants = variants
	return state.WithStep(domain.StepRecord{
		Stage:     domain.StagePlan,
		Timestamp: p.now(),
		Counts:    map[string]int{"query_variations": len(variants)},
		Notes:     map[string]string{"intent": string(intent)},
	}), nil
}

// search consults only the first (verbatim) query variant.
func (p *Pipeline) search(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	if p.searcher == nil {
		return state, domain.ErrNoProviders
	}
	if len(state.SearchQueryVariants) == 0 {
		return state, errors.New("no search query planned")
	}

	started := p.now()
	primary := state.SearchQueryVariants[0]
	articles, err := p.searcher.Search(ctx, primary, p.maxResults)
	if err != nil {
		return state, err
	}
	if articles == nil {
		articles = []domain.Article{}
	}

	state.RawArticles = articles
	if len(articles) == 0 {
		state = state.WithError(msgNoArticlesFound)
	}
	return state.WithStep(domain.StepRecord{
		Stage:     domain.StageSearch,
		Timestamp: p.now(),
		Duration:  p.now().Sub(started),
		Counts:    map[string]int{articlesFoundCountKey: len(articles)},
		Notes:     map[string]string{"query": primary},
	}), nil
}

func (p *Pipeline) extract(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	if len(state.RawArticles) == 0 {
		return state.WithError(msgNothingToExtract), nil
	}
	if p.extractor == nil {
		return state, errors.New("content extractor is not configured")
	}

	started := p.now()
	extracted := p.extractor.Extract(ctx, state.RawArticles)

	succeeded := 0
	for _, a := range extracted {
		if a.ExtractionSucceeded {
			succeeded++
		}
	}

	state.ExtractedArticles = extracted
	return state.WithStep(domain.StepRecord{
		Stage:     domain.StageExtract,
		Timestamp: p.now(),
		Duration:  p.now().Sub(started),
		Counts: map[string]int{
			totalArticlesCountKey: len(extracted),
			successfulCountKey:    succeeded,
		},
	}), nil
}

func (p *Pipeline) analyze(_ context.Context, state domain.RunState) (domain.RunState, error) {
	if len(state.ExtractedArticles) == 0 {
		return state.WithError(msgNothingToAnalyze), nil
	}
	if p.analyzer == nil {
		return state, errors.New("credibility analyzer is not configured")
	}

	started := p.now()
	ranked := RankByCredibility(p.analyzer.Analyze(state.ExtractedArticles))

	top := 0.0
	if len(ranked) > 0 {
		top = ranked[0].Score()
	}

	state.AnalyzedArticles = ranked
	return state.WithStep(domain.StepRecord{
		Stage:     domain.StageAnalyze,
		Timestamp: p.now(),
		Duration:  p.now().Sub(started),
		Counts:    map[string]int{analyzedCountKey: len(ranked)},
		Scores:    map[string]float64{topCredibilityScoreKey: top},
	}), nil
}

func (p *Pipeline) summarize(ctx context.Context, state domain.RunState) (domain.RunState, error) {
	if len(state.AnalyzedArticles) == 0 {
		return state.WithError(msgNothingToSummarize), nil
	}
	if p.generator == nil {
		return state, errNoTextGenerator
	}

	started := p.now()
	prompt := BuildSummaryPrompt(state.Query, state.AnalyzedArticles)
	summary, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return state, err
	}

	state.Summary = summary
	return state.WithStep(domain.StepRecord{
		Stage:     domain.StageSummarize,
		Timestamp: p.now(),
		Duration:  p.now().Sub(started),
		Counts:    map[string]int{summaryLengthCountKey: len([]rune(summary))},
	}), nil
}

// RankByCredibility returns a copy sorted by descending score; ties keep
// their input order.
func RankByCredibility(articles []domain.Article) []domain.Article {
	ranked := make([]domain.Article, len(articles))
	copy(ranked, articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	return ranked
}
