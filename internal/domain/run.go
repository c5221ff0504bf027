package domain

import (
	"slices"
	"time"
)

// Stage names one of the five ordered pipeline steps.
type Stage string

const (
	StagePlan      Stage = "plan"
	StageSearch    Stage = "search"
	StageExtract   Stage = "extract"
	StageAnalyze   Stage = "analyze"
	StageSummarize Stage = "summarize"
)

// Title is the capitalised noun used in error strings ("Search failed: ...").
func (s Stage) Title() string {
	switch s {
	case StagePlan:
		return "Planning"
	case StageSearch:
		return "Search"
	case StageExtract:
		return "Extraction"
	case StageAnalyze:
		return "Analysis"
	case StageSummarize:
		return "Summarization"
	default:
		return string(s)
	}
}

// Intent classifies what kind of coverage a query asks for.
type Intent string

const (
	IntentBreakingNews Intent = "breaking_news"
	IntentAnalysis     Intent = "analysis"
	IntentGeneral      Intent = "general"
)

// StepRecord is one telemetry entry appended by a stage.
type StepRecord struct {
	Stage     Stage
	Timestamp time.Time
	Duration  time.Duration
	Counts    map[string]int
	Scores    map[string]float64
	Notes     map[string]string
}

// RunState is the record of one pipeline execution. Stages never mutate a
// RunState in place; the With* helpers return a copy whose append-only
// sequences do not alias the receiver's backing arrays.
type RunState struct {
	ID                  string
	Query               string
	Intent              Intent
	SearchQueryVariants []string

	RawArticles       []Article
	ExtractedArticles []Article
	AnalyzedArticles  []Article

	Summary        string
	Errors         []string
	StepLog        []StepRecord
	StartedAt      time.Time
	ProcessingTime time.Duration
}

// NewRunState creates the empty state for one incoming query.
func NewRunState(id, query string, startedAt time.Time) RunState {
	return RunState{
		ID:                  id,
		Query:               query,
		SearchQueryVariants: []string{},
		RawArticles:         []Article{},
		ExtractedArticles:   []Article{},
		AnalyzedArticles:    []Article{},
		Errors:              []string{},
		StepLog:             []StepRecord{},
		StartedAt:           startedAt,
	}
}

// WithError returns a copy with msg appended to Errors.
func (s RunState) WithError(msg string) RunState {
	s.Errors = append(slices.Clip(s.Errors), msg)
	return s
}

// WithStep returns a copy with rec appended to StepLog.
func (s RunState) WithStep(rec StepRecord) RunState {
	s.StepLog = append(slices.Clip(s.StepLog), rec)
	return s
}

// Succeeded reports whether the run produced a summary without recording errors.
func (s RunState) Succeeded() bool {
	return len(s.Errors) == 0 && s.Summary != ""
}

// TopArticles returns up to n analyzed articles in ranked order.
func (s RunState) TopArticles(n int) []Article {
	if n > len(s.AnalyzedArticles) {
		n = len(s.AnalyzedArticles)
	}
	if n < 0 {
		n = 0
	}
	return s.AnalyzedArticles[:n]
}
