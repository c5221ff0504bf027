package ports

import (
	"context"
	"time"

	"NewsAggregator/internal/domain"
)

// Searcher aggregates news-search providers into one deduplicated, capped list.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.Article, error)
}

// Extractor derives full-text bodies; output has the same length and order as input.
type Extractor interface {
	Extract(ctx context.Context, articles []domain.Article) []domain.Article
}

// Analyzer attaches credibility scores. Output order is not significant.
type Analyzer interface {
	Analyze(articles []domain.Article) []domain.Article
}

// TextGenerator is the opaque text-generation service used for summaries.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RunArchive keeps a history of finished runs.
type RunArchive interface {
	SaveRun(ctx context.Context, run domain.RunState) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// Notifier streams rendered digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring digests execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
