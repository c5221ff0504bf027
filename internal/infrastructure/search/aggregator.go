package search

import (
	"context"
	"log/slog"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/metrics"
	"NewsAggregator/internal/ports"
	"NewsAggregator/internal/provider"
)

// Aggregator implements ports.Searcher over registered providers. Providers
// are consulted in the configured order; each later provider is called only
// while fewer than maxResults unique articles have been collected.
type Aggregator struct {
	registry *provider.Registry
	order    []string
	language string
	logger   *slog.Logger
}

var _ ports.Searcher = (*Aggregator)(nil)

// NewAggregator wires the provider registry with the config-defined order.
func NewAggregator(reg *provider.Registry, order []string, language string, log *slog.Logger) *Aggregator {
	return &Aggregator{
		registry: reg,
		order:    order,
		language: language,
		logger:   log,
	}
}

// Search merges provider results, deduplicates by URL (first seen wins) and
// truncates to maxResults. Provider failures are logged, never returned.
func (a *Aggregator) Search(ctx context.Context, query string, maxResults int) ([]domain.Article, error) {
	if maxResults <= 0 {
		return []domain.Article{}, nil
	}

	providers := a.resolve()
	if len(providers) == 0 {
		return nil, domain.ErrNoProviders
	}

	collected := make([]domain.Article, 0, maxResults)
	for i, p := range providers {
		// The gap is measured after deduplication, so duplicates never count toward maxResults.
		if i > 0 && len(collected) >= maxResults {
			break
		}

		a.debug("query provider", "provider", p.Name(), "collected", len(collected))
		results, err := p.Search(ctx, provider.Query{
			Text:     query,
			Language: a.language,
			Limit:    maxResults,
		})
		metrics.RecordProvider(p.Name(), err)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("provider search failed", "provider", p.Name(), "error", err)
			}
			continue
		}

		a.debug("provider produced articles", "provider", p.Name(), "count", len(results))
		collected = Deduplicate(append(collected, results...))
	}

	if len(collected) > maxResults {
		collected = collected[:maxResults]
	}
	a.debug("search done", "total_articles", len(collected))
	return collected, nil
}

func (a *Aggregator) resolve() []provider.Provider {
	if a.registry == nil {
		return nil
	}
	resolved := make([]provider.Provider, 0, len(a.order))
	for _, name := range a.order {
		p, err := a.registry.Resolve(name)
		if err != nil {
			a.debug("skip provider", "provider", name, "reason", err)
			continue
		}
		resolved = append(resolved, p)
	}
	return resolved
}

// Deduplicate keeps the first article per URL. Articles without a URL are
// never treated as duplicates of each other.
func Deduplicate(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if article.URL != "" {
			if _, ok := seen[article.URL]; ok {
				continue
			}
			seen[article.URL] = struct{}{}
		}
		unique = append(unique, article)
	}
	return unique
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
