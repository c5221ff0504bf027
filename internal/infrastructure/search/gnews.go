package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/provider"
)

// GNewsProvider queries the GNews /search endpoint.
type GNewsProvider struct {
	endpoint string
	token    string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ provider.Provider = (*GNewsProvider)(nil)

type gnewsResponse struct {
	Errors   []string       `json:"errors"`
	Articles []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// NewGNewsProvider builds a client from configuration; client may be nil.
func NewGNewsProvider(cfg config.HTTPProvider, client *http.Client) *GNewsProvider {
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}
	}
	return &GNewsProvider{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		token:    cfg.APIKey,
		client:   client,
		limiter:  newLimiter(cfg.RequestsPerSecond),
	}
}

// Name identifies the provider inside the registry.
func (p *GNewsProvider) Name() string {
	return config.ProviderGNews
}

// Search returns up to q.Limit articles.
func (p *GNewsProvider) Search(ctx context.Context, q provider.Query) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("lang", q.Language)
	params.Set("max", strconv.Itoa(q.Limit))
	params.Set("token", p.token)

	var payload gnewsResponse
	if err := getJSON(ctx, p.client, p.limiter, p.endpoint+"/search?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("gnews: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("gnews: %s", strings.Join(payload.Errors, "; "))
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, domain.Article{
			URL:         strings.TrimSpace(a.URL),
			Title:       provider.CleanText(a.Title),
			Source:      provider.SourceOrUnknown(a.Source.Name),
			PublishedAt: a.PublishedAt,
			Description: provider.CleanText(a.Description),
			RawContent:  provider.CleanText(a.Content),
			ImageURL:    a.Image,
			APISource:   p.Name(),
		})
	}
	return articles, nil
}
