package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/provider"
)

// NewsAPIProvider queries the NewsAPI /everything endpoint.
type NewsAPIProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ provider.Provider = (*NewsAPIProvider)(nil)

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewNewsAPIProvider builds a client from configuration; client may be nil.
func NewNewsAPIProvider(cfg config.HTTPProvider, client *http.Client) *NewsAPIProvider {
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}
	}
	return &NewsAPIProvider{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		client:   client,
		limiter:  newLimiter(cfg.RequestsPerSecond),
	}
}

// Name identifies the provider inside the registry.
func (p *NewsAPIProvider) Name() string {
	return config.ProviderNewsAPI
}

// Search returns up to q.Limit articles sorted by publish time.
func (p *NewsAPIProvider) Search(ctx context.Context, q provider.Query) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("sortBy", "publishedAt")
	params.Set("language", q.Language)
	params.Set("pageSize", strconv.Itoa(q.Limit))
	params.Set("apiKey", p.apiKey)

	var payload newsAPIResponse
	if err := getJSON(ctx, p.client, p.limiter, p.endpoint+"/everything?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("newsapi: %s: %s", payload.Code, payload.Message)
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
			ImageURL:    a.URLToImage,
			APISource:   p.Name(),
		})
	}
	return articles, nil
}

func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, target string, v any) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}
