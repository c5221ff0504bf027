package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/metrics"
	"NewsAggregator/internal/ports"
)

// Extractor fetches article pages and derives plain-text bodies.
type Extractor struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	workers     int
	maxBody     int64
	readability bool
	cache       *expirable.LRU[string, string]
	logger      *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; client may be nil.
func NewExtractor(cfg config.ExtractorConfig, client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{}
	}
	e := &Extractor{
		client:      client,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		workers:     cfg.Workers,
		maxBody:     cfg.MaxBodyBytes,
		readability: cfg.ReadabilityFallback,
		logger:      logger,
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Second
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	if e.maxBody <= 0 {
		e.maxBody = 5 << 20
	}
	if cfg.CacheSize > 0 {
		e.cache = expirable.NewLRU[string, string](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return e
}

// Extract returns one article per input in input order. Fetches run on a
// bounded pool; a failed fetch only degrades its own article.
func (e *Extractor) Extract(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, article := range articles {
		g.Go(func() error {
			out[i] = e.extractOne(ctx, article)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (e *Extractor) extractOne(ctx context.Context, article domain.Article) domain.Article {
	if article.URL == "" {
		metrics.RecordExtraction("skipped")
		return withFallback(article)
	}

	if e.cache != nil {
		if text, ok := e.cache.Get(article.URL); ok {
			metrics.RecordExtraction("cached")
			article.FullContent = text
			article.ExtractionSucceeded = true
			return article
		}
	}

	raw, err := e.fetch(ctx, article.URL)
	if err != nil {
		e.warn("fetch failed", "url", article.URL, "error", err)
		metrics.RecordExtraction("fallback")
		return withFallback(article)
	}

	text := ""
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw)); err == nil {
		text = ExtractText(doc)
	}
	if !LongEnough(text) && e.readability {
		text = readabilityText(raw, article.URL)
	}

	if !LongEnough(text) {
		e.debug("content too short", "url", article.URL, "length", len(text))
		metrics.RecordExtraction("fallback")
		return withFallback(article)
	}

	if e.cache != nil {
		e.cache.Add(article.URL, text)
	}
	metrics.RecordExtraction("extracted")
	article.FullContent = text
	article.ExtractionSucceeded = true
	return article
}

// fetch downloads pageURL and returns its body transcoded to UTF-8.
func (e *Extractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, e.maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return raw, nil
}

func withFallback(article domain.Article) domain.Article {
	article.FullContent = article.Description
	article.ExtractionSucceeded = false
	return article
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
