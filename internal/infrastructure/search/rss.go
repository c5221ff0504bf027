package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/provider"
)

// RSSProvider searches a Google-News-style RSS endpoint. It needs no key.
type RSSProvider struct {
	endpoint string
	region   string
	client   *http.Client
}

var _ provider.Provider = (*RSSProvider)(nil)

// NewRSSProvider builds a client from configuration; client may be nil.
func NewRSSProvider(cfg config.RSSProviderConfig, client *http.Client) *RSSProvider {
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}
	}
	region := strings.ToUpper(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = "US"
	}
	return &RSSProvider{endpoint: cfg.Endpoint, region: region, client: client}
}

// Name identifies the provider inside the registry.
func (p *RSSProvider) Name() string {
	return config.ProviderRSS
}

// Search fetches the feed for q.Text and maps up to q.Limit items.
func (p *RSSProvider) Search(ctx context.Context, q provider.Query) ([]domain.Article, error) {
	feedURL, err := p.buildURL(q)
	if err != nil {
		return nil, fmt.Errorf("rss: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("rss: new request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss: unexpected status %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rss: parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if q.Limit > 0 && len(articles) >= q.Limit {
			break
		}
		articles = append(articles, itemToArticle(item, feed.Title, p.Name()))
	}
	return articles, nil
}

func (p *RSSProvider) buildURL(q provider.Query) (string, error) {
	parsed, err := url.Parse(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", p.endpoint, err)
	}
	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	params := parsed.Query()
	params.Set("q", q.Text)
	params.Set("hl", lang+"-"+p.region)
	params.Set("gl", p.region)
	params.Set("ceid", p.region+":"+lang)
	parsed.RawQuery = params.Encode()
	return parsed.String(), nil
}

// itemToArticle maps a feed item. Google News titles carry the publisher
// after the last " - ".
func itemToArticle(item *gofeed.Item, feedTitle, apiSource string) domain.Article {
	title := provider.CleanText(item.Title)
	source := feedTitle
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		source = title[idx+3:]
		title = title[:idx]
	}

	var published string
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		published = item.Published
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	return domain.Article{
		URL:         strings.TrimSpace(item.Link),
		Title:       title,
		Source:      provider.SourceOrUnknown(source),
		PublishedAt: published,
		Description: provider.CleanText(description),
		APISource:   apiSource,
	}
}
