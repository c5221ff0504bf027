package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/provider"
)

func TestNewsAPIProviderSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "quantum computing", q.Get("q"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "5", q.Get("pageSize"))
		assert.Equal(t, "secret", q.Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
		  "status": "ok",
		  "articles": [
		    {"source": {"name": "Reuters"}, "title": "Qubits <b>scale</b>", "description": "A &amp; B", "url": "https://reuters.com/a", "publishedAt": "2026-10-18T08:00:00Z", "content": "snippet"},
		    {"source": {"name": ""}, "title": "No source", "url": ""}
		  ]
		}`))
	}))
	defer server.Close()

	p := NewNewsAPIProvider(config.HTTPProvider{Endpoint: server.URL + "/", APIKey: "secret"}, server.Client())
	articles, err := p.Search(context.Background(), provider.Query{Text: "quantum computing", Language: "en", Limit: 5})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "https://reuters.com/a", articles[0].URL)
	assert.Equal(t, "Qubits scale", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "A & B", articles[0].Description)
	assert.Equal(t, "newsapi", articles[0].APISource)
	assert.Equal(t, "Unknown", articles[1].Source)
}

func TestNewsAPIProviderErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer server.Close()

	p := NewNewsAPIProvider(config.HTTPProvider{Endpoint: server.URL}, server.Client())
	_, err := p.Search(context.Background(), provider.Query{Text: "x", Limit: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestGNewsProviderSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		assert.Equal(t, "3", r.URL.Query().Get("max"))
		_, _ = w.Write([]byte(`{"articles":[{"title":"T","description":"D","content":"C","url":"https://bbc.co.uk/x","image":"i.png","publishedAt":"2026-10-17T00:00:00Z","source":{"name":"BBC News"}}]}`))
	}))
	defer server.Close()

	p := NewGNewsProvider(config.HTTPProvider{Endpoint: server.URL, APIKey: "tok"}, server.Client())
	articles, err := p.Search(context.Background(), provider.Query{Text: "x", Language: "en", Limit: 3})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "BBC News", articles[0].Source)
	assert.Equal(t, "gnews", articles[0].APISource)
	assert.Equal(t, "i.png", articles[0].ImageURL)
}

func TestGNewsProviderHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["quota"]}`, http.StatusForbidden)
	}))
	defer server.Close()

	p := NewGNewsProvider(config.HTTPProvider{Endpoint: server.URL}, server.Client())
	_, err := p.Search(context.Background(), provider.Query{Text: "x", Limit: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestRSSProviderSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en-US", r.URL.Query().Get("hl"))
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Search feed</title>
<item><title>Chip breakthrough - The Guardian</title><link>https://guardian.com/a</link>
<pubDate>Sat, 17 Oct 2026 10:00:00 GMT</pubDate><description>&lt;a href="x"&gt;Chip&lt;/a&gt; news</description></item>
<item><title>Untitled publisher</title><link>https://example.com/b</link></item>
<item><title>Third - Wired</title><link>https://wired.com/c</link></item>
</channel></rss>`))
	}))
	defer server.Close()

	p := NewRSSProvider(config.RSSProviderConfig{Endpoint: server.URL + "/rss/search"}, server.Client())
	articles, err := p.Search(context.Background(), provider.Query{Text: "chips", Language: "en", Limit: 2})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Chip breakthrough", articles[0].Title)
	assert.Equal(t, "The Guardian", articles[0].Source)
	assert.Equal(t, "Chip news", articles[0].Description)
	published, err := time.Parse(time.RFC3339, articles[0].PublishedAt)
	require.NoError(t, err)
	assert.Equal(t, 2026, published.Year())

	assert.Equal(t, "Search feed", articles[1].Source)
	assert.Equal(t, "rss", articles[1].APISource)
}
