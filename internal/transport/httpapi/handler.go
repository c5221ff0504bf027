package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/ports"
	"NewsAggregator/internal/report"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type handler struct {
	digests DigestService
	archive ports.RunArchive
}

type digestRequest struct {
	Query string `json:"query"`
}

type articleResponse struct {
	URL                 string  `json:"url"`
	Title               string  `json:"title"`
	Source              string  `json:"source"`
	PublishedAt         string  `json:"published_at,omitempty"`
	APISource           string  `json:"api_source,omitempty"`
	ExtractionSucceeded bool    `json:"extraction_succeeded"`
	CredibilityScore    float64 `json:"credibility_score"`
	CredibilityTier     string  `json:"credibility_tier"`
}

type digestResponse struct {
	ID                string             `json:"id"`
	Query             string             `json:"query"`
	Intent            string             `json:"intent"`
	Summary           string             `json:"summary"`
	Success           bool               `json:"success"`
	ProcessingSeconds float64            `json:"processing_time"`
	Errors            []string           `json:"errors"`
	Sources           []report.SourceRow `json:"sources"`
	Articles          []articleResponse  `json:"articles"`
}

type runResponse struct {
	ID                string   `json:"id"`
	Query             string   `json:"query"`
	Intent            string   `json:"intent"`
	Summary           string   `json:"summary"`
	ArticleCount      int      `json:"article_count"`
	TopScore          float64  `json:"top_score"`
	Errors            []string `json:"errors"`
	StartedAt         string   `json:"started_at"`
	ProcessingSeconds float64  `json:"processing_time"`
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createDigest(c echo.Context) error {
	var req digestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	state, err := h.digests.Digest(c.Request().Context(), req.Query)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, toDigestResponse(state))
}

func (h *handler) listDigests(c echo.Context) error {
	if h.archive == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "run archive is disabled"})
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = min(n, maxHistoryLimit)
	}

	runs, err := h.archive.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	out := make([]runResponse, 0, len(runs))
	for _, r := range runs {
		errs := r.Errors
		if errs == nil {
			errs = []string{}
		}
		out = append(out, runResponse{
			ID:                r.ID,
			Query:             r.Query,
			Intent:            string(r.Intent),
			Summary:           r.Summary,
			ArticleCount:      r.ArticleCount,
			TopScore:          r.TopScore,
			Errors:            errs,
			StartedAt:         r.StartedAt.Format(time.RFC3339),
			ProcessingSeconds: r.ProcessingTime.Seconds(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyQuery) ||
		errors.Is(err, domain.ErrQueryTooShort) ||
		errors.Is(err, domain.ErrQueryTooLong)
}

func toDigestResponse(state domain.RunState) digestResponse {
	articles := make([]articleResponse, 0, len(state.AnalyzedArticles))
	for _, a := range state.AnalyzedArticles {
		articles = append(articles, articleResponse{
			URL:                 a.URL,
			Title:               a.Title,
			Source:              a.Source,
			PublishedAt:         a.PublishedAt,
			APISource:           a.APISource,
			ExtractionSucceeded: a.ExtractionSucceeded,
			CredibilityScore:    a.Score(),
			CredibilityTier:     a.Tier(),
		})
	}

	errs := state.Errors
	if errs == nil {
		errs = []string{}
	}

	return digestResponse{
		ID:                state.ID,
		Query:             state.Query,
		Intent:            string(state.Intent),
		Summary:           state.Summary,
		Success:           state.Succeeded(),
		ProcessingSeconds: state.ProcessingTime.Seconds(),
		Errors:            errs,
		Sources:           report.Sources(state.AnalyzedArticles),
		Articles:          articles,
	}
}
