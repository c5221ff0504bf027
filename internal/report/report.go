// Package report renders a finished run for people: a markdown summary
// block, a ranked sources table, an error list and a plain-text export.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"NewsAggregator/internal/domain"
)

const (
	// SourceLimit is the number of ranked articles shown in the sources table.
	SourceLimit = 5

	titleColumns = 70
	maxStars     = 5
	timestampFmt = "2006-01-02 15:04:05"
	ruleWidth    = 80
)

// SourceRow is one line of the ranked sources table.
type SourceRow struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Date        string `json:"date"`
	Credibility string `json:"credibility"`
	URL         string `json:"url"`
}

// Summary renders the markdown summary block for a run.
func Summary(state domain.RunState, generatedAt time.Time) string {
	status := "✅ Successfully aggregated and synthesized"
	if !state.Succeeded() {
		status = fmt.Sprintf("⚠️ Completed with %d error(s)", len(state.Errors))
	}

	body := state.Summary
	if body == "" {
		body = "_No summary could be generated._"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 📋 Summary for: %q\n\n", state.Query)
	b.WriteString(body)
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", generatedAt.Format(timestampFmt))
	fmt.Fprintf(&b, "**Processing Time:** %.2f seconds  \n", state.ProcessingTime.Seconds())
	fmt.Fprintf(&b, "**Status:** %s\n", status)
	return b.String()
}

// Sources builds table rows for the top ranked articles.
func Sources(articles []domain.Article) []SourceRow {
	if len(articles) > SourceLimit {
		articles = articles[:SourceLimit]
	}

	rows := make([]SourceRow, 0, len(articles))
	for i, a := range articles {
		rows = append(rows, SourceRow{
			Rank:        i + 1,
			Title:       truncateTitle(a.Title),
			Source:      orDefault(a.Source, "Unknown"),
			Date:        shortDate(a.PublishedAt),
			Credibility: Stars(a.Score()),
			URL:         orDefault(a.URL, "N/A"),
		})
	}
	return rows
}

// SourcesTable renders rows as a markdown table.
func SourcesTable(rows []SourceRow) string {
	if len(rows) == 0 {
		return "_No sources._\n"
	}

	var b strings.Builder
	b.WriteString("| Rank | Title | Source | Date | Credibility | URL |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			r.Rank, escapeCell(r.Title), escapeCell(r.Source), r.Date, r.Credibility, r.URL)
	}
	return b.String()
}

// Stars renders floor(score) filled stars out of five.
func Stars(score float64) string {
	filled := int(math.Floor(score))
	filled = min(max(filled, 0), maxStars)
	return strings.Repeat("⭐", filled) + strings.Repeat("☆", maxStars-filled)
}

// Errors renders the error list shown under a result.
func Errors(errs []string) string {
	if len(errs) == 0 {
		return "✅ No errors"
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "- "+e)
	}
	return "⚠️ Errors encountered:\n" + strings.Join(lines, "\n")
}

// Export writes the summary followed by a plain-text SOURCES section.
func Export(w io.Writer, state domain.RunState, generatedAt time.Time) error {
	var b strings.Builder
	b.WriteString(Summary(state, generatedAt))

	rows := Sources(state.AnalyzedArticles)
	if len(rows) > 0 {
		rule := strings.Repeat("=", ruleWidth)
		fmt.Fprintf(&b, "\n\n%s\nSOURCES\n%s\n\n", rule, rule)
		for _, r := range rows {
			fmt.Fprintf(&b, "%d. %s\n", r.Rank, r.Title)
			fmt.Fprintf(&b, "   Source: %s\n", r.Source)
			fmt.Fprintf(&b, "   Date: %s\n", r.Date)
			fmt.Fprintf(&b, "   Credibility: %s\n", r.Credibility)
			fmt.Fprintf(&b, "   URL: %s\n\n", r.URL)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func truncateTitle(title string) string {
	if title == "" {
		return "N/A"
	}
	if runewidth.StringWidth(title) <= titleColumns {
		return title
	}
	return runewidth.Truncate(title, titleColumns, "") + "..."
}

func shortDate(publishedAt string) string {
	if publishedAt == "" {
		return "N/A"
	}
	runes := []rune(publishedAt)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return string(runes)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
