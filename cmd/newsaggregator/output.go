package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/report"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().Width(100).PaddingLeft(2)
)

func printRun(w io.Writer, state domain.RunState, at time.Time) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Summary for %q", state.Query)))
	fmt.Fprintln(w)

	if state.Summary != "" {
		fmt.Fprintln(w, summaryStyle.Render(state.Summary))
	} else {
		fmt.Fprintln(w, dimStyle.Render("  no summary could be generated"))
	}
	fmt.Fprintln(w)

	rows := report.Sources(state.AnalyzedArticles)
	if len(rows) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Sources"))
		for _, r := range rows {
			fmt.Fprintf(w, "%d. %s\n", r.Rank, r.Title)
			fmt.Fprintf(w, "   %s  %s  %s\n", r.Credibility, r.Source, dimStyle.Render(r.Date))
			fmt.Fprintf(w, "   %s\n", dimStyle.Render(r.URL))
		}
		fmt.Fprintln(w)
	}

	status := fmt.Sprintf("Done in %.2fs at %s", state.ProcessingTime.Seconds(), at.Format(time.Kitchen))
	if state.Succeeded() {
		fmt.Fprintln(w, successStyle.Render(status))
		return
	}
	fmt.Fprintln(w, errorStyle.Render(report.Errors(state.Errors)))
	fmt.Fprintln(w, dimStyle.Render(status))
}

func printHistory(w io.Writer, runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no archived runs"))
		return
	}
	for _, r := range runs {
		status := successStyle.Render("ok")
		if len(r.Errors) > 0 {
			status = errorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
		}
		fmt.Fprintf(w, "%s  %s  %s  articles=%d top=%s  %s\n",
			dimStyle.Render(r.StartedAt.Local().Format("2006-01-02 15:04")),
			titleStyle.Render(r.Query),
			string(r.Intent),
			r.ArticleCount,
			report.Stars(r.TopScore),
			status)
		if r.Summary != "" {
			fmt.Fprintln(w, dimStyle.Render("  "+firstLine(r.Summary)))
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
