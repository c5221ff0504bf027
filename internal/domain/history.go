package domain

import "time"

// RunSummary is the archived view of a finished run.
type RunSummary struct {
	ID             string
	Query          string
	Intent         Intent
	Summary        string
	ArticleCount   int
	TopScore       float64
	Errors         []string
	StartedAt      time.Time
	ProcessingTime time.Duration
}
