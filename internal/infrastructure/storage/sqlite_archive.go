package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/ports"
)

const (
	memoryPath        = ":memory:"
	defaultRecentRuns = 10
)

// SQLiteArchive keeps a history of finished runs in SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

var _ ports.RunArchive = (*SQLiteArchive)(nil)

// OpenSQLiteArchive opens (or creates) the archive at path. ":memory:" keeps
// it in process for the lifetime of the archive.
func OpenSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == memoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != memoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	a := &SQLiteArchive{db: db}
	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return a, nil
}

func (a *SQLiteArchive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		intent TEXT NOT NULL,
		summary TEXT NOT NULL,
		article_count INTEGER NOT NULL,
		top_score REAL NOT NULL,
		errors TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		processing_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_articles (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT,
		title TEXT,
		source TEXT,
		published_at TEXT,
		score REAL NOT NULL,
		tier TEXT NOT NULL,
		extracted INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`

	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// SaveRun stores the run and its ranked articles in one transaction.
// Saving the same run ID twice replaces the earlier record.
func (a *SQLiteArchive) SaveRun(ctx context.Context, run domain.RunState) error {
	errs, err := json.Marshal(run.Errors)
	if err != nil {
		return fmt.Errorf("encode errors: %w", err)
	}

	top := 0.0
	if len(run.AnalyzedArticles) > 0 {
		top = run.AnalyzedArticles[0].Score()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := sq.Delete("run_articles").Where(sq.Eq{"run_id": run.ID}).RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear run articles: %w", err)
	}

	_, err = sq.Insert("runs").
		Options("OR REPLACE").
		Columns("id", "query", "intent", "summary", "article_count", "top_score", "errors", "started_at", "processing_ms").
		Values(run.ID, run.Query, string(run.Intent), run.Summary, len(run.AnalyzedArticles), top,
			string(errs), run.StartedAt.UnixNano(), run.ProcessingTime.Milliseconds()).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.AnalyzedArticles) > 0 {
		insert := sq.Insert("run_articles").
			Columns("run_id", "position", "url", "title", "source", "published_at", "score", "tier", "extracted")
		for i, article := range run.AnalyzedArticles {
			insert = insert.Values(run.ID, i+1, article.URL, article.Title, article.Source,
				article.PublishedAt, article.Score(), article.Tier(), article.ExtractionSucceeded)
		}
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert run articles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns lists archived runs, newest first.
func (a *SQLiteArchive) RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = defaultRecentRuns
	}

	rows, err := sq.Select("id", "query", "intent", "summary", "article_count", "top_score", "errors", "started_at", "processing_ms").
		From("runs").
		OrderBy("started_at DESC", "rowid DESC").
		Limit(uint64(limit)).
		RunWith(a.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.RunSummary, 0, limit)
	for rows.Next() {
		var (
			r          domain.RunSummary
			intent     string
			errs       string
			startedAt  int64
			processing int64
		)
		if err := rows.Scan(&r.ID, &r.Query, &intent, &r.Summary, &r.ArticleCount, &r.TopScore, &errs, &startedAt, &processing); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(errs), &r.Errors); err != nil {
			return nil, fmt.Errorf("decode errors for run %s: %w", r.ID, err)
		}
		r.Intent = domain.Intent(intent)
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.ProcessingTime = time.Duration(processing) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}
