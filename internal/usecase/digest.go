package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/ports"
	"NewsAggregator/internal/report"
)

const sinkTimeout = 10 * time.Second

// Runner executes the pipeline for one validated query.
type Runner interface {
	Run(ctx context.Context, query string) domain.RunState
}

// DigestDeps wires the pipeline with its optional result sinks.
type DigestDeps struct {
	Runner   Runner
	Archive  ports.RunArchive
	Notifier ports.Notifier
	Now      func() time.Time
	Logger   *slog.Logger
}

// Digester validates a topic, runs the pipeline and hands the finished run
// to the archive and notifier. Sink failures never change the result.
type Digester struct {
	runner   Runner
	archive  ports.RunArchive
	notifier ports.Notifier
	now      func() time.Time
	logger   *slog.Logger
}

// NewDigester builds the digest service.
func NewDigester(deps DigestDeps) *Digester {
	d := &Digester{
		runner:   deps.Runner,
		archive:  deps.Archive,
		notifier: deps.Notifier,
		now:      deps.Now,
		logger:   deps.Logger,
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Digest returns a validation error for bad input; otherwise it always
// returns the run, however degraded.
func (d *Digester) Digest(ctx context.Context, raw string) (domain.RunState, error) {
	query, err := domain.ValidateQuery(raw)
	if err != nil {
		return domain.RunState{}, err
	}

	state := d.runner.Run(ctx, query)
	d.deliver(ctx, state)
	return state, nil
}

func (d *Digester) deliver(ctx context.Context, state domain.RunState) {
	// The run may have ended because ctx expired; sinks get their own budget.
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if d.archive != nil {
		if err := d.archive.SaveRun(sinkCtx, state); err != nil {
			d.logger.Warn("archive run failed", "run_id", state.ID, "error", err)
		}
	}

	if d.notifier != nil && len(state.AnalyzedArticles) > 0 {
		var b strings.Builder
		if err := report.Export(&b, state, d.now()); err != nil {
			d.logger.Warn("render digest failed", "run_id", state.ID, "error", err)
			return
		}
		if err := d.notifier.PublishDigest(sinkCtx, b.String()); err != nil {
			d.logger.Warn("publish digest failed", "run_id", state.ID, "error", err)
		}
	}
}
