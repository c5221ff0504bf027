package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAggregator/internal/domain"
)

type stubRunner struct {
	state   domain.RunState
	queries []string
}

func (r *stubRunner) Run(_ context.Context, query string) domain.RunState {
	r.queries = append(r.queries, query)
	s := r.state
	s.Query = query
	return s
}

type stubArchive struct {
	saved []domain.RunState
	err   error
}

func (a *stubArchive) SaveRun(_ context.Context, run domain.RunState) error {
	a.saved = append(a.saved, run)
	return a.err
}

func (a *stubArchive) RecentRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

type stubNotifier struct {
	digests []string
	err     error
}

func (n *stubNotifier) PublishDigest(_ context.Context, digest string) error {
	n.digests = append(n.digests, digest)
	return n.err
}

func rankedState() domain.RunState {
	s := domain.NewRunState("run-1", "", fixedNow)
	s.Summary = "All good."
	s.AnalyzedArticles = []domain.Article{{
		URL: "https://reuters.com/a", Title: "Headline", Source: "Reuters",
		Credibility: &domain.Credibility{Score: 4.4, Tier: domain.TierCredible},
	}}
	return s
}

func TestDigestRejectsInvalidQuery(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	d := NewDigester(DigestDeps{Runner: runner})

	tests := map[string]struct {
		query string
		want  error
	}{
		"empty":     {query: "   ", want: domain.ErrEmptyQuery},
		"too short": {query: " ab ", want: domain.ErrQueryTooShort},
		"too long":  {query: strings.Repeat("a", 201), want: domain.ErrQueryTooLong},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := d.Digest(context.Background(), tc.query)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, runner.queries)
}

func TestDigestTrimsAndDelivers(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{state: rankedState()}
	archive := &stubArchive{}
	notifier := &stubNotifier{}
	d := NewDigester(DigestDeps{Runner: runner, Archive: archive, Notifier: notifier, Now: func() time.Time { return fixedNow }})

	state, err := d.Digest(context.Background(), "  solar power  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"solar power"}, runner.queries)
	assert.Equal(t, "solar power", state.Query)
	require.Len(t, archive.saved, 1)
	assert.Equal(t, "run-1", archive.saved[0].ID)
	require.Len(t, notifier.digests, 1)
	assert.Contains(t, notifier.digests[0], "All good.")
	assert.Contains(t, notifier.digests[0], "SOURCES")
}

func TestDigestSinkFailuresDoNotChangeResult(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{state: rankedState()}
	d := NewDigester(DigestDeps{
		Runner:   runner,
		Archive:  &stubArchive{err: errors.New("disk full")},
		Notifier: &stubNotifier{err: errors.New("telegram down")},
	})

	state, err := d.Digest(context.Background(), "solar power")
	require.NoError(t, err)
	assert.Empty(t, state.Errors)
	assert.Equal(t, "All good.", state.Summary)
}

func TestDigestSkipsNotificationWithoutArticles(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{state: domain.NewRunState("run-2", "", fixedNow)}
	archive := &stubArchive{}
	notifier := &stubNotifier{}
	d := NewDigester(DigestDeps{Runner: runner, Archive: archive, Notifier: notifier})

	_, err := d.Digest(context.Background(), "solar power")
	require.NoError(t, err)
	assert.Len(t, archive.saved, 1)
	assert.Empty(t, notifier.digests)
}
