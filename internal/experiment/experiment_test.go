package experiment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/results"
	"github.com/thruflo/gonogo/internal/sequence"
	"github.com/thruflo/gonogo/internal/simulate"
	"github.com/thruflo/gonogo/internal/store"
	"github.com/thruflo/gonogo/internal/testutil"
	"github.com/thruflo/gonogo/internal/trial"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

var profile = simulate.Profile{HitRate: 0.9, FalseAlarmRate: 0.1, RTMean: 450 * time.Millisecond, RTSD: 100 * time.Millisecond}

func newExperiment(t *testing.T, format results.Format, seed uint64) (*Experiment, *store.Store) {
	t.Helper()
	s := store.NewStore(t.TempDir())
	e, err := New(Options{
		Pool:      testutil.SamplePool(t),
		Store:     s,
		Format:    format,
		Subject:   "s01",
		Seed:      seed,
		Simulated: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, s
}

// simulatedEngine returns an engine driven by a simulated participant,
// with input and sink optionally wrapped.
func simulatedEngine(e *Experiment, wrapInput func(trial.InputSource) trial.InputSource, wrapSink func(trial.PresentationSink) trial.PresentationSink) *trial.Engine {
	clock := trial.NewVirtualClock(epoch)
	target := e.Pool().Target()
	p := simulate.NewParticipant(clock, sequence.NewRand(3), profile, func(id string) bool { return id == target })

	var input trial.InputSource = p
	var sink trial.PresentationSink = p
	if wrapInput != nil {
		input = wrapInput(input)
	}
	if wrapSink != nil {
		sink = wrapSink(sink)
	}
	return trial.NewEngine(trial.Options{Clock: clock, Input: input, Sink: sink})
}

func TestExperiment_CompletesRun(t *testing.T) {
	t.Parallel()

	for _, format := range results.Formats {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			ctx, cancel := testutil.RunContext(t)
			defer cancel()

			e, s := newExperiment(t, format, 42)
			summary, err := e.Run(ctx, simulatedEngine(e, nil, nil))
			require.NoError(t, err)
			require.NoError(t, e.Close())

			assert.Equal(t, sequence.Length, summary.Trials)

			run, err := s.GetRun(e.Info().ID)
			require.NoError(t, err)
			assert.Equal(t, store.StatusCompleted, run.Status)
			assert.Equal(t, uint64(42), run.Seed)
			assert.Equal(t, "s01", run.Subject)
			assert.True(t, run.Simulated)
			assert.Equal(t, string(format), run.Format)
			assert.Equal(t, summary.Trials, run.Trials)
			assert.Equal(t, summary.Correct, run.Correct)
			assert.Equal(t, summary.Responses, run.Responses)
			require.NotNil(t, run.FinishedAt)
			assert.Empty(t, run.Error)

			saved, err := s.LoadSequence(run.ID)
			require.NoError(t, err)
			assert.Equal(t, e.Sequence(), saved)

			recs, err := results.Read(ctx, format, s.RunDir(run.ID), run.ID)
			require.NoError(t, err)
			require.Len(t, recs, sequence.Length)
			for i, rec := range recs {
				assert.Equal(t, i+1, rec.Index)
				assert.Equal(t, saved[i].Stimulus, rec.Stimulus)
				assert.Equal(t, saved[i].Category, rec.Category)
				assert.Equal(t, rec.Pressed == rec.IsTarget, rec.Correct)
				assert.Equal(t, rec.Pressed, rec.ReactionTimeMS != nil)
			}
		})
	}
}

func TestExperiment_SeedReproducesSequence(t *testing.T) {
	t.Parallel()

	a, _ := newExperiment(t, results.FormatCSV, 7)
	b, _ := newExperiment(t, results.FormatCSV, 7)
	assert.Equal(t, a.Sequence(), b.Sequence())

	want, err := sequence.Build(testutil.SamplePool(t), sequence.NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, want, a.Sequence())
}

func TestExperiment_RandomSeedRecorded(t *testing.T) {
	t.Parallel()

	e, s := newExperiment(t, results.FormatCSV, 0)
	run, err := s.GetRun(e.Info().ID)
	require.NoError(t, err)
	assert.NotZero(t, run.Seed)

	want, err := sequence.Build(testutil.SamplePool(t), sequence.NewRand(run.Seed))
	require.NoError(t, err)
	assert.Equal(t, want, e.Sequence())
}

type abortAfter struct {
	trial.InputSource
	waits int
}

func (a *abortAfter) WaitForKey(max time.Duration) (bool, time.Duration, error) {
	if a.waits == 0 {
		return false, 0, trial.ErrAborted
	}
	a.waits--
	return a.InputSource.WaitForKey(max)
}

func TestExperiment_OperatorAbort(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.RunContext(t)
	defer cancel()

	e, s := newExperiment(t, results.FormatCSV, 42)
	engine := simulatedEngine(e, func(in trial.InputSource) trial.InputSource {
		// Every trial makes at least one wait, so at most ten trials finish.
		return &abortAfter{InputSource: in, waits: 10}
	}, nil)

	summary, err := e.Run(ctx, engine)
	require.Error(t, err)
	assert.ErrorIs(t, err, trial.ErrAborted)
	assert.Less(t, summary.Trials, 11)
	assert.Positive(t, summary.Trials)

	run, err := s.GetRun(e.Info().ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusAborted, run.Status)
	assert.Equal(t, summary.Trials, run.Trials)
	assert.Contains(t, run.Error, "aborted")

	recs, err := results.Read(ctx, results.FormatCSV, s.RunDir(run.ID), run.ID)
	require.NoError(t, err)
	assert.Len(t, recs, summary.Trials)
}

func TestExperiment_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, s := newExperiment(t, results.FormatCSV, 42)
	summary, err := e.Run(ctx, simulatedEngine(e, nil, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Trials)

	run, err := s.GetRun(e.Info().ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusAborted, run.Status)
}

type brokenSink struct {
	trial.PresentationSink
}

func (brokenSink) Show(string, trial.Border) (time.Duration, error) {
	return 0, errors.New("display lost")
}

func TestExperiment_PresentationFailure(t *testing.T) {
	t.Parallel()
	ctx, cancel := testutil.RunContext(t)
	defer cancel()

	e, s := newExperiment(t, results.FormatSQLite, 42)
	engine := simulatedEngine(e, nil, func(sink trial.PresentationSink) trial.PresentationSink {
		return brokenSink{sink}
	})

	_, err := e.Run(ctx, engine)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trial 1")

	run, err := s.GetRun(e.Info().ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, run.Status)
	assert.Contains(t, run.Error, "display lost")
	assert.Zero(t, run.Trials)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	pool := testutil.SamplePool(t)
	s := store.NewStore(t.TempDir())

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"no pool", Options{Store: s, Subject: "s"}, "stimulus pool"},
		{"no store", Options{Pool: pool, Subject: "s"}, "run store"},
		{"no subject", Options{Pool: pool, Store: s, Subject: "  "}, "subject"},
		{"bad format", Options{Pool: pool, Store: s, Subject: "s", Format: "xlsx"}, "unknown results format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	runs, err := s.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, runs, "failed validation must not create runs")
}

func TestExperiment_CloseTwice(t *testing.T) {
	t.Parallel()

	e, _ := newExperiment(t, results.FormatCSV, 1)
	require.NoError(t, e.Close())
	assert.NoError(t, e.Close())
}
