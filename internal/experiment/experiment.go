// Package experiment ties one run together: it builds the sequence,
// records the run in the store, presents every trial in order through a
// trial.Engine and appends each result to the run's log.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/thruflo/gonogo/internal/logging"
	"github.com/thruflo/gonogo/internal/results"
	"github.com/thruflo/gonogo/internal/sequence"
	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/store"
	"github.com/thruflo/gonogo/internal/trial"
)

// Options configures a new Experiment.
type Options struct {
	Pool      *stimulus.Pool
	Store     *store.Store
	Format    results.Format
	Subject   string
	Seed      uint64 // 0 draws a random seed
	Simulated bool
	Logger    *logging.Logger
}

// Experiment is one run of the task. It owns the sequence, the run
// record and the result log; nothing about it is global.
type Experiment struct {
	pool    *stimulus.Pool
	seq     sequence.Sequence
	store   *store.Store
	run     *store.Run
	results results.Writer
	log     *logging.Logger
	closed  bool
}

// New builds the sequence for opts.Seed, creates the run directory with
// run.yaml and sequence.json, and opens the result log.
func New(opts Options) (*Experiment, error) {
	if opts.Pool == nil {
		return nil, errors.New("experiment needs a stimulus pool")
	}
	if opts.Store == nil {
		return nil, errors.New("experiment needs a run store")
	}
	if strings.TrimSpace(opts.Subject) == "" {
		return nil, errors.New("subject id is required")
	}
	if opts.Format == "" {
		opts.Format = results.FormatCSV
	}
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("unknown results format %q", opts.Format)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}

	seq, err := sequence.NewBuilder(opts.Pool, sequence.NewRand(seed), log).Build()
	if err != nil {
		return nil, err
	}

	run := &store.Run{
		Subject:   opts.Subject,
		Seed:      seed,
		Format:    string(opts.Format),
		Simulated: opts.Simulated,
		StartedAt: time.Now().UTC(),
		Status:    store.StatusRunning,
	}
	if err := opts.Store.CreateRun(run); err != nil {
		return nil, err
	}

	e := &Experiment{
		pool:  opts.Pool,
		seq:   seq,
		store: opts.Store,
		run:   run,
		log:   log.With("run", run.ID),
	}

	if err := opts.Store.SaveSequence(run.ID, seq); err != nil {
		e.fail(err)
		return nil, err
	}
	w, err := results.Open(opts.Format, opts.Store.RunDir(run.ID), run.ID, opts.Subject)
	if err != nil {
		e.fail(err)
		return nil, err
	}
	e.results = w

	e.log.Info("run created", "subject", opts.Subject, "seed", seed, "format", string(opts.Format))
	return e, nil
}

// Pool returns the stimulus pool.
func (e *Experiment) Pool() *stimulus.Pool { return e.pool }

// Sequence returns the trial order.
func (e *Experiment) Sequence() sequence.Sequence { return e.seq }

// Info returns the run record as last written.
func (e *Experiment) Info() store.Run { return *e.run }

// Run presents every trial in order. The context is checked between
// trials; an operator abort, a presentation failure or a result log
// failure ends the run and is returned. The run record is updated with
// the final status in every case.
func (e *Experiment) Run(ctx context.Context, engine *trial.Engine) (results.Summary, error) {
	collected := make([]trial.Result, 0, len(e.seq))

	for i, t := range e.seq {
		if err := ctx.Err(); err != nil {
			return e.finish(collected, store.StatusAborted, err)
		}

		res, err := engine.RunTrial(i+1, t)
		if err != nil {
			status := store.StatusFailed
			if errors.Is(err, trial.ErrAborted) {
				status = store.StatusAborted
			}
			return e.finish(collected, status, fmt.Errorf("trial %d: %w", i+1, err))
		}

		if err := e.results.Append(ctx, res); err != nil {
			return e.finish(collected, store.StatusFailed, err)
		}
		collected = append(collected, res)
	}

	return e.finish(collected, store.StatusCompleted, nil)
}

// Close closes the result log. It is safe to call more than once.
func (e *Experiment) Close() error {
	if e.closed || e.results == nil {
		return nil
	}
	e.closed = true
	return e.results.Close()
}

func (e *Experiment) finish(rs []trial.Result, status store.RunStatus, runErr error) (results.Summary, error) {
	summary := results.Summarize(rs)

	finished := time.Now().UTC()
	update := func(r *store.Run) {
		r.Status = status
		r.FinishedAt = &finished
		r.Trials = summary.Trials
		r.Responses = summary.Responses
		r.Correct = summary.Correct
		if runErr != nil {
			r.Error = runErr.Error()
		}
	}
	update(e.run)
	if err := e.store.UpdateRun(e.run.ID, update); err != nil {
		e.log.Error("failed to update run record", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	fields := []any{"status", string(status), "trials", summary.Trials, "responses", summary.Responses, "correct", summary.Correct}
	switch status {
	case store.StatusCompleted:
		e.log.Info("run complete", fields...)
	case store.StatusAborted:
		e.log.Warn("run aborted", fields...)
	default:
		e.log.Error("run failed", append(fields, "error", runErr)...)
	}
	return summary, runErr
}

func (e *Experiment) fail(err error) {
	update := func(r *store.Run) {
		r.Status = store.StatusFailed
		r.Error = err.Error()
	}
	update(e.run)
	if uerr := e.store.UpdateRun(e.run.ID, update); uerr != nil {
		e.log.Error("failed to update run record", "error", uerr)
	}
}
