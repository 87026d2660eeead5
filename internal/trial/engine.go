package trial

import (
	"errors"
	"fmt"
	"time"

	"github.com/thruflo/gonogo/internal/logging"
	"github.com/thruflo/gonogo/internal/sequence"
)

// ErrAborted is returned by an InputSource when the operator ends the run.
var ErrAborted = errors.New("run aborted by operator")

// PresentationSink draws trial frames. Both methods return the time spent
// drawing so the engine can keep phase durations exact.
type PresentationSink interface {
	Show(stimulusID string, border Border) (time.Duration, error)
	ShowBlank(border Border) (time.Duration, error)
}

// InputSource waits up to max for the response key. A timeout is reported
// as pressed=false with a nil error; errors are reserved for operator
// abort (ErrAborted) and device failures.
type InputSource interface {
	WaitForKey(max time.Duration) (pressed bool, elapsed time.Duration, err error)
}

// Timing holds the phase durations of a trial.
type Timing struct {
	Stimulus     time.Duration
	Blank        time.Duration
	Feedback     time.Duration
	SafetyMargin time.Duration
}

// Default phase durations.
const (
	DefaultStimulusDuration = 600 * time.Millisecond
	DefaultBlankDuration    = 1200 * time.Millisecond
	DefaultFeedbackDuration = 200 * time.Millisecond
	DefaultSafetyMargin     = 5 * time.Millisecond
)

// DefaultTiming returns the standard 600/1200 ms trial timing.
func DefaultTiming() Timing {
	return Timing{
		Stimulus:     DefaultStimulusDuration,
		Blank:        DefaultBlankDuration,
		Feedback:     DefaultFeedbackDuration,
		SafetyMargin: DefaultSafetyMargin,
	}
}

// Total returns the full duration of one trial.
func (t Timing) Total() time.Duration {
	return t.Stimulus + t.Blank
}

// Options configures an Engine. Clock defaults to RealClock, a zero
// Timing to DefaultTiming and a nil Logger to the package default.
type Options struct {
	Clock  Clock
	Input  InputSource
	Sink   PresentationSink
	Timing Timing
	Logger *logging.Logger
}

// Engine runs trials one at a time. It is not safe for concurrent use.
type Engine struct {
	clock  Clock
	input  InputSource
	sink   PresentationSink
	timing Timing
	log    *logging.Logger
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		clock:  opts.Clock,
		input:  opts.Input,
		sink:   opts.Sink,
		timing: opts.Timing,
		log:    opts.Logger,
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.timing == (Timing{}) {
		e.timing = DefaultTiming()
	}
	if e.log == nil {
		e.log = logging.Default()
	}
	return e
}

// Timing returns the engine's phase durations.
func (e *Engine) Timing() Timing {
	return e.timing
}

// RunTrial presents t and collects at most one response. The stimulus
// phase and the blank phase each last exactly their configured duration
// whether or not, and whenever, a key is pressed. Errors from the sink or
// the input source abort the trial and must end the run.
func (e *Engine) RunTrial(index int, t sequence.Trial) (Result, error) {
	res := Result{
		Index:    index,
		Stimulus: t.Stimulus,
		Category: t.Category,
		IsTarget: t.IsTarget,
	}

	start := e.clock.Now()
	stimulusEnd := start.Add(e.timing.Stimulus)
	blankEnd := stimulusEnd.Add(e.timing.Blank)

	if err := e.stimulusPhase(&res, stimulusEnd); err != nil {
		return res, err
	}
	if err := e.blankPhase(&res, stimulusEnd, blankEnd); err != nil {
		return res, err
	}

	res.Correct = Score(res.Pressed, res.IsTarget)

	log := e.log.With("trial", index)
	if rt, ok := res.ReactionTime(); ok {
		log.Debug("trial complete", "stimulus", res.Stimulus, "pressed", true, "rt", rt, "phase", string(res.ResponsePhase), "correct", res.Correct)
	} else {
		log.Debug("trial complete", "stimulus", res.Stimulus, "pressed", false, "correct", res.Correct)
	}
	return res, nil
}

func (e *Engine) stimulusPhase(res *Result, end time.Time) error {
	show := func(b Border) (time.Duration, error) { return e.sink.Show(res.Stimulus, b) }

	latency, err := show(BorderNeutral)
	if err != nil {
		return fmt.Errorf("show stimulus %q: %w", res.Stimulus, err)
	}

	window := e.window(e.timing.Stimulus-latency, end, 0)
	if window <= 0 {
		e.log.Warn("draw latency consumed the stimulus phase", "trial", res.Index, "latency", latency)
		holdUntil(e.clock, end)
		return nil
	}

	pressed, elapsed, err := e.input.WaitForKey(window)
	if err != nil {
		return fmt.Errorf("wait for response: %w", err)
	}
	if pressed {
		res.Pressed = true
		res.ResponsePhase = PhaseStimulus
		res.ReactionTimeMS = milliseconds(elapsed)
		if err := e.flash(show, FeedbackBorder(res.IsTarget), end, latency); err != nil {
			return fmt.Errorf("show stimulus %q feedback: %w", res.Stimulus, err)
		}
	}

	holdUntil(e.clock, end)
	return nil
}

func (e *Engine) blankPhase(res *Result, start, end time.Time) error {
	latency, err := e.sink.ShowBlank(BorderNeutral)
	if err != nil {
		return fmt.Errorf("show blank: %w", err)
	}

	// A response already registered in the stimulus phase closes input for
	// the rest of the trial.
	if res.Pressed {
		holdUntil(e.clock, end)
		return nil
	}

	waitStart := e.clock.Now()
	window := e.window(e.timing.Blank-latency, end, e.timing.SafetyMargin)
	if window > 0 {
		pressed, elapsed, err := e.input.WaitForKey(window)
		if err != nil {
			return fmt.Errorf("wait for response: %w", err)
		}
		if pressed {
			res.Pressed = true
			res.ResponsePhase = PhaseBlank
			res.ReactionTimeMS = milliseconds(e.timing.Stimulus + waitStart.Sub(start) + elapsed)
			if err := e.flash(e.sink.ShowBlank, FeedbackBorder(res.IsTarget), end, latency); err != nil {
				return fmt.Errorf("show blank feedback: %w", err)
			}
		}
	}

	holdUntil(e.clock, end)
	return nil
}

// window returns the polling budget: the nominal budget, cut short if the
// phase deadline is nearer, minus margin.
func (e *Engine) window(nominal time.Duration, end time.Time, margin time.Duration) time.Duration {
	if remaining := end.Sub(e.clock.Now()); remaining < nominal {
		nominal = remaining
	}
	return nominal - margin
}

// flash draws border for the feedback duration, clipped to end, then
// reverts to the neutral border if a redraw still fits before end. est is
// the draw latency measured at phase onset; a feedback draw that would not
// finish before end is skipped.
func (e *Engine) flash(draw func(Border) (time.Duration, error), border Border, end time.Time, est time.Duration) error {
	now := e.clock.Now()
	if end.Sub(now) <= est {
		return nil
	}
	flashEnd := now.Add(e.timing.Feedback)

	latency, err := draw(border)
	if err != nil {
		return err
	}
	if holdEnd := end.Add(-latency); holdEnd.Before(flashEnd) {
		flashEnd = holdEnd
	}
	holdUntil(e.clock, flashEnd)

	if end.Sub(e.clock.Now()) > latency {
		if _, err := draw(BorderNeutral); err != nil {
			return err
		}
	}
	return nil
}
