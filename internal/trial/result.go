package trial

import (
	"time"

	"github.com/thruflo/gonogo/internal/stimulus"
)

// Phase names a fixed-duration part of a trial.
type Phase string

const (
	PhaseStimulus Phase = "stimulus"
	PhaseBlank    Phase = "blank"
)

// Border is the frame colour drawn around the stimulus area.
type Border int

const (
	BorderNeutral Border = iota
	BorderGreen
	BorderRed
)

// String returns the colour name.
func (b Border) String() string {
	switch b {
	case BorderGreen:
		return "green"
	case BorderRed:
		return "red"
	default:
		return "neutral"
	}
}

// FeedbackBorder is green for a press on a target and red otherwise.
func FeedbackBorder(isTarget bool) Border {
	if isTarget {
		return BorderGreen
	}
	return BorderRed
}

// Result is the outcome of one trial. One Result is produced per trial,
// after the blank phase completes.
type Result struct {
	Index    int               `json:"trial"`
	Stimulus string            `json:"stimulus"`
	Category stimulus.Category `json:"category"`
	IsTarget bool              `json:"is_target"`
	Pressed  bool              `json:"pressed"`
	Correct  bool              `json:"correct"`

	// ReactionTimeMS is measured from stimulus onset; nil when unanswered.
	ReactionTimeMS *int `json:"reaction_time_ms,omitempty"`

	// ResponsePhase is the phase the press landed in; empty when unanswered.
	ResponsePhase Phase `json:"response_phase,omitempty"`
}

// Score reports whether a response is correct: a press on a target or no
// press on a non-target.
func Score(pressed, isTarget bool) bool {
	return pressed == isTarget
}

// ReactionTime returns the reaction time as a duration and whether one
// was recorded.
func (r Result) ReactionTime() (time.Duration, bool) {
	if r.ReactionTimeMS == nil {
		return 0, false
	}
	return time.Duration(*r.ReactionTimeMS) * time.Millisecond, true
}

func milliseconds(d time.Duration) *int {
	ms := int(d / time.Millisecond)
	return &ms
}
