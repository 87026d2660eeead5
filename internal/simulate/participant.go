// Package simulate provides a scripted participant that plays both sides
// of a trial on a virtual clock, so a full run completes instantly.
package simulate

import (
	"math/rand/v2"
	"time"

	"github.com/thruflo/gonogo/internal/trial"
)

// MinReactionTime is the floor applied to sampled reaction times.
const MinReactionTime = 100 * time.Millisecond

// Profile describes how the simulated participant responds.
type Profile struct {
	HitRate        float64
	FalseAlarmRate float64
	RTMean         time.Duration
	RTSD           time.Duration
}

// Participant implements trial.PresentationSink and trial.InputSource.
// When a new stimulus is shown it decides whether, and how long after
// onset, it will press. A late decision lands in the blank phase.
type Participant struct {
	clock   *trial.VirtualClock
	rng     *rand.Rand
	profile Profile
	target  func(stimulusID string) bool

	inStimulus bool
	planned    bool
	pressAt    time.Time
}

// NewParticipant creates a Participant. isTarget tells it which stimuli
// call for a press.
func NewParticipant(clock *trial.VirtualClock, rng *rand.Rand, profile Profile, isTarget func(string) bool) *Participant {
	return &Participant{clock: clock, rng: rng, profile: profile, target: isTarget}
}

// Show records a stimulus frame. The first frame of a trial triggers the
// response decision.
func (p *Participant) Show(stimulusID string, _ trial.Border) (time.Duration, error) {
	if !p.inStimulus {
		p.inStimulus = true
		p.plan(p.target(stimulusID))
	}
	return 0, nil
}

// ShowBlank records a blank frame.
func (p *Participant) ShowBlank(trial.Border) (time.Duration, error) {
	p.inStimulus = false
	return 0, nil
}

func (p *Participant) plan(isTarget bool) {
	rate := p.profile.FalseAlarmRate
	if isTarget {
		rate = p.profile.HitRate
	}
	p.planned = p.rng.Float64() < rate
	if !p.planned {
		return
	}
	rt := p.profile.RTMean + time.Duration(p.rng.NormFloat64()*float64(p.profile.RTSD))
	p.pressAt = p.clock.Now().Add(max(rt, MinReactionTime))
}

// WaitForKey advances the clock to the planned press if it falls inside
// the window, otherwise by the whole window.
func (p *Participant) WaitForKey(window time.Duration) (bool, time.Duration, error) {
	now := p.clock.Now()
	if p.planned && !p.pressAt.Before(now) && p.pressAt.Sub(now) <= window {
		elapsed := p.pressAt.Sub(now)
		p.planned = false
		p.clock.Advance(elapsed)
		return true, elapsed, nil
	}
	p.clock.Advance(window)
	return false, window, nil
}
