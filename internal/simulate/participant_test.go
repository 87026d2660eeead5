package simulate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/sequence"
	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/testutil"
	"github.com/thruflo/gonogo/internal/trial"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func newEngine(profile Profile, seed uint64) (*trial.Engine, *trial.VirtualClock) {
	clock := trial.NewVirtualClock(epoch)
	p := NewParticipant(clock, sequence.NewRand(seed), profile, func(id string) bool { return id == "T" })
	return trial.NewEngine(trial.Options{Clock: clock, Input: p, Sink: p}), clock
}

var (
	target    = sequence.NewTrial("T", stimulus.CategoryTarget)
	nonTarget = sequence.NewTrial("M1", stimulus.CategoryMismatch)
)

func TestParticipant_PressInStimulusPhase(t *testing.T) {
	t.Parallel()

	engine, clock := newEngine(Profile{HitRate: 1, RTMean: ms(300)}, 1)

	res, err := engine.RunTrial(1, target)
	require.NoError(t, err)
	assert.True(t, res.Pressed)
	assert.True(t, res.Correct)
	assert.Equal(t, trial.PhaseStimulus, res.ResponsePhase)
	assert.Equal(t, 300, *res.ReactionTimeMS)
	assert.Equal(t, epoch.Add(ms(1800)), clock.Now())
}

func TestParticipant_LatePressLandsInBlank(t *testing.T) {
	t.Parallel()

	engine, clock := newEngine(Profile{HitRate: 1, RTMean: ms(900)}, 1)

	res, err := engine.RunTrial(1, target)
	require.NoError(t, err)
	assert.True(t, res.Pressed)
	assert.Equal(t, trial.PhaseBlank, res.ResponsePhase)
	assert.Equal(t, 900, *res.ReactionTimeMS)
	assert.Equal(t, epoch.Add(ms(1800)), clock.Now())
}

func TestParticipant_TooLateIsNoResponse(t *testing.T) {
	t.Parallel()

	engine, _ := newEngine(Profile{HitRate: 1, RTMean: ms(2500)}, 1)

	res, err := engine.RunTrial(1, target)
	require.NoError(t, err)
	assert.False(t, res.Pressed)
	assert.False(t, res.Correct)
}

func TestParticipant_ReactionTimeFloor(t *testing.T) {
	t.Parallel()

	engine, _ := newEngine(Profile{HitRate: 1, RTMean: ms(20)}, 1)

	res, err := engine.RunTrial(1, target)
	require.NoError(t, err)
	assert.Equal(t, int(MinReactionTime/time.Millisecond), *res.ReactionTimeMS)
}

func TestParticipant_Withholds(t *testing.T) {
	t.Parallel()

	engine, _ := newEngine(Profile{HitRate: 1, FalseAlarmRate: 0, RTMean: ms(300)}, 1)

	res, err := engine.RunTrial(1, nonTarget)
	require.NoError(t, err)
	assert.False(t, res.Pressed)
	assert.True(t, res.Correct)
}

func TestParticipant_FalseAlarm(t *testing.T) {
	t.Parallel()

	engine, _ := newEngine(Profile{HitRate: 0, FalseAlarmRate: 1, RTMean: ms(400)}, 1)

	res, err := engine.RunTrial(1, nonTarget)
	require.NoError(t, err)
	assert.True(t, res.Pressed)
	assert.False(t, res.Correct)

	res, err = engine.RunTrial(2, target)
	require.NoError(t, err)
	assert.False(t, res.Pressed)
}

func TestParticipant_FullSequenceRates(t *testing.T) {
	t.Parallel()

	pool := testutil.SamplePool(t)
	seq, err := sequence.Build(pool, sequence.NewRand(99))
	require.NoError(t, err)

	engine, clock := newEngine(Profile{HitRate: 1, FalseAlarmRate: 0, RTMean: ms(450), RTSD: ms(100)}, 5)

	for i, tr := range seq {
		res, err := engine.RunTrial(i+1, tr)
		require.NoError(t, err)
		assert.True(t, res.Correct, "trial %d", i+1)
		if res.Pressed {
			assert.GreaterOrEqual(t, *res.ReactionTimeMS, 100)
		}
	}
	assert.Equal(t, epoch.Add(time.Duration(sequence.Length)*ms(1800)), clock.Now())
}
