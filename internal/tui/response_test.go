package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/trial"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func key(r rune, at time.Duration) timedKey {
	return timedKey{ev: KeyEvent{Key: KeyRune, Rune: r}, at: epoch.Add(at)}
}

func newTestInput(events ...timedKey) (*KeyInput, chan timedKey) {
	ch := make(chan timedKey, len(events)+1)
	for _, ev := range events {
		ch <- ev
	}
	return newKeyInput(ch, ' ', trial.NewVirtualClock(epoch)), ch
}

func TestKeyInput_Press(t *testing.T) {
	t.Parallel()

	in, _ := newTestInput(key(' ', 312*time.Millisecond))

	pressed, rt, err := in.WaitForKey(time.Second)
	require.NoError(t, err)
	assert.True(t, pressed)
	assert.Equal(t, 312*time.Millisecond, rt)
}

func TestKeyInput_IgnoresOtherKeys(t *testing.T) {
	t.Parallel()

	in, _ := newTestInput(
		key('x', 10*time.Millisecond),
		timedKey{ev: KeyEvent{Key: KeyEnter}, at: epoch.Add(20 * time.Millisecond)},
		key(' ', 40*time.Millisecond),
	)

	pressed, rt, err := in.WaitForKey(time.Second)
	require.NoError(t, err)
	assert.True(t, pressed)
	assert.Equal(t, 40*time.Millisecond, rt)
}

func TestKeyInput_DiscardsStalePress(t *testing.T) {
	t.Parallel()

	in, _ := newTestInput(key(' ', -50*time.Millisecond))

	pressed, _, err := in.WaitForKey(20 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, pressed)
}

func TestKeyInput_Timeout(t *testing.T) {
	t.Parallel()

	in, _ := newTestInput()

	pressed, elapsed, err := in.WaitForKey(10 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, pressed)
	assert.Equal(t, 10*time.Millisecond, elapsed)
}

func TestKeyInput_Abort(t *testing.T) {
	t.Parallel()

	for _, k := range []Key{KeyEscape, KeyCtrlC, KeyCtrlD} {
		// Abort keys count even when pressed before the wait.
		in, _ := newTestInput(timedKey{ev: KeyEvent{Key: k}, at: epoch.Add(-time.Second)})

		_, _, err := in.WaitForKey(time.Second)
		assert.ErrorIs(t, err, trial.ErrAborted)
	}
}

func TestKeyInput_ReadErrorAndClose(t *testing.T) {
	t.Parallel()

	boom := errors.New("device gone")
	in, ch := newTestInput(timedKey{err: boom, at: epoch})
	close(ch)

	_, _, err := in.WaitForKey(time.Second)
	assert.ErrorIs(t, err, boom)

	_, _, err = in.WaitForKey(time.Second)
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestKeyInput_WaitForStart(t *testing.T) {
	t.Parallel()

	in, _ := newTestInput(key('a', 0), key(' ', 0))
	require.NoError(t, in.WaitForStart(' '))

	in, _ = newTestInput(key('a', 0), timedKey{ev: KeyEvent{Key: KeyEscape}, at: epoch})
	assert.ErrorIs(t, in.WaitForStart(' '), trial.ErrAborted)

	in, ch := newTestInput()
	close(ch)
	assert.ErrorIs(t, in.WaitForStart(' '), ErrInputClosed)
}

func TestKeyInput_WaitForStartDiscardsStaleKeys(t *testing.T) {
	t.Parallel()

	in, ch := newTestInput(key(' ', -time.Second))
	close(ch)
	assert.ErrorIs(t, in.WaitForStart(' '), ErrInputClosed)

	in, _ = newTestInput(key(' ', -time.Second), key(' ', 5*time.Millisecond))
	require.NoError(t, in.WaitForStart(' '))

	in, _ = newTestInput(timedKey{ev: KeyEvent{Key: KeyCtrlC}, at: epoch.Add(-time.Second)})
	assert.ErrorIs(t, in.WaitForStart(' '), trial.ErrAborted)
}

func TestNewKeyInput_ReadsFromReader(t *testing.T) {
	t.Parallel()

	in := NewKeyInput(bytes.NewReader([]byte("ab ")), ' ', trial.NewVirtualClock(epoch))
	require.NoError(t, in.WaitForStart(' '))

	_, _, err := in.WaitForKey(time.Second)
	assert.ErrorIs(t, err, ErrInputClosed)
}
