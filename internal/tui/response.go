package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/thruflo/gonogo/internal/trial"
)

// ErrInputClosed is returned when the key stream ends.
var ErrInputClosed = errors.New("keyboard input closed")

type timedKey struct {
	ev  KeyEvent
	at  time.Time
	err error
}

// KeyInput is a trial.InputSource fed by a background key reader. Every
// key is stamped when it is decoded, so reaction times do not depend on
// when WaitForKey gets to look at it.
type KeyInput struct {
	events   <-chan timedKey
	clock    trial.Clock
	response rune
}

// NewKeyInput starts reading keys from r. response is the rune that
// counts as a press.
func NewKeyInput(r io.Reader, response rune, clock trial.Clock) *KeyInput {
	if clock == nil {
		clock = trial.RealClock{}
	}
	events := make(chan timedKey, 64)
	go func() {
		defer close(events)
		reader := NewKeyReader(r)
		for {
			ev, err := reader.ReadKey()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					events <- timedKey{err: err, at: clock.Now()}
				}
				return
			}
			events <- timedKey{ev: ev, at: clock.Now()}
		}
	}()
	return newKeyInput(events, response, clock)
}

func newKeyInput(events <-chan timedKey, response rune, clock trial.Clock) *KeyInput {
	return &KeyInput{events: events, clock: clock, response: response}
}

// WaitForKey waits up to max for the response key. Response keys that
// were pressed before the wait began are discarded; Escape, Ctrl+C and
// Ctrl+D abort the run whenever they were pressed.
func (k *KeyInput) WaitForKey(max time.Duration) (bool, time.Duration, error) {
	start := k.clock.Now()
	timer := time.NewTimer(max)
	defer timer.Stop()

	for {
		select {
		case tk, ok := <-k.events:
			if !ok {
				return false, 0, ErrInputClosed
			}
			if tk.err != nil {
				return false, 0, fmt.Errorf("read key: %w", tk.err)
			}
			if tk.ev.IsAbort() {
				return false, 0, trial.ErrAborted
			}
			if tk.ev.Key != KeyRune || tk.ev.Rune != k.response || tk.at.Before(start) {
				continue
			}
			return true, tk.at.Sub(start), nil
		case <-timer.C:
			return false, max, nil
		}
	}
}

// WaitForStart blocks until the start key is pressed, discarding
// everything else, including start keys pressed before the call. It
// returns trial.ErrAborted on an abort key.
func (k *KeyInput) WaitForStart(start rune) error {
	since := k.clock.Now()
	for tk := range k.events {
		if tk.err != nil {
			return fmt.Errorf("read key: %w", tk.err)
		}
		if tk.ev.IsAbort() {
			return trial.ErrAborted
		}
		if tk.ev.Key == KeyRune && tk.ev.Rune == start && !tk.at.Before(since) {
			return nil
		}
	}
	return ErrInputClosed
}
