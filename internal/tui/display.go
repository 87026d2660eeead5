package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/trial"
)

// Stimulus box size in cells.
const (
	BoxWidth  = 31
	BoxHeight = 9
)

// DisplayOptions configures a Display. Zero sizes fall back to 80x24 and
// a nil Clock to trial.RealClock.
type DisplayOptions struct {
	Out    io.Writer
	Width  int
	Height int
	Clock  trial.Clock
}

// Display is a trial.PresentationSink that draws each frame as a box in
// the middle of the terminal. The stimulus identifier is printed inside
// the box and the border colour carries the feedback.
type Display struct {
	out    io.Writer
	width  int
	height int
	clock  trial.Clock
	assets map[string]string
}

// NewDisplay creates a Display.
func NewDisplay(opts DisplayOptions) *Display {
	d := &Display{
		out:    opts.Out,
		width:  opts.Width,
		height: opts.Height,
		clock:  opts.Clock,
		assets: make(map[string]string),
	}
	if d.out == nil {
		d.out = io.Discard
	}
	if d.width <= 0 {
		d.width = DefaultWidth
	}
	if d.height <= 0 {
		d.height = DefaultHeight
	}
	if d.clock == nil {
		d.clock = trial.RealClock{}
	}
	return d
}

// Preload resolves the asset of every stimulus in pool so a missing file
// is reported before the first trial rather than in the middle of one.
func (d *Display) Preload(pool *stimulus.Pool, dir string, exts []string) error {
	for _, c := range stimulus.Categories {
		for _, id := range pool.IDs(c) {
			path, err := stimulus.Path(dir, id, exts)
			if err != nil {
				return err
			}
			d.assets[id] = path
		}
	}
	return nil
}

// Show draws the stimulus frame with border.
func (d *Display) Show(stimulusID string, border trial.Border) (time.Duration, error) {
	start := d.clock.Now()
	if _, ok := d.assets[stimulusID]; !ok {
		return 0, &stimulus.AssetError{Message: fmt.Sprintf("stimulus %q was not preloaded", stimulusID)}
	}
	if err := d.draw(stimulusID, border); err != nil {
		return 0, err
	}
	return d.clock.Now().Sub(start), nil
}

// ShowBlank draws the empty frame with border.
func (d *Display) ShowBlank(border trial.Border) (time.Duration, error) {
	start := d.clock.Now()
	if err := d.draw("", border); err != nil {
		return 0, err
	}
	return d.clock.Now().Sub(start), nil
}

// ShowInstructions clears the screen and prints the task instructions
// with the key that starts the run.
func (d *Display) ShowInstructions(responseKey, startKey string) error {
	text := fmt.Sprintf(
		"A shape will appear in the box on every trial. Press %s as quickly as you can when the square appears, and do nothing for any other shape. "+
			"The border turns green after a correct press and red after a wrong one. Press Esc to stop.",
		keyName(responseKey))
	lines := WrapText(text, min(60, d.width-4))
	lines = append(lines, "", Style("Press "+keyName(startKey)+" to start", Bold))
	return d.page(lines)
}

// ShowEnd clears the screen and prints the closing message.
func (d *Display) ShowEnd(message string) error {
	return d.page(append(WrapText(message, min(60, d.width-4)), "", Style("Thank you.", Bold)))
}

// Close restores the cursor and clears the screen.
func (d *Display) Close() error {
	_, err := io.WriteString(d.out, Reset+ClearScreen+CursorHome+CursorShow)
	return err
}

func (d *Display) draw(label string, border trial.Border) error {
	top := max(1, (d.height-BoxHeight)/2+1)
	left := max(1, (d.width-BoxWidth)/2+1)
	color := BorderColor(border)

	var b strings.Builder
	b.WriteString(CursorHide + ClearScreen)
	for i, line := range Frame(BoxWidth, BoxHeight, label) {
		b.WriteString(CursorTo(top+i, left))
		b.WriteString(Style(line, color))
	}

	// One write per frame keeps the terminal from showing partial frames.
	if _, err := io.WriteString(d.out, b.String()); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}

func (d *Display) page(lines []string) error {
	top := max(1, (d.height-len(lines))/2+1)

	var b strings.Builder
	b.WriteString(CursorHide + ClearScreen)
	for i, line := range lines {
		b.WriteString(CursorTo(top+i, 3))
		b.WriteString(line)
	}
	if _, err := io.WriteString(d.out, b.String()); err != nil {
		return fmt.Errorf("failed to draw screen: %w", err)
	}
	return nil
}

// BorderColor returns the ANSI colour of a border state.
func BorderColor(b trial.Border) string {
	switch b {
	case trial.BorderGreen:
		return FgGreen
	case trial.BorderRed:
		return FgRed
	default:
		return FgBrightWhite
	}
}

func keyName(key string) string {
	if strings.EqualFold(key, "space") || key == " " {
		return "SPACE"
	}
	return strings.ToUpper(key)
}
