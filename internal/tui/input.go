package tui

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyCtrlD
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// IsAbort reports whether ev ends the run: Escape, Ctrl+C or Ctrl+D.
func (ev KeyEvent) IsAbort() bool {
	return ev.Key == KeyEscape || ev.Key == KeyCtrlC || ev.Key == KeyCtrlD
}

// KeyReader decodes key presses from a raw terminal.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from r, which should be a terminal in
// raw mode.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey blocks until one key event is decoded.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case 0x03:
		return KeyEvent{Key: KeyCtrlC}, nil
	case 0x04:
		return KeyEvent{Key: KeyCtrlD}, nil
	case 0x0D, 0x0A:
		return KeyEvent{Key: KeyEnter}, nil
	case 0x1B:
		return k.readEscape()
	}

	if b >= 0x20 && b < 0x7F {
		return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
	}
	if b >= 0xC0 {
		return k.readUTF8(b)
	}
	return KeyEvent{Key: KeyUnknown}, nil
}

// readEscape separates a lone Escape from an escape sequence or an Alt
// chord. Terminals deliver both in a single write, so an Escape with
// nothing buffered behind it is the key itself.
func (k *KeyReader) readEscape() (KeyEvent, error) {
	if k.reader.Buffered() == 0 {
		return KeyEvent{Key: KeyEscape}, nil
	}

	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}
	switch {
	case b == '[' || b == 'O':
	case b >= 0x20 && b < 0x7F:
		// Alt chord.
		return KeyEvent{Key: KeyUnknown}, nil
	case b >= 0xC0:
		if _, err := k.readUTF8(b); err != nil {
			return KeyEvent{}, err
		}
		return KeyEvent{Key: KeyUnknown}, nil
	default:
		_ = k.reader.UnreadByte()
		return KeyEvent{Key: KeyEscape}, nil
	}

	// Arrow and function keys are not responses; swallow the sequence.
	for k.reader.Buffered() > 0 {
		next, _ := k.reader.ReadByte()
		if (next >= 'A' && next <= 'Z') || next == '~' {
			break
		}
	}
	return KeyEvent{Key: KeyUnknown}, nil
}

func (k *KeyReader) readUTF8(first byte) (KeyEvent, error) {
	var buf [4]byte
	buf[0] = first

	var n int
	switch {
	case first&0xE0 == 0xC0:
		n = 2
	case first&0xF0 == 0xE0:
		n = 3
	case first&0xF8 == 0xF0:
		n = 4
	default:
		return KeyEvent{Key: KeyUnknown}, nil
	}

	for i := 1; i < n; i++ {
		b, err := k.reader.ReadByte()
		if err != nil {
			return KeyEvent{Key: KeyUnknown}, err
		}
		buf[i] = b
	}

	r, _ := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError {
		return KeyEvent{Key: KeyUnknown}, nil
	}
	return KeyEvent{Key: KeyRune, Rune: r}, nil
}
