package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorTo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\033[1;1H", CursorTo(1, 1))
	assert.Equal(t, "\033[8;25H", CursorTo(8, 25))
}

func TestNonTerminalFile(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "not-a-tty"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))

	w, h := Size(f)
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)

	term := NewTerminal(f)
	assert.Error(t, term.EnterRaw())
	assert.False(t, term.IsRaw())
	assert.NoError(t, term.ExitRaw())
}
