package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/stimulus"
)

func TestSampleIDs_FreshSlices(t *testing.T) {
	t.Parallel()

	ids := SampleIDs()
	assert.Equal(t, []string{"T"}, ids.Target)
	assert.Equal(t, "P6", ids.Potential[5])
	ids.Potential[0] = "changed"
	assert.Equal(t, "P1", SampleIDs().Potential[0])
}

func TestSamplePool(t *testing.T) {
	t.Parallel()

	pool := SamplePool(t)
	assert.Equal(t, "T", pool.Target())
	assert.Equal(t, 19, pool.Len())
}

func TestWriteStimulusDir_LoadsAsPool(t *testing.T) {
	t.Parallel()

	dir := WriteStimulusDir(t)
	pool, err := stimulus.LoadPool(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "square", pool.Target())
}

func TestSetupTestDir(t *testing.T) {
	t.Parallel()

	root := SetupTestDir(t)
	for _, p := range []string{"images/square.png", "images/bottom_6.png", "gonogo.yaml"} {
		_, err := os.Stat(filepath.Join(root, p))
		assert.NoError(t, err, p)
	}
	info, err := os.Stat(filepath.Join(root, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
