package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleConfigYAML is a gonogo.yaml pointing at the directories SetupTestDir
// creates.
const SampleConfigYAML = `stimuli:
  dir: images
output:
  dir: data
  format: csv
simulation:
  hit_rate: 0.9
  false_alarm_rate: 0.1
  rt_mean_ms: 420
  rt_sd_ms: 80
`

// WriteStimulusDir creates a temp directory holding placeholder stimulus
// files for a complete pool and returns its path.
func WriteStimulusDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "images")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range StimulusFileNames() {
		WriteTestFile(t, dir, name, "png")
	}
	return dir
}

// SetupTestDir creates a temp workspace with images/, data/ and a
// gonogo.yaml. Returns the workspace root.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	for _, name := range StimulusFileNames() {
		WriteTestFile(t, filepath.Join(root, "images"), name, "png")
	}
	WriteTestFile(t, root, "gonogo.yaml", SampleConfigYAML)
	return root
}

// WriteTestFile writes content to base/path, creating parent directories.
func WriteTestFile(t *testing.T, base, path, content string) {
	t.Helper()
	full := filepath.Join(base, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}
