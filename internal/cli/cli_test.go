package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/testutil"
)

// testEnv is a workspace created by testutil.SetupTestDir with the
// command flags pointed at it.
type testEnv struct {
	root    string
	stimuli string
	output  string
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	root := testutil.SetupTestDir(t)
	env := testEnv{
		root:    root,
		stimuli: filepath.Join(root, "images"),
		output:  filepath.Join(root, "data"),
	}
	configPath = filepath.Join(root, "gonogo.yaml")
	t.Cleanup(resetFlags)
	return env
}

func resetFlags() {
	configPath = "gonogo.yaml"
	logLevel = "warn"
	runSubject, runSeed, runFormat, runStimuli, runOutput = "", 0, "", "", ""
	simSubject, simSeed, simFormat, simStimuli, simOutput = "simulated", 0, "", "", ""
	seqSeed, seqJSON, seqRun, seqStimuli = 0, false, "", ""
	checkStimuli = ""
	runsOutput = ""
	runsStore = nil
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func runCommand(t *testing.T, run func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	cmd, buf := testCommand()
	require.NoError(t, run(cmd, args))
	return buf.String()
}

// writeOutputConfig writes a config with absolute stimulus and output
// directories for commands that take no directory flags.
func writeOutputConfig(t *testing.T, env testEnv) string {
	t.Helper()
	content := "stimuli:\n  dir: " + env.stimuli + "\noutput:\n  dir: " + env.output + "\n"
	testutil.WriteTestFile(t, env.root, "abs.yaml", content)
	return filepath.Join(env.root, "abs.yaml")
}
