//go:build e2e

// cli_harness_test.go provides a harness that builds the gonogo binary and
// runs it in an isolated workspace.
package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/testutil"
)

// CLIHarness manages a gonogo binary for E2E testing.
type CLIHarness struct {
	// BinaryPath is the path to the built gonogo binary.
	BinaryPath string

	// WorkDir holds gonogo.yaml, images/ and data/.
	WorkDir string

	t *testing.T
}

// CLIResult contains the output from a CLI command execution.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success returns true if the command completed with exit code 0.
func (r *CLIResult) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// NewCLIHarness builds the gonogo binary and creates a workspace with a
// complete stimulus set.
func NewCLIHarness(t *testing.T) *CLIHarness {
	t.Helper()

	projectRoot := findProjectRoot(t)
	require.NotEmpty(t, projectRoot, "could not find project root (directory containing go.mod)")

	binaryPath := filepath.Join(t.TempDir(), "gonogo")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gonogo")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build gonogo binary: %s", output)

	return &CLIHarness{
		BinaryPath: binaryPath,
		WorkDir:    testutil.SetupTestDir(t),
		t:          t,
	}
}

// Run executes a gonogo command with the default timeout.
func (h *CLIHarness) Run(args ...string) *CLIResult {
	h.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testutil.DefaultRunTimeout)
	defer cancel()
	return h.RunWithContext(ctx, args...)
}

// RunWithContext executes a gonogo command in the workspace. Stdin is
// empty, so the binary never sees a terminal.
func (h *CLIHarness) RunWithContext(ctx context.Context, args ...string) *CLIResult {
	h.t.Helper()

	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Dir = h.WorkDir
	cmd.Stdin = bytes.NewReader(nil)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CLIResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}
	return result
}

// Path returns a path inside the workspace.
func (h *CLIHarness) Path(elem ...string) string {
	return filepath.Join(append([]string{h.WorkDir}, elem...)...)
}

// RequireSuccess fails the test if the command failed.
func (h *CLIHarness) RequireSuccess(result *CLIResult) {
	h.t.Helper()
	if !result.Success() {
		h.t.Fatalf("command failed: exit=%d err=%v\nstdout: %s\nstderr: %s",
			result.ExitCode, result.Err, result.Stdout, result.Stderr)
	}
}

// RequireFailure fails the test if the command succeeded.
func (h *CLIHarness) RequireFailure(result *CLIResult) {
	h.t.Helper()
	if result.Success() {
		h.t.Fatalf("command succeeded unexpectedly\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// waitTimeout is the upper bound for a whole simulated run, which takes
// no wall-clock time beyond disk writes.
const waitTimeout = 20 * time.Second
