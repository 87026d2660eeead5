package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/gonogo/internal/stimulus"
)

// PoolIDs holds identifier lists for each stimulus category.
type PoolIDs struct {
	Target    []string
	Potential []string
	Mismatch  []string
	Bottom    []string
}

// SampleIDs returns identifiers for a complete pool:
// target T, potentials P1..P6, mismatches M1..M6, bottoms B1..B6.
// Returns fresh slices on every call.
func SampleIDs() PoolIDs {
	return PoolIDs{
		Target:    []string{"T"},
		Potential: numbered("P", stimulus.RequiredPotentials),
		Mismatch:  numbered("M", stimulus.RequiredMismatches),
		Bottom:    numbered("B", stimulus.RequiredBottoms),
	}
}

// SamplePool builds a *stimulus.Pool from SampleIDs or fails the test.
func SamplePool(t testing.TB) *stimulus.Pool {
	t.Helper()
	ids := SampleIDs()
	pool, err := stimulus.NewPool(ids.Target, ids.Potential, ids.Mismatch, ids.Bottom)
	require.NoError(t, err)
	return pool
}

// StimulusFileNames returns the file names of a complete stimulus directory
// using the square/match_/mismatch_/bottom_ convention.
func StimulusFileNames() []string {
	names := []string{"square.png"}
	for _, prefix := range []string{"match_", "mismatch_", "bottom_"} {
		for i := 1; i <= 6; i++ {
			names = append(names, fmt.Sprintf("%s%d.png", prefix, i))
		}
	}
	return names
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}
