// Package testutil provides shared test helpers for gonogo.
//
// # Fixtures
//
//   - SampleIDs() - identifier lists for a complete pool (T, P1..P6, M1..M6, B1..B6)
//   - SamplePool(t) - a *stimulus.Pool built from SampleIDs
//   - WriteStimulusDir(t) - a temp directory of placeholder stimulus files
//     following the naming convention (square, match_*, mismatch_*, bottom_*)
//
// # Environment
//
//   - SetupTestDir(t) - temp workspace with stimuli, output dir and gonogo.yaml
//   - WriteTestFile(t, base, path, content) - writes a file under base
//
// # Contexts
//
//   - ContextWithTestDeadline(t, fallback) - context bounded by the test deadline
//   - RunContext(t) - context for a whole simulated run
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    pool := testutil.SamplePool(t)
//	    seq, err := sequence.Build(pool, sequence.NewRand(42))
//	    require.NoError(t, err)
//	}
package testutil
