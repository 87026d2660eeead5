package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/config"
	"github.com/thruflo/gonogo/internal/sequence"
	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/store"
)

var (
	seqSeed    uint64
	seqJSON    bool
	seqRun     string
	seqStimuli string
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Print a trial sequence",
	Long: `Builds and prints the trial sequence for a seed, or prints the stored
sequence of a run. Either way the sequence is checked against every
ordering rule before it is printed.

Example:
  gonogo sequence --seed 42
  gonogo sequence --seed 42 --json
  gonogo sequence --run 3f2a...`,
	Args: cobra.NoArgs,
	RunE: runSequence,
}

func init() {
	sequenceCmd.Flags().Uint64Var(&seqSeed, "seed", 0, "sequence seed (0 picks one at random)")
	sequenceCmd.Flags().BoolVar(&seqJSON, "json", false, "print JSON instead of a table")
	sequenceCmd.Flags().StringVar(&seqRun, "run", "", "print the stored sequence of this run")
	sequenceCmd.Flags().StringVar(&seqStimuli, "stimuli", "", "stimulus directory")

	rootCmd.AddCommand(sequenceCmd)
}

// sequenceOutput is the JSON form printed with --json.
type sequenceOutput struct {
	Seed   uint64            `json:"seed,omitempty"`
	RunID  string            `json:"run_id,omitempty"`
	Trials sequence.Sequence `json:"trials"`
}

func runSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(seqStimuli, "", "")
	if err != nil {
		return err
	}

	out := sequenceOutput{RunID: seqRun}
	if seqRun != "" {
		out.Trials, out.Seed, err = storedSequence(cfg, seqRun)
	} else {
		out.Trials, out.Seed, err = builtSequence(cfg, seqSeed)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if seqJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printSequence(w, out)
	return nil
}

func builtSequence(cfg *config.Config, seed uint64) (sequence.Sequence, uint64, error) {
	pool, err := stimulus.LoadPool(cfg.Stimuli.Dir, cfg.Stimuli.Extensions)
	if err != nil {
		return nil, 0, err
	}
	for seed == 0 {
		seed = rand.Uint64()
	}
	seq, err := sequence.Build(pool, sequence.NewRand(seed))
	return seq, seed, err
}

func storedSequence(cfg *config.Config, runID string) (sequence.Sequence, uint64, error) {
	runs := store.NewStore(cfg.Output.Dir)
	run, err := runs.GetRun(runID)
	if err != nil {
		return nil, 0, err
	}
	seq, err := runs.LoadSequence(runID)
	if err != nil {
		return nil, 0, err
	}
	if seq == nil {
		return nil, 0, fmt.Errorf("run %s has no stored sequence", runID)
	}
	if err := sequence.Verify(seq); err != nil {
		return nil, 0, fmt.Errorf("stored sequence of run %s: %w", runID, err)
	}
	return seq, run.Seed, nil
}

func printSequence(w io.Writer, out sequenceOutput) {
	if out.RunID != "" {
		fmt.Fprintf(w, "Run:  %s\n", out.RunID)
	}
	fmt.Fprintf(w, "Seed: %d\n\n", out.Seed)

	idWidth := len("STIMULUS")
	for _, t := range out.Trials {
		idWidth = max(idWidth, len(t.Stimulus))
	}

	fmt.Fprintf(w, "%5s  %-*s  %-9s  %s\n", "TRIAL", idWidth, "STIMULUS", "CATEGORY", "TARGET")
	for i, t := range out.Trials {
		target := ""
		if t.IsTarget {
			target = "*"
		}
		fmt.Fprintf(w, "%5d  %-*s  %-9s  %s\n", i+1, idWidth, t.Stimulus, t.Category, target)
	}
}
