package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/stimulus"
)

var checkStimuli string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the stimulus directory",
	Long: `Lists the stimulus files found in the stimulus directory by category and
checks that they form a complete set: one target and six each of the
potential, mismatch and bottom categories.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkStimuli, "stimuli", "", "stimulus directory")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(checkStimuli, "", "")
	if err != nil {
		return err
	}

	found, err := stimulus.Scan(cfg.Stimuli.Dir, cfg.Stimuli.Extensions)
	if err != nil {
		return err
	}

	byCategory := make(map[stimulus.Category][]string)
	for id, c := range found {
		byCategory[c] = append(byCategory[c], id)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Stimuli: %s\n\n", cfg.Stimuli.Dir)
	for _, c := range stimulus.Categories {
		ids := byCategory[c]
		sort.Strings(ids)

		mark := "ok"
		if len(ids) != stimulus.RequiredCount(c) {
			mark = "WRONG COUNT"
		}
		fmt.Fprintf(w, "  %-10s %d/%d  %-11s %v\n", c, len(ids), stimulus.RequiredCount(c), mark, ids)
	}
	fmt.Fprintln(w)

	if _, err := stimulus.LoadPool(cfg.Stimuli.Dir, cfg.Stimuli.Extensions); err != nil {
		return err
	}
	fmt.Fprintln(w, "Stimulus set is complete.")
	return nil
}
