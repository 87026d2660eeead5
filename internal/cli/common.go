package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/config"
	"github.com/thruflo/gonogo/internal/results"
	"github.com/thruflo/gonogo/internal/store"
	"github.com/thruflo/gonogo/internal/trial"
)

func engineTiming(t config.Timing) trial.Timing {
	return trial.Timing{
		Stimulus:     t.Stimulus(),
		Blank:        t.Blank(),
		Feedback:     t.Feedback(),
		SafetyMargin: t.SafetyMargin(),
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printRunSummary(w io.Writer, s *store.Store, run store.Run, summary results.Summary) {
	fmt.Fprintf(w, "Run %s (%s): %d trials, %d responses, %d correct\n",
		run.ID, run.Status, summary.Trials, summary.Responses, summary.Correct)
	fmt.Fprintf(w, "Results: %s\n", s.RunDir(run.ID))
}
