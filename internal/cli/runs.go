package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/store"
)

// RunReader abstracts run storage for testability.
type RunReader interface {
	ListRuns() ([]*store.Run, error)
	GetRun(id string) (*store.Run, error)
}

// runsStore is the run reader used by the runs command.
// It can be overridden in tests.
var runsStore RunReader

var runsOutput string

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List stored runs",
	Long: `Lists the runs in the output directory with their subject, status and
response counts. With a run id, shows the details of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsOutput, "output", "", "output directory for runs")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	reader := runsStore
	if reader == nil {
		cfg, err := loadConfig("", runsOutput, "")
		if err != nil {
			return err
		}
		reader = store.NewStore(cfg.Output.Dir)
	}

	if len(args) == 0 {
		return listRuns(cmd.OutOrStdout(), reader)
	}
	return showRun(cmd.OutOrStdout(), reader, args[0])
}

func listRuns(w io.Writer, reader RunReader) error {
	runs, err := reader.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	idWidth := len("RUN")
	subjectWidth := len("SUBJECT")
	for _, r := range runs {
		idWidth = max(idWidth, len(r.ID))
		subjectWidth = max(subjectWidth, len(r.Subject))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-9s  %-19s  %s\n", idWidth, "RUN", subjectWidth, "SUBJECT", "STATUS", "STARTED", "CORRECT")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", subjectWidth),
		strings.Repeat("-", 9), strings.Repeat("-", 19), "-------")

	for _, r := range runs {
		fmt.Fprintf(w, "%-*s  %-*s  %-9s  %-19s  %d/%d\n", idWidth, r.ID, subjectWidth, r.Subject, r.Status,
			formatTime(r.StartedAt), r.Correct, r.Trials)
	}
	return nil
}

func showRun(w io.Writer, reader RunReader, id string) error {
	run, err := reader.GetRun(id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Fprintln(w, "Run Details")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	printField(w, "Run", run.ID)
	printField(w, "Subject", run.Subject)
	printField(w, "Seed", fmt.Sprintf("%d", run.Seed))
	printField(w, "Format", run.Format)
	if run.Simulated {
		printField(w, "Mode", "simulated")
	}
	printField(w, "Started", formatTime(run.StartedAt))
	if run.FinishedAt != nil {
		printField(w, "Duration", formatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}
	printField(w, "Status", string(run.Status))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Responses")
	fmt.Fprintln(w, "---------")
	printField(w, "Trials", fmt.Sprintf("%d", run.Trials))
	printField(w, "Responses", fmt.Sprintf("%d", run.Responses))
	printField(w, "Correct", fmt.Sprintf("%d", run.Correct))
	if run.Error != "" {
		printField(w, "Error", run.Error)
	}
	return nil
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-11s %s\n", label+":", value)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
