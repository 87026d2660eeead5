package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/config"
	"github.com/thruflo/gonogo/internal/experiment"
	"github.com/thruflo/gonogo/internal/logging"
	"github.com/thruflo/gonogo/internal/results"
	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/store"
	"github.com/thruflo/gonogo/internal/trial"
	"github.com/thruflo/gonogo/internal/tui"
)

const startKey = ' '

var (
	runSubject string
	runSeed    uint64
	runFormat  string
	runStimuli string
	runOutput  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the experiment for one subject on this terminal",
	Long: `Runs the full 84 trial session on the current terminal.

The terminal is switched to raw mode. After the instructions the subject
presses SPACE to start. Esc or Ctrl+C stops the run; trials completed so
far stay in the result log and the run is marked aborted.

Example:
  gonogo run --subject s01
  gonogo run --subject s01 --seed 42 --format sqlite`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSubject, "subject", "", "subject identifier (required)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "sequence seed (0 picks one at random)")
	runCmd.Flags().StringVar(&runFormat, "format", "", "result log format: csv or sqlite")
	runCmd.Flags().StringVar(&runStimuli, "stimuli", "", "stimulus directory")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output directory for runs")
	_ = runCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runStimuli, runOutput, runFormat)
	if err != nil {
		return err
	}
	if !tui.IsTerminal(os.Stdin) || !tui.IsTerminal(os.Stdout) {
		return errors.New("run needs an interactive terminal; use simulate for an unattended run")
	}

	key, err := config.ParseKey(cfg.Response.Key)
	if err != nil {
		return err
	}

	pool, err := stimulus.LoadPool(cfg.Stimuli.Dir, cfg.Stimuli.Extensions)
	if err != nil {
		return err
	}

	width, height := tui.Size(os.Stdout)
	display := tui.NewDisplay(tui.DisplayOptions{Out: os.Stdout, Width: width, Height: height})
	if err := display.Preload(pool, cfg.Stimuli.Dir, cfg.Stimuli.Extensions); err != nil {
		return err
	}

	term := tui.NewTerminal(os.Stdin)
	if err := term.EnterRaw(); err != nil {
		return err
	}
	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		_ = display.Close()
		_ = term.ExitRaw()
	}
	defer restore()

	input := tui.NewKeyInput(term, key, trial.RealClock{})
	if err := display.ShowInstructions(cfg.Response.Key, "space"); err != nil {
		return err
	}
	if err := input.WaitForStart(startKey); err != nil {
		if errors.Is(err, trial.ErrAborted) {
			return errors.New("run cancelled before the first trial")
		}
		return err
	}

	runs := store.NewStore(cfg.Output.Dir)
	exp, err := experiment.New(experiment.Options{
		Pool:    pool,
		Store:   runs,
		Format:  results.Format(cfg.Output.Format),
		Subject: runSubject,
		Seed:    runSeed,
	})
	if err != nil {
		return err
	}
	defer func() { _ = exp.Close() }()

	engine := trial.NewEngine(trial.Options{
		Clock:  trial.RealClock{},
		Input:  input,
		Sink:   display,
		Timing: engineTiming(cfg.Timing),
		Logger: logging.Default(),
	})

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := exp.Run(ctx, engine)
	if runErr == nil {
		if err := display.ShowEnd("The experiment is over."); err == nil {
			_ = input.WaitForStart(startKey)
		}
	}

	restore()
	printRunSummary(cmd.OutOrStdout(), runs, exp.Info(), summary)

	if runErr != nil {
		return fmt.Errorf("run %s: %w", exp.Info().ID, runErr)
	}
	return nil
}
