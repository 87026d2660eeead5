package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/experiment"
	"github.com/thruflo/gonogo/internal/logging"
	"github.com/thruflo/gonogo/internal/results"
	"github.com/thruflo/gonogo/internal/sequence"
	"github.com/thruflo/gonogo/internal/simulate"
	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/store"
	"github.com/thruflo/gonogo/internal/trial"
)

// participantSalt separates the participant's random stream from the
// sequence stream drawn from the same seed.
const participantSalt = 0x5bd1e995

var (
	simSubject string
	simSeed    uint64
	simFormat  string
	simStimuli string
	simOutput  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the experiment against a simulated participant",
	Long: `Runs the full session against a simulated participant on a virtual clock.
The run finishes immediately and is stored exactly like a terminal run,
so it can be used to check the stimulus set, the sequence and the result
log end to end. Response behaviour comes from the simulation section of
the config file.

Example:
  gonogo simulate
  gonogo simulate --seed 42 --format sqlite`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simSubject, "subject", "simulated", "subject identifier")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "sequence seed (0 picks one at random)")
	simulateCmd.Flags().StringVar(&simFormat, "format", "", "result log format: csv or sqlite")
	simulateCmd.Flags().StringVar(&simStimuli, "stimuli", "", "stimulus directory")
	simulateCmd.Flags().StringVar(&simOutput, "output", "", "output directory for runs")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(simStimuli, simOutput, simFormat)
	if err != nil {
		return err
	}

	pool, err := stimulus.LoadPool(cfg.Stimuli.Dir, cfg.Stimuli.Extensions)
	if err != nil {
		return err
	}

	runs := store.NewStore(cfg.Output.Dir)
	exp, err := experiment.New(experiment.Options{
		Pool:      pool,
		Store:     runs,
		Format:    results.Format(cfg.Output.Format),
		Subject:   simSubject,
		Seed:      simSeed,
		Simulated: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = exp.Close() }()

	sim := cfg.Simulation
	profile := simulate.Profile{
		HitRate:        sim.HitRate,
		FalseAlarmRate: sim.FalseAlarmRate,
		RTMean:         time.Duration(sim.RTMeanMS) * time.Millisecond,
		RTSD:           time.Duration(sim.RTSDMS) * time.Millisecond,
	}

	clock := trial.NewVirtualClock(time.Now())
	target := pool.Target()
	participant := simulate.NewParticipant(clock, sequence.NewRand(exp.Info().Seed^participantSalt), profile,
		func(id string) bool { return id == target })

	engine := trial.NewEngine(trial.Options{
		Clock:  clock,
		Input:  participant,
		Sink:   participant,
		Timing: engineTiming(cfg.Timing),
		Logger: logging.Default(),
	})

	summary, runErr := exp.Run(commandContext(cmd), engine)
	printRunSummary(cmd.OutOrStdout(), runs, exp.Info(), summary)
	return runErr
}
