package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/gonogo/internal/config"
	"github.com/thruflo/gonogo/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gonogo",
	Short: "Go/no-go reaction time experiment",
	Long: `gonogo runs a go/no-go reaction time task. Each of 84 trials shows one
stimulus for 600 ms followed by a 1200 ms blank. The participant presses
the response key for the target and withholds for everything else.
Every trial is logged with the response, its reaction time and whether
it was correct.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("gonogo version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logging.SetLevel(level)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies the flag overrides shared
// by run and simulate. Empty overrides leave the file value in place.
func loadConfig(stimuliDir, outputDir, format string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if stimuliDir != "" {
		cfg.Stimuli.Dir = stimuliDir
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
