package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "gonogo.yaml"

// Default values for Config.
const (
	DefaultStimuliDir     = "images"
	DefaultStimulusMS     = 600
	DefaultBlankMS        = 1200
	DefaultFeedbackMS     = 200
	DefaultSafetyMarginMS = 5
	DefaultOutputDir      = "data"
	DefaultFormat         = FormatCSV
	DefaultHitRate        = 0.9
	DefaultFalseAlarmRate = 0.1
	DefaultRTMeanMS       = 450
	DefaultRTSDMS         = 100
)

// DefaultTiming returns the standard 600/1200 ms trial timing.
func DefaultTiming() Timing {
	return Timing{
		StimulusMS:     DefaultStimulusMS,
		BlankMS:        DefaultBlankMS,
		FeedbackMS:     DefaultFeedbackMS,
		SafetyMarginMS: DefaultSafetyMarginMS,
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Stimuli:  Stimuli{Dir: DefaultStimuliDir, Extensions: []string{".png"}},
		Timing:   DefaultTiming(),
		Response: Response{Key: KeySpace},
		Output:   Output{Dir: DefaultOutputDir, Format: DefaultFormat},
		Simulation: Simulation{
			HitRate:        DefaultHitRate,
			FalseAlarmRate: DefaultFalseAlarmRate,
			RTMeanMS:       DefaultRTMeanMS,
			RTSDMS:         DefaultRTSDMS,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses the config file at path.
// If the file doesn't exist, returns default config.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Stimuli.Dir) == "" {
		return ValidationError{Field: "stimuli.dir", Message: "required field is empty"}
	}
	for _, ext := range cfg.Stimuli.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return ValidationError{Field: "stimuli.extensions", Message: fmt.Sprintf("%q must look like .png", ext)}
		}
	}

	if err := ValidateTiming(cfg.Timing); err != nil {
		return err
	}

	if _, err := ParseKey(cfg.Response.Key); err != nil {
		return ValidationError{Field: "response.key", Message: err.Error()}
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return ValidationError{Field: "output.dir", Message: "required field is empty"}
	}
	if cfg.Output.Format != FormatCSV && cfg.Output.Format != FormatSQLite {
		return ValidationError{Field: "output.format", Message: "must be csv or sqlite"}
	}

	return ValidateSimulation(cfg.Simulation)
}

// ValidateTiming checks the phase durations.
func ValidateTiming(t Timing) error {
	if t.StimulusMS <= 0 {
		return ValidationError{Field: "timing.stimulus_ms", Message: "must be positive"}
	}
	if t.BlankMS <= 0 {
		return ValidationError{Field: "timing.blank_ms", Message: "must be positive"}
	}
	if t.FeedbackMS < 0 || t.FeedbackMS > t.StimulusMS {
		return ValidationError{Field: "timing.feedback_ms", Message: "must be between 0 and stimulus_ms"}
	}
	if t.SafetyMarginMS < 0 || t.SafetyMarginMS >= t.BlankMS {
		return ValidationError{Field: "timing.safety_margin_ms", Message: "must be at least 0 and below blank_ms"}
	}
	return nil
}

// ValidateSimulation checks the simulated participant parameters.
func ValidateSimulation(s Simulation) error {
	if s.HitRate < 0 || s.HitRate > 1 {
		return ValidationError{Field: "simulation.hit_rate", Message: "must be between 0 and 1"}
	}
	if s.FalseAlarmRate < 0 || s.FalseAlarmRate > 1 {
		return ValidationError{Field: "simulation.false_alarm_rate", Message: "must be between 0 and 1"}
	}
	if s.RTMeanMS <= 0 {
		return ValidationError{Field: "simulation.rt_mean_ms", Message: "must be positive"}
	}
	if s.RTSDMS < 0 {
		return ValidationError{Field: "simulation.rt_sd_ms", Message: "must not be negative"}
	}
	return nil
}

// ParseKey returns the rune for a response key setting: "space" or one
// printable character. Escape and control characters are reserved.
func ParseKey(key string) (rune, error) {
	if strings.EqualFold(key, KeySpace) {
		return ' ', nil
	}
	if utf8.RuneCountInString(key) != 1 {
		return 0, fmt.Errorf("%q must be %q or a single character", key, KeySpace)
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r < 0x20 || r == 0x7F {
		return 0, fmt.Errorf("%q is a control character", key)
	}
	return r, nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
