package config

import "time"

// Stimuli locates the stimulus image directory.
type Stimuli struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// Timing holds trial phase durations in milliseconds.
type Timing struct {
	StimulusMS     int `yaml:"stimulus_ms"`
	BlankMS        int `yaml:"blank_ms"`
	FeedbackMS     int `yaml:"feedback_ms"`
	SafetyMarginMS int `yaml:"safety_margin_ms"`
}

// Response configures the response key: "space" or a single character.
type Response struct {
	Key string `yaml:"key"`
}

// Output configures where run directories and result logs go.
type Output struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Simulation parameterises the simulated participant.
type Simulation struct {
	HitRate        float64 `yaml:"hit_rate"`
	FalseAlarmRate float64 `yaml:"false_alarm_rate"`
	RTMeanMS       int     `yaml:"rt_mean_ms"`
	RTSDMS         int     `yaml:"rt_sd_ms"`
}

// Config represents the gonogo.yaml file.
type Config struct {
	Stimuli    Stimuli    `yaml:"stimuli"`
	Timing     Timing     `yaml:"timing"`
	Response   Response   `yaml:"response"`
	Output     Output     `yaml:"output"`
	Simulation Simulation `yaml:"simulation"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Stimulus returns the stimulus phase duration.
func (t Timing) Stimulus() time.Duration { return ms(t.StimulusMS) }

// Blank returns the blank phase duration.
func (t Timing) Blank() time.Duration { return ms(t.BlankMS) }

// Feedback returns the feedback flash duration.
func (t Timing) Feedback() time.Duration { return ms(t.FeedbackMS) }

// SafetyMargin returns the unpolled tail of the blank phase.
func (t Timing) SafetyMargin() time.Duration { return ms(t.SafetyMarginMS) }

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// KeySpace is the default response key.
const KeySpace = "space"
