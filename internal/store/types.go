package store

import "time"

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run status values.
const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusAborted   RunStatus = "aborted"
	StatusFailed    RunStatus = "failed"
)

// Run is the metadata stored in run.yaml.
type Run struct {
	ID         string     `yaml:"id"`
	Subject    string     `yaml:"subject"`
	Seed       uint64     `yaml:"seed"`
	Format     string     `yaml:"format"`
	Simulated  bool       `yaml:"simulated,omitempty"`
	StartedAt  time.Time  `yaml:"started_at"`
	FinishedAt *time.Time `yaml:"finished_at,omitempty"`
	Status     RunStatus  `yaml:"status"`
	Trials     int        `yaml:"trials"`
	Responses  int        `yaml:"responses"`
	Correct    int        `yaml:"correct"`
	Error      string     `yaml:"error,omitempty"`
}

// Finished reports whether the run has left the running state.
func (r *Run) Finished() bool {
	return r.Status != StatusRunning
}
