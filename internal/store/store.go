// Package store keeps per-run files under the output directory:
//
//	<dir>/<run-id>/run.yaml       run metadata
//	<dir>/<run-id>/sequence.json  the presented sequence
//	<dir>/<run-id>/results.*      the result log
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/thruflo/gonogo/internal/sequence"
	"gopkg.in/yaml.v3"
)

const (
	runFile      = "run.yaml"
	sequenceFile = "sequence.json"
)

// ErrRunNotFound is returned when a run directory has no run.yaml.
var ErrRunNotFound = errors.New("run not found")

// Store handles run storage under a base directory.
type Store struct {
	basePath string
}

// NewStore creates a Store rooted at basePath.
func NewStore(basePath string) *Store {
	return &Store{basePath: basePath}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// BasePath returns the directory runs are stored in.
func (s *Store) BasePath() string {
	return s.basePath
}

// RunDir returns the directory of run id. Result logs live here.
func (s *Store) RunDir(id string) string {
	return filepath.Join(s.basePath, id)
}

// CreateRun creates the run directory and writes run.yaml. An empty
// run.ID is filled with a new identifier.
func (s *Store) CreateRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if s.RunExists(run.ID) {
		return fmt.Errorf("run %s already exists", run.ID)
	}

	if err := os.MkdirAll(s.RunDir(run.ID), 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	return s.writeRun(run)
}

// GetRun reads run.yaml for id.
func (s *Store) GetRun(id string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(id), runFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run file: %w", err)
	}
	return &run, nil
}

// UpdateRun applies updateFn to the stored run and writes it back.
func (s *Store) UpdateRun(id string, updateFn func(*Run)) error {
	run, err := s.GetRun(id)
	if err != nil {
		return err
	}
	updateFn(run)
	run.ID = id
	return s.writeRun(run)
}

// ListRuns returns every readable run ordered by start time.
func (s *Store) ListRuns() ([]*Run, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Run{}, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	runs := []*Run{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := s.GetRun(entry.Name())
		if err != nil {
			continue // not a run directory
		}
		runs = append(runs, run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

// RunExists reports whether run.yaml exists for id.
func (s *Store) RunExists(id string) bool {
	_, err := os.Stat(filepath.Join(s.RunDir(id), runFile))
	return err == nil
}

// SaveSequence writes sequence.json for run id.
func (s *Store) SaveSequence(id string, seq sequence.Sequence) error {
	data, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.RunDir(id), sequenceFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write sequence file: %w", err)
	}
	return nil
}

// LoadSequence reads sequence.json for run id. A run without a saved
// sequence returns nil.
func (s *Store) LoadSequence(id string) (sequence.Sequence, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(id), sequenceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sequence file: %w", err)
	}

	var seq sequence.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("failed to parse sequence file: %w", err)
	}
	return seq, nil
}

func (s *Store) writeRun(run *Run) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.RunDir(run.ID), runFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}
	return nil
}
