package sequence

import (
	"errors"
	"fmt"

	"github.com/thruflo/gonogo/internal/stimulus"
)

// Composition of every valid sequence.
const (
	Length = 84

	TargetCount    = 24
	PotentialCount = 24
	MismatchCount  = 24
	BottomCount    = 12

	// PotentialRepeats and MismatchRepeats are per-identifier counts.
	PotentialRepeats = 4
	MismatchRepeats  = 4
	BottomRepeats    = 2

	// Targets preceded by each non-target category.
	PotentialPreceded = 12
	MismatchPreceded  = 12

	// Gaps is the number of slots extras are distributed over: one before
	// each target pair plus one trailing slot.
	Gaps = TargetCount + 1
)

// Trial describes one stimulus presentation.
type Trial struct {
	Stimulus string            `json:"stimulus"`
	Category stimulus.Category `json:"category"`
	IsTarget bool              `json:"is_target"`
}

// NewTrial returns a Trial with IsTarget derived from c.
func NewTrial(id string, c stimulus.Category) Trial {
	return Trial{Stimulus: id, Category: c, IsTarget: c == stimulus.CategoryTarget}
}

// Sequence is the ordered trial list for one run.
type Sequence []Trial

// Counts returns the number of trials per category.
func (s Sequence) Counts() map[stimulus.Category]int {
	counts := make(map[stimulus.Category]int, len(stimulus.Categories))
	for _, t := range s {
		counts[t.Category]++
	}
	return counts
}

// Preceders returns, for each category, how many targets it immediately
// precedes. A target in first position is counted under the empty category.
func (s Sequence) Preceders() map[stimulus.Category]int {
	out := make(map[stimulus.Category]int)
	for i, t := range s {
		if !t.IsTarget {
			continue
		}
		if i == 0 {
			out[""]++
			continue
		}
		out[s[i-1].Category]++
	}
	return out
}

// ConstraintError reports a pool the builder cannot use or a built
// sequence that breaks a composition rule. The latter is a builder bug.
type ConstraintError struct {
	Rule    string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("sequence constraint %s: %s", e.Rule, e.Message)
}

// IsConstraintError checks if an error is a ConstraintError.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

func violation(rule, format string, args ...any) error {
	return &ConstraintError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}
