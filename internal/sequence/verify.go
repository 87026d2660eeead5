package sequence

import (
	"github.com/thruflo/gonogo/internal/stimulus"
)

var categoryTotals = map[stimulus.Category]int{
	stimulus.CategoryTarget:    TargetCount,
	stimulus.CategoryPotential: PotentialCount,
	stimulus.CategoryMismatch:  MismatchCount,
	stimulus.CategoryBottom:    BottomCount,
}

var identifierRepeats = map[stimulus.Category]int{
	stimulus.CategoryTarget:    TargetCount,
	stimulus.CategoryPotential: PotentialRepeats,
	stimulus.CategoryMismatch:  MismatchRepeats,
	stimulus.CategoryBottom:    BottomRepeats,
}

// Verify checks every composition rule and returns the first violation
// as a *ConstraintError.
func Verify(seq Sequence) error {
	if len(seq) != Length {
		return violation("length", "have %d trials, need %d", len(seq), Length)
	}

	perID := make(map[stimulus.Category]map[string]int, len(stimulus.Categories))
	for i, t := range seq {
		if !t.Category.Valid() {
			return violation("category", "trial %d has unknown category %q", i, t.Category)
		}
		if t.IsTarget != (t.Category == stimulus.CategoryTarget) {
			return violation("target-flag", "trial %d (%s) has is_target=%t", i, t.Category, t.IsTarget)
		}
		if perID[t.Category] == nil {
			perID[t.Category] = make(map[string]int)
		}
		perID[t.Category][t.Stimulus]++
	}

	counts := seq.Counts()
	for _, c := range stimulus.Categories {
		if counts[c] != categoryTotals[c] {
			return violation("category-count", "%s appears %d times, need %d", c, counts[c], categoryTotals[c])
		}
		ids := perID[c]
		if len(ids) != stimulus.RequiredCount(c) {
			return violation("identifiers", "%s uses %d distinct identifiers, need %d", c, len(ids), stimulus.RequiredCount(c))
		}
		for id, n := range ids {
			if n != identifierRepeats[c] {
				return violation("repeats", "%s identifier %q appears %d times, need %d", c, id, n, identifierRepeats[c])
			}
		}
	}

	seen := make(map[string]stimulus.Category)
	for c, ids := range perID {
		for id := range ids {
			if prev, ok := seen[id]; ok {
				return violation("identifiers", "identifier %q used as both %s and %s", id, prev, c)
			}
			seen[id] = c
		}
	}

	if seq[0].IsTarget {
		return violation("first-target", "sequence opens with a target")
	}
	for i := 1; i < len(seq); i++ {
		if seq[i].IsTarget && seq[i-1].IsTarget {
			return violation("adjacent-targets", "targets at %d and %d", i-1, i)
		}
	}

	preceders := seq.Preceders()
	if n := preceders[stimulus.CategoryBottom]; n != 0 {
		return violation("preceders", "%d targets preceded by bottom", n)
	}
	if n := preceders[stimulus.CategoryPotential]; n != PotentialPreceded {
		return violation("preceders", "%d targets preceded by potential, need %d", n, PotentialPreceded)
	}
	if n := preceders[stimulus.CategoryMismatch]; n != MismatchPreceded {
		return violation("preceders", "%d targets preceded by mismatch, need %d", n, MismatchPreceded)
	}

	return nil
}
