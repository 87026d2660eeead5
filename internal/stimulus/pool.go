// Package stimulus enumerates stimulus assets and groups them into the
// categorized pool the sequence builder draws from.
package stimulus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Category classifies a stimulus by its relation to the target shape.
type Category string

const (
	CategoryTarget    Category = "target"
	CategoryPotential Category = "potential"
	CategoryMismatch  Category = "mismatch"
	CategoryBottom    Category = "bottom"
)

// Categories lists every category in canonical order.
var Categories = []Category{CategoryTarget, CategoryPotential, CategoryMismatch, CategoryBottom}

// Required number of distinct identifiers per category.
const (
	RequiredTargets    = 1
	RequiredPotentials = 6
	RequiredMismatches = 6
	RequiredBottoms    = 6
)

// RequiredCount returns how many distinct identifiers a pool needs for c.
func RequiredCount(c Category) int {
	switch c {
	case CategoryTarget:
		return RequiredTargets
	case CategoryPotential:
		return RequiredPotentials
	case CategoryMismatch:
		return RequiredMismatches
	case CategoryBottom:
		return RequiredBottoms
	}
	return 0
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return RequiredCount(c) > 0
}

// DefaultExtensions are the file extensions LoadPool considers.
var DefaultExtensions = []string{".png"}

// AssetError reports a stimulus directory that cannot form a pool.
type AssetError struct {
	Dir     string
	Message string
}

func (e *AssetError) Error() string {
	if e.Dir == "" {
		return "stimulus assets: " + e.Message
	}
	return fmt.Sprintf("stimulus assets in %s: %s", e.Dir, e.Message)
}

// IsAssetError checks if an error is an AssetError.
func IsAssetError(err error) bool {
	var ae *AssetError
	return errors.As(err, &ae)
}

// Pool maps each category to its sorted, distinct stimulus identifiers.
// A Pool is immutable once returned by NewPool or LoadPool.
type Pool struct {
	byCategory map[Category][]string
	category   map[string]Category
}

// NewPool builds a pool from explicit identifier lists and checks the
// required counts. Identifiers keep the order given.
func NewPool(target, potential, mismatch, bottom []string) (*Pool, error) {
	p := &Pool{
		byCategory: make(map[Category][]string, len(Categories)),
		category:   make(map[string]Category),
	}
	lists := map[Category][]string{
		CategoryTarget:    target,
		CategoryPotential: potential,
		CategoryMismatch:  mismatch,
		CategoryBottom:    bottom,
	}
	for _, c := range Categories {
		for _, id := range lists[c] {
			if id == "" {
				return nil, &AssetError{Message: fmt.Sprintf("empty identifier in %s", c)}
			}
			if prev, dup := p.category[id]; dup {
				return nil, &AssetError{Message: fmt.Sprintf("identifier %q listed as both %s and %s", id, prev, c)}
			}
			p.category[id] = c
		}
		p.byCategory[c] = append([]string(nil), lists[c]...)
	}
	if err := p.checkCounts(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pool) checkCounts() error {
	var problems []string
	for _, c := range Categories {
		if got, want := len(p.byCategory[c]), RequiredCount(c); got != want {
			problems = append(problems, fmt.Sprintf("%s: have %d, need %d", c, got, want))
		}
	}
	if len(problems) > 0 {
		return &AssetError{Message: "wrong stimulus counts (" + strings.Join(problems, "; ") + ")"}
	}
	return nil
}

// IDs returns a copy of the identifiers in category c.
func (p *Pool) IDs(c Category) []string {
	return append([]string(nil), p.byCategory[c]...)
}

// Target returns the single target identifier.
func (p *Pool) Target() string {
	return p.byCategory[CategoryTarget][0]
}

// CategoryOf returns the category of id.
func (p *Pool) CategoryOf(id string) (Category, bool) {
	c, ok := p.category[id]
	return c, ok
}

// Len returns the number of distinct identifiers in the pool.
func (p *Pool) Len() int {
	return len(p.category)
}

// Classify maps a file basename (without extension) to its category using
// the stimulus naming convention. ok is false for unrelated files.
func Classify(name string) (c Category, ok bool) {
	switch {
	case name == "square" || name == "target":
		return CategoryTarget, true
	case strings.HasPrefix(name, "mismatch_"), strings.HasPrefix(name, "no_potential_"):
		return CategoryMismatch, true
	case strings.HasPrefix(name, "match_"), strings.HasPrefix(name, "potential_"):
		return CategoryPotential, true
	case strings.HasPrefix(name, "bottom_"):
		return CategoryBottom, true
	}
	return "", false
}

// Scan lists the stimulus files in dir and classifies them. The returned
// map goes from identifier (basename without extension) to category and
// may hold any counts; LoadPool applies the count check.
func Scan(dir string, exts []string) (map[string]Category, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &AssetError{Dir: dir, Message: "directory not found"}
		}
		return nil, &AssetError{Dir: dir, Message: err.Error()}
	}

	found := make(map[string]Category)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !hasExtension(ext, exts) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		c, ok := Classify(id)
		if !ok {
			continue
		}
		if prev, dup := found[id]; dup {
			return nil, &AssetError{Dir: dir, Message: fmt.Sprintf("%q present with more than one extension (%s)", id, prev)}
		}
		found[id] = c
	}

	if len(found) == 0 {
		return nil, &AssetError{Dir: dir, Message: fmt.Sprintf("no stimulus files with extensions %v", exts)}
	}
	return found, nil
}

func hasExtension(ext string, exts []string) bool {
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// LoadPool enumerates dir and returns a pool, or an *AssetError when the
// required counts (1 target, 6 of each other category) are not met.
func LoadPool(dir string, exts []string) (*Pool, error) {
	found, err := Scan(dir, exts)
	if err != nil {
		return nil, err
	}

	lists := make(map[Category][]string, len(Categories))
	for id, c := range found {
		lists[c] = append(lists[c], id)
	}
	for _, ids := range lists {
		sort.Strings(ids)
	}

	pool, err := NewPool(lists[CategoryTarget], lists[CategoryPotential], lists[CategoryMismatch], lists[CategoryBottom])
	if err != nil {
		var ae *AssetError
		if errors.As(err, &ae) {
			ae.Dir = dir
		}
		return nil, err
	}
	return pool, nil
}

// Path returns the asset file path for id inside dir, trying exts in order.
func Path(dir, id string, exts []string) (string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		p := filepath.Join(dir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &AssetError{Dir: dir, Message: fmt.Sprintf("no file for stimulus %q", id)}
}
