package sequence

import (
	"math/rand/v2"

	"github.com/thruflo/gonogo/internal/logging"
	"github.com/thruflo/gonogo/internal/stimulus"
)

// NewRand returns the random source used for a run seed. The same seed
// always yields the same sequence.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Builder produces trial sequences from one stimulus pool.
type Builder struct {
	pool *stimulus.Pool
	rng  *rand.Rand
	log  *logging.Logger
}

// NewBuilder creates a Builder drawing from pool with randomness from rng.
// A nil logger falls back to the package default.
func NewBuilder(pool *stimulus.Pool, rng *rand.Rand, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.Default()
	}
	return &Builder{pool: pool, rng: rng, log: log}
}

// Build is shorthand for NewBuilder(pool, rng, nil).Build().
func Build(pool *stimulus.Pool, rng *rand.Rand) (Sequence, error) {
	return NewBuilder(pool, rng, nil).Build()
}

// Build returns a new sequence. It fails with a *ConstraintError if the
// pool does not hold exactly the required identifiers per category.
func (b *Builder) Build() (Sequence, error) {
	if err := b.checkPool(); err != nil {
		return nil, err
	}

	targets := b.bag(stimulus.CategoryTarget, TargetCount)
	potentials := b.bag(stimulus.CategoryPotential, PotentialRepeats)
	mismatches := b.bag(stimulus.CategoryMismatch, MismatchRepeats)
	bottoms := b.bag(stimulus.CategoryBottom, BottomRepeats)

	preceders := make([]Trial, 0, TargetCount)
	preceders = append(preceders, potentials[:PotentialPreceded]...)
	preceders = append(preceders, mismatches[:MismatchPreceded]...)
	b.shuffle(preceders)

	extras := make([]Trial, 0, Length-2*TargetCount)
	extras = append(extras, potentials[PotentialPreceded:]...)
	extras = append(extras, mismatches[MismatchPreceded:]...)
	extras = append(extras, bottoms...)
	b.shuffle(extras)

	gaps := make([][]Trial, Gaps)
	for _, t := range extras {
		g := b.rng.IntN(Gaps)
		gaps[g] = append(gaps[g], t)
	}

	seq := make(Sequence, 0, Length)
	for i := 0; i < TargetCount; i++ {
		seq = append(seq, gaps[i]...)
		seq = append(seq, preceders[i], targets[i])
	}
	seq = append(seq, gaps[TargetCount]...)

	if err := Verify(seq); err != nil {
		b.log.Error("built sequence failed verification", "error", err)
		return nil, err
	}

	b.log.Debug("sequence built", "trials", len(seq), "leading_extras", len(gaps[0]), "trailing_extras", len(gaps[TargetCount]))
	return seq, nil
}

func (b *Builder) checkPool() error {
	if b.pool == nil {
		return violation("pool", "no stimulus pool")
	}
	for _, c := range stimulus.Categories {
		if got, want := len(b.pool.IDs(c)), stimulus.RequiredCount(c); got != want {
			return violation("pool", "%s has %d identifiers, need %d", c, got, want)
		}
	}
	return nil
}

// bag repeats every identifier of c n times and shuffles the result.
func (b *Builder) bag(c stimulus.Category, n int) []Trial {
	ids := b.pool.IDs(c)
	out := make([]Trial, 0, len(ids)*n)
	for _, id := range ids {
		for i := 0; i < n; i++ {
			out = append(out, NewTrial(id, c))
		}
	}
	b.shuffle(out)
	return out
}

func (b *Builder) shuffle(ts []Trial) {
	b.rng.Shuffle(len(ts), func(i, j int) { ts[i], ts[j] = ts[j], ts[i] })
}
