// Package sequence builds the 84-trial go/no-go order.
//
// Every sequence holds 24 target, 24 potential, 24 mismatch and 12 bottom
// trials. No two targets are adjacent, no target opens the sequence, and the
// trial before a target is a potential stimulus exactly 12 times and a
// mismatch stimulus exactly 12 times (never bottom).
//
// # Construction
//
// The builder never reshuffles until a condition happens to hold. It pairs
// 12 potential and 12 mismatch draws with the 24 targets as
// [preceder, target] units, then scatters the 36 remaining non-targets over
// the 25 gaps around those units. Every rule above follows from the shape
// of the construction; Verify re-checks them before Build returns.
//
// The result is not a uniform sample over all valid orders. Sequences are
// reproducible from the random source alone, so a run's seed is enough to
// regenerate its order.
package sequence
