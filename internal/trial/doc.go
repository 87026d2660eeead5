// Package trial runs single go/no-go trials against a clock, an input source
// and a presentation sink.
//
// A trial has two phases, each with a fixed length:
//
//   - stimulus (600 ms): the stimulus is drawn inside a neutral border and
//     the response key is polled. A press records the reaction time and
//     flashes a green (target) or red (non-target) border for up to 200 ms,
//     never past the end of the phase.
//   - blank (1200 ms): the screen is cleared. If nothing was pressed yet the
//     key is polled again; a late press is scored the same way and its
//     reaction time is counted from stimulus onset.
//
// The engine schedules both phases from the trial start time, so draw
// latency and feedback holds never stretch a trial. VirtualClock lets tests
// and simulated participants run whole sessions without sleeping.
package trial
