// Package ticks provides conversions for the 100-nanosecond tick unit used
// for all timestamp arithmetic in chapter generation.
package ticks

import "fmt"

// Tick counts per unit of time. One tick is 100 nanoseconds.
const (
	PerSecond      int64 = 10_000_000
	PerCentisecond int64 = PerSecond / 100
	PerMinute      int64 = 60 * PerSecond
	PerHour        int64 = 60 * PerMinute
)

// FromSeconds converts a whole-second value into ticks.
func FromSeconds(seconds int) int64 {
	return int64(seconds) * PerSecond
}

// Format renders a tick count as a zero-padded "HH:MM:SS.cc" duration string
// with centisecond precision. Hours are not wrapped at 24 and the decimal
// separator is always '.', independent of locale.
//
// Negative input is a caller contract violation; callers must never pass
// negative ticks.
func Format(t int64) string {
	hours := t / PerHour
	t %= PerHour
	minutes := t / PerMinute
	t %= PerMinute
	seconds := t / PerSecond
	centis := (t % PerSecond) / PerCentisecond

	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
