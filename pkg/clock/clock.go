package clock

import "time"

// Clock supplies the current instant and calendar date. Every component that
// stamps due dates, streaks or completion times takes a Clock so tests can
// pin time.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
	// Today returns the current calendar date in UTC, truncated to midnight.
	Today() time.Time
}

// System is the wall-clock implementation.
type System struct{}

// Now returns time.Now in UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Today returns the current UTC date at midnight.
func (System) Today() time.Time {
	return Midnight(time.Now().UTC())
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return f.Instant.UTC() }

// Today returns the pinned instant's date at midnight UTC.
func (f Fixed) Today() time.Time { return Midnight(f.Instant.UTC()) }

// Midnight truncates t to midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
