/*
clock.go - Injected time so "today" is testable

The whole state machine pivots on one question: is this date today? That
answer depends on a wall clock AND a timezone, so both are injected. Tests
freeze the clock and walk it forward to exercise finalization without
waiting for calendar days to pass.
*/
package engine

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns At. Advance it by reassigning At.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time { return c.At }

// DefaultTimezone matches the deployment this system was built for. One
// configured zone resolves every source timestamp; exact multi-timezone
// correctness is out of scope.
const DefaultTimezone = "America/Chicago"
