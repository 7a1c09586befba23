// Package clock supplies wall-clock time for record timestamps.
package clock

import "time"

// Clock returns the current time. Production code uses System; tests use a
// deterministic implementation so created_at values are predictable.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock, in UTC.
type System struct{}

// Now returns time.Now in UTC, truncated to whole seconds to match the
// stored timestamp precision.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
