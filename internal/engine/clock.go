package engine

import "time"

// Clock abstracts time.Now() so "today" is deterministic in tests.
// Front-ends use it to default the current-date slot and the contacts sync uses it for ages.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the local calendar day of c.
func Today(c Clock) CalendarDate {
	return FromTime(c.Now())
}
