package clock

import "time"

// Clock abstracts time.Now so streak arithmetic and cooldown expiry can be
// driven by a fake in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

// DayUTC truncates t to the start of its calendar day in UTC. All day
// comparisons in the service layer go through here, so the day-boundary
// policy lives in exactly one place.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
