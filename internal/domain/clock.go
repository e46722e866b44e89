package domain

import "time"

// Clock abstracts the current time so lifecycle operations can be tested
// against a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}
