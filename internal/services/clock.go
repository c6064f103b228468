package services

import "time"

// Clock abstracts time for the check-in monitor so deadline and grace-period
// behavior can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }
