package cache

import "time"

// Clock supplies the current time. The cache reads every timestamp through
// its Clock so tests can drive TTL expiry deterministically instead of
// sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
