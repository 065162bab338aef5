package shortener

import "time"

// Clock abstracts wall-clock time so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func clockOrSystem(clock Clock) Clock {
	if clock == nil {
		return SystemClock{}
	}

	return clock
}
