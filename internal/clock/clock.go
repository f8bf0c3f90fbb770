package clock

import "time"

// Clock supplies the current instant to stores and aggregators.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Fixed always returns the same instant.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time { return f.At }

// Advance moves the fixed instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
