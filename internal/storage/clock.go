// Package storage provides shared helpers for the persistence layer.
package storage

import "time"

// Clock supplies the current time. Injectable so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock time in UTC.
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock is a Clock that returns a controllable time. For tests.
type FakeClock struct {
	Current time.Time
}

// Now implements [Clock].
func (c *FakeClock) Now() time.Time {
	return c.Current
}

// Advance moves the fake clock forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
