// Package alarm provides named one-shot and periodic timers. Each name has at
// most one pending alarm; creating an alarm under a name that is already in
// use replaces it.
package alarm

import (
	"errors"
	"time"
)

var (
	ErrInvalidSpec = errors.New("alarm: spec needs either a time or a positive delay")
	ErrEmptyName   = errors.New("alarm: name must not be empty")
	ErrStopped     = errors.New("alarm: engine stopped")
)

// Spec describes when an alarm fires. Either When or Delay is set. A positive
// Period repeats the alarm after the first fire.
type Spec struct {
	When   time.Time
	Delay  time.Duration
	Period time.Duration
}

func (s Spec) validate() error {
	hasWhen := !s.When.IsZero()
	hasDelay := s.Delay > 0
	if hasWhen == hasDelay || s.Period < 0 {
		return ErrInvalidSpec
	}
	return nil
}

func (s Spec) firstFire(now time.Time) time.Time {
	if !s.When.IsZero() {
		return s.When
	}
	return now.Add(s.Delay)
}

// Fire is delivered when an alarm goes off.
type Fire struct {
	Name string
	// Scheduled is the time the alarm was due, which may be earlier than
	// delivery when the process was busy or suspended.
	Scheduled time.Time
}

// Service is the narrow alarm contract the scheduler depends on.
type Service interface {
	Create(name string, spec Spec) error
	Clear(name string) error
}
