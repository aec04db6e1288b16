// Package clock provides the wall clock of the business timezone. Opening
// hours and order timestamps are read through it.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type zoned struct {
	loc *time.Location
}

// New returns a clock reporting time.Now in loc. A nil loc means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return zoned{loc: loc}
}

func (c zoned) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a clock that always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
