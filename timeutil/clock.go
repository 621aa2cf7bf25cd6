package timeutil

import (
	"fmt"
	"time"
	_ "time/tzdata" // hosts without a zoneinfo database
)

// DefaultTimezone is where the dairy operates unless configured otherwise
const DefaultTimezone = "Asia/Kolkata"

// Clock answers "what day is it" for the business, not the server
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// LoadLocation resolves an IANA zone name, empty meaning DefaultTimezone
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// NewClock returns a clock for the named IANA zone
func NewClock(timezone string) (*Clock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// FixedClock returns a clock frozen at t (tests, backfills)
func FixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current instant in the business zone
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the business calendar date
func (c *Clock) Today() Date {
	return DateOf(c.Now())
}

// Location returns the business zone
func (c *Clock) Location() *time.Location {
	return c.loc
}
