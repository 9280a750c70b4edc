package validators

import (
	"fmt"
	"time"
)

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BusinessRules are the restaurant rules a new reservation must satisfy.
type BusinessRules struct {
	Location      *time.Location
	ClosedWeekday time.Weekday
	Opening       ClockTime
	LastSeating   ClockTime
	Now           func() time.Time
}

// DefaultRules: closed on Tuesdays, seating from 10:30 to 21:30 inclusive, UTC.
func DefaultRules() BusinessRules {
	return BusinessRules{
		Location:      time.UTC,
		ClosedWeekday: time.Tuesday,
		Opening:       ClockTime{Hour: 10, Minute: 30},
		LastSeating:   ClockTime{Hour: 21, Minute: 30},
		Now:           time.Now,
	}
}

func (r BusinessRules) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r BusinessRules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Today is the current calendar date in the restaurant's location.
func (r BusinessRules) Today() string {
	return r.now().In(r.location()).Format("2006-01-02")
}

func (r BusinessRules) beforeOpening(t time.Time) bool {
	h, m := t.Hour(), t.Minute()
	return h < r.Opening.Hour || (h == r.Opening.Hour && m < r.Opening.Minute)
}

func (r BusinessRules) afterLastSeating(t time.Time) bool {
	h, m := t.Hour(), t.Minute()
	return h > r.LastSeating.Hour || (h == r.LastSeating.Hour && m > r.LastSeating.Minute)
}
