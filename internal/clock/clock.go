// Package clock supplies "now" and calendar-date helpers in the organisation's
// timezone.
package clock

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a clock that reports the current instant in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Location() *time.Location { return c.loc }

// Load resolves an IANA zone name such as "Asia/Kolkata".
func Load(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock frozen at t, reporting t's location.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time           { return c.t }
func (c fixedClock) Location() *time.Location { return c.t.Location() }

// CivilDate returns the calendar date of t, as observed in t's own location,
// represented as midnight UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the civil date of c.Now().
func Today(c Clock) time.Time {
	return CivilDate(c.Now())
}

// ParseDate parses YYYY-MM-DD into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// At combines a civil date with a wall-clock time in loc.
func At(date time.Time, hour, minute, second int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, second, 0, loc)
}

// Days lists every civil date in [start, end], oldest first.
func Days(start, end time.Time) []time.Time {
	start, end = CivilDate(start), CivilDate(end)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
