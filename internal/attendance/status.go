package attendance

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusHalfDay Status = "Half Day"
	StatusAbsent  Status = "Absent"
)

// AllStatuses is the display order used by reports.
var AllStatuses = []Status{StatusPresent, StatusLate, StatusHalfDay, StatusAbsent}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On places t on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// Rules is the organisation's attendance policy.
type Rules struct {
	WorkStart            TimeOfDay
	WorkEnd              TimeOfDay
	LateThresholdMinutes int
}

var DefaultRules = Rules{
	WorkStart:            TimeOfDay{Hour: 9},
	WorkEnd:              TimeOfDay{Hour: 17},
	LateThresholdMinutes: 30,
}

func NewRules(workStart, workEnd string, lateThresholdMinutes int) (Rules, error) {
	start, err := ParseTimeOfDay(workStart)
	if err != nil {
		return Rules{}, err
	}
	end, err := ParseTimeOfDay(workEnd)
	if err != nil {
		return Rules{}, err
	}
	if lateThresholdMinutes < 0 {
		return Rules{}, fmt.Errorf("late threshold must not be negative: %d", lateThresholdMinutes)
	}
	return Rules{WorkStart: start, WorkEnd: end, LateThresholdMinutes: lateThresholdMinutes}, nil
}

// Status applies DetermineStatus with these rules.
func (r Rules) Status(checkIn time.Time) Status {
	return DetermineStatus(checkIn, r.WorkStart, r.LateThresholdMinutes)
}

// DetermineStatus classifies a check-in. checkIn must already be expressed in
// the organisation's zone; work start is taken on the same calendar date in
// that zone. Minutes late are truncated, so a check-in exactly threshold
// minutes after start is still Present.
func DetermineStatus(checkIn time.Time, workStart TimeOfDay, lateThresholdMinutes int) Status {
	start := workStart.On(checkIn)
	if !checkIn.After(start) {
		return StatusPresent
	}
	minutesLate := int(checkIn.Sub(start) / time.Minute)
	if minutesLate > lateThresholdMinutes {
		return StatusLate
	}
	return StatusPresent
}
