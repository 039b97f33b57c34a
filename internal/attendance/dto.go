package attendance

import (
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/core/common/validation"
)

// ManualEntryDTO is an admin-entered check-in or check-out for an intern.
// Date defaults to today and Time to now, both in the organisation's zone.
type ManualEntryDTO struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
}

func (d ManualEntryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("date", d.Date).Date()
	v.Field("time", d.Time).Clock()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Resolve turns the DTO into the optional date and instant the service takes.
// A time without a date is placed on today's date.
func (d ManualEntryDTO) Resolve(c clock.Clock) (date *time.Time, instant *time.Time, err error) {
	if d.Date != "" {
		day, perr := clock.ParseDate(d.Date)
		if perr != nil {
			return nil, nil, internal.NewValidationFieldError("date", "date must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
		}
		date = &day
	}
	if d.Time != "" {
		wall, perr := validation.ParseClock(d.Time)
		if perr != nil {
			return nil, nil, internal.NewValidationFieldError("time", "time must be a time in HH:MM or HH:MM:SS format", internal.ErrCodeInvalidTime)
		}
		day := clock.Today(c)
		if date != nil {
			day = *date
		}
		at := clock.At(day, wall.Hour(), wall.Minute(), wall.Second(), c.Location())
		instant = &at
	}
	return date, instant, nil
}

// ParseRange parses optional YYYY-MM-DD bounds of an inclusive date range.
func ParseRange(start, end string) (*time.Time, *time.Time, error) {
	var s, e *time.Time
	if start != "" {
		d, err := clock.ParseDate(start)
		if err != nil {
			return nil, nil, internal.NewValidationFieldError("start", "start must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
		}
		s = &d
	}
	if end != "" {
		d, err := clock.ParseDate(end)
		if err != nil {
			return nil, nil, internal.NewValidationFieldError("end", "end must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
		}
		e = &d
	}
	if s != nil && e != nil && s.After(*e) {
		return nil, nil, internal.NewValidationFieldError("start", "start must not be after end", internal.ErrCodeInvalidRange)
	}
	return s, e, nil
}

type TodayResponse struct {
	Date   string          `json:"date"`
	Record *RecordResponse `json:"record"`
}

type RecordsResponse struct {
	Records []RecordResponse `json:"records"`
}

type RecordsWithUserResponse struct {
	Records []RecordWithUserResponse `json:"records"`
}
