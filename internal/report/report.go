package report

import (
	"database/sql"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/clock"
)

// Intern is the reporting view of an intern account.
type Intern struct {
	ID         int64          `db:"id"`
	Username   string         `db:"username"`
	Name       string         `db:"name"`
	Department sql.NullString `db:"department"`
}

// Row is one attendance record joined with its owner.
type Row struct {
	UserID     int64          `db:"user_id"`
	Name       string         `db:"name"`
	Username   string         `db:"username"`
	Department sql.NullString `db:"department"`
	Date       time.Time      `db:"date"`
	CheckIn    sql.NullTime   `db:"check_in_time"`
	CheckOut   sql.NullTime   `db:"check_out_time"`
	Status     sql.NullString `db:"status"`
}

// Range is an inclusive span of civil dates.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Days() []time.Time {
	return clock.Days(r.Start, r.End)
}

const secondsPerDay = 24 * 60 * 60

// Len counts the dates in the range without building them.
func (r Range) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int((r.End.Unix()-r.Start.Unix())/secondsPerDay) + 1
}

type InternResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

func (i Intern) Response() InternResponse {
	return InternResponse{ID: i.ID, Username: i.Username, Name: i.Name, Department: i.Department.String}
}

type RowResponse struct {
	Date     string `json:"date"`
	CheckIn  string `json:"check_in_time,omitempty"`
	CheckOut string `json:"check_out_time,omitempty"`
	Status   string `json:"status"`
}

type DailyCount struct {
	Date     string `json:"date"`
	CheckIns int    `json:"check_ins"`
}

type Summary struct {
	Start          string         `json:"start"`
	End            string         `json:"end"`
	Department     string         `json:"department,omitempty"`
	TotalInterns   int            `json:"total_interns"`
	ActiveInterns  int            `json:"active_interns"`
	AttendanceRate float64        `json:"attendance_rate"`
	Present        int            `json:"present"`
	Late           int            `json:"late"`
	HalfDay        int            `json:"half_day"`
	CheckIns       int            `json:"check_ins"`
	Daily          []DailyCount   `json:"daily"`
	ByDepartment   map[string]int `json:"by_department"`
	ByStatus       map[string]int `json:"by_status"`
}

type CalendarEntry struct {
	UserID int64             `json:"user_id"`
	Name   string            `json:"name"`
	Date   string            `json:"date"`
	Status attendance.Status `json:"status"`
}

type CalendarDay struct {
	Date    string            `json:"date"`
	Weekday string            `json:"weekday"`
	Status  attendance.Status `json:"status"`
	Counts  map[string]int    `json:"counts"`
}

type Calendar struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Days    []CalendarDay   `json:"days"`
	Entries []CalendarEntry `json:"entries"`
}

type InternReport struct {
	Intern    InternResponse `json:"intern"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Records   []RowResponse  `json:"records"`
	TotalDays int            `json:"total_days"`
	Present   int            `json:"present"`
	Late      int            `json:"late"`
	HalfDay   int            `json:"half_day"`
	Absent    int            `json:"absent"`
}
