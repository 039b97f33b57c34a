package attendance

import (
	"time"

	"github.com/frahmantamala/intern-attendance/internal/clock"
	attendanceDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/attendance"
)

// Record is one intern's attendance for one calendar day.
type Record struct {
	ID       int64
	UserID   int64
	Date     time.Time
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   Status
	Notes    string
}

// RecordWithUser is a Record joined with the owning user's details.
type RecordWithUser struct {
	Record
	Name       string
	Username   string
	Department string
}

// Filter narrows the admin attendance listing. Zero values mean unbounded.
type Filter struct {
	Start      *time.Time
	End        *time.Time
	Department string
}

type RecordResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       Status     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
}

type RecordWithUserResponse struct {
	RecordResponse
	Name       string `json:"name"`
	Username   string `json:"username"`
	Department string `json:"department"`
}

func (r *Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         clock.FormatDate(r.Date),
		CheckInTime:  r.CheckIn,
		CheckOutTime: r.CheckOut,
		Status:       r.Status,
		Notes:        r.Notes,
	}
}

func (r *RecordWithUser) ToResponse() RecordWithUserResponse {
	return RecordWithUserResponse{
		RecordResponse: r.Record.ToResponse(),
		Name:           r.Name,
		Username:       r.Username,
		Department:     r.Department,
	}
}

func ToDataModel(r *Record) *attendanceDatamodel.Attendance {
	row := &attendanceDatamodel.Attendance{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         clock.CivilDate(r.Date),
		CheckInTime:  r.CheckIn,
		CheckOutTime: r.CheckOut,
	}
	if r.Status != "" {
		s := string(r.Status)
		row.Status = &s
	}
	if r.Notes != "" {
		n := r.Notes
		row.Notes = &n
	}
	return row
}

// FromDataModel converts a stored row, expressing timestamps in loc.
func FromDataModel(row *attendanceDatamodel.Attendance, loc *time.Location) *Record {
	r := &Record{
		ID:       row.ID,
		UserID:   row.UserID,
		Date:     clock.CivilDate(row.Date),
		CheckIn:  inLocation(row.CheckInTime, loc),
		CheckOut: inLocation(row.CheckOutTime, loc),
	}
	if row.Status != nil {
		r.Status = Status(*row.Status)
	}
	if row.Notes != nil {
		r.Notes = *row.Notes
	}
	return r
}

func FromJoinedDataModel(row *attendanceDatamodel.AttendanceWithUser, loc *time.Location) *RecordWithUser {
	out := &RecordWithUser{
		Record:   *FromDataModel(&row.Attendance, loc),
		Name:     row.Name,
		Username: row.Username,
	}
	if row.Department != nil {
		out.Department = *row.Department
	}
	return out
}

func inLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	if loc != nil {
		v = v.In(loc)
	}
	return &v
}
