package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	"github.com/frahmantamala/intern-attendance/internal/export"
)

const timeLayout = "15:04:05"

// DefaultMaxRangeDays caps a report range when no limit is configured.
const DefaultMaxRangeDays = 366

// RepositoryAPI is a read-only view over users and attendance.
type RepositoryAPI interface {
	ListInterns(ctx context.Context, department string) ([]Intern, error)
	// GetIntern returns nil when no intern has that id.
	GetIntern(ctx context.Context, id int64) (*Intern, error)
	ListRows(ctx context.Context, start, end time.Time, department string) ([]Row, error)
	ListUserRows(ctx context.Context, userID int64, start, end time.Time) ([]Row, error)
}

type Service struct {
	repo         RepositoryAPI
	clock        clock.Clock
	maxRangeDays int
	logger       *slog.Logger
}

// NewService builds the report service. Ranges longer than maxRangeDays are
// rejected; a non-positive value falls back to DefaultMaxRangeDays.
func NewService(repo RepositoryAPI, clk clock.Clock, maxRangeDays int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Service{repo: repo, clock: clk, maxRangeDays: maxRangeDays, logger: logger}
}

// CheckRange rejects inverted ranges and ranges longer than the configured
// maximum.
func (s *Service) CheckRange(r Range) error {
	if r.Start.After(r.End) {
		return internal.NewValidationFieldError("start", "start must not be after end", internal.ErrCodeInvalidRange)
	}
	if n := r.Len(); n > s.maxRangeDays {
		return internal.NewValidationFieldError("end",
			fmt.Sprintf("range covers %d days, at most %d are allowed", n, s.maxRangeDays),
			internal.ErrCodeInvalidRange)
	}
	return nil
}

// DefaultRange is the last 30 days ending today.
func (s *Service) DefaultRange() Range {
	today := clock.Today(s.clock)
	return Range{Start: today.AddDate(0, 0, -29), End: today}
}

func (s *Service) Summary(ctx context.Context, r Range, department string) (*Summary, error) {
	if err := s.CheckRange(r); err != nil {
		return nil, err
	}
	interns, err := s.repo.ListInterns(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list interns: %w", err)
	}
	rows, err := s.repo.ListRows(ctx, r.Start, r.End, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	sum := &Summary{
		Start:        clock.FormatDate(r.Start),
		End:          clock.FormatDate(r.End),
		Department:   department,
		TotalInterns: len(interns),
		CheckIns:     len(rows),
		Daily:        []DailyCount{},
		ByDepartment: map[string]int{},
		ByStatus:     map[string]int{},
	}

	active := map[int64]struct{}{}
	daily := map[string]int{}
	for _, row := range rows {
		active[row.UserID] = struct{}{}
		daily[clock.FormatDate(row.Date)]++
		if row.Department.Valid && row.Department.String != "" {
			sum.ByDepartment[row.Department.String]++
		}
		status := attendance.Status(row.Status.String)
		sum.ByStatus[string(status)]++
		switch status {
		case attendance.StatusPresent:
			sum.Present++
		case attendance.StatusLate:
			sum.Late++
		case attendance.StatusHalfDay:
			sum.HalfDay++
		}
	}
	sum.ActiveInterns = len(active)
	if sum.TotalInterns > 0 {
		rate := float64(sum.ActiveInterns) / float64(sum.TotalInterns) * 100
		sum.AttendanceRate = math.Round(rate*10) / 10
	}

	for _, day := range r.Days() {
		key := clock.FormatDate(day)
		if n, ok := daily[key]; ok {
			sum.Daily = append(sum.Daily, DailyCount{Date: key, CheckIns: n})
		}
	}

	s.logger.Debug("summary built", "start", sum.Start, "end", sum.End, "check_ins", sum.CheckIns)
	return sum, nil
}

// Calendar lists every intern on every date of the range. Dates without a
// record are Absent. Each day also carries its most common status.
func (s *Service) Calendar(ctx context.Context, r Range, department string) (*Calendar, error) {
	if err := s.CheckRange(r); err != nil {
		return nil, err
	}
	interns, err := s.repo.ListInterns(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list interns: %w", err)
	}
	rows, err := s.repo.ListRows(ctx, r.Start, r.End, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byKey := make(map[string]attendance.Status, len(rows))
	counts := map[string]map[string]int{}
	for _, row := range rows {
		date := clock.FormatDate(row.Date)
		status := attendance.Status(row.Status.String)
		byKey[entryKey(row.UserID, date)] = status
		if counts[date] == nil {
			counts[date] = map[string]int{}
		}
		counts[date][string(status)]++
	}

	cal := &Calendar{
		Start:   clock.FormatDate(r.Start),
		End:     clock.FormatDate(r.End),
		Days:    []CalendarDay{},
		Entries: []CalendarEntry{},
	}
	for _, day := range r.Days() {
		date := clock.FormatDate(day)
		dayCounts := counts[date]
		if dayCounts == nil {
			dayCounts = map[string]int{}
		}
		cal.Days = append(cal.Days, CalendarDay{
			Date:    date,
			Weekday: day.Weekday().String(),
			Status:  dominant(dayCounts),
			Counts:  dayCounts,
		})

		for _, in := range interns {
			status, ok := byKey[entryKey(in.ID, date)]
			if !ok {
				status = attendance.StatusAbsent
			}
			cal.Entries = append(cal.Entries, CalendarEntry{UserID: in.ID, Name: in.Name, Date: date, Status: status})
		}
	}
	return cal, nil
}

func (s *Service) InternReport(ctx context.Context, userID int64, r Range) (*InternReport, error) {
	if err := s.CheckRange(r); err != nil {
		return nil, err
	}
	in, err := s.repo.GetIntern(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intern: %w", err)
	}
	if in == nil {
		return nil, internal.ErrUserNotFound
	}
	rows, err := s.repo.ListUserRows(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	rep := &InternReport{
		Intern:    in.Response(),
		Start:     clock.FormatDate(r.Start),
		End:       clock.FormatDate(r.End),
		Records:   make([]RowResponse, 0, len(rows)),
		TotalDays: len(r.Days()),
	}
	for _, row := range rows {
		rep.Records = append(rep.Records, s.rowResponse(row))
		switch attendance.Status(row.Status.String) {
		case attendance.StatusPresent:
			rep.Present++
		case attendance.StatusLate:
			rep.Late++
		case attendance.StatusHalfDay:
			rep.HalfDay++
		}
	}
	rep.Absent = rep.TotalDays - len(rows)
	if rep.Absent < 0 {
		rep.Absent = 0
	}
	return rep, nil
}

// Rows returns the joined rows for an export.
func (s *Service) Rows(ctx context.Context, r Range, department string) ([]Row, error) {
	if err := s.CheckRange(r); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRows(ctx, r.Start, r.End, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}

func (s *Service) UserRows(ctx context.Context, userID int64, r Range) ([]Row, error) {
	if err := s.CheckRange(r); err != nil {
		return nil, err
	}
	in, err := s.repo.GetIntern(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intern: %w", err)
	}
	if in == nil {
		return nil, internal.ErrUserNotFound
	}
	rows, err := s.repo.ListUserRows(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}

var tableHeaders = []string{"Name", "Date", "Check-in", "Check-out", "Status", "Department"}

// Table renders joined rows for export. Times are shown in the
// organisation's zone.
func (s *Service) Table(rows []Row) export.Table {
	return s.table("Attendance", rows)
}

func (s *Service) InternTable(userID int64, rows []Row) export.Table {
	return s.table("Intern "+strconv.FormatInt(userID, 10), rows)
}

func (s *Service) table(sheet string, rows []Row) export.Table {
	t := export.Table{Sheet: sheet, Headers: tableHeaders, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		resp := s.rowResponse(row)
		t.Rows = append(t.Rows, []string{row.Name, resp.Date, resp.CheckIn, resp.CheckOut, resp.Status, row.Department.String})
	}
	return t
}

func (s *Service) rowResponse(row Row) RowResponse {
	resp := RowResponse{Date: clock.FormatDate(row.Date), Status: row.Status.String}
	if row.CheckIn.Valid {
		resp.CheckIn = row.CheckIn.Time.In(s.clock.Location()).Format(timeLayout)
	}
	if row.CheckOut.Valid {
		resp.CheckOut = row.CheckOut.Time.In(s.clock.Location()).Format(timeLayout)
	}
	return resp
}

func entryKey(userID int64, date string) string {
	return strconv.FormatInt(userID, 10) + "/" + date
}

// dominant picks the most frequent status, breaking ties by display order.
func dominant(counts map[string]int) attendance.Status {
	best, bestN := attendance.StatusAbsent, 0
	for _, st := range attendance.AllStatuses {
		if n := counts[string(st)]; n > bestN {
			best, bestN = st, n
		}
	}
	return best
}
