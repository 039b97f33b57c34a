package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	attendanceDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/attendance"
	"github.com/frahmantamala/intern-attendance/internal/core/events"
)

type RepositoryAPI interface {
	// UpsertCheckIn inserts row, or on a (user_id, date) conflict overwrites
	// only check_in_time. created is true only for the call whose insert won.
	UpsertCheckIn(ctx context.Context, row *attendanceDatamodel.Attendance) (created bool, err error)
	// SetCheckOut updates an existing row and reports whether one matched.
	SetCheckOut(ctx context.Context, userID int64, date, at time.Time) (bool, error)
	Get(ctx context.Context, userID int64, date time.Time) (*attendanceDatamodel.Attendance, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, start, end *time.Time) ([]*attendanceDatamodel.Attendance, error)
	ListAll(ctx context.Context, start, end *time.Time, department string) ([]*attendanceDatamodel.AttendanceWithUser, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	clock     clock.Clock
	rules     Rules
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, clk clock.Clock, rules Rules, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		clock:     clk,
		rules:     rules,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Rules() Rules {
	return s.rules
}

func (s *Service) Clock() clock.Clock {
	return s.clock
}

// resolve fills in "now" and "today" for absent arguments. The date defaults
// to the calendar date of the instant.
func (s *Service) resolve(date, at *time.Time) (time.Time, time.Time) {
	instant := s.clock.Now()
	if at != nil {
		instant = *at
	}
	instant = instant.In(s.clock.Location())

	day := clock.CivilDate(instant)
	if date != nil {
		day = clock.CivilDate(*date)
	}
	return day, instant
}

// CheckIn records a check-in for userID. The first check-in of a day creates
// the record with a status derived from the instant; later ones only replace
// the check-in time and keep the original status.
// RequireUser fails with ErrUserNotFound unless userID names an account.
// Manual entries call it before writing on someone else's behalf.
func (s *Service) RequireUser(ctx context.Context, userID int64) error {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok {
		return internal.ErrUserNotFound
	}
	return nil
}

func (s *Service) CheckIn(ctx context.Context, userID int64, date, at *time.Time) (*Record, error) {
	day, instant := s.resolve(date, at)
	status := s.rules.Status(instant)

	row := ToDataModel(&Record{
		UserID:  userID,
		Date:    day,
		CheckIn: &instant,
		Status:  status,
	})
	created, err := s.repo.UpsertCheckIn(ctx, row)
	if err != nil {
		s.logger.Error("check-in failed", "user_id", userID, "date", clock.FormatDate(day), "error", err)
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	stored, err := s.repo.Get(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to read back check-in: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("check-in for user %d on %s not found after upsert", userID, clock.FormatDate(day))
	}
	record := FromDataModel(stored, s.clock.Location())

	s.logger.Info("check-in recorded",
		"user_id", userID,
		"date", clock.FormatDate(day),
		"status", record.Status,
		"repeat", !created)

	s.publish(ctx, events.NewCheckedInEvent(userID, day, string(record.Status), !created))
	return record, nil
}

// CheckOut sets the check-out time on an existing record. It returns false
// when the user has not checked in on that date; no record is created.
func (s *Service) CheckOut(ctx context.Context, userID int64, date, at *time.Time) (bool, error) {
	day, instant := s.resolve(date, at)

	existing, err := s.repo.Get(ctx, userID, day)
	if err != nil {
		return false, fmt.Errorf("failed to look up attendance: %w", err)
	}
	if existing == nil {
		s.logger.Info("check-out without check-in", "user_id", userID, "date", clock.FormatDate(day))
		s.publish(ctx, events.NewCheckedOutEvent(userID, day, false))
		return false, nil
	}
	if existing.CheckInTime != nil && instant.Before(*existing.CheckInTime) {
		return false, internal.ErrCheckOutBeforeCheckIn
	}

	updated, err := s.repo.SetCheckOut(ctx, userID, day, instant)
	if err != nil {
		s.logger.Error("check-out failed", "user_id", userID, "date", clock.FormatDate(day), "error", err)
		return false, fmt.Errorf("failed to record check-out: %w", err)
	}

	s.logger.Info("check-out recorded", "user_id", userID, "date", clock.FormatDate(day), "updated", updated)
	s.publish(ctx, events.NewCheckedOutEvent(userID, day, updated))
	return updated, nil
}

// GetAttendance lists a user's records with date in [start, end], newest first.
func (s *Service) GetAttendance(ctx context.Context, userID int64, start, end *time.Time) ([]*Record, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID, civil(start), civil(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDataModel(row, s.clock.Location()))
	}
	return records, nil
}

// GetAllAttendance lists every user's records, newest date first then by name.
func (s *Service) GetAllAttendance(ctx context.Context, filter Filter) ([]*RecordWithUser, error) {
	if err := checkRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAll(ctx, civil(filter.Start), civil(filter.End), filter.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([]*RecordWithUser, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromJoinedDataModel(row, s.clock.Location()))
	}
	return records, nil
}

// Today returns the caller's record for the current date, or nil.
func (s *Service) Today(ctx context.Context, userID int64) (*Record, error) {
	row, err := s.repo.Get(ctx, userID, clock.Today(s.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row, s.clock.Location()), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && clock.CivilDate(*start).After(clock.CivilDate(*end)) {
		return internal.NewValidationFieldError("start", "start must not be after end", internal.ErrCodeInvalidRange)
	}
	return nil
}

func civil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := clock.CivilDate(*t)
	return &d
}
