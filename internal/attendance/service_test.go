package attendance_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/attendance"
	"github.com/frahmantamala/intern-attendance/internal/clock"
	attendanceDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/attendance"
	"github.com/frahmantamala/intern-attendance/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockAttendanceRepository struct {
	rows       map[string]*attendanceDatamodel.Attendance
	users      map[int64]bool
	nextID     int64
	shouldFail bool
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		rows:  map[string]*attendanceDatamodel.Attendance{},
		users: map[int64]bool{7: true},
	}
}

func key(userID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, clock.FormatDate(date))
}

func (m *mockAttendanceRepository) UpsertCheckIn(_ context.Context, row *attendanceDatamodel.Attendance) (bool, error) {
	if m.shouldFail {
		return false, errors.New("database error")
	}
	k := key(row.UserID, row.Date)
	if existing, ok := m.rows[k]; ok {
		existing.CheckInTime = row.CheckInTime
		return false, nil
	}
	m.nextID++
	cp := *row
	cp.ID = m.nextID
	m.rows[k] = &cp
	return true, nil
}

func (m *mockAttendanceRepository) SetCheckOut(_ context.Context, userID int64, date, at time.Time) (bool, error) {
	if m.shouldFail {
		return false, errors.New("database error")
	}
	existing, ok := m.rows[key(userID, date)]
	if !ok {
		return false, nil
	}
	existing.CheckOutTime = &at
	return true, nil
}

func (m *mockAttendanceRepository) Get(_ context.Context, userID int64, date time.Time) (*attendanceDatamodel.Attendance, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	if row, ok := m.rows[key(userID, date)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (m *mockAttendanceRepository) UserExists(_ context.Context, userID int64) (bool, error) {
	if m.shouldFail {
		return false, errors.New("database error")
	}
	return m.users[userID], nil
}

func (m *mockAttendanceRepository) ListByUser(_ context.Context, userID int64, start, end *time.Time) ([]*attendanceDatamodel.Attendance, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	var out []*attendanceDatamodel.Attendance
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		if start != nil && row.Date.Before(*start) {
			continue
		}
		if end != nil && row.Date.After(*end) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *mockAttendanceRepository) ListAll(_ context.Context, _, _ *time.Time, _ string) ([]*attendanceDatamodel.AttendanceWithUser, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	var out []*attendanceDatamodel.AttendanceWithUser
	for _, row := range m.rows {
		out = append(out, &attendanceDatamodel.AttendanceWithUser{Attendance: *row, Name: "someone"})
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Attendance Service", func() {
	var (
		repo      *mockAttendanceRepository
		publisher *recordingPublisher
		service   *attendance.Service
		ctx       context.Context
		now       time.Time
		slogger   *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockAttendanceRepository()
		publisher = &recordingPublisher{}
		now = at(2024, 3, 1, 9, 45, 0)
		service = attendance.NewService(repo, clock.Fixed(now), attendance.DefaultRules, publisher, slogger)
		ctx = context.Background()
	})

	Describe("CheckIn", func() {
		It("defaults the instant and date to now in the organisation zone", func() {
			record, err := service.CheckIn(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(clock.FormatDate(record.Date)).To(Equal("2024-03-01"))
			Expect(record.CheckIn.Equal(now)).To(BeTrue())
			Expect(record.Status).To(Equal(attendance.StatusLate))
		})

		It("derives the date from a supplied instant", func() {
			instant := at(2024, 2, 28, 8, 55, 0)
			record, err := service.CheckIn(ctx, 7, nil, &instant)
			Expect(err).NotTo(HaveOccurred())
			Expect(clock.FormatDate(record.Date)).To(Equal("2024-02-28"))
			Expect(record.Status).To(Equal(attendance.StatusPresent))
		})

		It("converts instants from other zones before classifying", func() {
			instant := time.Date(2024, 3, 1, 3, 29, 0, 0, time.UTC) // 08:59 IST
			record, err := service.CheckIn(ctx, 7, nil, &instant)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal(attendance.StatusPresent))
			Expect(record.CheckIn.Location()).To(Equal(ist))
		})

		It("keeps one record and the original status on a repeat check-in", func() {
			first := at(2024, 3, 1, 9, 10, 0)
			second := at(2024, 3, 1, 11, 0, 0)

			_, err := service.CheckIn(ctx, 7, nil, &first)
			Expect(err).NotTo(HaveOccurred())
			record, err := service.CheckIn(ctx, 7, nil, &second)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.rows).To(HaveLen(1))
			Expect(record.CheckIn.Equal(second)).To(BeTrue())
			Expect(record.Status).To(Equal(attendance.StatusPresent))
		})

		It("publishes a checked-in event", func() {
			_, err := service.CheckIn(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.events).To(HaveLen(1))

			evt, ok := publisher.events[0].(events.CheckedInEvent)
			Expect(ok).To(BeTrue())
			Expect(evt.Status).To(Equal("Late"))
			Expect(evt.Repeat).To(BeFalse())
		})

		It("flags a check-in as repeat when the write found a row already there", func() {
			first := at(2024, 3, 1, 9, 10, 0)
			// another request landed the row first
			row := attendance.ToDataModel(&attendance.Record{UserID: 7, Date: first, CheckIn: &first, Status: attendance.StatusPresent})
			created, err := repo.UpsertCheckIn(ctx, row)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			second := at(2024, 3, 1, 9, 20, 0)
			_, err = service.CheckIn(ctx, 7, nil, &second)
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			evt := publisher.events[0].(events.CheckedInEvent)
			Expect(evt.Repeat).To(BeTrue())
		})

		It("wraps repository failures", func() {
			repo.shouldFail = true
			_, err := service.CheckIn(ctx, 7, nil, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RequireUser", func() {
		It("accepts a known account", func() {
			Expect(service.RequireUser(ctx, 7)).To(Succeed())
		})

		It("returns USER_NOT_FOUND for an unknown id", func() {
			err := service.RequireUser(ctx, 999)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("wraps repository failures without claiming the user is missing", func() {
			repo.shouldFail = true
			err := service.RequireUser(ctx, 7)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeFalse())
		})
	})

	Describe("CheckOut", func() {
		It("returns false and creates nothing when there is no check-in", func() {
			ok, err := service.CheckOut(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(repo.rows).To(BeEmpty())
		})

		It("sets the check-out time and leaves status alone", func() {
			_, err := service.CheckIn(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			out := at(2024, 3, 1, 17, 5, 0)
			ok, err := service.CheckOut(ctx, 7, nil, &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			day := clock.CivilDate(now)
			records, err := service.GetAttendance(ctx, 7, &day, &day)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].CheckOut.Equal(out)).To(BeTrue())
			Expect(records[0].Status).To(Equal(attendance.StatusLate))
		})

		It("rejects a check-out earlier than the check-in", func() {
			_, err := service.CheckIn(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			early := at(2024, 3, 1, 8, 0, 0)
			ok, err := service.CheckOut(ctx, 7, nil, &early)
			Expect(ok).To(BeFalse())
			Expect(errors.Is(err, internal.ErrCheckOutBeforeCheckIn)).To(BeTrue())
		})
	})

	Describe("GetAttendance", func() {
		It("rejects an inverted range", func() {
			start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			_, err := service.GetAttendance(ctx, 7, &start, &end)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Today", func() {
		It("returns nil before any check-in and the record after", func() {
			record, err := service.Today(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(record).To(BeNil())

			_, err = service.CheckIn(ctx, 7, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			record, err = service.Today(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(record).NotTo(BeNil())
			Expect(record.Status).To(Equal(attendance.StatusLate))
		})
	})
})
