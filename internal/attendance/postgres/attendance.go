package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/attendance"
	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) UpsertCheckIn(ctx context.Context, row *attendanceDatamodel.Attendance) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			return nil
		}
		return tx.Model(&attendanceDatamodel.Attendance{}).
			Where("user_id = ? AND date = ?", row.UserID, row.Date).
			Update("check_in_time", row.CheckInTime).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *AttendanceRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AttendanceRepository) SetCheckOut(ctx context.Context, userID int64, date, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&attendanceDatamodel.Attendance{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("check_out_time", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AttendanceRepository) Get(ctx context.Context, userID int64, date time.Time) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID int64, start, end *time.Time) ([]*attendanceDatamodel.Attendance, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}

	var rows []*attendanceDatamodel.Attendance
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) ListAll(ctx context.Context, start, end *time.Time, department string) ([]*attendanceDatamodel.AttendanceWithUser, error) {
	q := r.db.WithContext(ctx).
		Table("attendance AS a").
		Select("a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.status, a.notes, u.name, u.username, u.department").
		Joins("JOIN users u ON u.id = a.user_id")
	if start != nil {
		q = q.Where("a.date >= ?", *start)
	}
	if end != nil {
		q = q.Where("a.date <= ?", *end)
	}
	if department != "" {
		q = q.Where("u.department = ?", department)
	}

	var rows []*attendanceDatamodel.AttendanceWithUser
	err := q.Order("a.date DESC").Order("u.name ASC").Scan(&rows).Error
	return rows, err
}
