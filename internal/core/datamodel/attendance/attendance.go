package attendance

import "time"

// Attendance is one intern's record for one calendar day. Date is a civil
// date held as midnight UTC.
type Attendance struct {
	ID           int64      `gorm:"primaryKey"`
	UserID       int64      `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_date"`
	Date         time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendance_user_date"`
	CheckInTime  *time.Time `gorm:"column:check_in_time"`
	CheckOutTime *time.Time `gorm:"column:check_out_time"`
	Status       *string    `gorm:"column:status"`
	Notes        *string    `gorm:"column:notes"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// AttendanceWithUser is an attendance row joined with its user.
type AttendanceWithUser struct {
	Attendance `gorm:"embedded"`
	Name       string  `gorm:"column:name"`
	Username   string  `gorm:"column:username"`
	Department *string `gorm:"column:department"`
}
