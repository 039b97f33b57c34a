package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCheckedIn   = "attendance.checked_in"
	EventTypeCheckedOut  = "attendance.checked_out"
	EventTypeUserCreated = "user.created"
)

type CheckedInEvent struct {
	BaseEvent
	UserID int64
	Date   time.Time
	Status string
	// Repeat is true when the check-in overwrote an earlier one for the day.
	Repeat bool
}

func NewCheckedInEvent(userID int64, date time.Time, status string, repeat bool) CheckedInEvent {
	return CheckedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeCheckedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"date":    date.Format("2006-01-02"),
				"status":  status,
				"repeat":  repeat,
			},
		},
		UserID: userID,
		Date:   date,
		Status: status,
		Repeat: repeat,
	}
}

type CheckedOutEvent struct {
	BaseEvent
	UserID int64
	Date   time.Time
	// Recorded is false when there was no check-in to attach the check-out to.
	Recorded bool
}

func NewCheckedOutEvent(userID int64, date time.Time, recorded bool) CheckedOutEvent {
	return CheckedOutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeCheckedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"date":     date.Format("2006-01-02"),
				"recorded": recorded,
			},
		},
		UserID:   userID,
		Date:     date,
		Recorded: recorded,
	}
}

type UserCreatedEvent struct {
	BaseEvent
	UserID int64
	Role   string
}

func NewUserCreatedEvent(userID int64, role string) UserCreatedEvent {
	return UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"role":    role,
			},
		},
		UserID: userID,
		Role:   role,
	}
}
