package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
)

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToDataModel(u *User) *userDatamodel.User {
	row := &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Name:         u.Name,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
	}
	if u.Department != "" {
		d := u.Department
		row.Department = &d
	}
	return row
}

func FromDataModel(row *userDatamodel.User) *User {
	u := &User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		Name:         row.Name,
		Email:        row.Email,
		CreatedAt:    row.CreatedAt,
	}
	if row.Department != nil {
		u.Department = *row.Department
	}
	return u
}
