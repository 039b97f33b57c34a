package user

import (
	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/core/common/validation"
)

const minPasswordLength = 6

type CreateUserDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(50)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("role", d.Role).OneOf(internal.ErrCodeInvalidRole, internal.RoleAdmin, internal.RoleIntern)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO changes profile fields. Empty fields are left untouched.
type UpdateUserDTO struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(100)
	v.Field("email", d.Email).Email()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateUserDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.Name != "" {
		fields["name"] = d.Name
	}
	if d.Email != "" {
		fields["email"] = d.Email
	}
	if d.Department != "" {
		fields["department"] = d.Department
	}
	return fields
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("new_password", d.NewPassword).Required().MinLength(minPasswordLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
