package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/intern-attendance/internal"
	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	"github.com/frahmantamala/intern-attendance/internal/core/events"
)

type RepositoryAPI interface {
	// Create inserts the user and returns false on a duplicate username or email.
	Create(ctx context.Context, u *userDatamodel.User) (bool, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	List(ctx context.Context, role string) ([]*userDatamodel.User, error)
	// UpdateProfile returns false on a duplicate email.
	UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService wires the user service. publisher may be nil.
func NewService(repo RepositoryAPI, hasher PasswordHasher, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new account. Role defaults to intern.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Role == "" {
		dto.Role = internal.RoleIntern
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := ToDataModel(&User{
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         dto.Role,
		Name:         dto.Name,
		Email:        dto.Email,
		Department:   dto.Department,
	})
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return nil, internal.ErrUserExists
	}

	s.logger.Info("user created", "user_id", row.ID, "username", row.Username, "role", row.Role)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewUserCreatedEvent(row.ID, row.Role)); err != nil {
			s.logger.Warn("failed to publish event", "event_type", events.EventTypeUserCreated, "error", err)
		}
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// List returns users ordered by name. An empty role lists everyone.
func (s *Service) List(ctx context.Context, role string) ([]*User, error) {
	rows, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

// UpdateProfile applies the non-empty fields of dto.
func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	fields := dto.Fields()
	if len(fields) == 0 {
		return nil, internal.ErrNothingToUpdate
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if !updated {
		return nil, internal.ErrUserExists
	}

	s.logger.Info("user profile updated", "user_id", id)
	return s.GetByID(ctx, id)
}

// ChangePassword replaces the password of id without checking the old one.
func (s *Service) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if err := (ChangePasswordDTO{NewPassword: newPassword}).Validate(); err != nil {
		return err
	}
	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated, err := s.repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if !updated {
		return internal.ErrUserNotFound
	}

	s.logger.Info("password changed", "user_id", id)
	return nil
}

// ChangeOwnPassword requires the current password before replacing it.
func (s *Service) ChangeOwnPassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}
	if err := s.hasher.VerifyPassword(row.PasswordHash, currentPassword); err != nil {
		return internal.ErrInvalidCredentials
	}
	return s.ChangePassword(ctx, id, newPassword)
}
