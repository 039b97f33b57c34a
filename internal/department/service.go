package department

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	// Create returns false when the name is already taken.
	Create(ctx context.Context, d *departmentDatamodel.Department) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns all departments ordered by name.
func (s *Service) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	out := make([]*Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, name string) (*Department, error) {
	name = strings.TrimSpace(name)
	v := validation.NewValidator()
	v.Field("name", name).Required().MaxLength(100)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	row := &departmentDatamodel.Department{Name: name}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	if !created {
		return nil, internal.ErrDepartmentExists
	}

	s.logger.Info("department created", "name", name)
	return FromDataModel(row), nil
}
