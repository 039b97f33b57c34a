// Package bootstrap seeds the administrator account and the default
// departments. Every step is skipped when its row already exists.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/intern-attendance/internal"
	departmentDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DefaultDepartments = []string{"IT", "HR", "Finance", "Marketing", "Operations"}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminName     string
	AdminEmail    string
	Departments   []string
}

// FromConfig fills unset fields with the stock admin/admin123 account.
func FromConfig(cfg internal.BootstrapConfig) SeedConfig {
	sc := SeedConfig{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		Departments:   cfg.Departments,
	}
	if sc.AdminUsername == "" {
		sc.AdminUsername = "admin"
	}
	if sc.AdminPassword == "" {
		sc.AdminPassword = "admin123"
	}
	if sc.AdminName == "" {
		sc.AdminName = "Administrator"
	}
	if sc.AdminEmail == "" {
		sc.AdminEmail = "admin@example.com"
	}
	if len(sc.Departments) == 0 {
		sc.Departments = DefaultDepartments
	}
	return sc
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Result struct {
	AdminCreated       bool
	DepartmentsCreated []string
}

type Seeder struct {
	db     *gorm.DB
	hasher PasswordHasher
	logger *slog.Logger
}

func NewSeeder(db *gorm.DB, hasher PasswordHasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, hasher: hasher, logger: logger}
}

func (s *Seeder) Seed(ctx context.Context, cfg SeedConfig) (Result, error) {
	var res Result

	created, err := s.seedAdmin(ctx, cfg)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	for _, name := range cfg.Departments {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tx := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&departmentDatamodel.Department{Name: name})
		if tx.Error != nil {
			return res, fmt.Errorf("failed to seed department %s: %w", name, tx.Error)
		}
		if tx.RowsAffected > 0 {
			res.DepartmentsCreated = append(res.DepartmentsCreated, name)
		}
	}

	s.logger.Info("bootstrap finished",
		"admin_created", res.AdminCreated,
		"departments_created", len(res.DepartmentsCreated))
	return res, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, cfg SeedConfig) (bool, error) {
	var exists int
	row := s.db.WithContext(ctx).Raw("SELECT 1 FROM users WHERE username = ?", cfg.AdminUsername).Row()
	if err := row.Scan(&exists); err == nil {
		s.logger.Debug("admin user already exists", "username", cfg.AdminUsername)
		return false, nil
	}

	hash, err := s.hasher.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &userDatamodel.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         internal.RoleAdmin,
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return false, fmt.Errorf("failed to insert admin user: %w", err)
	}
	s.logger.Info("seeded admin user", "username", admin.Username, "user_id", admin.ID)
	return true, nil
}
