package postgres

import (
	"context"

	"github.com/frahmantamala/intern-attendance/internal/core/common/database"
	departmentDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/department"
	"github.com/frahmantamala/intern-attendance/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) (bool, error) {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
