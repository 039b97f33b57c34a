package department

import (
	departmentDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/department"
)

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{ID: d.ID, Name: d.Name}
}

type CreateDepartmentDTO struct {
	Name string `json:"name"`
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}
