package postgres

import (
	employeeDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/employee"
	"github.com/hrplatform/employee-directory/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *employeeDatamodel.Employee) error {
	return r.db.Create(emp).Error
}

func (r *EmployeeRepository) GetByID(id string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("employee_id = ?", id).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetByUsername(username string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("ad_username = ?", username).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) List(limit, offset int) ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	err := r.db.
		Order("employee_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).Count(&count).Error
	return count, err
}

func (r *EmployeeRepository) Update(emp *employeeDatamodel.Employee) error {
	return r.db.Save(emp).Error
}

func (r *EmployeeRepository) Delete(id string) error {
	return r.db.Where("employee_id = ?", id).Delete(&employeeDatamodel.Employee{}).Error
}
