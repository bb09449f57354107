package employee

import (
	"errors"
	"time"

	employeeDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/employee"
	"github.com/hrplatform/employee-directory/internal/directory"
)

// Employee is the local roster record. The local database is authoritative
// for these fields; directory data is supplementary.
type Employee struct {
	EmployeeID string    `json:"employee_id"`
	FullArName string    `json:"full_ar_name"`
	FullEnName string    `json:"full_en_name"`
	JobTitle   string    `json:"job_title"`
	Department string    `json:"department"`
	NationalID string    `json:"national_id"`
	HiringDate time.Time `json:"hiring_date"`
	ADUsername string    `json:"ad_username"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Profile merges the local row with a live directory snapshot. ADInfo is
// empty, not an error, when the directory is unreachable: directory
// unavailability must never block viewing local profile data.
type Profile struct {
	DatabaseInfo *Employee            `json:"database_info"`
	ADInfo       directory.Attributes `json:"ad_info"`
}

// SyncResult reports one employee's directory status from a bulk sync run.
type SyncResult struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Synced     bool   `json:"ad_synced"`
	OU         string `json:"ad_ou,omitempty"`
}

type SyncReport struct {
	TotalEmployees int          `json:"total_employees"`
	SyncResults    []SyncResult `json:"sync_results"`
}

type ListResult struct {
	Total     int64       `json:"total"`
	Employees []*Employee `json:"employees"`
}

var (
	ErrNotFound             = errors.New("employee not found")
	ErrDuplicate            = errors.New("employee already exists")
	ErrDirectoryUnavailable = errors.New("could not fetch directory information")
)

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		EmployeeID: e.EmployeeID,
		FullArName: e.FullArName,
		FullEnName: e.FullEnName,
		JobTitle:   e.JobTitle,
		Department: e.Department,
		NationalID: e.NationalID,
		HiringDate: e.HiringDate,
		ADUsername: e.ADUsername,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		EmployeeID: e.EmployeeID,
		FullArName: e.FullArName,
		FullEnName: e.FullEnName,
		JobTitle:   e.JobTitle,
		Department: e.Department,
		NationalID: e.NationalID,
		HiringDate: e.HiringDate,
		ADUsername: e.ADUsername,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
