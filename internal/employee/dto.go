package employee

import (
	"time"

	errors "github.com/hrplatform/employee-directory/internal"
	"github.com/hrplatform/employee-directory/internal/core/common/validation"
)

const hiringDateLayout = "2006-01-02"

// CreateEmployeeDTO is the admin-facing payload for onboarding an employee
// record. HiringDate uses the YYYY-MM-DD date form.
type CreateEmployeeDTO struct {
	EmployeeID string `json:"employee_id"`
	FullArName string `json:"full_ar_name"`
	FullEnName string `json:"full_en_name"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	NationalID string `json:"national_id"`
	HiringDate string `json:"hiring_date"`
	ADUsername string `json:"ad_username"`
	IsActive   bool   `json:"is_active"`
}

func (dto CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required().MaxLen(100, errors.ErrCodeValidationFailed)
	v.Field("full_ar_name", dto.FullArName).Required().MaxLen(250, errors.ErrCodeValidationFailed)
	v.Field("full_en_name", dto.FullEnName).Required().MaxLen(250, errors.ErrCodeValidationFailed)
	v.Field("job_title", dto.JobTitle).Required().MaxLen(150, errors.ErrCodeValidationFailed)
	v.Field("department", dto.Department).Required().MaxLen(150, errors.ErrCodeValidationFailed)
	v.Field("national_id", dto.NationalID).Required().ExactLen(14, errors.ErrCodeValidationFailed)
	v.Field("ad_username", dto.ADUsername).Required().MaxLen(250, errors.ErrCodeValidationFailed)
	v.Field("hiring_date", dto.HiringDate).Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	hired, err := dto.ParseHiringDate()
	if err != nil {
		return errors.NewValidationFieldError("hiring_date", "hiring_date must be a valid YYYY-MM-DD date", errors.ErrCodeInvalidHireDate)
	}
	if hired.After(time.Now()) {
		return errors.NewValidationFieldError("hiring_date", "hiring_date cannot be in the future", errors.ErrCodeInvalidHireDate)
	}

	return nil
}

func (dto CreateEmployeeDTO) ParseHiringDate() (time.Time, error) {
	return time.Parse(hiringDateLayout, dto.HiringDate)
}

// UpdateEmployeeDTO carries the mutable employee fields. Empty strings and a
// nil active flag mean "leave unchanged".
type UpdateEmployeeDTO struct {
	FullArName string `json:"full_ar_name"`
	FullEnName string `json:"full_en_name"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	HiringDate string `json:"hiring_date"`
	IsActive   *bool  `json:"is_active"`
}

func (dto UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("full_ar_name", dto.FullArName).MaxLen(250, errors.ErrCodeValidationFailed)
	v.Field("full_en_name", dto.FullEnName).MaxLen(250, errors.ErrCodeValidationFailed)
	v.Field("job_title", dto.JobTitle).MaxLen(150, errors.ErrCodeValidationFailed)
	v.Field("department", dto.Department).MaxLen(150, errors.ErrCodeValidationFailed)

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if dto.HiringDate != "" {
		if _, err := time.Parse(hiringDateLayout, dto.HiringDate); err != nil {
			return errors.NewValidationFieldError("hiring_date", "hiring_date must be a valid YYYY-MM-DD date", errors.ErrCodeInvalidHireDate)
		}
	}

	return nil
}
