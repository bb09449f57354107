package transfer

import (
	errors "github.com/hrplatform/employee-directory/internal"
	"github.com/hrplatform/employee-directory/internal/core/common/validation"
)

// TransferRequestDTO is the admin-facing payload for moving an employee to a
// new OU. AdminPassword is the acting admin's own directory password,
// re-supplied to authorize the directory write.
type TransferRequestDTO struct {
	NewOU         string `json:"new_ou"`
	AdminPassword string `json:"admin_password"`
	Note          string `json:"note"`
}

func (dto TransferRequestDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("new_ou", dto.NewOU).Required().OneOf(AllowedOUs, errors.ErrCodeInvalidOU)
	v.Field("admin_password", dto.AdminPassword).Required()

	return v.Validate()
}
