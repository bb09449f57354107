package transfer

import (
	"time"

	employeeDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/employee"
)

// TransferAudit is one row per attempted OU move. Rows are written whether or
// not the directory move succeeded and are immutable afterwards. The row
// references the employee and is removed with it.
type TransferAudit struct {
	ID            int64                       `gorm:"primaryKey"`
	EmployeeID    string                      `gorm:"column:employee_id;not null;index"`
	Employee      *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnDelete:CASCADE"`
	FromOU        string                      `gorm:"column:from_ou;not null"`
	ToOU          string                      `gorm:"column:to_ou;not null"`
	TransferredBy string                      `gorm:"column:transferred_by;not null"`
	Note          string                      `gorm:"column:note"`
	Success       bool                        `gorm:"column:success;not null"`
	CreatedAt     time.Time                   `gorm:"column:created_at;default:now()"`
}

func (TransferAudit) TableName() string {
	return "transfer_audits"
}
