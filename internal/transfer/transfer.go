package transfer

import (
	"errors"
	"time"

	transferDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/transfer"
)

// AllowedOUs is the fixed set of organizational units an employee may be
// moved into. Requests naming any other OU are rejected before a single
// directory call is made.
var AllowedOUs = []string{
	"Accountant",
	"Administrative Affairs",
	"Camera",
	"Exhibit",
	"HR",
	"IT",
	"Audit",
	"Out Work",
	"Projects",
	"Sales",
	"Supplies",
	"Secretarial",
}

func IsAllowedOU(ou string) bool {
	for _, allowed := range AllowedOUs {
		if ou == allowed {
			return true
		}
	}
	return false
}

// Record is one audit entry for an attempted OU move. A row exists for every
// attempt that reached the directory, successful or not, and is immutable.
type Record struct {
	ID            int64     `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	FromOU        string    `json:"from_ou"`
	ToOU          string    `json:"to_ou"`
	TransferredBy string    `json:"transferred_by"`
	Note          string    `json:"note,omitempty"`
	Success       bool      `json:"success"`
	CreatedAt     time.Time `json:"transfer_date"`
}

type TransferResult struct {
	Message  string  `json:"message"`
	Transfer *Record `json:"transfer"`
}

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrDirectoryUnavailable = errors.New("could not fetch current directory information")
)

// MoveFailedError carries the directory-reported message for a rejected or
// failed move. It maps to a client error: the caller can correct and retry.
type MoveFailedError struct {
	Message string
	Record  *Record
}

func (e *MoveFailedError) Error() string { return e.Message }

func ToDataModel(rec *Record) *transferDatamodel.TransferAudit {
	return &transferDatamodel.TransferAudit{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		FromOU:        rec.FromOU,
		ToOU:          rec.ToOU,
		TransferredBy: rec.TransferredBy,
		Note:          rec.Note,
		Success:       rec.Success,
		CreatedAt:     rec.CreatedAt,
	}
}

func FromDataModel(row *transferDatamodel.TransferAudit) *Record {
	return &Record{
		ID:            row.ID,
		EmployeeID:    row.EmployeeID,
		FromOU:        row.FromOU,
		ToOU:          row.ToOU,
		TransferredBy: row.TransferredBy,
		Note:          row.Note,
		Success:       row.Success,
		CreatedAt:     row.CreatedAt,
	}
}
