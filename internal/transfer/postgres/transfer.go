package postgres

import (
	transferDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/transfer"
	"github.com/hrplatform/employee-directory/internal/transfer"
	"gorm.io/gorm"
)

// TransferRepository implements transfer.RepositoryAPI using GORM. The audit
// table is append-only; there is no update or delete path.
type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) transfer.RepositoryAPI {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Append(rec *transferDatamodel.TransferAudit) error {
	return r.db.Create(rec).Error
}

func (r *TransferRepository) List(limit, offset int) ([]*transferDatamodel.TransferAudit, error) {
	var rows []*transferDatamodel.TransferAudit
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *TransferRepository) ListByEmployee(employeeID string, limit, offset int) ([]*transferDatamodel.TransferAudit, error) {
	var rows []*transferDatamodel.TransferAudit
	err := r.db.
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}
