package transfer

import (
	"context"
	"log/slog"
	"time"

	transferDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/transfer"
	"github.com/hrplatform/employee-directory/internal/core/events"
	"github.com/hrplatform/employee-directory/internal/directory"
	"github.com/hrplatform/employee-directory/internal/employee"
)

// DirectoryAPI is the slice of the directory client the transfer workflow
// needs: a read to capture the source OU, and the move itself.
type DirectoryAPI interface {
	FetchAttributes(username string, creds *directory.Credentials) (*directory.Attributes, bool)
	MoveEntry(username, newOU, adminUsername, adminPassword string) (bool, string)
}

// RepositoryAPI is the append-only audit store.
type RepositoryAPI interface {
	Append(rec *transferDatamodel.TransferAudit) error
	List(limit, offset int) ([]*transferDatamodel.TransferAudit, error)
	ListByEmployee(employeeID string, limit, offset int) ([]*transferDatamodel.TransferAudit, error)
}

// EmployeeAPI resolves the target employee by external id.
type EmployeeAPI interface {
	GetByID(id string) (*employee.Employee, error)
}

type Service struct {
	directory DirectoryAPI
	repo      RepositoryAPI
	employees EmployeeAPI
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(dir DirectoryAPI, repo RepositoryAPI, employees EmployeeAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		directory: dir,
		repo:      repo,
		employees: employees,
		bus:       bus,
		logger:    logger,
	}
}

// Execute runs the OU transfer workflow for one employee. The acting admin's
// own password authorizes the directory write. Once the pre-move attribute
// fetch has succeeded, exactly one audit record is written, whether or not
// the move itself succeeds; that is the audit guarantee of this component.
func (s *Service) Execute(ctx context.Context, employeeID, actingAdmin string, dto TransferRequestDTO) (*Record, error) {
	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		if err == employee.ErrNotFound {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	// Capture the source OU before touching anything. If this fails, the
	// move was never attempted and no audit record is owed.
	current, ok := s.directory.FetchAttributes(emp.ADUsername, nil)
	if !ok {
		s.logger.Error("pre-transfer directory fetch failed",
			"employee_id", employeeID,
			"ad_username", emp.ADUsername)
		return nil, ErrDirectoryUnavailable
	}

	success, message := s.directory.MoveEntry(emp.ADUsername, dto.NewOU, actingAdmin, dto.AdminPassword)

	record := &Record{
		EmployeeID:    emp.EmployeeID,
		EmployeeName:  emp.FullEnName,
		FromOU:        current.OU,
		ToOU:          dto.NewOU,
		TransferredBy: actingAdmin,
		Note:          dto.Note,
		Success:       success,
		CreatedAt:     time.Now(),
	}

	row := ToDataModel(record)
	if err := s.repo.Append(row); err != nil {
		s.logger.Error("failed to write transfer audit record",
			"employee_id", employeeID,
			"success", success,
			"error", err)
		return nil, err
	}
	record.ID = row.ID

	s.logger.Info("transfer attempt recorded",
		"employee_id", employeeID,
		"from_ou", record.FromOU,
		"to_ou", record.ToOU,
		"transferred_by", actingAdmin,
		"success", success)

	if s.bus != nil {
		event := events.NewTransferAttemptedEvent(emp.EmployeeID, record.FromOU, record.ToOU, actingAdmin, success)
		if perr := s.bus.Publish(ctx, event); perr != nil {
			s.logger.Warn("failed to publish transfer event", "error", perr)
		}
	}

	if !success {
		return record, &MoveFailedError{Message: message, Record: record}
	}

	return record, nil
}

// ListAudit returns audit records most-recent-first, optionally filtered to
// one employee.
func (s *Service) ListAudit(employeeID string, limit, offset int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var rows []*transferDatamodel.TransferAudit
	var err error
	if employeeID != "" {
		rows, err = s.repo.ListByEmployee(employeeID, limit, offset)
	} else {
		rows, err = s.repo.List(limit, offset)
	}
	if err != nil {
		s.logger.Error("failed to list transfer audit records", "error", err)
		return nil, err
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDataModel(row))
	}
	return records, nil
}
