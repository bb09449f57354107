package employee

import (
	"context"
	"log/slog"
	"sync"
	"time"

	employeeDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/employee"
	"github.com/hrplatform/employee-directory/internal/core/events"
	"github.com/hrplatform/employee-directory/internal/directory"
)

// RepositoryAPI defines the data access methods for employee records.
type RepositoryAPI interface {
	Create(emp *employeeDatamodel.Employee) error
	GetByID(id string) (*employeeDatamodel.Employee, error)
	GetByUsername(username string) (*employeeDatamodel.Employee, error)
	List(limit, offset int) ([]*employeeDatamodel.Employee, error)
	Count() (int64, error)
	Update(emp *employeeDatamodel.Employee) error
	Delete(id string) error
}

// DirectoryAPI is the slice of the directory client this service needs.
// Lookups run under the configured service account.
type DirectoryAPI interface {
	FetchAttributes(username string, creds *directory.Credentials) (*directory.Attributes, bool)
}

type Service struct {
	repo        RepositoryAPI
	directory   DirectoryAPI
	bus         *events.EventBus
	syncWorkers int
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, dir DirectoryAPI, bus *events.EventBus, syncWorkers int, logger *slog.Logger) *Service {
	if syncWorkers < 1 {
		syncWorkers = 1
	}
	return &Service{
		repo:        repo,
		directory:   dir,
		bus:         bus,
		syncWorkers: syncWorkers,
		logger:      logger,
	}
}

func (s *Service) List(limit, offset int) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	total, err := s.repo.Count()
	if err != nil {
		s.logger.Error("failed to count employees", "error", err)
		return nil, err
	}

	result := &ListResult{Total: total, Employees: make([]*Employee, 0, len(rows))}
	for _, row := range rows {
		result.Employees = append(result.Employees, FromDataModel(row))
	}
	return result, nil
}

func (s *Service) GetByID(id string) (*Employee, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateEmployeeDTO) (*Employee, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	if _, err := s.repo.GetByID(dto.EmployeeID); err == nil {
		return nil, ErrDuplicate
	}

	hired, err := dto.ParseHiringDate()
	if err != nil {
		return nil, err
	}

	emp := &Employee{
		EmployeeID: dto.EmployeeID,
		FullArName: dto.FullArName,
		FullEnName: dto.FullEnName,
		JobTitle:   dto.JobTitle,
		Department: dto.Department,
		NationalID: dto.NationalID,
		HiringDate: hired,
		ADUsername: dto.ADUsername,
		IsActive:   dto.IsActive,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(ToDataModel(emp)); err != nil {
		s.logger.Error("failed to create employee", "employee_id", dto.EmployeeID, "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.EmployeeID, "ad_username", emp.ADUsername)
	return emp, nil
}

func (s *Service) Update(id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.FullArName != "" {
		row.FullArName = dto.FullArName
	}
	if dto.FullEnName != "" {
		row.FullEnName = dto.FullEnName
	}
	if dto.JobTitle != "" {
		row.JobTitle = dto.JobTitle
	}
	if dto.Department != "" {
		row.Department = dto.Department
	}
	if dto.HiringDate != "" {
		hired, perr := time.Parse(hiringDateLayout, dto.HiringDate)
		if perr == nil {
			row.HiringDate = hired
		}
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, err
	}

	return FromDataModel(row), nil
}

func (s *Service) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// GetProfile assembles the authenticated user's profile: the local row is
// authoritative and always returned; the directory snapshot is best-effort
// enrichment and degrades to an empty object when the directory is down.
func (s *Service) GetProfile(username string) (*Profile, error) {
	row, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	profile := &Profile{DatabaseInfo: FromDataModel(row)}

	if attrs, ok := s.directory.FetchAttributes(username, nil); ok {
		profile.ADInfo = *attrs
	} else {
		s.logger.Warn("directory enrichment unavailable for profile", "username", username)
	}

	return profile, nil
}

// GetDirectoryInfo fetches the live directory attributes for one employee.
// Unlike the profile, a directory failure here is an error the caller sees.
func (s *Service) GetDirectoryInfo(employeeID string) (*directory.Attributes, error) {
	row, err := s.repo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}

	attrs, ok := s.directory.FetchAttributes(row.ADUsername, nil)
	if !ok {
		s.logger.Error("directory lookup failed", "employee_id", employeeID, "ad_username", row.ADUsername)
		return nil, ErrDirectoryUnavailable
	}

	return attrs, nil
}

// SyncDirectory checks every employee against the directory and reports
// whether each one resolves. Lookups fan out across a bounded set of
// goroutines; the report preserves roster order regardless of completion
// order. Read-only: no data is written.
func (s *Service) SyncDirectory(ctx context.Context) (*SyncReport, error) {
	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.List(int(total), 0)
	if err != nil {
		s.logger.Error("failed to load employees for sync", "error", err)
		return nil, err
	}

	results := make([]SyncResult, len(rows))
	sem := make(chan struct{}, s.syncWorkers)
	var wg sync.WaitGroup

	for i, row := range rows {
		wg.Add(1)
		go func(idx int, emp *employeeDatamodel.Employee) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := SyncResult{
				EmployeeID: emp.EmployeeID,
				Name:       emp.FullEnName,
			}
			// A cancelled request reports the rest as unsynced instead of
			// queueing more directory lookups.
			if ctx.Err() == nil {
				if attrs, ok := s.directory.FetchAttributes(emp.ADUsername, nil); ok {
					result.Synced = true
					result.OU = attrs.OU
				}
			}
			results[idx] = result
		}(i, row)
	}
	wg.Wait()

	synced := 0
	for _, r := range results {
		if r.Synced {
			synced++
		}
	}

	s.logger.Info("directory sync completed", "total", len(rows), "synced", synced)

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.NewDirectorySyncedEvent(len(rows), synced)); err != nil {
			s.logger.Warn("failed to publish sync event", "error", err)
		}
	}

	return &SyncReport{
		TotalEmployees: len(rows),
		SyncResults:    results,
	}, nil
}
