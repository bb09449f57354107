package employee

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	employeeDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/employee"
	"github.com/hrplatform/employee-directory/internal/directory"
)

func TestEmployee(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Employee Module Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock employee repository for testing
type mockEmployeeRepository struct {
	rows          []*employeeDatamodel.Employee
	returnError   bool
	errorToReturn error
}

func (m *mockEmployeeRepository) find(id string) *employeeDatamodel.Employee {
	for _, row := range m.rows {
		if row.EmployeeID == id {
			return row
		}
	}
	return nil
}

func (m *mockEmployeeRepository) Create(emp *employeeDatamodel.Employee) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.rows = append(m.rows, emp)
	return nil
}

func (m *mockEmployeeRepository) GetByID(id string) (*employeeDatamodel.Employee, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if row := m.find(id); row != nil {
		return row, nil
	}
	return nil, ErrNotFound
}

func (m *mockEmployeeRepository) GetByUsername(username string) (*employeeDatamodel.Employee, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, row := range m.rows {
		if row.ADUsername == username {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockEmployeeRepository) List(limit, offset int) ([]*employeeDatamodel.Employee, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if offset >= len(m.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[offset:end], nil
}

func (m *mockEmployeeRepository) Count() (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	return int64(len(m.rows)), nil
}

func (m *mockEmployeeRepository) Update(emp *employeeDatamodel.Employee) error {
	if m.returnError {
		return m.errorToReturn
	}
	return nil
}

func (m *mockEmployeeRepository) Delete(id string) error {
	if m.returnError {
		return m.errorToReturn
	}
	for i, row := range m.rows {
		if row.EmployeeID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Mock directory for testing
type mockDirectory struct {
	mu      sync.Mutex
	entries map[string]*directory.Attributes
	down    bool
	calls   []string
}

func (m *mockDirectory) FetchAttributes(username string, creds *directory.Credentials) (*directory.Attributes, bool) {
	m.mu.Lock()
	m.calls = append(m.calls, username)
	m.mu.Unlock()

	if m.down {
		return nil, false
	}
	if attrs, ok := m.entries[username]; ok {
		return attrs, true
	}
	return nil, false
}

func row(id, name, username string) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		EmployeeID: id,
		FullArName: name,
		FullEnName: name,
		JobTitle:   "Engineer",
		Department: "IT",
		NationalID: "2980512010" + id,
		HiringDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		ADUsername: username,
		IsActive:   true,
	}
}

var _ = ginkgo.Describe("EmployeeService", func() {
	var (
		service  *Service
		mockRepo *mockEmployeeRepository
		mockDir  *mockDirectory
	)

	ginkgo.BeforeEach(func() {
		mockRepo = &mockEmployeeRepository{
			rows: []*employeeDatamodel.Employee{
				row("EMP001", "Ahmed Hassan", "ahassan"),
				row("EMP002", "Sara Ibrahim", "sibrahim"),
				row("EMP003", "Mohamed Aly", "maly"),
			},
		}
		mockDir = &mockDirectory{
			entries: map[string]*directory.Attributes{
				"ahassan": {CommonName: "Ahmed Hassan", OU: "IT", Email: "ahassan@example.local"},
				"maly":    {CommonName: "Mohamed Aly", OU: "Accountant"},
			},
		}
		service = NewService(mockRepo, mockDir, nil, 4, testLogger())
	})

	ginkgo.Describe("GetProfile", func() {
		ginkgo.It("should merge the local row with directory attributes", func() {
			profile, err := service.GetProfile("ahassan")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(profile.DatabaseInfo.EmployeeID).To(gomega.Equal("EMP001"))
			gomega.Expect(profile.ADInfo.OU).To(gomega.Equal("IT"))
			gomega.Expect(profile.ADInfo.Email).To(gomega.Equal("ahassan@example.local"))
		})

		ginkgo.It("should still return the local row when the directory is down", func() {
			mockDir.down = true

			profile, err := service.GetProfile("ahassan")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(profile.DatabaseInfo.EmployeeID).To(gomega.Equal("EMP001"))
			gomega.Expect(profile.ADInfo).To(gomega.Equal(directory.Attributes{}))
		})

		ginkgo.It("should fail when no local row exists for the username", func() {
			_, err := service.GetProfile("ghost")

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("GetDirectoryInfo", func() {
		ginkgo.It("should return live attributes for the employee's account", func() {
			attrs, err := service.GetDirectoryInfo("EMP003")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(attrs.OU).To(gomega.Equal("Accountant"))
		})

		ginkgo.It("should surface directory unavailability as an error", func() {
			mockDir.down = true

			_, err := service.GetDirectoryInfo("EMP001")

			gomega.Expect(err).To(gomega.Equal(ErrDirectoryUnavailable))
		})

		ginkgo.It("should fail for an unknown employee id", func() {
			_, err := service.GetDirectoryInfo("EMP999")

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("SyncDirectory", func() {
		ginkgo.It("should report every employee in roster order", func() {
			report, err := service.SyncDirectory(context.Background())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(report.TotalEmployees).To(gomega.Equal(3))
			gomega.Expect(report.SyncResults).To(gomega.HaveLen(3))
			gomega.Expect(report.SyncResults[0].EmployeeID).To(gomega.Equal("EMP001"))
			gomega.Expect(report.SyncResults[1].EmployeeID).To(gomega.Equal("EMP002"))
			gomega.Expect(report.SyncResults[2].EmployeeID).To(gomega.Equal("EMP003"))
		})

		ginkgo.It("should flag which employees resolve in the directory", func() {
			report, err := service.SyncDirectory(context.Background())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(report.SyncResults[0].Synced).To(gomega.BeTrue())
			gomega.Expect(report.SyncResults[0].OU).To(gomega.Equal("IT"))
			gomega.Expect(report.SyncResults[1].Synced).To(gomega.BeFalse())
			gomega.Expect(report.SyncResults[1].OU).To(gomega.BeEmpty())
			gomega.Expect(report.SyncResults[2].Synced).To(gomega.BeTrue())
		})

		ginkgo.It("should look up every roster account exactly once", func() {
			_, err := service.SyncDirectory(context.Background())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockDir.calls).To(gomega.ConsistOf("ahassan", "sibrahim", "maly"))
		})

		ginkgo.It("should mark everyone unsynced when the directory is down", func() {
			mockDir.down = true

			report, err := service.SyncDirectory(context.Background())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			for _, r := range report.SyncResults {
				gomega.Expect(r.Synced).To(gomega.BeFalse())
			}
		})

		ginkgo.It("should handle an empty roster", func() {
			mockRepo.rows = nil

			report, err := service.SyncDirectory(context.Background())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(report.TotalEmployees).To(gomega.BeZero())
			gomega.Expect(report.SyncResults).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Create", func() {
		validDTO := func() CreateEmployeeDTO {
			return CreateEmployeeDTO{
				EmployeeID: "EMP010",
				FullArName: "خالد سمير",
				FullEnName: "Khaled Samir",
				JobTitle:   "Auditor",
				Department: "Audit",
				NationalID: "29805120104567",
				HiringDate: "2022-06-01",
				ADUsername: "ksamir",
				IsActive:   true,
			}
		}

		ginkgo.It("should create a valid employee", func() {
			emp, err := service.Create(validDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.EmployeeID).To(gomega.Equal("EMP010"))
			gomega.Expect(mockRepo.find("EMP010")).ToNot(gomega.BeNil())
		})

		ginkgo.It("should reject a duplicate employee id", func() {
			dto := validDTO()
			dto.EmployeeID = "EMP001"

			_, err := service.Create(dto)

			gomega.Expect(err).To(gomega.Equal(ErrDuplicate))
		})

		ginkgo.It("should reject a national id of the wrong length", func() {
			dto := validDTO()
			dto.NationalID = "123"

			_, err := service.Create(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("national_id"))
		})

		ginkgo.It("should reject a malformed hiring date", func() {
			dto := validDTO()
			dto.HiringDate = "01/06/2022"

			_, err := service.Create(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("hiring_date"))
		})

		ginkgo.It("should reject a hiring date in the future", func() {
			dto := validDTO()
			dto.HiringDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

			_, err := service.Create(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should apply only the provided fields", func() {
			emp, err := service.Update("EMP001", UpdateEmployeeDTO{JobTitle: "Team Lead"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.JobTitle).To(gomega.Equal("Team Lead"))
			gomega.Expect(emp.Department).To(gomega.Equal("IT"))
			gomega.Expect(emp.FullEnName).To(gomega.Equal("Ahmed Hassan"))
		})

		ginkgo.It("should apply an explicit active flag", func() {
			inactive := false

			emp, err := service.Update("EMP001", UpdateEmployeeDTO{IsActive: &inactive})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.IsActive).To(gomega.BeFalse())
		})

		ginkgo.It("should fail for an unknown employee id", func() {
			_, err := service.Update("EMP999", UpdateEmployeeDTO{JobTitle: "Team Lead"})

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should return the page with the total count", func() {
			result, err := service.List(2, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Total).To(gomega.Equal(int64(3)))
			gomega.Expect(result.Employees).To(gomega.HaveLen(2))
		})

		ginkgo.It("should fall back to the default limit for nonsense values", func() {
			result, err := service.List(-5, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Employees).To(gomega.HaveLen(3))
		})

		ginkgo.It("should propagate repository failures", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("database error")

			_, err := service.List(10, 0)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove an existing employee", func() {
			gomega.Expect(service.Delete("EMP002")).To(gomega.Succeed())
			gomega.Expect(mockRepo.find("EMP002")).To(gomega.BeNil())
		})

		ginkgo.It("should fail for an unknown employee id", func() {
			gomega.Expect(service.Delete("EMP999")).To(gomega.Equal(ErrNotFound))
		})
	})
})
