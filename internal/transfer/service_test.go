package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	transferDatamodel "github.com/hrplatform/employee-directory/internal/core/datamodel/transfer"
	"github.com/hrplatform/employee-directory/internal/directory"
	"github.com/hrplatform/employee-directory/internal/employee"
)

func TestTransfer(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transfer Module Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock directory for testing
type mockDirectory struct {
	attrs       *directory.Attributes
	fetchOK     bool
	moveOK      bool
	moveMessage string

	fetchCalls int
	moveCalls  int
	lastMove   struct {
		username, newOU, admin string
	}
}

func (m *mockDirectory) FetchAttributes(username string, creds *directory.Credentials) (*directory.Attributes, bool) {
	m.fetchCalls++
	if !m.fetchOK {
		return nil, false
	}
	return m.attrs, true
}

func (m *mockDirectory) MoveEntry(username, newOU, adminUsername, adminPassword string) (bool, string) {
	m.moveCalls++
	m.lastMove.username = username
	m.lastMove.newOU = newOU
	m.lastMove.admin = adminUsername
	return m.moveOK, m.moveMessage
}

// Mock audit repository for testing
type mockAuditRepository struct {
	records       []*transferDatamodel.TransferAudit
	returnError   bool
	errorToReturn error
}

func (m *mockAuditRepository) Append(rec *transferDatamodel.TransferAudit) error {
	if m.returnError {
		return m.errorToReturn
	}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return nil
}

func (m *mockAuditRepository) List(limit, offset int) ([]*transferDatamodel.TransferAudit, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.records, nil
}

func (m *mockAuditRepository) ListByEmployee(employeeID string, limit, offset int) ([]*transferDatamodel.TransferAudit, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var filtered []*transferDatamodel.TransferAudit
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Mock employee lookup for testing
type mockEmployeeLookup struct {
	employees map[string]*employee.Employee
}

func (m *mockEmployeeLookup) GetByID(id string) (*employee.Employee, error) {
	if emp, ok := m.employees[id]; ok {
		return emp, nil
	}
	return nil, employee.ErrNotFound
}

var _ = ginkgo.Describe("TransferService", func() {
	var (
		service   *Service
		mockDir   *mockDirectory
		mockRepo  *mockAuditRepository
		mockEmps  *mockEmployeeLookup
		validDTO  TransferRequestDTO
		adminUser string
	)

	ginkgo.BeforeEach(func() {
		mockDir = &mockDirectory{
			attrs:       &directory.Attributes{CommonName: "Ahmed Hassan", OU: "IT"},
			fetchOK:     true,
			moveOK:      true,
			moveMessage: "user moved successfully",
		}
		mockRepo = &mockAuditRepository{}
		mockEmps = &mockEmployeeLookup{
			employees: map[string]*employee.Employee{
				"EMP001": {EmployeeID: "EMP001", FullEnName: "Ahmed Hassan", ADUsername: "ahassan"},
			},
		}
		service = NewService(mockDir, mockRepo, mockEmps, nil, testLogger())
		validDTO = TransferRequestDTO{
			NewOU:         "Sales",
			AdminPassword: "admin_password",
			Note:          "quarterly rotation",
		}
		adminUser = "admin"
	})

	ginkgo.Describe("Execute", func() {
		ginkgo.Context("when the move succeeds", func() {
			ginkgo.It("should return the audit record", func() {
				record, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(record.EmployeeID).To(gomega.Equal("EMP001"))
				gomega.Expect(record.FromOU).To(gomega.Equal("IT"))
				gomega.Expect(record.ToOU).To(gomega.Equal("Sales"))
				gomega.Expect(record.TransferredBy).To(gomega.Equal("admin"))
				gomega.Expect(record.Success).To(gomega.BeTrue())
			})

			ginkgo.It("should write exactly one audit row", func() {
				_, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(mockRepo.records).To(gomega.HaveLen(1))
				gomega.Expect(mockRepo.records[0].Success).To(gomega.BeTrue())
			})

			ginkgo.It("should move the directory account of the target employee", func() {
				_, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(mockDir.lastMove.username).To(gomega.Equal("ahassan"))
				gomega.Expect(mockDir.lastMove.newOU).To(gomega.Equal("Sales"))
				gomega.Expect(mockDir.lastMove.admin).To(gomega.Equal("admin"))
			})
		})

		ginkgo.Context("when the directory rejects the move", func() {
			ginkgo.BeforeEach(func() {
				mockDir.moveOK = false
				mockDir.moveMessage = "failed to move user"
			})

			ginkgo.It("should still write exactly one audit row, flagged failed", func() {
				_, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockRepo.records).To(gomega.HaveLen(1))
				gomega.Expect(mockRepo.records[0].Success).To(gomega.BeFalse())
			})

			ginkgo.It("should return the failure with the directory message and the record", func() {
				record, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				var moveErr *MoveFailedError
				gomega.Expect(errors.As(err, &moveErr)).To(gomega.BeTrue())
				gomega.Expect(moveErr.Message).To(gomega.Equal("failed to move user"))
				gomega.Expect(moveErr.Record).To(gomega.Equal(record))
				gomega.Expect(record.Success).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("when the target OU is not allowed", func() {
			ginkgo.It("should reject without touching the directory or the audit log", func() {
				dto := validDTO
				dto.NewOU = "Domain Controllers"

				_, err := service.Execute(context.Background(), "EMP001", adminUser, dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockDir.fetchCalls).To(gomega.BeZero())
				gomega.Expect(mockDir.moveCalls).To(gomega.BeZero())
				gomega.Expect(mockRepo.records).To(gomega.BeEmpty())
			})

			ginkgo.It("should reject an empty OU", func() {
				dto := validDTO
				dto.NewOU = ""

				_, err := service.Execute(context.Background(), "EMP001", adminUser, dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockRepo.records).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the admin password is missing", func() {
			ginkgo.It("should reject before any directory call", func() {
				dto := validDTO
				dto.AdminPassword = ""

				_, err := service.Execute(context.Background(), "EMP001", adminUser, dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockDir.moveCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the pre-move directory fetch fails", func() {
			ginkgo.It("should not write an audit row", func() {
				mockDir.fetchOK = false

				_, err := service.Execute(context.Background(), "EMP001", adminUser, validDTO)

				gomega.Expect(err).To(gomega.Equal(ErrDirectoryUnavailable))
				gomega.Expect(mockDir.moveCalls).To(gomega.BeZero())
				gomega.Expect(mockRepo.records).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the employee does not exist", func() {
			ginkgo.It("should fail before any directory call", func() {
				_, err := service.Execute(context.Background(), "EMP999", adminUser, validDTO)

				gomega.Expect(err).To(gomega.Equal(ErrEmployeeNotFound))
				gomega.Expect(mockDir.fetchCalls).To(gomega.BeZero())
			})
		})
	})

	ginkgo.Describe("ListAudit", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.records = []*transferDatamodel.TransferAudit{
				{ID: 1, EmployeeID: "EMP001", FromOU: "IT", ToOU: "Sales", Success: true, CreatedAt: time.Now()},
				{ID: 2, EmployeeID: "EMP002", FromOU: "HR", ToOU: "Audit", Success: false, CreatedAt: time.Now()},
			}
		})

		ginkgo.It("should return all records", func() {
			records, err := service.ListAudit("", 10, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records).To(gomega.HaveLen(2))
		})

		ginkgo.It("should filter by employee id", func() {
			records, err := service.ListAudit("EMP002", 10, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records).To(gomega.HaveLen(1))
			gomega.Expect(records[0].EmployeeID).To(gomega.Equal("EMP002"))
		})

		ginkgo.It("should propagate repository failures", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("database error")

			_, err := service.ListAudit("", 10, 0)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("IsAllowedOU", func() {
		ginkgo.It("should accept every OU on the allow list", func() {
			for _, ou := range AllowedOUs {
				gomega.Expect(IsAllowedOU(ou)).To(gomega.BeTrue(), "expected %q to be allowed", ou)
			}
		})

		ginkgo.It("should be case sensitive", func() {
			gomega.Expect(IsAllowedOU("it")).To(gomega.BeFalse())
			gomega.Expect(IsAllowedOU("sales")).To(gomega.BeFalse())
		})
	})
})
