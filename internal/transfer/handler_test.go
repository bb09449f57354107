package transfer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/transfer"
)

// stub service for handler testing
type stubTransferService struct {
	record     *transfer.Record
	executeErr error
	listErr    error

	gotEmployeeID string
	gotAdmin      string
	gotDTO        transfer.TransferRequestDTO
}

func (s *stubTransferService) Execute(ctx context.Context, employeeID, actingAdmin string, dto transfer.TransferRequestDTO) (*transfer.Record, error) {
	s.gotEmployeeID = employeeID
	s.gotAdmin = actingAdmin
	s.gotDTO = dto
	if s.executeErr != nil {
		return s.record, s.executeErr
	}
	return s.record, nil
}

func (s *stubTransferService) ListAudit(employeeID string, limit, offset int) ([]*transfer.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.record != nil {
		return []*transfer.Record{s.record}, nil
	}
	return nil, nil
}

func identityMiddleware(identity *auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

var _ = Describe("Transfer Handler Integration", func() {
	var (
		svc     *stubTransferService
		handler *transfer.Handler
		router  *chi.Mux
	)

	newRouter := func(identity *auth.Identity) *chi.Mux {
		r := chi.NewRouter()
		if identity != nil {
			r.Use(identityMiddleware(identity))
		}
		r.Post("/employees/{id}/transfer-ou", handler.TransferOU)
		r.Get("/transfers", handler.ListAudit)
		return r
	}

	BeforeEach(func() {
		svc = &stubTransferService{
			record: &transfer.Record{
				ID:            1,
				EmployeeID:    "EMP001",
				FromOU:        "IT",
				ToOU:          "Sales",
				TransferredBy: "admin",
				Success:       true,
				CreatedAt:     time.Now(),
			},
		}
		handler = transfer.NewHandler(svc)
		router = newRouter(&auth.Identity{Username: "admin", IsAdmin: true})
	})

	Describe("POST /employees/{id}/transfer-ou", func() {
		body := `{"new_ou":"Sales","admin_password":"secret","note":"rotation"}`

		It("should execute the transfer for the routed employee as the session admin", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees/EMP001/transfer-ou", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(svc.gotEmployeeID).To(Equal("EMP001"))
			Expect(svc.gotAdmin).To(Equal("admin"))
			Expect(svc.gotDTO.NewOU).To(Equal("Sales"))

			var resp transfer.TransferResult
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Message).To(Equal("user moved successfully"))
			Expect(resp.Transfer.ToOU).To(Equal("Sales"))
		})

		It("should return 400 with the audit record when the directory move fails", func() {
			svc.record.Success = false
			svc.executeErr = &transfer.MoveFailedError{Message: "failed to move user", Record: svc.record}

			req := httptest.NewRequest(http.MethodPost, "/employees/EMP001/transfer-ou", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]json.RawMessage
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp).To(HaveKey("error"))
			Expect(resp).To(HaveKey("transfer"))
		})

		It("should return 404 for an unknown employee", func() {
			svc.record = nil
			svc.executeErr = transfer.ErrEmployeeNotFound

			req := httptest.NewRequest(http.MethodPost, "/employees/EMP999/transfer-ou", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 500 when the directory cannot be read", func() {
			svc.record = nil
			svc.executeErr = transfer.ErrDirectoryUnavailable

			req := httptest.NewRequest(http.MethodPost, "/employees/EMP001/transfer-ou", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})

		It("should return 401 without a session identity", func() {
			router = newRouter(nil)

			req := httptest.NewRequest(http.MethodPost, "/employees/EMP001/transfer-ou", strings.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees/EMP001/transfer-ou", strings.NewReader("{not json"))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /transfers", func() {
		It("should wrap the records in a transfers envelope", func() {
			req := httptest.NewRequest(http.MethodGet, "/transfers", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp struct {
				Transfers []*transfer.Record `json:"transfers"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Transfers).To(HaveLen(1))
		})
	})
})
