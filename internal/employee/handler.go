package employee

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/hrplatform/employee-directory/internal"
	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/directory"
	"github.com/hrplatform/employee-directory/internal/transport"
	"github.com/hrplatform/employee-directory/pkg/logger"
)

type ServiceAPI interface {
	List(limit, offset int) (*ListResult, error)
	GetByID(id string) (*Employee, error)
	Create(dto CreateEmployeeDTO) (*Employee, error)
	Update(id string, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(id string) error
	GetProfile(username string) (*Profile, error)
	GetDirectoryInfo(employeeID string) (*directory.Attributes, error)
	SyncDirectory(ctx context.Context) (*SyncReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.Service.List(limit, offset)
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.Logger.Error("GetEmployee: service error", "employee_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Create(dto)
	if err != nil {
		if err == ErrDuplicate {
			h.WriteError(w, http.StatusConflict, "employee already exists")
			return
		}
		h.Logger.Error("CreateEmployee: service error", "employee_id", dto.EmployeeID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Update(id, dto)
	if err != nil {
		if err == ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.Logger.Error("UpdateEmployee: service error", "employee_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(id); err != nil {
		if err == ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.Logger.Error("DeleteEmployee: service error", "employee_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /profile for the authenticated user.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.GetProfile(identity.Username)
	if err != nil {
		if err == ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "employee record not found")
			return
		}
		h.Logger.Error("GetProfile: service error", "username", identity.Username, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// GetDirectoryInfo handles GET /employees/{id}/directory: a live attribute
// lookup, never cached.
func (h *Handler) GetDirectoryInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	attrs, err := h.Service.GetDirectoryInfo(id)
	if err != nil {
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "employee not found")
		case ErrDirectoryUnavailable:
			h.WriteError(w, http.StatusInternalServerError, "could not fetch directory information")
		default:
			h.Logger.Error("GetDirectoryInfo: service error", "employee_id", id, "error", err)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, attrs)
}

// SyncDirectory handles GET /employees/sync (admin only). The whole fan-out
// is bounded by one deadline so a stuck directory cannot pin the request.
func (h *Handler) SyncDirectory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	report, err := h.Service.SyncDirectory(ctx)
	if err != nil {
		h.Logger.Error("SyncDirectory: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
