package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/transport"
	"github.com/hrplatform/employee-directory/pkg/logger"
)

type ServiceAPI interface {
	Execute(ctx context.Context, employeeID, actingAdmin string, dto TransferRequestDTO) (*Record, error)
	ListAudit(employeeID string, limit, offset int) ([]*Record, error)
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

// TransferOU handles POST /employees/{id}/transfer-ou. The route is admin
// gated; the directory additionally re-verifies the admin's own password.
func (h *Handler) TransferOU(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "id")

	var dto TransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Execute(r.Context(), employeeID, identity.Username, dto)
	if err != nil {
		var moveErr *MoveFailedError
		switch {
		case errors.As(err, &moveErr):
			// The attempt is audited; the directory-reported message goes
			// back as a client error the caller can correct and retry.
			h.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":    moveErr.Message,
				"transfer": moveErr.Record,
			})
		case err == ErrEmployeeNotFound:
			h.WriteError(w, http.StatusNotFound, "employee not found")
		case err == ErrDirectoryUnavailable:
			h.WriteError(w, http.StatusInternalServerError, "could not fetch current directory information")
		default:
			h.Logger.Error("TransferOU: service error", "employee_id", employeeID, "error", err)
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, TransferResult{
		Message:  "user moved successfully",
		Transfer: record,
	})
}

// ListAudit handles GET /transfers, most recent first, with an optional
// employee_id filter.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	employeeID := r.URL.Query().Get("employee_id")

	records, err := h.Service.ListAudit(employeeID, limit, offset)
	if err != nil {
		h.Logger.Error("ListAudit: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"transfers": records})
}
