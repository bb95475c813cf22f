package payroll

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anshumat/payroll-management/internal/identity"
	"github.com/anshumat/payroll-management/internal/transport"
	"github.com/anshumat/payroll-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateSlip(dto CreateSlipDTO) (*SalarySlip, error)
	UpdateSlip(slipID int64, dto UpdateSlipDTO) (*SalarySlip, error)
	ListSlips(caller *identity.User) ([]*SalarySlip, error)
	ListAllWithEmployee() ([]*SlipWithEmployee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateSlip(w http.ResponseWriter, r *http.Request) {
	var dto CreateSlipDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSlip: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slip, err := h.Service.CreateSlip(dto)
	if err != nil {
		h.Logger.Error("CreateSlip: service error", "error", err, "user_id", dto.UserID, "month", dto.Month)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateSlip: salary slip created",
		"slip_id", slip.ID,
		"user_id", slip.UserID,
		"month", slip.Month)

	h.WriteJSON(w, http.StatusOK, slip)
}

func (h *Handler) UpdateSlip(w http.ResponseWriter, r *http.Request) {
	slipIDStr := chi.URLParam(r, "id")
	slipID, err := strconv.ParseInt(slipIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("UpdateSlip: invalid slip ID", "id", slipIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid salary slip ID")
		return
	}

	var dto UpdateSlipDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSlip: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slip, err := h.Service.UpdateSlip(slipID, dto)
	if err != nil {
		h.Logger.Error("UpdateSlip: service error", "error", err, "slip_id", slipID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, slip)
}

func (h *Handler) ListSlips(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.Logger.Error("ListSlips: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	slips, err := h.Service.ListSlips(caller)
	if err != nil {
		h.Logger.Error("ListSlips: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, slips)
}

func (h *Handler) ListAllSlips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Service.ListAllWithEmployee()
	if err != nil {
		h.Logger.Error("ListAllSlips: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, slips)
}
