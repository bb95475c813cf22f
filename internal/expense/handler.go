package expense

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
	Submit(caller *identity.User, dto SubmitExpenseDTO) (*Expense, error)
	ListOwn(caller *identity.User) ([]*Expense, error)
	ListAllWithEmail() ([]*ExpenseWithEmail, error)
	Decide(expenseID int64, rawStatus string) (*Expense, error)
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

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.Logger.Error("SubmitExpense: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.Submit(caller, dto)
	if err != nil {
		h.Logger.Error("SubmitExpense: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitExpense: expense submitted",
		"expense_id", exp.ID,
		"user_id", caller.ID,
		"amount", exp.Amount)

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) ListOwnExpenses(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.Logger.Error("ListOwnExpenses: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenses, err := h.Service.ListOwn(caller)
	if err != nil {
		h.Logger.Error("ListOwnExpenses: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) ListAllExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListAllWithEmail()
	if err != nil {
		h.Logger.Error("ListAllExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

// DecideExpense handles PUT /expense/{id}/status?status=approved|rejected.
func (h *Handler) DecideExpense(w http.ResponseWriter, r *http.Request) {
	expenseIDStr := chi.URLParam(r, "id")
	expenseID, err := strconv.ParseInt(expenseIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("DecideExpense: invalid expense ID", "id", expenseIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	status := r.URL.Query().Get("status")

	exp, err := h.Service.Decide(expenseID, status)
	if err != nil {
		h.Logger.Error("DecideExpense: service error", "error", err, "expense_id", expenseID, "status", status)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DecideExpense: expense decided", "expense_id", expenseID, "status", exp.Status)

	h.WriteJSON(w, http.StatusOK, exp)
}
