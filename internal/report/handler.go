package report

import (
	"log/slog"
	"net/http"

	"github.com/anshumat/payroll-management/internal/expense"
	"github.com/anshumat/payroll-management/internal/identity"
	"github.com/anshumat/payroll-management/internal/payroll"
	"github.com/anshumat/payroll-management/internal/transport"
	"github.com/anshumat/payroll-management/pkg/logger"
)

// SlipSource provides the caller-scoped slips the salary report runs over.
type SlipSource interface {
	ListSlips(caller *identity.User) ([]*payroll.SalarySlip, error)
}

// ExpenseSource provides the caller-scoped expenses the status report runs over.
type ExpenseSource interface {
	ListForCaller(caller *identity.User) ([]*expense.Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	slips    SlipSource
	expenses ExpenseSource
}

func NewHandler(slips SlipSource, expenses ExpenseSource) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		slips:       slips,
		expenses:    expenses,
	}
}

// SalaryReport returns per-month salary totals for the caller's visible slips.
func (h *Handler) SalaryReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.Logger.Error("SalaryReport: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	slips, err := h.slips.ListSlips(caller)
	if err != nil {
		h.Logger.Error("SalaryReport: failed to load slips", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MonthlyTotals(slips))
}

// ExpenseReport returns amount totals per status for the caller's visible
// expenses.
func (h *Handler) ExpenseReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.Logger.Error("ExpenseReport: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenses, err := h.expenses.ListForCaller(caller)
	if err != nil {
		h.Logger.Error("ExpenseReport: failed to load expenses", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SumByStatus(expenses))
}
