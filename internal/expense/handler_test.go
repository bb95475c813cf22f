package expense_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/anshumat/payroll-management/internal/expense"
	expensePostgres "github.com/anshumat/payroll-management/internal/expense/postgres"
	"github.com/anshumat/payroll-management/internal/identity"
)

var _ = Describe("Expense Handler Integration", func() {
	var (
		db      *gorm.DB
		service *expense.Service
		handler *expense.Handler
		router  *chi.Mux

		employee *identity.User
	)

	// injects the caller the auth middleware would resolve
	withCaller := func(user *identity.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(identity.ContextWithUser(r.Context(), user)))
			})
		}
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&identity.User{}, &expense.Expense{})
		Expect(err).NotTo(HaveOccurred())

		employee = &identity.User{Email: "alice@example.com", PasswordHash: "x", Role: identity.RoleEmployee}
		Expect(db.Create(employee).Error).NotTo(HaveOccurred())

		repo := expensePostgres.NewExpenseRepository(db)
		service = expense.NewService(repo, slogger)
		handler = expense.NewHandler(service)

		router = chi.NewRouter()
		router.With(withCaller(employee)).Post("/expense", handler.SubmitExpense)
		router.With(withCaller(employee)).Get("/expense", handler.ListOwnExpenses)
		router.Get("/expenses-all", handler.ListAllExpenses)
		router.Put("/expense/{id}/status", handler.DecideExpense)
	})

	It("should submit an expense and return it as submitted", func() {
		body := strings.NewReader(`{"amount": 1200.5, "description": "Team lunch"}`)
		req := httptest.NewRequest(http.MethodPost, "/expense", body)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response expense.Expense
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.ID).To(BeNumerically(">", 0))
		Expect(response.UserID).To(Equal(employee.ID))
		Expect(response.Status).To(Equal(expense.StatusSubmitted))
	})

	It("should reject a non-positive amount with 422", func() {
		body := strings.NewReader(`{"amount": 0}`)
		req := httptest.NewRequest(http.MethodPost, "/expense", body)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("should list only the caller's expenses", func() {
		other := &identity.User{Email: "bob@example.com", PasswordHash: "x", Role: identity.RoleEmployee}
		Expect(db.Create(other).Error).NotTo(HaveOccurred())

		_, err := service.Submit(employee, expense.SubmitExpenseDTO{Amount: 100})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Submit(other, expense.SubmitExpenseDTO{Amount: 200})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/expense", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response []expense.Expense
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(HaveLen(1))
		Expect(response[0].UserID).To(Equal(employee.ID))
	})

	It("should include the submitter's email in the admin listing", func() {
		_, err := service.Submit(employee, expense.SubmitExpenseDTO{Amount: 100, Description: "Taxi"})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/expenses-all", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response []expense.ExpenseWithEmail
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(HaveLen(1))
		Expect(response[0].UserEmail).To(Equal("alice@example.com"))
	})

	Describe("deciding an expense", func() {
		var submitted *expense.Expense

		BeforeEach(func() {
			var err error
			submitted, err = service.Submit(employee, expense.SubmitExpenseDTO{Amount: 500})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should approve via the status query parameter", func() {
			req := httptest.NewRequest(http.MethodPut, "/expense/1/status?status=approved", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response expense.Expense
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Status).To(Equal(expense.StatusApproved))
		})

		It("should return 422 for a status outside the decision set", func() {
			req := httptest.NewRequest(http.MethodPut, "/expense/1/status?status=submitted", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should return 404 for an unknown expense", func() {
			req := httptest.NewRequest(http.MethodPut, "/expense/999/status?status=approved", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 409 for a second decision", func() {
			_, err := service.Decide(submitted.ID, "approved")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPut, "/expense/1/status?status=rejected", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodPut, "/expense/abc/status?status=approved", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
