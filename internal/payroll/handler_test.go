package payroll_test

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

	"github.com/anshumat/payroll-management/internal/identity"
	identityPostgres "github.com/anshumat/payroll-management/internal/identity/postgres"
	"github.com/anshumat/payroll-management/internal/payroll"
	payrollPostgres "github.com/anshumat/payroll-management/internal/payroll/postgres"
)

var _ = Describe("Payroll Handler Integration", func() {
	var (
		db      *gorm.DB
		service *payroll.Service
		handler *payroll.Handler
		router  *chi.Mux

		employee *identity.User
		admin    *identity.User
	)

	// injects the caller the auth middleware would resolve
	withCaller := func(user **identity.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(identity.ContextWithUser(r.Context(), *user)))
			})
		}
	}

	var caller *identity.User

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&identity.User{}, &payroll.SalarySlip{})
		Expect(err).NotTo(HaveOccurred())

		employee = &identity.User{Email: "alice@example.com", PasswordHash: "x", Role: identity.RoleEmployee}
		admin = &identity.User{Email: "admin@example.com", PasswordHash: "x", Role: identity.RoleAdmin}
		Expect(db.Create(employee).Error).NotTo(HaveOccurred())
		Expect(db.Create(admin).Error).NotTo(HaveOccurred())

		userRepo := identityPostgres.NewUserRepository(db)
		slipRepo := payrollPostgres.NewSlipRepository(db)
		service = payroll.NewService(slipRepo, userRepo, slogger)
		handler = payroll.NewHandler(service)

		caller = admin

		router = chi.NewRouter()
		router.Use(withCaller(&caller))
		router.Post("/salary-slip", handler.CreateSlip)
		router.Put("/salary-slip/{id}", handler.UpdateSlip)
		router.Get("/salary-slip", handler.ListSlips)
		router.Get("/salary-slip-all", handler.ListAllSlips)
	})

	createSlip := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/salary-slip", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("creating a slip", func() {
		It("should create and return the slip", func() {
			w := createSlip(`{"user_id": 1, "month": "2025-08", "base_salary": 50000, "bonus": 5000, "deductions": 3500}`)

			Expect(w.Code).To(Equal(http.StatusOK))

			var slip payroll.SalarySlip
			Expect(json.NewDecoder(w.Body).Decode(&slip)).To(Succeed())
			Expect(slip.ID).To(BeNumerically(">", 0))
			Expect(slip.Month).To(Equal("2025-08"))
			Expect(slip.Net()).To(Equal(51500.0))
		})

		It("should return 422 for a malformed month", func() {
			w := createSlip(`{"user_id": 1, "month": "2025-13", "base_salary": 50000}`)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should return 404 for an unknown employee", func() {
			w := createSlip(`{"user_id": 999, "month": "2025-08", "base_salary": 50000}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 422 when the target is an admin", func() {
			w := createSlip(`{"user_id": 2, "month": "2025-08", "base_salary": 50000}`)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should return 409 for a duplicate month", func() {
			Expect(createSlip(`{"user_id": 1, "month": "2025-08", "base_salary": 50000}`).Code).To(Equal(http.StatusOK))

			w := createSlip(`{"user_id": 1, "month": "2025-08", "base_salary": 60000}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("updating a slip", func() {
		BeforeEach(func() {
			Expect(createSlip(`{"user_id": 1, "month": "2025-08", "base_salary": 50000, "bonus": 5000, "deductions": 3500}`).Code).To(Equal(http.StatusOK))
		})

		It("should merge the present fields", func() {
			req := httptest.NewRequest(http.MethodPut, "/salary-slip/1", strings.NewReader(`{"bonus": 8000}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var slip payroll.SalarySlip
			Expect(json.NewDecoder(w.Body).Decode(&slip)).To(Succeed())
			Expect(slip.Bonus).To(Equal(8000.0))
			Expect(slip.BaseSalary).To(Equal(50000.0))
			Expect(slip.Deductions).To(Equal(3500.0))
		})

		It("should return 404 for an unknown slip", func() {
			req := httptest.NewRequest(http.MethodPut, "/salary-slip/999", strings.NewReader(`{"bonus": 8000}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 409 when moving onto an occupied month", func() {
			Expect(createSlip(`{"user_id": 1, "month": "2025-09", "base_salary": 50000}`).Code).To(Equal(http.StatusOK))

			req := httptest.NewRequest(http.MethodPut, "/salary-slip/1", strings.NewReader(`{"month": "2025-09"}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodPut, "/salary-slip/abc", strings.NewReader(`{"bonus": 8000}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("listing slips", func() {
		BeforeEach(func() {
			other := &identity.User{Email: "bob@example.com", PasswordHash: "x", Role: identity.RoleEmployee}
			Expect(db.Create(other).Error).NotTo(HaveOccurred())

			Expect(createSlip(`{"user_id": 1, "month": "2025-08", "base_salary": 50000}`).Code).To(Equal(http.StatusOK))
			w := createSlip(`{"user_id": 3, "month": "2025-08", "base_salary": 45000}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should return every slip for an admin caller", func() {
			req := httptest.NewRequest(http.MethodGet, "/salary-slip", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var slips []payroll.SalarySlip
			Expect(json.NewDecoder(w.Body).Decode(&slips)).To(Succeed())
			Expect(slips).To(HaveLen(2))
		})

		It("should scope an employee caller to their own slips", func() {
			caller = employee

			req := httptest.NewRequest(http.MethodGet, "/salary-slip", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var slips []payroll.SalarySlip
			Expect(json.NewDecoder(w.Body).Decode(&slips)).To(Succeed())
			Expect(slips).To(HaveLen(1))
			Expect(slips[0].UserID).To(Equal(employee.ID))
		})

		It("should embed the employee projection in the admin overview", func() {
			req := httptest.NewRequest(http.MethodGet, "/salary-slip-all", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var slips []payroll.SlipWithEmployee
			Expect(json.NewDecoder(w.Body).Decode(&slips)).To(Succeed())
			Expect(slips).To(HaveLen(2))
			for _, slip := range slips {
				Expect(slip.Employee.Email).NotTo(BeEmpty())
				Expect(slip.Employee.ID).To(Equal(slip.UserID))
			}
		})
	})
})
