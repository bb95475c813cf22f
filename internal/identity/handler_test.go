package identity_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/anshumat/payroll-management/internal/identity"
	identityPostgres "github.com/anshumat/payroll-management/internal/identity/postgres"
)

var _ = Describe("Identity Handler Integration", func() {
	var (
		db      *gorm.DB
		service *identity.Service
		handler *identity.Handler
		router  *chi.Mux
	)

	signup := func(email, password, role string) {
		body := map[string]string{"email": email, "password": password, "role": role}
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(string(payload)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
	}

	login := func(email, password string) *httptest.ResponseRecorder {
		form := url.Values{}
		form.Set("username", email)
		form.Set("password", password)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&identity.User{})
		Expect(err).NotTo(HaveOccurred())

		repo := identityPostgres.NewUserRepository(db)
		tokens := identity.NewJWTTokenGenerator("test-secret-that-is-long-enough-32b", time.Hour)
		service = identity.NewService(repo, tokens, bcrypt.MinCost, slogger)
		handler = identity.NewHandler(service)
		gate := identity.NewRoleGate(slogger)

		router = chi.NewRouter()
		router.Post("/auth/signup", handler.Signup)
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Get("/auth/me", handler.Me)
			r.With(gate.RequireAdmin()).Get("/users", handler.ListUsers)
		})
	})

	Describe("signup and login flow", func() {
		It("should register an account and log in with the form fields", func() {
			signup("alice@example.com", "s3cret!", "employee")

			w := login("alice@example.com", "s3cret!")
			Expect(w.Code).To(Equal(http.StatusOK))

			var tokens identity.AuthTokens
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.TokenType).To(Equal("bearer"))
		})

		It("should never include the credential hash in the signup response", func() {
			payload := `{"email": "alice@example.com", "password": "s3cret!", "role": "employee"}`
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).NotTo(ContainSubstring("password"))
			Expect(w.Body.String()).NotTo(ContainSubstring("hash"))
		})

		It("should return 409 for a duplicate signup", func() {
			signup("alice@example.com", "s3cret!", "employee")

			payload := `{"email": "alice@example.com", "password": "other", "role": "employee"}`
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should return 422 for an unknown role", func() {
			payload := `{"email": "alice@example.com", "password": "s3cret!", "role": "manager"}`
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should return 401 for bad credentials", func() {
			signup("alice@example.com", "s3cret!", "employee")

			Expect(login("alice@example.com", "wrong").Code).To(Equal(http.StatusUnauthorized))
			Expect(login("nobody@example.com", "s3cret!").Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("authenticated routes", func() {
		var employeeToken, adminToken string

		BeforeEach(func() {
			signup("alice@example.com", "s3cret!", "employee")
			signup("admin@example.com", "s3cret!", "admin")

			var tokens identity.AuthTokens
			w := login("alice@example.com", "s3cret!")
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			employeeToken = tokens.AccessToken

			w = login("admin@example.com", "s3cret!")
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			adminToken = tokens.AccessToken
		})

		It("should return the caller's profile from /auth/me", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+employeeToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var profile identity.Projection
			Expect(json.NewDecoder(w.Body).Decode(&profile)).To(Succeed())
			Expect(profile.Email).To(Equal("alice@example.com"))
			Expect(profile.Role).To(Equal(identity.RoleEmployee))
		})

		It("should reject a missing token with 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should reject a tampered token with 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+employeeToken+"x")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should let an admin list users", func() {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+adminToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var users []identity.Projection
			Expect(json.NewDecoder(w.Body).Decode(&users)).To(Succeed())
			Expect(users).To(HaveLen(2))
		})

		It("should refuse an employee on the admin listing with 403", func() {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+employeeToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})
