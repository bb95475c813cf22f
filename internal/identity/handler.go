package identity

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/anshumat/payroll-management/internal/transport"
	"github.com/anshumat/payroll-management/pkg/logger"
)

type ServiceAPI interface {
	Signup(dto SignupDTO) (*User, error)
	Authenticate(dto LoginDTO) (AuthTokens, error)
	ResolveCredential(token string) (*User, error)
	ListUsers() ([]*User, error)
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

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Signup: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Signup(dto)
	if err != nil {
		h.Logger.Error("Signup: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user.Project())
}

// Login accepts the OAuth2 password-flow form fields (`username`, `password`)
// the dashboard posts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("Login: failed to parse form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	dto := LoginDTO{
		Email:    r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("Login: authentication failed", "error", err, "username", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Me returns the public projection of the authenticated user; the client uses
// the role to pick which dashboard to render.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("Me: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, user.Project())
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers()
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	projections := make([]Projection, 0, len(users))
	for _, u := range users {
		projections = append(projections, u.Project())
	}

	h.WriteJSON(w, http.StatusOK, projections)
}

// AuthMiddleware resolves the bearer credential and stores the user in the
// request context. Runs before any ledger handler so a rejected request never
// touches state.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Error("auth middleware: missing authorization token")
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		user, err := h.Service.ResolveCredential(token)
		if err != nil {
			h.Logger.Error("auth middleware: credential resolution failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
