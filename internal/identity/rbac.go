package identity

import (
	"log/slog"
	"net/http"
)

// RoleGate enforces the role requirement of a route after AuthMiddleware has
// placed the user in the context.
type RoleGate struct {
	logger *slog.Logger
}

func NewRoleGate(logger *slog.Logger) *RoleGate {
	return &RoleGate{logger: logger}
}

func (g *RoleGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsAdmin() {
				g.logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", user.ID,
					"role", user.Role)
				http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
