package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/transport"
)

// RBACAuthorization gates routes by the role carried in the request identity.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: identity not found in context")
				ra.HandleServiceError(w, internal.ErrInvalidToken)
				return
			}

			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.Logger.WarnContext(r.Context(), "access denied: role not permitted",
				"user_id", id.UserID,
				"role", id.Role,
				"required_roles", roles)
			ra.HandleServiceError(w, internal.ErrForbidden)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RoleAdmin)
}

func (ra *RBACAuthorization) RequireIntern() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RoleIntern)
}
