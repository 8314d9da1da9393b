package middleware

import (
	"net/http"

	"github.com/medistore/medistore-backend/api/responses"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
)

// RequireRole admits only callers whose token carries one of roles.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := enums.UserRole(RoleFromContext(r.Context()))
			for _, role := range roles {
				if actual == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to access this resource").
				WithDetails(map[string]any{"required": roles}))
		})
	}
}
