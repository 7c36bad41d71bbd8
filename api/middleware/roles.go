package middleware

import (
	"net/http"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, role+" role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWriteAccess passes admins and managers; viewers are read-only.
func RequireWriteAccess(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.MemberRole(RoleFromContext(r.Context()))
			if role != enums.MemberRoleAdmin && role != enums.MemberRoleManager {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "write access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
