package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/marketa-app/admin-backend/api/responses"
	pkgauth "github.com/marketa-app/admin-backend/pkg/auth"
	"github.com/marketa-app/admin-backend/pkg/auth/session"
	"github.com/marketa-app/admin-backend/pkg/config"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

// Auth validates the JWT and seeds the request context with the claims.
// The token is read from the auth cookie first; a bearer header is the
// fallback for non-browser clients. A parsed token is only honoured
// while its redis session entry is alive.
func Auth(cfg config.JWTConfig, checker session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cfg.CookieName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = WithRole(ctx, string(claims.Role))
			ctx = WithTokenID(ctx, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    strconv.FormatInt(claims.UserID, 10),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
