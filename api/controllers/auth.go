package controllers

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/marketa-app/admin-backend/api/middleware"
	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/api/validators"
	"github.com/marketa-app/admin-backend/internal/auth"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=120"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager viewer"`
}

// AuthLogin signs the user in and sets the session cookie.
func AuthLogin(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    body.Email,
			Password: body.Password,
			ClientIP: clientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, jwtCfg, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// AuthSignup registers a back-office user.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:    body.Email,
			Password: body.Password,
			FullName: body.FullName,
			Role:     enums.MemberRole(body.Role),
			ClientIP: clientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AuthMe returns the authenticated user's profile.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		view, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// AuthLogout revokes the live session and clears the cookie.
func AuthLogout(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID := middleware.TokenIDFromContext(r.Context())
		if tokenID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(r.Context(), tokenID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, jwtCfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
