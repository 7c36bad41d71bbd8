package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/internal/users"
	pkgauth "github.com/marketa-app/admin-backend/pkg/auth"
	"github.com/marketa-app/admin-backend/pkg/auth/session"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// sessionRegistrar is the write surface of the session manager.
type sessionRegistrar interface {
	Create(ctx context.Context, tokenID string, userID int64) error
	Revoke(ctx context.Context, tokenID string) error
}

// rateLimiter is the redis fixed-window counter used to slow brute force.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service defines authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Signup(ctx context.Context, input SignupInput) (*UserView, error)
	Me(ctx context.Context, userID int64) (*UserView, error)
	Logout(ctx context.Context, tokenID string) error
}

type service struct {
	repo     users.Repository
	tx       txRunner
	sessions sessionRegistrar
	limiter  rateLimiter

	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	rlCfg  config.AuthRateLimitConfig

	now func() time.Time
}

// NewService builds the auth service.
func NewService(
	repo users.Repository,
	tx txRunner,
	sessions sessionRegistrar,
	limiter rateLimiter,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	rlCfg config.AuthRateLimitConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session registrar required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		sessions: sessions,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		rlCfg:    rlCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	if err := s.allow(ctx, "login:email:"+email, int64(s.rlCfg.LoginEmailLimit), s.rlCfg.LoginWindow); err != nil {
		return nil, err
	}
	if input.ClientIP != "" {
		if err := s.allow(ctx, "login:ip:"+input.ClientIP, int64(s.rlCfg.LoginIPLimit), s.rlCfg.LoginWindow); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now()
	tokenID := session.NewTokenID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    tokenID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.sessions.Create(ctx, tokenID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	return &Session{
		Token:     token,
		TokenID:   tokenID,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		User:      toUserView(user),
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*UserView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = enums.MemberRoleViewer
	}
	if !role.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown role %q", string(input.Role))
	}

	if err := s.allow(ctx, "signup:email:"+email, int64(s.rlCfg.SignupEmailLimit), s.rlCfg.SignupWindow); err != nil {
		return nil, err
	}
	if input.ClientIP != "" {
		if err := s.allow(ctx, "signup:ip:"+input.ClientIP, int64(s.rlCfg.SignupIPLimit), s.rlCfg.SignupWindow); err != nil {
			return nil, err
		}
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing user")
		}

		if err := repo.CreateUser(ctx, &user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toUserView(&user)
	return &view, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*UserView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	view := toUserView(user)
	return &view, nil
}

func (s *service) Logout(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token id required")
	}
	if err := s.sessions.Revoke(ctx, tokenID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) allow(ctx context.Context, scope string, limit int64, window time.Duration) error {
	if limit <= 0 || window <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, scope, limit, window)
	if err != nil {
		// redis unavailable: skip limiting
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, slow down")
	}
	return nil
}

func toUserView(user *models.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
