package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/internal/users"
	pkgauth "github.com/marketa-app/admin-backend/pkg/auth"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/security"
)

type stubUsersRepo struct {
	byEmail map[string]models.User
	nextID  int64
}

func (r *stubUsersRepo) WithTx(tx *gorm.DB) users.Repository { return r }

func (r *stubUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *stubUsersRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.byEmail[user.Email] = *user
	return nil
}

type stubAuthTx struct{}

func (stubAuthTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSessions struct {
	created map[string]int64
	revoked []string
}

func (s *stubSessions) Create(ctx context.Context, tokenID string, userID int64) error {
	if s.created == nil {
		s.created = map[string]int64{}
	}
	s.created[tokenID] = userID
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, tokenID string) error {
	s.revoked = append(s.revoked, tokenID)
	return nil
}

type stubLimiter struct {
	counts map[string]int64
	deny   map[string]bool
}

func (l *stubLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if l.counts == nil {
		l.counts = map[string]int64{}
	}
	l.counts[scope]++
	if l.deny[scope] {
		return false, l.counts[scope], nil
	}
	return l.counts[scope] <= limit, l.counts[scope], nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 60,
	}
}

func newAuthService(t *testing.T, repo *stubUsersRepo, sessions *stubSessions, limiter *stubLimiter) *service {
	t.Helper()
	svc, err := NewService(
		repo,
		stubAuthTx{},
		sessions,
		limiter,
		testJWTConfig(),
		testPasswordConfig(),
		config.AuthRateLimitConfig{
			LoginWindow:      time.Minute,
			LoginEmailLimit:  5,
			LoginIPLimit:     20,
			SignupWindow:     5 * time.Minute,
			SignupEmailLimit: 3,
			SignupIPLimit:    20,
		},
	)
	require.NoError(t, err)
	return svc.(*service)
}

func seedUser(t *testing.T, repo *stubUsersRepo, email, password string, role enums.MemberRole, active bool) models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, repo.CreateUser(context.Background(), &user))
	return user
}

func TestLoginIssuesSessionToken(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	sessions := &stubSessions{}
	svc := newAuthService(t, repo, sessions, &stubLimiter{})
	user := seedUser(t, repo, "admin@marketa.app", "s3cr3t-pass", enums.MemberRoleAdmin, true)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Admin@Marketa.App",
		Password: "s3cr3t-pass",
		ClientIP: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Hour), result.ExpiresAt)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, enums.MemberRoleAdmin, result.User.Role)
	assert.Equal(t, user.ID, sessions.created[result.TokenID])

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, result.TokenID, claims.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	sessions := &stubSessions{}
	svc := newAuthService(t, repo, sessions, &stubLimiter{})
	seedUser(t, repo, "admin@marketa.app", "s3cr3t-pass", enums.MemberRoleAdmin, true)

	_, err := svc.Login(context.Background(), LoginInput{Email: "admin@marketa.app", Password: "wrong"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	assert.Empty(t, sessions.created)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t, &stubUsersRepo{byEmail: map[string]models.User{}}, &stubSessions{}, &stubLimiter{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@marketa.app", Password: "whatever"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	svc := newAuthService(t, repo, &stubSessions{}, &stubLimiter{})
	seedUser(t, repo, "gone@marketa.app", "s3cr3t-pass", enums.MemberRoleViewer, false)

	_, err := svc.Login(context.Background(), LoginInput{Email: "gone@marketa.app", Password: "s3cr3t-pass"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestLoginRateLimited(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	limiter := &stubLimiter{deny: map[string]bool{"login:email:admin@marketa.app": true}}
	svc := newAuthService(t, repo, &stubSessions{}, limiter)
	seedUser(t, repo, "admin@marketa.app", "s3cr3t-pass", enums.MemberRoleAdmin, true)

	_, err := svc.Login(context.Background(), LoginInput{Email: "admin@marketa.app", Password: "s3cr3t-pass"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeRateLimit, appErr.Code())
}

func TestSignupCreatesViewerByDefault(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	svc := newAuthService(t, repo, &stubSessions{}, &stubLimiter{})

	view, err := svc.Signup(context.Background(), SignupInput{
		Email:    "New@Marketa.App",
		Password: "longenough",
		FullName: "  New Person ",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@marketa.app", view.Email)
	assert.Equal(t, enums.MemberRoleViewer, view.Role)
	assert.Equal(t, "New Person", view.FullName)
	assert.True(t, view.IsActive)

	stored := repo.byEmail["new@marketa.app"]
	match, err := security.VerifyPassword("longenough", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	svc := newAuthService(t, repo, &stubSessions{}, &stubLimiter{})
	seedUser(t, repo, "dup@marketa.app", "s3cr3t-pass", enums.MemberRoleViewer, true)

	_, err := svc.Signup(context.Background(), SignupInput{Email: "dup@marketa.app", Password: "longenough"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestSignupShortPassword(t *testing.T) {
	svc := newAuthService(t, &stubUsersRepo{byEmail: map[string]models.User{}}, &stubSessions{}, &stubLimiter{})

	_, err := svc.Signup(context.Background(), SignupInput{Email: "x@marketa.app", Password: "short"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSignupUnknownRole(t *testing.T) {
	svc := newAuthService(t, &stubUsersRepo{byEmail: map[string]models.User{}}, &stubSessions{}, &stubLimiter{})

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "x@marketa.app",
		Password: "longenough",
		Role:     enums.MemberRole("superuser"),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestMe(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]models.User{}}
	svc := newAuthService(t, repo, &stubSessions{}, &stubLimiter{})
	user := seedUser(t, repo, "admin@marketa.app", "s3cr3t-pass", enums.MemberRoleAdmin, true)

	view, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, view.Email)

	_, err = svc.Me(context.Background(), 404)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newAuthService(t, &stubUsersRepo{byEmail: map[string]models.User{}}, sessions, &stubLimiter{})

	require.NoError(t, svc.Logout(context.Background(), "token-1"))
	assert.Equal(t, []string{"token-1"}, sessions.revoked)

	err := svc.Logout(context.Background(), "  ")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
