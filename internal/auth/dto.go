package auth

import (
	"time"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// LoginInput carries the login form plus the caller address for rate
// limiting.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// SignupInput registers a new back-office user. An empty role defaults
// to viewer.
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Role     enums.MemberRole
	ClientIP string
}

// UserView is the API shape of a back-office user.
type UserView struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Role      enums.MemberRole `json:"role"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
}

// Session is a freshly minted login: the signed JWT plus its expiry,
// ready to be set as the auth cookie.
type Session struct {
	Token     string    `json:"-"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}
