package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/marketa-app/admin-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	Role   enums.MemberRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
type AccessTokenClaims struct {
	UserID int64            `json:"user_id"`
	Email  string           `json:"email"`
	Role   enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
