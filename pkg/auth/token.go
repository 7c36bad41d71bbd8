package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketa-app/admin-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed HS256 JWT for the payload. A missing
// JTI gets a fresh UUID so every token is individually revocable.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := validateMintInput(cfg, payload); err != nil {
		return "", err
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL())),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func validateMintInput(cfg config.JWTConfig, payload AccessTokenPayload) error {
	switch {
	case cfg.Secret == "":
		return fmt.Errorf("jwt secret is required")
	case cfg.Issuer == "":
		return fmt.Errorf("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return fmt.Errorf("jwt expiration minutes must be positive")
	case payload.UserID <= 0:
		return fmt.Errorf("user id is required")
	case !payload.Role.IsValid():
		return fmt.Errorf("invalid member role %q", payload.Role)
	}
	return nil
}

// ParseAccessToken validates signature, signing method, issuer and
// expiry, and returns the typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}
	_, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
