package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		UserID: 42,
		Email:  "ops@marketa.app",
		Role:   enums.MemberRoleAdmin,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("expected user_id 42, got %d", claims.UserID)
	}
	if claims.Email != "ops@marketa.app" {
		t.Fatalf("email not preserved: %q", claims.Email)
	}
	if claims.Role != enums.MemberRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}

	// RegisteredClaims is embedded, so access fields directly.
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenKeepsProvidedJTI(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 10,
	}
	payload := AccessTokenPayload{
		UserID: 7,
		Role:   enums.MemberRoleViewer,
		JTI:    "custom-jti",
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID != "custom-jti" {
		t.Fatalf("expected supplied jti, got %q", claims.ID)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 10,
	}
	payload := AccessTokenPayload{
		UserID: 1,
		Role:   enums.MemberRoleManager,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token+"x")
	if err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 15,
	}
	now := time.Now().Add(-time.Hour)
	payload := AccessTokenPayload{
		UserID: 1,
		Role:   enums.MemberRoleViewer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "marketa-admin",
		ExpirationMinutes: 5,
	}
	payload := AccessTokenPayload{
		UserID: 1,
		Role:   "",
	}

	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected invalid role error")
	}
}
