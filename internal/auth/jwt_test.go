package auth

import (
	"strings"
	"testing"
	"time"

	"galaxy-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

func setupConfig(t *testing.T, secret string, admins ...string) {
	t.Helper()
	config.GlobalConfig = &config.Config{
		Auth:  config.AuthConfig{JWTSecret: secret, TokenExpiration: time.Hour},
		Admin: config.AdminConfig{Emails: admins},
	}
}

func TestJWTRoundTrip(t *testing.T) {
	setupConfig(t, strings.Repeat("a", 32))

	token, err := GenerateJWT("github:7", "octo", "octo@example.com", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "github:7" || claims.Email != "octo@example.com" || !claims.IsAdmin() {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	setupConfig(t, strings.Repeat("a", 32))
	token, err := GenerateJWT("github:7", "octo", "octo@example.com", RoleVisitor)
	if err != nil {
		t.Fatal(err)
	}

	setupConfig(t, strings.Repeat("b", 32))
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	setupConfig(t, strings.Repeat("a", 32))
	claims := Claims{
		Role: RoleVisitor,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(strings.Repeat("a", 32)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestJWTRequiresLongSecret(t *testing.T) {
	setupConfig(t, "short")
	if _, err := GenerateJWT("github:7", "octo", "", RoleVisitor); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestRoleFor(t *testing.T) {
	setupConfig(t, strings.Repeat("a", 32), "curator@example.com")
	if RoleFor("curator@example.com") != RoleAdmin {
		t.Fatal("configured email should be admin")
	}
	if RoleFor("someone@example.com") != RoleVisitor {
		t.Fatal("other emails should be visitors")
	}
}
