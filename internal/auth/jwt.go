package auth

import (
	"fmt"
	"time"

	"galaxy-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "galaxy-server"

func getJWTSecret() ([]byte, time.Duration, error) {
	cfg := config.GlobalConfig
	if cfg == nil {
		return nil, 0, fmt.Errorf("configuration is not initialized")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return nil, 0, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	return []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenExpiration, nil
}

// RoleFor maps a verified email to the role it signs in with.
func RoleFor(email string) string {
	if config.GlobalConfig != nil && config.GlobalConfig.IsAdminEmail(email) {
		return RoleAdmin
	}
	return RoleVisitor
}

func GenerateJWT(subject, username, email, role string) (string, error) {
	secret, expiration, err := getJWTSecret()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Username: username,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateJWT(tokenString string) (*Claims, error) {
	secret, _, err := getJWTSecret()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
