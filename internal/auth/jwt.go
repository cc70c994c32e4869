package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notably-backend/internal/models"
)

// tokenTTL is the absolute session lifetime. There is no revocation or
// renewal; expiry is the only way a token stops being valid.
const tokenTTL = time.Hour

var errMissingSecret = errors.New("JWT_SECRET is not set")

func tokenSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errMissingSecret
	}
	return []byte(secret), nil
}

type Claims struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	Role       string `json:"role"`
	TenantSlug string `json:"tenant_slug"`
	Plan       string `json:"plan"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session token for the user. Plan is the tenant's
// plan at login time; claims are not re-checked against the store afterwards,
// so they can be stale for up to tokenTTL after a server-side change.
func GenerateToken(user *models.User, tenant *models.Tenant) (string, error) {
	secret, err := tokenSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:     user.ID,
		TenantID:   user.TenantID,
		Role:       user.Role,
		TenantSlug: tenant.Slug,
		Plan:       tenant.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenString string) (*Claims, error) {
	secret, err := tokenSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
