package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notably-backend/internal/models"
)

func testUserAndTenant() (*models.User, *models.Tenant) {
	tenant := &models.Tenant{
		ID:   "tenant-1",
		Name: "Acme",
		Slug: "acme",
		Plan: models.PlanFree,
	}
	user := &models.User{
		ID:       "user-1",
		TenantID: tenant.ID,
		Email:    "user@acme.test",
		Role:     models.RoleMember,
		Plan:     models.PlanFree,
	}
	return user, tenant
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user, tenant := testUserAndTenant()
	token, err := GenerateToken(user, tenant)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, models.RoleMember, claims.Role)
	assert.Equal(t, "acme", claims.TenantSlug)
	assert.Equal(t, models.PlanFree, claims.Plan)
}

func TestGenerateToken_PlanComesFromTenant(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user, tenant := testUserAndTenant()
	tenant.Plan = models.PlanPro

	token, err := GenerateToken(user, tenant)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, claims.Plan)
}

func TestGenerateToken_OneHourExpiry(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user, tenant := testUserAndTenant()
	token, err := GenerateToken(user, tenant)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, time.Hour, ttl)
}

func TestParseToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	now := time.Now()
	claims := Claims{
		UserID:   "user-1",
		TenantID: "tenant-1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user, tenant := testUserAndTenant()
	token, err := GenerateToken(user, tenant)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	user, tenant := testUserAndTenant()
	_, err := GenerateToken(user, tenant)
	assert.ErrorIs(t, err, errMissingSecret)
}
