package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principalEcho(t *testing.T, captured *Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok, "principal should be in context")
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_MissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var captured Principal
	handler := Middleware(principalEcho(t, &captured))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var captured Principal
	handler := Middleware(principalEcho(t, &captured))

	for _, header := range []string{"garbage", "Basic abc", "Bearer ", "Bearer not.a.token"} {
		req := httptest.NewRequest("GET", "/api/notes", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user, tenant := testUserAndTenant()
	token, err := GenerateToken(user, tenant)
	require.NoError(t, err)

	var captured Principal
	handler := Middleware(principalEcho(t, &captured))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, captured.UserID)
	assert.Equal(t, tenant.ID, captured.TenantID)
	assert.Equal(t, user.Role, captured.Role)
	assert.Equal(t, tenant.Slug, captured.TenantSlug)
	assert.Equal(t, tenant.Plan, captured.Plan)
	assert.False(t, captured.IsAdmin())
}
