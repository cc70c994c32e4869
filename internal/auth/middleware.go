package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"notably-backend/internal/models"
)

type contextKey string

const principalKey contextKey = "notably_principal"

// Principal is the authenticated identity derived from a session token.
// Claims are trusted as-is; see GenerateToken for the staleness window.
type Principal struct {
	UserID     string
	TenantID   string
	Role       string
	TenantSlug string
	Plan       string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			unauthorized(w)
			return
		}

		claims, err := ParseToken(token)
		if err != nil || claims.UserID == "" {
			unauthorized(w)
			return
		}

		principal := Principal{
			UserID:     claims.UserID,
			TenantID:   claims.TenantID,
			Role:       claims.Role,
			TenantSlug: claims.TenantSlug,
			Plan:       claims.Plan,
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
