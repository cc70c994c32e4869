package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"notably-backend/internal/storage"
)

type Handler struct {
	store *storage.Storage
}

func NewHandler(store *storage.Storage) *Handler {
	return &Handler{store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a session token
// @Summary User login
// @Description Authenticates user with email and password, returns a 1-hour JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "token, role and tenant slug"
// @Failure 400 {object} map[string]string "Invalid request body or missing credentials"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Failed to generate token"
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	// Unknown email and wrong password produce the identical response so the
	// caller cannot tell which check failed.
	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			log.Printf("ERROR login lookup: %v", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tenant, err := h.store.GetTenant(r.Context(), user.TenantID)
	if err != nil {
		log.Printf("ERROR login tenant lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := GenerateToken(user, tenant)
	if err != nil {
		log.Printf("ERROR generate token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"token":  token,
		"role":   user.Role,
		"tenant": tenant.Slug,
	})
}

// Me returns the principal decoded from the current session token
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Principal claims"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"me": map[string]any{
			"id":       principal.UserID,
			"tenantId": principal.TenantID,
			"role":     principal.Role,
			"plan":     principal.Plan,
		},
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
