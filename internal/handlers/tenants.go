package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notably-backend/internal/auth"
	"notably-backend/internal/events"
	"notably-backend/internal/models"
	"notably-backend/internal/storage"
)

// GetTenant returns the admin's tenant with its members. The response is a
// single-element array (frontend compatibility).
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !principal.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	tenant, err := h.store.GetTenant(r.Context(), principal.TenantID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	users, err := h.store.GetTenantUsers(r.Context(), tenant.ID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	view := models.TenantView{
		ID:    tenant.ID,
		Name:  tenant.Name,
		Slug:  tenant.Slug,
		Plan:  tenant.Plan,
		Users: users,
	}
	writeJSON(w, http.StatusOK, []models.TenantView{view})
}

// UpgradePlan sets the target user's plan and the tenant's plan to PRO
// @Summary Upgrade a member
// @Tags tenants
// @Produce json
// @Success 200 {object} map[string]interface{} "updated user and tenant"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Tenant or user not found"
// @Security BearerAuth
// @Router /api/tenants/{slug}/upgrade/{id} [post]
func (h *Handler) UpgradePlan(w http.ResponseWriter, r *http.Request) {
	h.transitionPlan(w, r, models.PlanPro, events.ActionPlanUpgraded)
}

// DowngradePlan sets the target user's plan and the tenant's plan to FREE.
func (h *Handler) DowngradePlan(w http.ResponseWriter, r *http.Request) {
	h.transitionPlan(w, r, models.PlanFree, events.ActionPlanDowngraded)
}

// transitionPlan flips user.plan and tenant.plan together, all or nothing.
// The target's role is deliberately not checked; plan and role are
// independent axes.
func (h *Handler) transitionPlan(w http.ResponseWriter, r *http.Request, plan, action string) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !principal.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	slug := chi.URLParam(r, "slug")
	targetID := chi.URLParam(r, "id")

	tenant, err := h.store.GetTenantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	if tenant.ID != principal.TenantID {
		writeError(w, http.StatusNotFound, "Tenant not found")
		return
	}

	user, updatedTenant, err := h.store.TransitionPlan(r.Context(), tenant.ID, targetID, plan)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found in tenant")
			return
		}
		writeStorageError(w, err)
		return
	}

	h.audit(action, principal, user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": user,
		"tenant": map[string]any{
			"id":   updatedTenant.ID,
			"name": updatedTenant.Name,
			"slug": updatedTenant.Slug,
			"plan": updatedTenant.Plan,
		},
	})
}
