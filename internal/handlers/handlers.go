package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notably-backend/internal/auth"
	"notably-backend/internal/cache"
	"notably-backend/internal/events"
	"notably-backend/internal/middleware"
	"notably-backend/internal/storage"
)

type Handler struct {
	store  *storage.Storage
	auth   *auth.Handler
	events events.Publisher
}

func New(store *storage.Storage, authHandler *auth.Handler, publisher events.Publisher) *Handler {
	return &Handler{
		store:  store,
		auth:   authHandler,
		events: publisher,
	}
}

// RegisterRoutes wires the JSON API. cacheClient may be nil, in which case
// login rate limiting is disabled.
func (h *Handler) RegisterRoutes(r chi.Router, cacheClient cache.Client) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cacheClient != nil {
				r.Use(middleware.RateLimitLogin(cacheClient))
			}
			r.Post("/auth/login", h.auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", h.auth.Me)

			r.Get("/notes", h.ListNotes)
			r.Post("/notes", h.CreateNote)
			r.Put("/notes/{id}", h.UpdateNote)
			r.Delete("/notes/{id}", h.DeleteNote)

			r.Get("/tenants", h.GetTenant)
			r.Post("/tenants/{slug}/upgrade/{id}", h.UpgradePlan)
			r.Post("/tenants/{slug}/downgrade/{id}", h.DowngradePlan)
		})
	})

	r.Get("/healthz", h.Health)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		log.Printf("ERROR health check: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// audit publishes one best-effort audit record; failures are logged only.
func (h *Handler) audit(action string, principal auth.Principal, subjectID string) {
	ev := events.Event{
		ID:        uuid.New().String(),
		Action:    action,
		TenantID:  principal.TenantID,
		ActorID:   principal.UserID,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	}
	if err := h.events.Publish(ev); err != nil {
		log.Printf("WARN audit publish %s: %v", action, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStorageError maps unexpected storage failures to a generic 500 without
// leaking internal messages.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, storage.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, "Tenant not found")
	case errors.Is(err, storage.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found in tenant")
	default:
		log.Printf("ERROR storage: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
