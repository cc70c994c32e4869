package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notably-backend/internal/auth"
	"notably-backend/internal/events"
	"notably-backend/internal/models"
	"notably-backend/internal/storage"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListNotes returns the caller's visible notes, newest-created first.
// Admins see every note of their tenant, members only their own.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var notes []models.Note
	var err error
	if principal.IsAdmin() {
		notes, err = h.store.ListTenantNotes(r.Context(), principal.TenantID)
	} else {
		notes, err = h.store.ListAuthorNotes(r.Context(), principal.TenantID, principal.UserID)
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"plan":  principal.Plan,
		"me": map[string]any{
			"id":   principal.UserID,
			"role": principal.Role,
		},
	})
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Only FREE-plan members are capped; admins and PRO members are not.
	maxNotes := 0
	if principal.Role == models.RoleMember && principal.Plan == models.PlanFree {
		maxNotes = models.FreeNoteLimit
	}

	note, err := h.store.CreateNote(r.Context(), principal.TenantID, principal.UserID, req.Title, req.Content, maxNotes)
	if err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			writeError(w, http.StatusForbidden, "FREE plan allows only 3 notes")
			return
		}
		writeStorageError(w, err)
		return
	}

	h.audit(events.ActionNoteCreated, principal, note.ID)
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	note := h.noteForWrite(w, r, principal)
	if note == nil {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.store.UpdateNote(r.Context(), note.ID, req.Title, req.Content)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	h.audit(events.ActionNoteUpdated, principal, updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	note := h.noteForWrite(w, r, principal)
	if note == nil {
		return
	}

	if err := h.store.DeleteNote(r.Context(), note.ID); err != nil {
		writeStorageError(w, err)
		return
	}

	h.audit(events.ActionNoteDeleted, principal, note.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// noteForWrite loads the note and applies the mutation access rules: a note
// outside the caller's tenant reads as absent, a member may only touch its
// own notes, an admin may touch any note of its tenant. On failure the
// response has been written and nil is returned.
func (h *Handler) noteForWrite(w http.ResponseWriter, r *http.Request, principal auth.Principal) *models.Note {
	id := chi.URLParam(r, "id")

	note, err := h.store.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return nil
		}
		log.Printf("ERROR load note %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}

	if note.TenantID != principal.TenantID {
		writeError(w, http.StatusNotFound, "Note not found")
		return nil
	}

	if principal.Role == models.RoleMember && note.AuthorID != principal.UserID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return nil
	}

	return note
}
