package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/saved"
	"github.com/plink/plink/internal/store"
)

// SavedHandler manages a user's saved listings. Saves are keyed by the
// authenticated user, so lists never leak between accounts sharing a
// browser.
type SavedHandler struct {
	DB    *sql.DB
	Saved *saved.Store
}

// List handles GET /saved.
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	listings, err := h.Saved.List(r.Context(), claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load saved listings")
		return
	}
	jsonResponse(w, http.StatusOK, listings)
}

// Save handles PUT /saved/{id}. Saving an already saved listing refreshes
// the stored snapshot.
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	loc, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if loc == nil || loc.Status != model.StatusLive {
		jsonError(w, http.StatusNotFound, "listing not found")
		return
	}

	if err := h.Saved.Add(r.Context(), claims.UserID, loc); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save listing")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"saved": true, "id": id})
}

// Check handles GET /saved/{id}, reporting whether the listing is saved.
func (h *SavedHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	isSaved, err := h.Saved.IsSaved(r.Context(), claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"saved": isSaved, "id": id})
}

// Remove handles DELETE /saved/{id}. Removing a listing that is not saved
// succeeds.
func (h *SavedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.Saved.Remove(r.Context(), claims.UserID, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to remove saved listing")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"saved": false, "id": id})
}

// Clear handles DELETE /saved.
func (h *SavedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := h.Saved.Clear(r.Context(), claims.UserID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to clear saved listings")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "saved listings cleared"})
}
