package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/plink/plink/internal/auth"
	"github.com/plink/plink/internal/cache"
	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/store"
)

// AdminHandler handles the moderation queue, analytics and admin settings.
type AdminHandler struct {
	DB    *sql.DB
	Cache *cache.SearchCache
}

// Pending handles GET /admin/locations/pending, returning the moderation
// queue (pending and drafted listings) with its count.
func (h *AdminHandler) Pending(w http.ResponseWriter, r *http.Request) {
	queue, err := store.ListModerationQueue(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to load moderation queue")
		return
	}
	if queue == nil {
		queue = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"count":     len(queue),
		"locations": queue,
	})
}

// Approve handles POST /admin/locations/{id}/approve. Works from pending or
// draft; approving a listing another admin already moved returns 409.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := h.listingAction(w, r)
	if !ok {
		return
	}

	if err := store.ApproveLocation(r.Context(), h.DB, id, claims.Email); err != nil {
		h.transitionError(w, err, "failed to approve listing")
		return
	}

	// New live listing invalidates cached search results.
	if h.Cache != nil {
		if err := h.Cache.Invalidate(r.Context()); err != nil {
			slog.Warn("invalidating search cache", "error", err)
		}
	}

	h.notifyOwner(r, id, "Your listing is live",
		"Good news: your location has been approved and is now visible in search.")

	slog.Info("listing approved", "id", id, "admin", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"status": model.StatusLive})
}

type draftRequest struct {
	Message string `json:"message"`
}

// Draft handles PUT /admin/locations/{id}/draft, sending a pending listing
// back to the owner with a message.
func (h *AdminHandler) Draft(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := h.listingAction(w, r)
	if !ok {
		return
	}

	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonError(w, http.StatusBadRequest, "a message for the owner is required")
		return
	}

	if err := store.DraftLocation(r.Context(), h.DB, id, claims.Email, req.Message); err != nil {
		h.transitionError(w, err, "failed to draft listing")
		return
	}

	h.notifyOwner(r, id, "Your listing needs changes", req.Message)

	slog.Info("listing drafted", "id", id, "admin", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"status": model.StatusDraft})
}

// Reopen handles PUT /admin/locations/{id}/reopen, returning a drafted
// listing to the review queue.
func (h *AdminHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := h.listingAction(w, r)
	if !ok {
		return
	}

	if err := store.ReopenLocation(r.Context(), h.DB, id); err != nil {
		h.transitionError(w, err, "failed to reopen listing")
		return
	}

	slog.Info("listing reopened", "id", id, "admin", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"status": model.StatusPending})
}

// Assign handles POST /admin/locations/{id}/assign, claiming a listing for
// review without changing its status.
func (h *AdminHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := h.listingAction(w, r)
	if !ok {
		return
	}

	if err := store.AssignAdmin(r.Context(), h.DB, id, claims.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "listing not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to assign listing")
		return
	}

	slog.Info("listing assigned", "id", id, "admin", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"adminUser": claims.Email})
}

// AnalyticsOverview handles GET /admin/analytics/overview.
func (h *AdminHandler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	totalListings, err := store.CountLocations(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	totalUsers, err := store.CountUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	queue, err := store.ListModerationQueue(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"totalListings": totalListings,
		"totalUsers":    totalUsers,
		"pendingCount":  len(queue),
	})
}

// AnalyticsUsers handles GET /admin/analytics/users.
func (h *AdminHandler) AnalyticsUsers(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// AnalyticsCategories handles GET /admin/analytics/categories.
func (h *AdminHandler) AnalyticsCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := store.CountByPropertyType(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if counts == nil {
		counts = []store.CategoryCount{}
	}
	jsonResponse(w, http.StatusOK, counts)
}

type addAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddAdmin handles POST /admin/settings/add_admin.
func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil && existing.DeletedAt == nil {
		jsonError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Email, string(hash), "", model.RoleAdmin)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create admin")
		return
	}

	_, err = store.QueueEmail(r.Context(), h.DB, user.Email,
		"You are now a Plink admin",
		"An administrator account has been created for this address.",
		time.Time{})
	if err != nil {
		slog.Error("queueing admin welcome email", "error", err)
	}

	slog.Info("admin account created", "email", user.Email, "by", GetClaims(r.Context()).Email)
	jsonResponse(w, http.StatusCreated, user)
}

// listingAction parses the listing ID and claims shared by the moderation
// endpoints.
func (h *AdminHandler) listingAction(w http.ResponseWriter, r *http.Request) (int64, *auth.Claims, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid listing id")
		return 0, nil, false
	}
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return 0, nil, false
	}
	return id, claims, true
}

func (h *AdminHandler) transitionError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, store.ErrStatusConflict) {
		jsonError(w, http.StatusConflict, "listing status changed, reload the queue")
		return
	}
	jsonError(w, http.StatusInternalServerError, fallback)
}

// notifyOwner queues an email to the listing's contact address.
func (h *AdminHandler) notifyOwner(r *http.Request, id int64, subject, body string) {
	loc, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil || loc == nil || loc.Email == "" {
		return
	}
	if _, err := store.QueueEmail(r.Context(), h.DB, loc.Email, subject, body, time.Time{}); err != nil {
		slog.Error("queueing owner notification", "listing", id, "error", err)
	}
}
