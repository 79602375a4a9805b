package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/plink/plink/internal/cache"
	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/store"
)

// LocationsHandler handles the public listing endpoints.
type LocationsHandler struct {
	DB    *sql.DB
	Cache *cache.SearchCache
}

// Search handles GET /locations/search. Results cover live listings only and
// are cached per filter combination.
func (h *LocationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := model.SearchFilters{
		PropertyType: q.Get("propertyType"),
		Age:          q.Get("age"),
		Room:         q.Get("rooms"),
		Postcode:     q.Get("postcode"),
	}

	if h.Cache != nil {
		if results, ok := h.Cache.Get(r.Context(), filters); ok {
			jsonResponse(w, http.StatusOK, results)
			return
		}
	}

	results, err := store.SearchLocations(r.Context(), h.DB, filters)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []model.Location{}
	}

	if h.Cache != nil {
		if err := h.Cache.Put(r.Context(), filters, results); err != nil {
			slog.Warn("caching search results", "error", err)
		}
	}
	jsonResponse(w, http.StatusOK, results)
}

// Get handles GET /locations/{id}. Non-live listings are only visible to
// admins and the owner.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	if loc == nil {
		jsonError(w, http.StatusNotFound, "listing not found")
		return
	}

	if loc.Status != model.StatusLive {
		claims := GetClaims(r.Context())
		allowed := claims != nil &&
			(claims.Role == model.RoleAdmin || (loc.OwnerID != 0 && claims.UserID == loc.OwnerID))
		if !allowed {
			jsonError(w, http.StatusNotFound, "listing not found")
			return
		}
	}

	jsonResponse(w, http.StatusOK, loc)
}

// Create handles POST /locations. Listings created directly (outside the
// wizard) still start as pending.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loc model.Location
	if err := decodeJSON(r, &loc); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc.Postcode = strings.ToUpper(strings.TrimSpace(loc.Postcode))
	if loc.FullName == "" || loc.Email == "" {
		jsonError(w, http.StatusBadRequest, "full name and email are required")
		return
	}
	if loc.Street == "" || loc.City == "" || loc.Postcode == "" {
		jsonError(w, http.StatusBadRequest, "street, city and postcode are required")
		return
	}
	if !model.ValidPropertyType(loc.PropertyType) {
		jsonError(w, http.StatusBadRequest, "unknown property type")
		return
	}

	if claims := GetClaims(r.Context()); claims != nil {
		loc.OwnerID = claims.UserID
	}

	created, err := store.CreateLocation(r.Context(), h.DB, &loc)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	slog.Info("listing created", "id", created.ID, "postcode", created.Postcode)
	jsonResponse(w, http.StatusCreated, created)
}

// CheckPostcode handles GET /locations/check-postcode?postcode=. Used by the
// wizard to warn about an address that is already listed.
func (h *LocationsHandler) CheckPostcode(w http.ResponseWriter, r *http.Request) {
	postcode := r.URL.Query().Get("postcode")
	if postcode == "" {
		jsonError(w, http.StatusBadRequest, "postcode required")
		return
	}

	exists, id, err := store.PostcodeExists(r.Context(), h.DB, postcode)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{"exists": exists}
	if exists {
		resp["locationId"] = id
	}
	jsonResponse(w, http.StatusOK, resp)
}
