package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/store"
)

// CRMHandler serves the contacts view, merging three sources: registered
// user profiles, listing owners and manually added contacts.
type CRMHandler struct {
	DB *sql.DB
}

// List handles GET /admin/crm/contacts?filter=&q=. Contacts are deduplicated
// by email, with profiles taking precedence over listing owners.
func (h *CRMHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "all"
	}
	query := strings.ToLower(r.URL.Query().Get("q"))

	var contacts []model.Contact

	if filter == "all" || filter == "profiles" {
		users, err := store.ListUsers(r.Context(), h.DB)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		for _, u := range users {
			if query != "" && !strings.Contains(strings.ToLower(u.Email), query) {
				continue
			}
			contacts = append(contacts, model.Contact{
				ID:        u.ID,
				Email:     u.Email,
				Phone:     u.Phone,
				Type:      model.ContactTypeProfile,
				CreatedAt: u.CreatedAt,
			})
		}
	}

	if filter == "all" || filter == "owners" {
		owners, err := store.ListDistinctOwners(r.Context(), h.DB, query)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		contacts = append(contacts, owners...)
	}

	if filter == "all" || filter == "manual" {
		manual, err := store.ListContacts(r.Context(), h.DB, query)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		contacts = append(contacts, manual...)
	}

	contacts = dedupeByEmail(contacts)
	jsonResponse(w, http.StatusOK, contacts)
}

// Get handles GET /admin/crm/contacts/{id} (manually added contacts only).
func (h *CRMHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := store.GetContact(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contact == nil {
		jsonError(w, http.StatusNotFound, "contact not found")
		return
	}
	jsonResponse(w, http.StatusOK, contact)
}

type createContactRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Create handles POST /admin/crm/contacts.
func (h *CRMHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	contact, err := store.CreateContact(r.Context(), h.DB, req.Email, req.Name, req.Phone, req.Company)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	slog.Info("crm contact created", "email", contact.Email)
	jsonResponse(w, http.StatusCreated, contact)
}

// dedupeByEmail keeps the first contact seen per email, preserving order.
// Sources are appended profiles first, so a profile wins over an owner row
// with the same address.
func dedupeByEmail(contacts []model.Contact) []model.Contact {
	if contacts == nil {
		return []model.Contact{}
	}
	seen := make(map[string]bool, len(contacts))
	out := contacts[:0]
	for _, c := range contacts {
		key := strings.ToLower(c.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
