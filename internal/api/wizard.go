package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/store"
	"github.com/plink/plink/internal/wizard"
)

// WizardHandler drives the listing submission wizard over HTTP. Session
// state lives server-side, keyed by an opaque session ID, so a returning
// owner can resume where they left off.
type WizardHandler struct {
	DB *sql.DB
}

type wizardResponse struct {
	ID      string        `json:"id"`
	Step    wizard.Step   `json:"step"`
	Title   string        `json:"stepName"`
	History []wizard.Step `json:"history"`
	Form    wizard.Form   `json:"form"`
}

func newWizardResponse(id string, s *wizard.Session) wizardResponse {
	form := s.Form
	// Credentials never leave the server.
	form.Password = ""
	form.ConfirmPassword = ""
	form.PasswordHash = ""
	return wizardResponse{
		ID:      id,
		Step:    s.Step,
		Title:   s.Step.String(),
		History: s.History,
		Form:    form,
	}
}

// Start handles POST /wizard. Authenticated users own their sessions;
// anonymous sessions belong to nobody until submission.
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	var ownerID int64
	if claims := GetClaims(r.Context()); claims != nil {
		ownerID = claims.UserID
	}

	session := wizard.NewSession()
	id := uuid.NewString()
	if err := h.save(r, id, ownerID, session); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to start wizard")
		return
	}

	slog.Info("wizard started", "session", id, "owner", ownerID)
	jsonResponse(w, http.StatusCreated, newWizardResponse(id, session))
}

// Get handles GET /wizard/{id}.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, session, _, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, newWizardResponse(id, session))
}

// Next handles POST /wizard/{id}/next. The body carries the current step's
// fields; validation failures return 422 with the message and leave the
// session on the current step.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, session, ownerID, ok := h.load(w, r)
	if !ok {
		return
	}

	var update wizard.Update
	if err := decodeJSON(r, &update); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.Apply(update)
	if err := session.Next(); err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			// Field values are kept even when validation fails.
			if saveErr := h.save(r, id, ownerID, session); saveErr != nil {
				jsonError(w, http.StatusInternalServerError, "failed to save wizard state")
				return
			}
			jsonError(w, http.StatusUnprocessableEntity, verr.Message)
			return
		}
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.save(r, id, ownerID, session); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save wizard state")
		return
	}
	jsonResponse(w, http.StatusOK, newWizardResponse(id, session))
}

// Back handles POST /wizard/{id}/back.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, session, ownerID, ok := h.load(w, r)
	if !ok {
		return
	}

	session.Back()
	if err := h.save(r, id, ownerID, session); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save wizard state")
		return
	}
	jsonResponse(w, http.StatusOK, newWizardResponse(id, session))
}

// Features handles GET /wizard/{id}/features, returning the feature groups
// offered for the session's room selection.
func (h *WizardHandler) Features(w http.ResponseWriter, r *http.Request) {
	_, session, _, ok := h.load(w, r)
	if !ok {
		return
	}

	interior, exterior := session.Features()
	jsonResponse(w, http.StatusOK, map[string]any{
		"interior": interior,
		"exterior": exterior,
	})
}

// Submit handles POST /wizard/{id}/submit. An anonymous session with account
// details creates the owner account alongside the listing. The new listing
// always starts pending.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, session, ownerID, ok := h.load(w, r)
	if !ok {
		return
	}

	loc, err := session.Submit()
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			jsonError(w, http.StatusUnprocessableEntity, verr.Message)
			return
		}
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	loc.Postcode = strings.ToUpper(strings.TrimSpace(loc.Postcode))

	if ownerID == 0 && session.Form.PasswordHash != "" {
		ownerID = h.createOwnerAccount(r, session)
	}
	loc.OwnerID = ownerID

	created, err := store.CreateLocation(r.Context(), h.DB, loc)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	if err := store.DeleteWizardSession(r.Context(), h.DB, id); err != nil {
		slog.Error("deleting wizard session", "session", id, "error", err)
	}

	slog.Info("wizard submitted", "session", id, "listing", created.ID)
	jsonResponse(w, http.StatusCreated, created)
}

// createOwnerAccount registers the wizard's contact details as a user
// account. A failure (e.g. the email is already registered) leaves the
// listing ownerless rather than blocking submission.
func (h *WizardHandler) createOwnerAccount(r *http.Request, session *wizard.Session) int64 {
	email := strings.ToLower(strings.TrimSpace(session.Form.Email))

	existing, err := store.GetUserByEmail(r.Context(), h.DB, email)
	if err != nil || (existing != nil && existing.DeletedAt == nil) {
		return 0
	}

	user, err := store.CreateUser(r.Context(), h.DB, email, session.Form.PasswordHash,
		session.Form.PhoneNumber, model.RoleUser)
	if err != nil {
		slog.Warn("creating owner account from wizard", "email", email, "error", err)
		return 0
	}

	_, err = store.QueueEmail(r.Context(), h.DB, user.Email,
		"Welcome to Plink",
		"Your account has been created and your listing is awaiting review.",
		time.Time{})
	if err != nil {
		slog.Error("queueing welcome email", "error", err)
	}
	return user.ID
}

// load fetches and decodes the session, enforcing ownership. Owned sessions
// are only visible to their owner; anonymous sessions are open to whoever
// holds the session ID.
func (h *WizardHandler) load(w http.ResponseWriter, r *http.Request) (string, *wizard.Session, int64, bool) {
	id := r.PathValue("id")

	state, ownerID, err := store.GetWizardSession(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return "", nil, 0, false
	}
	if state == nil {
		jsonError(w, http.StatusNotFound, "wizard session not found")
		return "", nil, 0, false
	}

	if ownerID != 0 {
		claims := GetClaims(r.Context())
		if claims == nil || (claims.UserID != ownerID && claims.Role != model.RoleAdmin) {
			jsonError(w, http.StatusNotFound, "wizard session not found")
			return "", nil, 0, false
		}
	}

	var session wizard.Session
	if err := json.Unmarshal(state, &session); err != nil {
		jsonError(w, http.StatusInternalServerError, "corrupt wizard state")
		return "", nil, 0, false
	}
	return id, &session, ownerID, true
}

func (h *WizardHandler) save(r *http.Request, id string, ownerID int64, session *wizard.Session) error {
	state, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return store.SaveWizardSession(r.Context(), h.DB, id, ownerID, state)
}
