package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/plink/plink/internal/model"
	"github.com/plink/plink/internal/store"
)

// EmailHandler queues campaign email and serves campaign analytics.
type EmailHandler struct {
	DB *sql.DB
}

// recipient groups accepted by the send endpoint.
var validRecipients = map[string]bool{
	"all":      true,
	"profiles": true,
	"owners":   true,
}

// Send handles POST /admin/email/send (multipart form: recipients, subject,
// body, optional schedule). An unscheduled message goes out on the next
// dispatcher run; a scheduled one must be in the future.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	recipients := r.FormValue("recipients")
	subject := strings.TrimSpace(r.FormValue("subject"))
	body := r.FormValue("body")
	schedule := r.FormValue("schedule")

	if !validRecipients[recipients] {
		jsonError(w, http.StatusBadRequest, "recipients must be all, profiles or owners")
		return
	}
	if subject == "" {
		jsonError(w, http.StatusBadRequest, "subject required")
		return
	}

	var sendAt time.Time
	if schedule != "" {
		parsed, err := parseSchedule(schedule)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid schedule format")
			return
		}
		if parsed.Before(time.Now()) {
			jsonError(w, http.StatusBadRequest, "scheduled time is in the past")
			return
		}
		sendAt = parsed
	}

	id, err := store.QueueEmail(r.Context(), h.DB, recipients, subject, body, sendAt)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to queue email")
		return
	}

	slog.Info("campaign email queued", "id", id, "recipients", recipients, "scheduled", !sendAt.IsZero())
	jsonResponse(w, http.StatusAccepted, map[string]any{"id": id, "queued": true})
}

// Analytics handles GET /admin/email/analytics?timeFilter=. Accepted values
// are daily, weekly, monthly and annually; anything else returns everything.
func (h *EmailHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	now := time.Now()

	switch r.URL.Query().Get("timeFilter") {
	case "daily":
		since = now.AddDate(0, 0, -1)
	case "weekly":
		since = now.AddDate(0, 0, -7)
	case "monthly":
		since = now.AddDate(0, -1, 0)
	case "annually":
		since = now.AddDate(-1, 0, 0)
	}

	records, err := store.ListEmailAnalytics(r.Context(), h.DB, since)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []model.EmailAnalytics{}
	}
	jsonResponse(w, http.StatusOK, records)
}

// parseSchedule accepts RFC 3339 or the datetime-local format browsers
// submit.
func parseSchedule(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
}
