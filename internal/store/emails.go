package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plink/plink/internal/model"
)

// QueueEmail adds a message to the outgoing queue. A zero sendAt means
// "next dispatcher run".
func QueueEmail(ctx context.Context, db *sql.DB, recipients, subject, body string, sendAt time.Time) (int64, error) {
	if sendAt.IsZero() {
		sendAt = time.Now()
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO email_queue (recipients, subject, body, send_at) VALUES (?, ?, ?, ?)`,
		recipients, subject, body, sendAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("queueing email: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting queued email id: %w", err)
	}
	return id, nil
}

// DueEmails returns queued messages whose send time has passed.
func DueEmails(ctx context.Context, db *sql.DB, now time.Time) ([]model.QueuedEmail, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, recipients, subject, body, send_at, created_at
		 FROM email_queue WHERE send_at <= ? ORDER BY send_at, id`,
		now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing due emails: %w", err)
	}
	defer rows.Close()

	var emails []model.QueuedEmail
	for rows.Next() {
		var e model.QueuedEmail
		var body sql.NullString
		if err := rows.Scan(&e.ID, &e.Recipients, &e.Subject, &body, &e.SendAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning queued email: %w", err)
		}
		e.Body = body.String
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// DeleteQueuedEmail removes a message from the queue once dispatched.
func DeleteQueuedEmail(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM email_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting queued email: %w", err)
	}
	return nil
}

// RecordEmailAnalytics stores a send record with its metrics.
func RecordEmailAnalytics(ctx context.Context, db *sql.DB, subject, recipientsType string, metrics model.EmailMetrics) error {
	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encoding email metrics: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO email_analytics (subject, recipients_type, metrics) VALUES (?, ?, ?)`,
		subject, recipientsType, string(data),
	)
	if err != nil {
		return fmt.Errorf("recording email analytics: %w", err)
	}
	return nil
}

// ListEmailAnalytics returns send records since the cutoff, newest first.
// A zero cutoff returns everything.
func ListEmailAnalytics(ctx context.Context, db *sql.DB, since time.Time) ([]model.EmailAnalytics, error) {
	query := `SELECT id, subject, recipients_type, sent_date, metrics FROM email_analytics`
	args := []any{}
	if !since.IsZero() {
		query += ` WHERE sent_date >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY sent_date DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing email analytics: %w", err)
	}
	defer rows.Close()

	var records []model.EmailAnalytics
	for rows.Next() {
		var rec model.EmailAnalytics
		var recipients sql.NullString
		var metrics string
		if err := rows.Scan(&rec.ID, &rec.Subject, &recipients, &rec.SentDate, &metrics); err != nil {
			return nil, fmt.Errorf("scanning email analytics: %w", err)
		}
		rec.RecipientsType = recipients.String
		if err := json.Unmarshal([]byte(metrics), &rec.Metrics); err != nil {
			return nil, fmt.Errorf("decoding email metrics: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
