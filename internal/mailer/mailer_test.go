package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plink/plink/internal/db"
	"github.com/plink/plink/internal/store"
)

type recordingSender struct {
	sent []string
	fail bool
}

func (s *recordingSender) Send(_ context.Context, _, subject, _ string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, subject)
	return nil
}

func TestFlushSendsDueMessages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	store.QueueEmail(ctx, database, "profiles", "Due now", "body", time.Time{})
	store.QueueEmail(ctx, database, "owners", "Later", "body", now.Add(time.Hour))

	sender := &recordingSender{}
	d := NewDispatcher(database, sender)

	if err := d.Flush(ctx, now.Add(time.Minute)); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "Due now" {
		t.Errorf("expected only the due message sent, got %v", sender.sent)
	}

	// The sent message left the queue, the scheduled one stayed.
	due, _ := store.DueEmails(ctx, database, now.Add(2*time.Hour))
	if len(due) != 1 || due[0].Subject != "Later" {
		t.Errorf("expected only the later message queued, got %v", due)
	}

	// A send record with metrics was written.
	records, err := store.ListEmailAnalytics(ctx, database, time.Time{})
	if err != nil {
		t.Fatalf("ListEmailAnalytics: %v", err)
	}
	if len(records) != 1 || records[0].Subject != "Due now" {
		t.Fatalf("expected 1 analytics record for 'Due now', got %v", records)
	}
	if records[0].Metrics.Sent == 0 {
		t.Error("expected metrics to be recorded")
	}
}

func TestFlushKeepsFailedMessagesQueued(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.QueueEmail(ctx, database, "profiles", "Retry me", "body", time.Time{})

	sender := &recordingSender{fail: true}
	d := NewDispatcher(database, sender)

	if err := d.Flush(ctx, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	due, _ := store.DueEmails(ctx, database, time.Now().Add(time.Minute))
	if len(due) != 1 {
		t.Errorf("expected failed message to stay queued, got %d", len(due))
	}
	records, _ := store.ListEmailAnalytics(ctx, database, time.Time{})
	if len(records) != 0 {
		t.Errorf("expected no analytics for failed send, got %d", len(records))
	}
}
