package store

import (
	"context"
	"testing"

	"github.com/plink/plink/internal/db"
)

func TestWizardSessionLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	state, ownerID, err := GetWizardSession(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetWizardSession: %v", err)
	}
	if state != nil || ownerID != 0 {
		t.Error("expected nil state for missing session")
	}

	if err := SaveWizardSession(ctx, database, "s1", 7, []byte(`{"step":1}`)); err != nil {
		t.Fatalf("SaveWizardSession: %v", err)
	}
	if err := SaveWizardSession(ctx, database, "s1", 7, []byte(`{"step":2}`)); err != nil {
		t.Fatalf("SaveWizardSession upsert: %v", err)
	}

	state, ownerID, err = GetWizardSession(ctx, database, "s1")
	if err != nil {
		t.Fatalf("GetWizardSession: %v", err)
	}
	if string(state) != `{"step":2}` {
		t.Errorf("expected upserted state, got %s", state)
	}
	if ownerID != 7 {
		t.Errorf("expected owner 7, got %d", ownerID)
	}

	if err := DeleteWizardSession(ctx, database, "s1"); err != nil {
		t.Fatalf("DeleteWizardSession: %v", err)
	}
	state, _, _ = GetWizardSession(ctx, database, "s1")
	if state != nil {
		t.Error("expected deleted session to be gone")
	}
}

func TestWizardSessionAnonymousOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SaveWizardSession(ctx, database, "anon", 0, []byte(`{}`)); err != nil {
		t.Fatalf("SaveWizardSession: %v", err)
	}
	_, ownerID, err := GetWizardSession(ctx, database, "anon")
	if err != nil {
		t.Fatalf("GetWizardSession: %v", err)
	}
	if ownerID != 0 {
		t.Errorf("expected anonymous owner, got %d", ownerID)
	}
}
