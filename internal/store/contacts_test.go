package store

import (
	"context"
	"testing"

	"github.com/plink/plink/internal/db"
	"github.com/plink/plink/internal/model"
)

func TestCreateAndListContacts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	contact, err := CreateContact(ctx, database, "carol@example.com", "Carol Props", "07700 900001", "Props Ltd")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if contact.Type != model.ContactTypeManual {
		t.Errorf("expected manual contact type, got %q", contact.Type)
	}
	if contact.Company != "Props Ltd" {
		t.Errorf("expected company to round-trip, got %q", contact.Company)
	}

	CreateContact(ctx, database, "dave@example.com", "Dave Sets", "", "")

	all, err := ListContacts(ctx, database, "")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(all))
	}

	filtered, err := ListContacts(ctx, database, "CAROL")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Email != "carol@example.com" {
		t.Errorf("expected case-insensitive match on Carol, got %+v", filtered)
	}
}

func TestGetContactMissing(t *testing.T) {
	database := db.NewTestDB(t)

	contact, err := GetContact(context.Background(), database, 42)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if contact != nil {
		t.Error("expected nil for missing contact")
	}
}
