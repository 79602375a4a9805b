package store

import (
	"context"
	"testing"

	"github.com/plink/plink/internal/db"
	"github.com/plink/plink/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice@example.com", "hash123", "07700 900123", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got %q", user.Email)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Phone != "07700 900123" {
		t.Errorf("expected phone to round-trip, got %q", got.Phone)
	}
}

func TestGetUserByEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice@example.com", "hash", "", model.RoleAdmin)

	user, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}

	missing, err := GetUserByEmail(ctx, database, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "dup@example.com", "hash", "", model.RoleUser); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, database, "dup@example.com", "hash2", "", model.RoleUser); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestSoftDeleteFreesEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "recycle@example.com", "hash", "", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// The active-row unique index only guards live users.
	fresh, err := CreateUser(ctx, database, "recycle@example.com", "hash2", "", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser after delete: %v", err)
	}

	// Lookup by email must prefer the active user over the deleted one.
	got, err := GetUserByEmail(ctx, database, "recycle@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != fresh.ID {
		t.Errorf("expected active user %d, got %d", fresh.ID, got.ID)
	}
	if got.DeletedAt != nil {
		t.Error("expected active user, got soft-deleted one")
	}
}

func TestUpdateUserProfileAndPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "edit@example.com", "hash", "", model.RoleUser)

	if err := UpdateUserProfile(ctx, database, user.ID, "07700 900555", "Scout for period dramas"); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Bio != "Scout for period dramas" {
		t.Errorf("expected bio to update, got %q", got.Bio)
	}
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash to update, got %q", got.PasswordHash)
	}
}

func TestListAndCountUsers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "a@example.com", "h", "", model.RoleUser)
	b, _ := CreateUser(ctx, database, "b@example.com", "h", "", model.RoleUser)
	DeleteUser(ctx, database, b.ID)

	users, err := ListUsers(ctx, database)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 active user, got %d", len(users))
	}

	count, err := CountUsers(ctx, database)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}
