package store

import (
	"context"
	"testing"

	"github.com/plink/plink/internal/db"
)

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	value, err := GetSetting(ctx, database, "missing")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value for missing key, got %q", value)
	}

	if err := SetSetting(ctx, database, "site_name", "Plink"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "site_name", "Plink Locations"); err != nil {
		t.Fatalf("SetSetting upsert: %v", err)
	}

	value, err = GetSetting(ctx, database, "site_name")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "Plink Locations" {
		t.Errorf("expected upserted value, got %q", value)
	}

	if err := DeleteSetting(ctx, database, "site_name"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	value, _ = GetSetting(ctx, database, "site_name")
	if value != "" {
		t.Errorf("expected deleted key to be gone, got %q", value)
	}
}

func TestGetJWTSecretIsStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 32-byte hex secret, got %d chars", len(first))
	}

	second, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first != second {
		t.Error("expected secret to persist across calls")
	}
}
