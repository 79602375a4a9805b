package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/plink/plink/internal/db"
	"github.com/plink/plink/internal/model"
)

func testLocation() *model.Location {
	return &model.Location{
		FullName:          "Ada Lovelace",
		Email:             "ada@example.com",
		PhoneNumber:       "07700 900123",
		Street:            "1 High Street",
		City:              "London",
		Postcode:          "SW1A 1AA",
		PropertyType:      "Cottage",
		PropertyStyleTags: []string{"Victorian", "Shabby Chic / Bohemian"},
		Rooms:             []string{"Kitchen", "Garden"},
		InteriorFeatures:  []string{"Aga"},
		ExteriorFeatures:  []string{"Greenhouse"},
		ImageURLs:         []string{"/media/a", "/media/b"},
	}
}

func mustCreateLocation(t *testing.T, database *sql.DB, loc *model.Location) *model.Location {
	t.Helper()
	created, err := CreateLocation(context.Background(), database, loc)
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	return created
}

func TestCreateAndGetLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created := mustCreateLocation(t, database, testLocation())
	if created.Status != model.StatusPending {
		t.Errorf("expected new listing to be pending, got %q", created.Status)
	}

	got, err := GetLocation(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if got.PropertyType != "Cottage" {
		t.Errorf("expected property type 'Cottage', got %q", got.PropertyType)
	}
	if len(got.Rooms) != 2 || got.Rooms[0] != "Kitchen" {
		t.Errorf("expected rooms to round-trip, got %v", got.Rooms)
	}
	if len(got.ImageURLs) != 2 {
		t.Errorf("expected 2 image urls, got %v", got.ImageURLs)
	}
	if got.HasCoordinates() {
		t.Error("expected no coordinates on a fresh listing")
	}

	missing, err := GetLocation(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetLocation missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing listing")
	}
}

func TestCreateLocationNormalizesNilTagSets(t *testing.T) {
	database := db.NewTestDB(t)

	loc := testLocation()
	loc.InteriorFeatures = nil
	loc.ExteriorFeatures = nil
	created := mustCreateLocation(t, database, loc)

	if created.InteriorFeatures == nil || created.ExteriorFeatures == nil {
		t.Error("expected empty tag sets, not nil")
	}
	if len(created.InteriorFeatures) != 0 {
		t.Errorf("expected no interior features, got %v", created.InteriorFeatures)
	}
}

func TestSearchLocationsOnlyLive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	pending := mustCreateLocation(t, database, testLocation())

	results, err := SearchLocations(ctx, database, model.SearchFilters{})
	if err != nil {
		t.Fatalf("SearchLocations: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected pending listings to be hidden, got %d results", len(results))
	}

	if err := ApproveLocation(ctx, database, pending.ID, "admin@plink.test"); err != nil {
		t.Fatalf("ApproveLocation: %v", err)
	}

	results, err = SearchLocations(ctx, database, model.SearchFilters{})
	if err != nil {
		t.Fatalf("SearchLocations: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 live listing, got %d", len(results))
	}
}

func TestSearchLocationsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cottage := mustCreateLocation(t, database, testLocation())

	flat := testLocation()
	flat.Email = "bob@example.com"
	flat.Postcode = "E1 6AN"
	flat.PropertyType = "Flat / Apartment"
	flat.PropertyStyleTags = []string{"Art Deco"}
	flat.Rooms = []string{"Living Room"}
	flatCreated := mustCreateLocation(t, database, flat)

	ApproveLocation(ctx, database, cottage.ID, "admin@plink.test")
	ApproveLocation(ctx, database, flatCreated.ID, "admin@plink.test")

	cases := []struct {
		name    string
		filters model.SearchFilters
		want    int64
	}{
		{"by property type", model.SearchFilters{PropertyType: "Flat / Apartment"}, flatCreated.ID},
		{"by style era", model.SearchFilters{Age: "Victorian"}, cottage.ID},
		{"by room", model.SearchFilters{Room: "Kitchen"}, cottage.ID},
		{"by postcode prefix", model.SearchFilters{Postcode: "e1"}, flatCreated.ID},
		{"combined", model.SearchFilters{PropertyType: "Cottage", Room: "Garden"}, cottage.ID},
	}
	for _, tc := range cases {
		results, err := SearchLocations(ctx, database, tc.filters)
		if err != nil {
			t.Fatalf("%s: SearchLocations: %v", tc.name, err)
		}
		if len(results) != 1 {
			t.Errorf("%s: expected 1 result, got %d", tc.name, len(results))
			continue
		}
		if results[0].ID != tc.want {
			t.Errorf("%s: expected listing %d, got %d", tc.name, tc.want, results[0].ID)
		}
	}
}

func TestModerationTransitions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc := mustCreateLocation(t, database, testLocation())

	if err := DraftLocation(ctx, database, loc.ID, "admin@plink.test", "Needs daylight photos"); err != nil {
		t.Fatalf("DraftLocation: %v", err)
	}
	got, _ := GetLocation(ctx, database, loc.ID)
	if got.Status != model.StatusDraft {
		t.Errorf("expected draft, got %q", got.Status)
	}
	if got.AdminMessage != "Needs daylight photos" {
		t.Errorf("expected admin message, got %q", got.AdminMessage)
	}

	if err := ReopenLocation(ctx, database, loc.ID); err != nil {
		t.Fatalf("ReopenLocation: %v", err)
	}
	got, _ = GetLocation(ctx, database, loc.ID)
	if got.Status != model.StatusPending {
		t.Errorf("expected pending after reopen, got %q", got.Status)
	}
	if got.AdminMessage != "" || got.AdminUser != "" {
		t.Error("expected reopen to clear admin fields")
	}

	if err := ApproveLocation(ctx, database, loc.ID, "admin@plink.test"); err != nil {
		t.Fatalf("ApproveLocation: %v", err)
	}
	got, _ = GetLocation(ctx, database, loc.ID)
	if got.Status != model.StatusLive {
		t.Errorf("expected live, got %q", got.Status)
	}
	if got.AdminUser != "admin@plink.test" {
		t.Errorf("expected acting admin recorded, got %q", got.AdminUser)
	}
}

func TestModerationConflicts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc := mustCreateLocation(t, database, testLocation())
	if err := ApproveLocation(ctx, database, loc.ID, "first@plink.test"); err != nil {
		t.Fatalf("ApproveLocation: %v", err)
	}

	// A second admin acting on stale state must get a conflict, not a
	// silent overwrite.
	if err := ApproveLocation(ctx, database, loc.ID, "second@plink.test"); !errors.Is(err, ErrStatusConflict) {
		t.Errorf("expected ErrStatusConflict approving a live listing, got %v", err)
	}
	if err := DraftLocation(ctx, database, loc.ID, "second@plink.test", "msg"); !errors.Is(err, ErrStatusConflict) {
		t.Errorf("expected ErrStatusConflict drafting a live listing, got %v", err)
	}
	if err := ReopenLocation(ctx, database, loc.ID); !errors.Is(err, ErrStatusConflict) {
		t.Errorf("expected ErrStatusConflict reopening a live listing, got %v", err)
	}

	got, _ := GetLocation(ctx, database, loc.ID)
	if got.AdminUser != "first@plink.test" {
		t.Errorf("expected first admin to stick, got %q", got.AdminUser)
	}
}

func TestAssignAdminKeepsStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc := mustCreateLocation(t, database, testLocation())
	if err := AssignAdmin(ctx, database, loc.ID, "admin@plink.test"); err != nil {
		t.Fatalf("AssignAdmin: %v", err)
	}

	got, _ := GetLocation(ctx, database, loc.ID)
	if got.AdminUser != "admin@plink.test" {
		t.Errorf("expected assigned admin, got %q", got.AdminUser)
	}
	if got.Status != model.StatusPending {
		t.Errorf("expected status unchanged, got %q", got.Status)
	}

	if err := AssignAdmin(ctx, database, 9999, "admin@plink.test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing listing, got %v", err)
	}
}

func TestListModerationQueue(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first := mustCreateLocation(t, database, testLocation())
	second := mustCreateLocation(t, database, testLocation())
	live := mustCreateLocation(t, database, testLocation())
	ApproveLocation(ctx, database, live.ID, "admin@plink.test")
	DraftLocation(ctx, database, second.ID, "admin@plink.test", "msg")

	queue, err := ListModerationQueue(ctx, database)
	if err != nil {
		t.Fatalf("ListModerationQueue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected 2 queued listings, got %d", len(queue))
	}
	// Newest first; live listings excluded.
	if queue[0].ID != second.ID || queue[1].ID != first.ID {
		t.Errorf("unexpected queue order: %d, %d", queue[0].ID, queue[1].ID)
	}
}

func TestPostcodeExists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc := mustCreateLocation(t, database, testLocation())

	found, id, err := PostcodeExists(ctx, database, " sw1a 1aa ")
	if err != nil {
		t.Fatalf("PostcodeExists: %v", err)
	}
	if !found || id != loc.ID {
		t.Errorf("expected listing %d, got found=%v id=%d", loc.ID, found, id)
	}

	found, _, err = PostcodeExists(ctx, database, "EC1A 1BB")
	if err != nil {
		t.Fatalf("PostcodeExists: %v", err)
	}
	if found {
		t.Error("expected no match for unused postcode")
	}
}

func TestCountByPropertyType(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreateLocation(t, database, testLocation())
	mustCreateLocation(t, database, testLocation())
	flat := testLocation()
	flat.PropertyType = "Flat / Apartment"
	mustCreateLocation(t, database, flat)

	counts, err := CountByPropertyType(ctx, database)
	if err != nil {
		t.Fatalf("CountByPropertyType: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(counts))
	}
	if counts[0].Category != "Cottage" || counts[0].Count != 2 {
		t.Errorf("expected Cottage x2 first, got %+v", counts[0])
	}
}

func TestListDistinctOwners(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustCreateLocation(t, database, testLocation())
	mustCreateLocation(t, database, testLocation()) // same owner, second listing

	other := testLocation()
	other.Email = "bob@example.com"
	other.FullName = "Bob Builder"
	mustCreateLocation(t, database, other)

	owners, err := ListDistinctOwners(ctx, database, "")
	if err != nil {
		t.Fatalf("ListDistinctOwners: %v", err)
	}
	if len(owners) != 2 {
		t.Fatalf("expected 2 distinct owners, got %d", len(owners))
	}
	for _, o := range owners {
		if o.Type != model.ContactTypeOwner {
			t.Errorf("expected owner contact type, got %q", o.Type)
		}
	}

	owners, err = ListDistinctOwners(ctx, database, "bob")
	if err != nil {
		t.Fatalf("ListDistinctOwners: %v", err)
	}
	if len(owners) != 1 || owners[0].Email != "bob@example.com" {
		t.Errorf("expected filtered owner, got %+v", owners)
	}
}
