package media

import (
	"context"
	"strings"
	"testing"

	"github.com/plink/plink/internal/db"
	"github.com/plink/plink/internal/store"
)

func TestDBStoragePutAndDelete(t *testing.T) {
	database := db.NewTestDB(t)
	storage := NewDBStorage(database)
	ctx := context.Background()

	url, err := storage.Put(ctx, "photo-1", strings.NewReader("blobdata"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/media/photo-1" {
		t.Errorf("expected serving path, got %q", url)
	}

	data, mime, err := store.GetMedia(ctx, database, "photo-1")
	if err != nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if string(data) != "blobdata" || mime != "image/jpeg" {
		t.Errorf("expected blob to round-trip, got %q %q", data, mime)
	}

	if err := storage.Delete(ctx, "photo-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	data, _, _ = store.GetMedia(ctx, database, "photo-1")
	if data != nil {
		t.Error("expected deleted media to be gone")
	}
}
