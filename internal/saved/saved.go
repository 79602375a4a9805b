// Package saved keeps each user's saved listings in Redis, keyed by user ID.
// Saved entries are denormalized listing snapshots, so the list endpoint can
// serve them without touching the relational store.
package saved

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/plink/plink/internal/model"
)

// Store holds saved listings in one Redis hash per user.
type Store struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func key(userID int64) string {
	return fmt.Sprintf("saved:%d", userID)
}

// Add saves a listing snapshot for the user. Saving an already saved listing
// overwrites the snapshot, so the operation is idempotent.
func (s *Store) Add(ctx context.Context, userID int64, loc *model.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encoding saved listing: %w", err)
	}
	if err := s.client.HSet(ctx, key(userID), strconv.FormatInt(loc.ID, 10), data).Err(); err != nil {
		return fmt.Errorf("saving listing %d for user %d: %w", loc.ID, userID, err)
	}
	return nil
}

// Remove unsaves a listing. Removing a listing that is not saved is a no-op.
func (s *Store) Remove(ctx context.Context, userID, locationID int64) error {
	if err := s.client.HDel(ctx, key(userID), strconv.FormatInt(locationID, 10)).Err(); err != nil {
		return fmt.Errorf("removing saved listing %d for user %d: %w", locationID, userID, err)
	}
	return nil
}

// IsSaved reports whether the user has saved the listing.
func (s *Store) IsSaved(ctx context.Context, userID, locationID int64) (bool, error) {
	saved, err := s.client.HExists(ctx, key(userID), strconv.FormatInt(locationID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("checking saved listing %d for user %d: %w", locationID, userID, err)
	}
	return saved, nil
}

// List returns the user's saved listings ordered by listing ID.
func (s *Store) List(ctx context.Context, userID int64) ([]model.Location, error) {
	entries, err := s.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing saved listings for user %d: %w", userID, err)
	}

	locations := make([]model.Location, 0, len(entries))
	for _, raw := range entries {
		var loc model.Location
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			return nil, fmt.Errorf("decoding saved listing: %w", err)
		}
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

// Clear removes all of the user's saved listings.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("clearing saved listings for user %d: %w", userID, err)
	}
	return nil
}
