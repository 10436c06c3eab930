// ABOUTME: Charm KV backed workout storage with cloud sync.
// ABOUTME: Each workout is one JSON document under a type-prefixed key.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/fit/internal/models"
)

const (
	charmDBName = "fit"
	charmHost   = "charm.2389.dev"

	// WorkoutPrefix namespaces workout documents in the KV store.
	WorkoutPrefix = "workout:"
)

// ErrReadOnly is returned when another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// kvStore is the subset of the Charm KV API the store relies on.
type kvStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

// CharmStore stores workouts in Charm KV and syncs after writes.
type CharmStore struct {
	kv       kvStore
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time check that CharmStore implements Repository.
var _ Repository = (*CharmStore)(nil)

// OpenCharm opens the fit KV database on the configured Charm host.
func OpenCharm() (*CharmStore, error) {
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(charmDBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	s := newCharmStore(db)

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return s, nil
}

func newCharmStore(db kvStore) *CharmStore {
	return &CharmStore{kv: db, autoSync: true}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *CharmStore) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// IsReadOnly returns true if the database is open in read-only mode.
func (c *CharmStore) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *CharmStore) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SaveWorkout stores a new workout document.
func (c *CharmStore) SaveWorkout(w *models.Workout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal workout: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	key := []byte(WorkoutPrefix + w.ID)
	if _, err := c.kv.Get(key); err == nil {
		return fmt.Errorf("save workout: duplicate id %s", w.ID)
	}
	if err := c.kv.Set(key, data); err != nil {
		return fmt.Errorf("save workout: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (c *CharmStore) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, err := c.resolve(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	data, err := c.kv.Get([]byte(WorkoutPrefix + id))
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return decodeWorkout(data)
}

// ListWorkouts returns workouts newest first.
func (c *CharmStore) ListWorkouts(limit int) ([]*models.Workout, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.workoutKeys()
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	workouts := make([]*models.Workout, 0, len(keys))
	for _, key := range keys {
		data, err := c.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("list workouts: %w", err)
		}
		w, err := decodeWorkout(data)
		if err != nil {
			continue
		}
		workouts = append(workouts, w)
	}

	sortNewestFirst(workouts)
	return applyLimit(workouts, limit), nil
}

// DeleteWorkout removes a workout by ID or ID prefix.
func (c *CharmStore) DeleteWorkout(idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	id, err := c.resolve(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if err := c.kv.Delete([]byte(WorkoutPrefix + id)); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// ID returns the Charm user ID for the linked account.
func (c *CharmStore) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Close closes the KV database connection.
func (c *CharmStore) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// syncIfEnabled calls Sync if autoSync is enabled. Caller holds the lock.
func (c *CharmStore) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

func (c *CharmStore) workoutKeys() ([][]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	prefix := []byte(WorkoutPrefix)
	var out [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out, nil
}

func (c *CharmStore) resolve(idOrPrefix string) (string, error) {
	keys, err := c.workoutKeys()
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, extractID(string(key), WorkoutPrefix))
	}
	return resolvePrefix(ids, idOrPrefix)
}

func decodeWorkout(data []byte) (*models.Workout, error) {
	var w models.Workout
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal workout: %w", err)
	}
	return &w, nil
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
