// Package storage persists engine state as whole-document JSON blobs keyed
// by name. Readers fall back to a caller-supplied default when a key is
// missing; writers replace the full document on every mutation.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Document keys owned by the engine.
const (
	KeyTasks        = "tasks"
	KeyProjects     = "projects"
	KeyAchievements = "achievements"
	KeyStats        = "user_stats"
	KeyInsights     = "insights"
	KeySettings     = "notification_settings"
)

type Store interface {
	// Get unmarshals the document stored under key into dest. Returns
	// ErrNotFound when the key is absent or the stored blob is corrupt.
	Get(ctx context.Context, key string, dest any) error
	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, doc any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Load reads key into dest, substituting fallback() on a missing or corrupt
// document. Other errors (I/O, driver) surface to the caller.
func Load[T any](ctx context.Context, s Store, key string, fallback func() T) (T, error) {
	var out T
	err := s.Get(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, ErrNotFound) {
		return fallback(), nil
	}
	return fallback(), err
}
