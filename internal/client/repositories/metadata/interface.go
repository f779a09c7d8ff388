// Package metadata is the local key/value store backing the console's
// persisted session state (the bearer token and the last used email).
package metadata

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has never been set or was
// deleted.
var ErrNotFound = errors.New("metadata: key not found")

type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every given key; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) ([]Entry, error)
}
