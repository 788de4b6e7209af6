package repository

import (
	"context"
	"errors"
)

// StateKey is the key the whole application state is stored under
const StateKey = "chore-champions-data"

// ErrNotFound is returned by a Store when nothing has been saved under a key
var ErrNotFound = errors.New("state not found")

// Store is an opaque key/value blob store
type Store interface {
	// Load returns the value saved under key, or ErrNotFound
	Load(ctx context.Context, key string) ([]byte, error)
	// Save writes value under key, replacing anything already there
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Kind names the backend, e.g. "sqlite" or "redis"
	Kind() string
	Close() error
}
