// Package store persists the editor state as opaque strings under string
// keys.
//
// # Error Types
//
//   - ErrNotFound: the key has never been written.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get for keys that were never written.
var ErrNotFound = errors.New("record not found")

// Store is a string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Open opens the store of the given backend at path.
func Open(backend, path string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendBolt, "":
		s, err = OpenBolt(path)
	case BackendSQLite:
		s, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
