// Package session is the durable record of who is logged in for a browser.
//
// Each browser is identified by an opaque session id (sid) carried in a
// cookie.  Under that id the store keeps two independently keyed values, the
// bearer credential and the identity record, plus the one-shot remembered
// redirect target.  The values live in a Storage backend so they survive
// reloads and restarts.
package session

import (
	"context"
	"errors"
)

// Keys stored under a session id.
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyIntended = "intended"
)

// ErrNotFound is returned by Storage.Get and Storage.Take for absent keys.
var ErrNotFound = errors.New("session: key not found")

// Storage is a per-sid key/value namespace in client-durable storage.
type Storage interface {
	// Put writes every key in values or none of them.
	Put(ctx context.Context, sid string, values map[string]string) error
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, sid, key string) (string, error)
	// Take reads and deletes a key in one step.
	Take(ctx context.Context, sid, key string) (string, error)
	// Delete removes the given keys; absent keys are not an error.
	Delete(ctx context.Context, sid string, keys ...string) error
	// Name identifies the backend in health output and logs.
	Name() string
}
