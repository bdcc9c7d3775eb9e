// Package catalog stores named expressions and validates them against the
// evaluator registered for their kind.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is a named expression.
type Entry struct {
	ID         uuid.UUID
	Name       string
	Kind       string
	Expression string
	CreatedAt  time.Time
}

// Store persists catalog entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores an entry, replacing any entry with the same name.
	Put(e Entry) error

	// Get retrieves an entry by name.
	// Returns ErrNotFound if the entry doesn't exist.
	Get(name string) (Entry, error)

	// List returns the entries of a kind ordered by name, or all entries
	// if kind is empty. Returns an empty slice (not error) if none match.
	List(kind string) ([]Entry, error)

	// Delete removes an entry.
	// Returns nil if the entry doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("catalog store closed")
)
