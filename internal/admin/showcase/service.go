// Package showcase manages the active-display set: the repositories
// the owner has flagged for the public landing page. The set lives in
// a Firestore collection keyed by repository name; a snapshot watcher
// mirrors it into memory so screens read current membership without a
// round trip.
package showcase

import (
	"context"
	"errors"
	"time"
)

// Entry is one active-display document. ID always equals the
// repository name: the toggle keys documents by name, so at most one
// entry exists per repository.
type Entry struct {
	ID          string
	Name        string
	Description string
	URL         string
	Topics      []string
	UpdatedAt   time.Time
}

// ErrUnknownRepo is returned when a toggle names a repository the
// owner's list does not contain. No store mutation happens.
var ErrUnknownRepo = errors.New("showcase: unknown repository")

// Snapshots is a live feed over the active-display collection. Each
// Next delivers the full current document set, replacing anything the
// consumer held before.
type Snapshots interface {
	// Next blocks until the collection changes and returns the
	// complete entry set in store order.
	Next() ([]Entry, error)
	// Stop tears the stream down. Next returns an error afterwards.
	Stop()
}

// Store is the active-display collection.
type Store interface {
	// Put creates or replaces the entry keyed by entry.Name.
	Put(ctx context.Context, entry Entry) error
	// Remove deletes the entry keyed by name. Removing an absent
	// entry is not an error.
	Remove(ctx context.Context, name string) error
	// List returns the current entry set in store order.
	List(ctx context.Context) ([]Entry, error)
	// Watch opens a snapshot stream over the collection. The stream
	// delivers the current set immediately and again on every change.
	Watch(ctx context.Context) (Snapshots, error)
}
