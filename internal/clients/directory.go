// Package clients exposes the client roster to the scheduler. The
// scheduler only needs to resolve a display name at booking time; full
// client records are owned elsewhere.
package clients

import (
	"context"
	"sync"

	"github.com/clinicware/agenda/internal/scheduling"
)

// ErrNotFound aliases the scheduler's sentinel so implementations
// satisfy the engine's errors.Is contract for unknown clients.
var ErrNotFound = scheduling.ErrClientNotFound

// Directory resolves client display names.
type Directory interface {
	// DisplayName returns the client's full name, or ErrNotFound.
	DisplayName(ctx context.Context, clientID string) (string, error)
}

// InMemoryDirectory is a map-backed Directory for tests and for running
// without a database.
type InMemoryDirectory struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewInMemoryDirectory creates an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{names: make(map[string]string)}
}

// Put registers or renames a client.
func (d *InMemoryDirectory) Put(clientID, name string) {
	d.mu.Lock()
	d.names[clientID] = name
	d.mu.Unlock()
}

// DisplayName implements Directory.
func (d *InMemoryDirectory) DisplayName(_ context.Context, clientID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[clientID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}
