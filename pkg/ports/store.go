package ports

import (
	"context"
	"errors"

	"github.com/aretw0/lattice"
)

// ErrSnapshotNotFound is returned when a machine ID has no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists current-state snapshots keyed by a caller-chosen
// machine ID, enabling "stop and resume" of long-lived machines. Only the
// current-state cell is stored; the transition table is rebuilt by the host.
type SnapshotStore interface {
	// Save persists the snapshot for a machine ID, replacing any prior one.
	Save(ctx context.Context, id string, snap lattice.Snapshot) error

	// Load retrieves the snapshot for a machine ID.
	// Returns ErrSnapshotNotFound if none exists.
	Load(ctx context.Context, id string) (lattice.Snapshot, error)

	// Delete removes the snapshot for a machine ID.
	Delete(ctx context.Context, id string) error

	// List returns the machine IDs with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
