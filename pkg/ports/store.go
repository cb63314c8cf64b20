package ports

import (
	"context"

	"github.com/aretw0/lcm/pkg/domain"
)

// RunStore persists the audit trail of pipeline runs.
// Records are written for inspection only; a stored run is never resumed.
type RunStore interface {
	// Save persists the record under its ID, replacing any previous version.
	Save(ctx context.Context, run *domain.RunRecord) error

	// Load retrieves the record for a run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes the record for a run ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored runs, oldest first.
	List(ctx context.Context) ([]string, error)
}
