package schedule

import (
	"context"
	"errors"
)

// ErrPersistence is returned when a backing store exists but cannot be read,
// decoded or written.
var ErrPersistence = errors.New("schedule persistence failed")

// Repository loads and saves whole schedule snapshots
type Repository interface {
	// Load returns the stored schedule, or an empty one when nothing has
	// been stored yet.
	Load(ctx context.Context) (*Schedule, error)
	// Save replaces the stored schedule with s.
	Save(ctx context.Context, s *Schedule) error
}
