package storage

import (
	"context"

	"dayplan/internal/planner"
)

// Repository persists the planner's whole-value state. Replace is called
// after every committed mutation; Load once at startup.
type Repository interface {
	Load(ctx context.Context) (planner.Snapshot, error)
	Replace(ctx context.Context, snap planner.Snapshot) error
	Close() error
}
