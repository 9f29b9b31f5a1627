// Package snapshots persists the serializable state of world entities
package snapshots

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=snapshotsmock github.com/KirkDiggler/rpg-gameplay/internal/repositories/snapshots Repository

// SaveInput contains parameters for storing a snapshot
type SaveInput struct {
	Snapshot *world.Snapshot
	// TTL of zero keeps the snapshot until deleted
	TTL time.Duration
}

// SaveOutput contains the result of storing a snapshot
type SaveOutput struct {
	SavedAt time.Time
}

// GetInput contains parameters for retrieving a snapshot
type GetInput struct {
	EntityID string
}

// GetOutput contains the result of retrieving a snapshot
type GetOutput struct {
	Snapshot *world.Snapshot
	SavedAt  time.Time
}

// DeleteInput contains parameters for deleting a snapshot
type DeleteInput struct {
	EntityID string
}

// DeleteOutput contains the result of deleting a snapshot
type DeleteOutput struct{}

// ListInput contains parameters for listing stored snapshots
type ListInput struct{}

// ListOutput contains the ids of every entity with a stored snapshot
type ListOutput struct {
	EntityIDs []string
}

// Repository defines storage for entity snapshots
type Repository interface {
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}
