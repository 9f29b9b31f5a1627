// Package gameplay moves entity state between the live world and snapshot
// storage
package gameplay

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/repositories/snapshots"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

// EntityStore is the part of the world store persistence needs
type EntityStore interface {
	IDs() []string
	Snapshot(id string) (*world.Snapshot, error)
	Restore(snap *world.Snapshot) error
}

var _ EntityStore = (*world.Store)(nil)

// Service defines save and load of entity state
type Service interface {
	SaveEntity(ctx context.Context, input *SaveEntityInput) (*SaveEntityOutput, error)
	LoadEntity(ctx context.Context, input *LoadEntityInput) (*LoadEntityOutput, error)
	SaveAll(ctx context.Context, input *SaveAllInput) (*SaveAllOutput, error)
	LoadAll(ctx context.Context, input *LoadAllInput) (*LoadAllOutput, error)
}

// Config holds the dependencies for the gameplay orchestrator
type Config struct {
	Store        EntityStore
	SnapshotRepo snapshots.Repository
	// SnapshotTTL of zero keeps snapshots until overwritten
	SnapshotTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.SnapshotRepo == nil {
		vb.RequiredField("SnapshotRepo")
	}
	if c.SnapshotTTL < 0 {
		vb.Field("SnapshotTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	store EntityStore
	repo  snapshots.Repository
	ttl   time.Duration
}

// NewOrchestrator creates a new gameplay orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		store: cfg.Store,
		repo:  cfg.SnapshotRepo,
		ttl:   cfg.SnapshotTTL,
	}, nil
}

// SaveEntityInput contains the entity to persist
type SaveEntityInput struct {
	EntityID string
}

// SaveEntityOutput contains the persisted snapshot
type SaveEntityOutput struct {
	Snapshot *world.Snapshot
	SavedAt  time.Time
}

// SaveEntity snapshots one live entity into storage
func (o *orchestrator) SaveEntity(ctx context.Context, input *SaveEntityInput) (*SaveEntityOutput, error) {
	if input == nil || input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}

	snap, err := o.store.Snapshot(input.EntityID)
	if err != nil {
		return nil, err
	}

	out, err := o.repo.Save(ctx, &snapshots.SaveInput{Snapshot: snap, TTL: o.ttl})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save entity %s", input.EntityID)
	}

	slog.Debug("Saved entity snapshot", "entity_id", input.EntityID)

	return &SaveEntityOutput{Snapshot: snap, SavedAt: out.SavedAt}, nil
}

// LoadEntityInput contains the entity to restore
type LoadEntityInput struct {
	EntityID string
}

// LoadEntityOutput contains the restored snapshot
type LoadEntityOutput struct {
	Snapshot *world.Snapshot
}

// LoadEntity restores a live entity from its stored snapshot. The entity must
// already be spawned.
func (o *orchestrator) LoadEntity(ctx context.Context, input *LoadEntityInput) (*LoadEntityOutput, error) {
	if input == nil || input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}

	out, err := o.repo.Get(ctx, &snapshots.GetInput{EntityID: input.EntityID})
	if err != nil {
		return nil, err
	}

	if err := o.store.Restore(out.Snapshot); err != nil {
		return nil, errors.Wrapf(err, "failed to restore entity %s", input.EntityID)
	}

	slog.Debug("Loaded entity snapshot", "entity_id", input.EntityID)

	return &LoadEntityOutput{Snapshot: out.Snapshot}, nil
}

// SaveAllInput is empty; every live entity is saved
type SaveAllInput struct{}

// SaveAllOutput reports how the save went
type SaveAllOutput struct {
	Saved  []string
	Failed map[string]error
}

// SaveAll snapshots every live entity, continuing past individual failures
func (o *orchestrator) SaveAll(ctx context.Context, _ *SaveAllInput) (*SaveAllOutput, error) {
	out := &SaveAllOutput{Saved: []string{}, Failed: map[string]error{}}

	for _, id := range o.store.IDs() {
		if err := ctx.Err(); err != nil {
			return out, errors.WrapWithCode(err, errors.CodeCanceled, "save interrupted")
		}
		if _, err := o.SaveEntity(ctx, &SaveEntityInput{EntityID: id}); err != nil {
			slog.Warn("Failed to save entity", "entity_id", id, "error", err)
			out.Failed[id] = err
			continue
		}
		out.Saved = append(out.Saved, id)
	}

	slog.Info("Saved entity snapshots", "saved", len(out.Saved), "failed", len(out.Failed))
	return out, nil
}

// LoadAllInput is empty; every live entity with a snapshot is restored
type LoadAllInput struct{}

// LoadAllOutput lists what was restored
type LoadAllOutput struct {
	Loaded  []string
	Missing []string
	// Rejected holds stored snapshots that failed validation; those entities
	// keep their live state
	Rejected map[string]error
}

// LoadAll restores each live entity that has a stored snapshot
func (o *orchestrator) LoadAll(ctx context.Context, _ *LoadAllInput) (*LoadAllOutput, error) {
	out := &LoadAllOutput{Loaded: []string{}, Missing: []string{}, Rejected: map[string]error{}}

	for _, id := range o.store.IDs() {
		_, err := o.LoadEntity(ctx, &LoadEntityInput{EntityID: id})
		switch {
		case err == nil:
			out.Loaded = append(out.Loaded, id)
		case errors.IsNotFound(err):
			out.Missing = append(out.Missing, id)
		case errors.IsInvalidArgument(err):
			slog.Warn("Rejected stored snapshot", "entity_id", id, "error", err)
			out.Rejected[id] = err
		default:
			return out, err
		}
	}

	return out, nil
}
