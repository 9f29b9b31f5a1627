package world

import (
	"context"
	"log/slog"
	"sort"

	"github.com/yohamta/donburi"

	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// PlaceCollectableInput describes an item dropped into the world. The rigid
// body is created by the physics collaborator before placement.
type PlaceCollectableInput struct {
	ModelID         string
	Type            entities.ItemType
	Stats           map[string]float32
	Position        entities.Vec3
	RigidBodyHandle entities.RigidBodyHandle
}

// PlaceCollectable registers a collectable under a freshly generated id
func (s *Store) PlaceCollectable(ctx context.Context, input *PlaceCollectableInput) (*entities.Collectable, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ModelID == "" {
		return nil, errors.InvalidArgument("model id is required")
	}

	s.mu.Lock()
	c := entities.Collectable{
		ID:              s.collectableIDs.Generate(),
		ModelID:         input.ModelID,
		Type:            input.Type,
		RigidBodyHandle: input.RigidBodyHandle,
	}
	c.Stats = entities.ComponentData{Stats: input.Stats}.Clone().Stats

	entity := s.world.Create(collectableComponent, transformComponent)
	entry := s.world.Entry(entity)
	collectableComponent.SetValue(entry, c)
	transformComponent.SetValue(entry, transformData{Position: input.Position})
	s.collectables[c.ID] = entity
	s.mu.Unlock()

	s.publish(ctx, []pendingEvent{{eventType: EventCollectablePlaced, source: EntityRef{ID: c.ID, Kind: KindCollectable}}})

	return &c, nil
}

// PickUpCollectable moves a collectable into an actor's inventory and removes
// it from the world. The returned handle must be released by the physics
// collaborator. If the actor already holds an item with the collectable's id
// the pickup fails and the collectable stays where it is.
func (s *Store) PickUpCollectable(ctx context.Context, collectableID, entityID string) (entities.RigidBodyHandle, error) {
	s.mu.Lock()
	actor, err := s.actorEntry(entityID)
	if err != nil {
		s.mu.Unlock()
		return entities.RigidBodyHandle{}, err
	}
	entry, err := s.collectableEntry(collectableID)
	if err != nil {
		s.mu.Unlock()
		return entities.RigidBodyHandle{}, err
	}

	c := collectableComponent.Get(entry)
	inv := inventoryComponent.Get(actor)
	if inv.Has(c.ID) {
		s.mu.Unlock()
		return entities.RigidBodyHandle{}, errors.AlreadyExistsf("item %s already held by %s", c.ID, entityID)
	}
	inv.AddItem(c.AsItem())
	handle := c.RigidBodyHandle
	s.removeCollectable(collectableID, entry)
	kind := identityComponent.Get(actor).Kind
	s.mu.Unlock()

	slog.Debug("Collectable picked up",
		"collectable_id", collectableID,
		"entity_id", entityID,
	)
	s.publish(ctx, []pendingEvent{{
		eventType: EventCollectablePickedUp,
		source:    EntityRef{ID: entityID, Kind: kind},
		target:    EntityRef{ID: collectableID, Kind: KindCollectable},
	}})

	return handle, nil
}

// DespawnCollectable removes a collectable without granting it and returns
// its rigid body handle for release
func (s *Store) DespawnCollectable(ctx context.Context, collectableID string) (entities.RigidBodyHandle, error) {
	s.mu.Lock()
	entry, err := s.collectableEntry(collectableID)
	if err != nil {
		s.mu.Unlock()
		return entities.RigidBodyHandle{}, err
	}
	handle := collectableComponent.Get(entry).RigidBodyHandle
	s.removeCollectable(collectableID, entry)
	s.mu.Unlock()

	s.publish(ctx, []pendingEvent{{eventType: EventCollectableDespawned, source: EntityRef{ID: collectableID, Kind: KindCollectable}}})
	return handle, nil
}

// PlacedCollectable is a collectable and where it rests
type PlacedCollectable struct {
	entities.Collectable
	Position entities.Vec3 `json:"position"`
}

// Collectables lists the collectables in the world ordered by id
func (s *Store) Collectables() []PlacedCollectable {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PlacedCollectable, 0, len(s.collectables))
	for _, entity := range s.collectables {
		entry := s.world.Entry(entity)
		c := *collectableComponent.Get(entry)
		c.Stats = entities.ComponentData{Stats: c.Stats}.Clone().Stats
		out = append(out, PlacedCollectable{
			Collectable: c,
			Position:    transformComponent.Get(entry).Position,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// collectableEntry must be called with mu held
func (s *Store) collectableEntry(id string) (*donburi.Entry, error) {
	entity, ok := s.collectables[id]
	if !ok || !s.world.Valid(entity) {
		return nil, errors.NotFoundf("collectable %s not found", id)
	}
	return s.world.Entry(entity), nil
}

func (s *Store) removeCollectable(id string, entry *donburi.Entry) {
	s.world.Remove(entry.Entity())
	delete(s.collectables, id)
}
