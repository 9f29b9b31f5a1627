// Package world is the entity state store: it maps entity ids to their
// gameplay components and is the only place commands mutate them.
//
// Script contexts call Submit from any goroutine. The tick drains the queue,
// so command application is serialized with simulation updates and never
// observed half-applied.
package world

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/yohamta/donburi"

	"github.com/KirkDiggler/rpg-gameplay/internal/animation"
	"github.com/KirkDiggler/rpg-gameplay/internal/combat"
	"github.com/KirkDiggler/rpg-gameplay/internal/commands"
	"github.com/KirkDiggler/rpg-gameplay/internal/dialogue"
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/idgen"
)

// Config holds the dependencies for the store
type Config struct {
	Resolver       *combat.Resolver
	EntityIDs      idgen.Generator
	CollectableIDs idgen.Generator

	// Dialogue resolves dialogue nodes. Without it dialogue commands fail.
	Dialogue dialogue.Source
	// EventBus receives gameplay events. Optional.
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.EntityIDs == nil {
		vb.RequiredField("EntityIDs")
	}
	if c.CollectableIDs == nil {
		vb.RequiredField("CollectableIDs")
	}

	return vb.Build()
}

// Store owns all per-entity gameplay state
type Store struct {
	resolver       *combat.Resolver
	entityIDs      idgen.Generator
	collectableIDs idgen.Generator
	dialogue       dialogue.Source
	bus            events.EventBus

	mu           sync.Mutex
	world        donburi.World
	actors       map[string]donburi.Entity
	collectables map[string]donburi.Entity

	queueMu sync.Mutex
	queue   []commands.Command
	hits    []hit
}

type hit struct {
	entityID string
	amount   float32
}

// New creates an empty store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Store{
		resolver:       cfg.Resolver,
		entityIDs:      cfg.EntityIDs,
		collectableIDs: cfg.CollectableIDs,
		dialogue:       cfg.Dialogue,
		bus:            cfg.EventBus,
		world:          donburi.NewWorld(),
		actors:         make(map[string]donburi.Entity),
		collectables:   make(map[string]donburi.Entity),
	}, nil
}

// SpawnInput describes a new actor
type SpawnInput struct {
	// ID is generated when empty
	ID       string
	Kind     string
	Position entities.Vec3
	// Defense enables blocking. Actors without one take damage directly.
	Defense *combat.DefenseBehavior
	// Vitals enables damage. Actors without them cannot be hit.
	Vitals *entities.Vitals
}

// SpawnOutput is the result of Spawn
type SpawnOutput struct {
	ID string
}

// Spawn adds an actor with empty inventory, idle animation and closed dialogue
func (s *Store) Spawn(ctx context.Context, input *SpawnInput) (*SpawnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Defense != nil {
		if err := input.Defense.Validate(); err != nil {
			return nil, err
		}
	}

	kind := input.Kind
	if kind == "" {
		kind = KindActor
	}

	s.mu.Lock()
	id := input.ID
	if id == "" {
		id = s.entityIDs.Generate()
	}
	if _, exists := s.actors[id]; exists {
		s.mu.Unlock()
		return nil, errors.AlreadyExistsf("entity %s already exists", id)
	}

	components := []donburi.IComponentType{
		identityComponent,
		transformComponent,
		animationComponent,
		inventoryComponent,
		dialogueComponent,
	}
	if input.Defense != nil {
		components = append(components, defenseComponent)
	}
	if input.Vitals != nil {
		components = append(components, vitalsComponent)
	}

	entity := s.world.Create(components...)
	entry := s.world.Entry(entity)
	identityComponent.SetValue(entry, identityData{ID: id, Kind: kind})
	transformComponent.SetValue(entry, transformData{Position: input.Position})
	animationComponent.SetValue(entry, animation.New())
	inventoryComponent.SetValue(entry, *inventory.New())
	dialogueComponent.SetValue(entry, dialogue.State{})
	if input.Defense != nil {
		defenseComponent.SetValue(entry, *input.Defense)
	}
	if input.Vitals != nil {
		vitalsComponent.SetValue(entry, *input.Vitals)
	}
	s.actors[id] = entity
	s.mu.Unlock()

	slog.Debug("Spawned entity", "entity_id", id, "kind", kind)
	s.publish(ctx, []pendingEvent{{eventType: EventEntitySpawned, source: EntityRef{ID: id, Kind: kind}}})

	return &SpawnOutput{ID: id}, nil
}

// Despawn removes an actor and everything it holds
func (s *Store) Despawn(ctx context.Context, id string) error {
	s.mu.Lock()
	entry, err := s.actorEntry(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	kind := identityComponent.Get(entry).Kind
	s.world.Remove(entry.Entity())
	delete(s.actors, id)
	s.mu.Unlock()

	s.publish(ctx, []pendingEvent{{eventType: EventEntityDespawned, source: EntityRef{ID: id, Kind: kind}}})
	return nil
}

// EntityState is a detached copy of an actor's components
type EntityState struct {
	ID        string                  `json:"id"`
	Kind      string                  `json:"kind"`
	Position  entities.Vec3           `json:"position"`
	Animation animation.State         `json:"animation"`
	Inventory *inventory.Inventory    `json:"inventory"`
	Dialogue  *dialogue.State         `json:"dialogue"`
	Defense   *combat.DefenseBehavior `json:"defense,omitempty"`
	Vitals    *entities.Vitals        `json:"vitals,omitempty"`
}

// Lookup returns a copy of an actor's state
func (s *Store) Lookup(id string) (*EntityState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.actorEntry(id)
	if err != nil {
		return nil, err
	}

	state := &EntityState{
		ID:        id,
		Kind:      identityComponent.Get(entry).Kind,
		Position:  transformComponent.Get(entry).Position,
		Animation: *animationComponent.Get(entry),
		Inventory: inventoryComponent.Get(entry).Clone(),
		Dialogue:  dialogueComponent.Get(entry).Clone(),
	}
	if entry.HasComponent(defenseComponent) {
		def := *defenseComponent.Get(entry)
		state.Defense = &def
	}
	if entry.HasComponent(vitalsComponent) {
		vitals := *vitalsComponent.Get(entry)
		state.Vitals = &vitals
	}
	return state, nil
}

// IDs lists the actor ids currently in the store, sorted
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.actors))
	for id := range s.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// actorEntry must be called with mu held
func (s *Store) actorEntry(id string) (*donburi.Entry, error) {
	entity, ok := s.actors[id]
	if !ok || !s.world.Valid(entity) {
		return nil, errors.NotFoundf("entity %s not found", id)
	}
	return s.world.Entry(entity), nil
}
