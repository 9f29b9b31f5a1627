package world

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on the configured bus
const (
	EventEntitySpawned        = "gameplay.entity.spawned"
	EventEntityDespawned      = "gameplay.entity.despawned"
	EventBlockSucceeded       = "gameplay.block.succeeded"
	EventDamageTaken          = "gameplay.damage.taken"
	EventItemEquipped         = "gameplay.item.equipped"
	EventItemUnequipped       = "gameplay.item.unequipped"
	EventDialogueOpened       = "gameplay.dialogue.opened"
	EventDialogueClosed       = "gameplay.dialogue.closed"
	EventCollectablePlaced    = "gameplay.collectable.placed"
	EventCollectablePickedUp  = "gameplay.collectable.picked_up"
	EventCollectableDespawned = "gameplay.collectable.despawned"
)

// Entity kinds used as core.Entity types
const (
	KindActor       = "actor"
	KindItem        = "item"
	KindCollectable = "collectable"
	KindNPC         = "npc"
)

// EntityRef names a store entity to event subscribers
type EntityRef struct {
	ID   string
	Kind string
}

// GetID returns the entity id
func (r EntityRef) GetID() string {
	return r.ID
}

// GetType returns the entity kind
func (r EntityRef) GetType() string {
	return r.Kind
}

var _ core.Entity = EntityRef{}

type pendingEvent struct {
	eventType string
	source    EntityRef
	target    EntityRef
}

// publish runs outside the store lock so handlers may call back into the store
func (s *Store) publish(ctx context.Context, pending []pendingEvent) {
	if s.bus == nil {
		return
	}

	for _, p := range pending {
		var target core.Entity
		if p.target.ID != "" {
			target = p.target
		}

		if err := s.bus.Publish(ctx, events.NewGameEvent(p.eventType, p.source, target)); err != nil {
			slog.Warn("Failed to publish gameplay event",
				"event_type", p.eventType,
				"source_id", p.source.ID,
				"error", err,
			)
		}
	}
}
