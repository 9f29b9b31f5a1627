package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-gameplay/internal/combat"
	"github.com/KirkDiggler/rpg-gameplay/internal/config"
	"github.com/KirkDiggler/rpg-gameplay/internal/dialogue"
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

const defaultBlockCooldown = 800 * time.Millisecond

var defaultVitals = entities.Vitals{
	Health:     100,
	MaxHealth:  100,
	Stamina:    100,
	MaxStamina: 100,
}

var loggedEvents = []string{
	world.EventEntitySpawned,
	world.EventEntityDespawned,
	world.EventBlockSucceeded,
	world.EventDamageTaken,
	world.EventItemEquipped,
	world.EventItemUnequipped,
	world.EventDialogueOpened,
	world.EventDialogueClosed,
	world.EventCollectablePlaced,
	world.EventCollectablePickedUp,
	world.EventCollectableDespawned,
}

// newStore wires a world store from configuration
func newStore(cfg *config.Config) (*world.Store, error) {
	var content dialogue.Source
	if cfg.DialoguePath != "" {
		loaded, err := dialogue.LoadContentFile(cfg.DialoguePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded dialogue content", "path", cfg.DialoguePath, "nodes", loaded.Len())
		content = loaded
	}

	resolver, err := combat.NewResolver(&combat.Config{
		Clock:  clock.New(),
		Roller: dice.DefaultRoller,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat resolver")
	}

	bus := events.NewBus()
	for _, eventType := range loggedEvents {
		bus.SubscribeFunc(eventType, 100, logEvent)
	}

	store, err := world.New(&world.Config{
		Resolver:       resolver,
		EntityIDs:      idgen.NewUUID("entity"),
		CollectableIDs: idgen.NewUUID("collectable"),
		Dialogue:       content,
		EventBus:       bus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create world store")
	}
	return store, nil
}

func spawnActors(ctx context.Context, store *world.Store, ids []string) error {
	for _, id := range ids {
		vitals := defaultVitals
		if _, err := store.Spawn(ctx, &world.SpawnInput{
			ID:      id,
			Defense: &combat.DefenseBehavior{BlockChance: 0.25, BlockCooldown: defaultBlockCooldown, StaminaCost: 10},
			Vitals:  &vitals,
		}); err != nil {
			return errors.Wrapf(err, "failed to spawn %s", id)
		}
	}
	return nil
}

func logEvent(ctx context.Context, e events.Event) error {
	attrs := []any{"event_type", e.Type()}
	if src := e.Source(); src != nil {
		attrs = append(attrs, "source_id", src.GetID())
	}
	if target := e.Target(); target != nil {
		attrs = append(attrs, "target_id", target.GetID())
	}
	slog.DebugContext(ctx, "Gameplay event", attrs...)
	return nil
}
