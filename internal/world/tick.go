package world

import (
	"context"
	"log/slog"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"

	"github.com/KirkDiggler/rpg-gameplay/internal/combat"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

var animated = query.NewQuery(filter.Contains(animationComponent))

// QueueDamage records an incoming hit, resolved against the target's defense
// and vitals on the next tick
func (s *Store) QueueDamage(entityID string, amount float32) error {
	if amount < 0 {
		return errors.InvalidArgumentf("damage must not be negative")
	}

	s.mu.Lock()
	entry, err := s.actorEntry(entityID)
	if err == nil && !entry.HasComponent(vitalsComponent) {
		err = errors.FailedPreconditionf("entity %s has no vitals", entityID)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.queueMu.Lock()
	s.hits = append(s.hits, hit{entityID: entityID, amount: amount})
	s.queueMu.Unlock()
	return nil
}

// TickStats summarizes one tick
type TickStats struct {
	Applied  int
	Rejected int
	Hits     int
	Blocked  int
}

// Tick drains queued commands in submission order, advances animations by dt
// seconds and resolves queued hits
func (s *Store) Tick(ctx context.Context, dt float32) TickStats {
	s.queueMu.Lock()
	queue := s.queue
	hits := s.hits
	s.queue = nil
	s.hits = nil
	s.queueMu.Unlock()

	var stats TickStats
	var pending []pendingEvent

	s.mu.Lock()
	for _, cmd := range queue {
		evts, err := s.apply(cmd)
		if err != nil {
			stats.Rejected++
			slog.Warn("Rejected queued command",
				"kind", cmd.Kind(),
				"entity_id", cmd.ComponentID(),
				"error", err,
			)
			continue
		}
		stats.Applied++
		pending = append(pending, evts...)
	}

	animated.Each(s.world, func(entry *donburi.Entry) {
		animationComponent.Get(entry).Update(dt)
	})

	for _, h := range hits {
		evts, ok := s.resolveHit(h)
		if !ok {
			continue
		}
		stats.Hits++
		for _, e := range evts {
			if e.eventType == EventBlockSucceeded {
				stats.Blocked++
			}
		}
		pending = append(pending, evts...)
	}
	s.mu.Unlock()

	s.publish(ctx, pending)
	return stats
}

// resolveHit must be called with mu held
func (s *Store) resolveHit(h hit) ([]pendingEvent, bool) {
	entry, err := s.actorEntry(h.entityID)
	if err != nil || !entry.HasComponent(vitalsComponent) {
		slog.Debug("Dropped hit for missing target", "entity_id", h.entityID)
		return nil, false
	}

	self := EntityRef{ID: h.entityID, Kind: identityComponent.Get(entry).Kind}
	vitals := vitalsComponent.Get(entry)

	taken, used := h.amount, float32(0)
	blocked := false
	if entry.HasComponent(defenseComponent) {
		result := s.resolver.Resolve(defenseComponent.Get(entry), h.amount, vitals.Stamina)
		taken, used = result.DamageTaken, result.StaminaUsed
		blocked = result.Outcome == combat.OutcomeBlocked

		slog.Debug("Resolved block",
			"entity_id", h.entityID,
			"outcome", result.Outcome,
			"damage_taken", taken,
			"stamina_used", used,
		)
	}

	vitals.Stamina = max(vitals.Stamina-used, 0)
	vitals.Health = max(vitals.Health-taken, 0)

	if blocked {
		return []pendingEvent{{eventType: EventBlockSucceeded, source: self}}, true
	}
	return []pendingEvent{{eventType: EventDamageTaken, source: self}}, true
}

// Run ticks at a fixed rate until ctx is done. Each tick advances the
// simulation by exactly one period.
func (s *Store) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		return errors.InvalidArgumentf("tick period must be positive")
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	dt := float32(period.Seconds())
	slog.Info("Tick loop started", "period", period.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("Tick loop stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx, dt)
		}
	}
}
