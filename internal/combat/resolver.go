package combat

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
)

// RollResolution is the die size used to draw a uniform value in [0,1)
const RollResolution = 1 << 20

// Outcome classifies how a block attempt ended
type Outcome string

// Block outcomes
const (
	OutcomeBlocked    Outcome = "blocked"
	OutcomeRollFailed Outcome = "roll_failed"
	OutcomeOnCooldown Outcome = "on_cooldown"
	OutcomeExhausted  Outcome = "exhausted"
)

// Result is the full record of one block attempt
type Result struct {
	Outcome     Outcome
	DamageTaken float32
	StaminaUsed float32
}

// Config holds the dependencies for the resolver
type Config struct {
	Clock  clock.Clock
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Resolver decides block attempts. The roller is injected so resolution is
// deterministic when a scripted roller is supplied.
type Resolver struct {
	clock  clock.Clock
	roller dice.Roller
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		clock:  cfg.Clock,
		roller: cfg.Roller,
	}, nil
}

// Ready reports whether the cooldown since the last successful block has elapsed
func (r *Resolver) Ready(def *DefenseBehavior) bool {
	if def.LastBlock.IsZero() {
		return true
	}
	return clock.Since(r.clock, def.LastBlock) >= def.BlockCooldown
}

// TryBlock attempts to block incomingDamage and returns the damage the entity
// takes and the stamina it spends. Callers pass non-negative values.
func (r *Resolver) TryBlock(def *DefenseBehavior, incomingDamage, currentStamina float32) (damageTaken, staminaUsed float32) {
	result := r.Resolve(def, incomingDamage, currentStamina)
	return result.DamageTaken, result.StaminaUsed
}

// Resolve is TryBlock with the outcome attached.
//
// Only a successful block moves LastBlock. A failed roll leaves the cooldown
// untouched, so the entity may try again on the very next hit.
func (r *Resolver) Resolve(def *DefenseBehavior, incomingDamage, currentStamina float32) Result {
	if !r.Ready(def) {
		return Result{Outcome: OutcomeOnCooldown, DamageTaken: incomingDamage}
	}
	if currentStamina < def.StaminaCost {
		return Result{Outcome: OutcomeExhausted, DamageTaken: incomingDamage}
	}

	roll, ok := r.rollUnit()
	if !ok || roll > float64(def.BlockChance) {
		return Result{Outcome: OutcomeRollFailed, DamageTaken: incomingDamage}
	}

	def.LastBlock = r.clock.Now()
	return Result{Outcome: OutcomeBlocked, DamageTaken: 0, StaminaUsed: def.StaminaCost}
}

// rollUnit draws a uniform value in [0,1)
func (r *Resolver) rollUnit() (float64, bool) {
	n, err := r.roller.Roll(RollResolution)
	if err != nil {
		slog.Warn("Block roll failed, treating as a miss", "error", err)
		return 0, false
	}
	return float64(n-1) / RollResolution, true
}
