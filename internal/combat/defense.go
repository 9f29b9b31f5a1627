// Package combat resolves defensive actions against incoming damage
package combat

import (
	"time"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// DefenseBehavior is the block configuration and cooldown state of one entity
type DefenseBehavior struct {
	// BlockChance is the probability in [0,1] that an eligible block succeeds
	BlockChance float32 `json:"block_chance"`

	// BlockCooldown is the minimum time between two successful blocks
	BlockCooldown time.Duration `json:"block_cooldown"`

	// StaminaCost is consumed only by a successful block
	StaminaCost float32 `json:"stamina_cost"`

	// LastBlock is when the last successful block happened. The zero value
	// means the entity has never blocked.
	LastBlock time.Time `json:"last_block"`
}

// Validate checks the configured ranges
func (d *DefenseBehavior) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateFloatRange("BlockChance", float64(d.BlockChance), 0, 1, vb)
	if d.BlockCooldown < 0 {
		vb.Field("BlockCooldown", "must not be negative")
	}
	if d.StaminaCost < 0 {
		vb.Field("StaminaCost", "must not be negative")
	}

	return vb.Build()
}
