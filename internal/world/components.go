package world

import (
	"github.com/yohamta/donburi"

	"github.com/KirkDiggler/rpg-gameplay/internal/animation"
	"github.com/KirkDiggler/rpg-gameplay/internal/combat"
	"github.com/KirkDiggler/rpg-gameplay/internal/dialogue"
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
)

type identityData struct {
	ID   string
	Kind string
}

type transformData struct {
	Position entities.Vec3
}

var (
	identityComponent    = donburi.NewComponentType[identityData]()
	transformComponent   = donburi.NewComponentType[transformData]()
	animationComponent   = donburi.NewComponentType[animation.State]()
	defenseComponent     = donburi.NewComponentType[combat.DefenseBehavior]()
	vitalsComponent      = donburi.NewComponentType[entities.Vitals]()
	inventoryComponent   = donburi.NewComponentType[inventory.Inventory]()
	dialogueComponent    = donburi.NewComponentType[dialogue.State]()
	collectableComponent = donburi.NewComponentType[entities.Collectable]()
)
