package commands

import (
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Parse dispatches a kind-tagged argument map to the matching constructor.
// Transports that carry commands as generic documents (the gRPC bridge)
// use this instead of calling constructors directly.
func (b Bridge) Parse(kind string, args map[string]any) (Command, error) {
	componentID, _ := args["component_id"].(string)

	switch Kind(kind) {
	case KindSetPosition:
		return b.SetPosition(componentID, args["position"])
	case KindAddItem:
		return b.AddItem(componentID, args["item"])
	case KindEquipWeapon:
		return b.EquipWeapon(componentID, args["item_id"])
	case KindEquipArmor:
		return b.EquipArmor(componentID, args["item_id"])
	case KindPlayAnimation:
		return b.PlayAnimation(componentID, args["animation_index"], args["speed"])
	case KindPauseAnimation:
		return b.PauseAnimation(componentID)
	case KindOpenDialogue:
		return b.OpenDialogue(componentID, args["npc_id"], args["npc_name"], args["node"])
	case KindSelectDialogueOption:
		return b.SelectDialogueOption(componentID, args["index"])
	case KindCloseDialogue:
		return b.CloseDialogue(componentID)
	case KindUnequip:
		return b.Unequip(componentID, args["slot"])
	case KindRemoveItem:
		return b.RemoveItem(componentID, args["item_id"])
	case KindResumeAnimation:
		return b.ResumeAnimation(componentID)
	case KindMoveDialogueCursor:
		return b.MoveDialogueCursor(componentID, args["delta"])
	case KindConfirmDialogue:
		return b.ConfirmDialogue(componentID)
	default:
		return nil, errors.InvalidArgumentf("unknown command kind %q", kind)
	}
}
