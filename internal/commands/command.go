// Package commands is the bridge between dynamically typed script values and
// the simulation. Every Command is built by a validating constructor in this
// package; fields are unexported so no unchecked payload can be assembled
// elsewhere.
package commands

import (
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
)

// Kind discriminates the command variants
type Kind string

// Command kinds
const (
	KindSetPosition          Kind = "set_position"
	KindAddItem              Kind = "add_item"
	KindEquipWeapon          Kind = "equip_weapon"
	KindEquipArmor           Kind = "equip_armor"
	KindPlayAnimation        Kind = "play_animation"
	KindPauseAnimation       Kind = "pause_animation"
	KindOpenDialogue         Kind = "open_dialogue"
	KindSelectDialogueOption Kind = "select_dialogue_option"
	KindCloseDialogue        Kind = "close_dialogue"
	KindUnequip              Kind = "unequip"
	KindRemoveItem           Kind = "remove_item"
	KindResumeAnimation      Kind = "resume_animation"
	KindMoveDialogueCursor   Kind = "move_dialogue_cursor"
	KindConfirmDialogue      Kind = "confirm_dialogue"
)

// Equipment slot names accepted by Unequip
const (
	SlotWeapon = "weapon"
	SlotArmor  = "armor"
)

// Command is a validated instruction addressed to one entity
type Command interface {
	// Kind identifies the variant
	Kind() Kind
	// ComponentID is the entity the command is addressed to
	ComponentID() string

	sealed()
}

type target struct {
	componentID string
}

func (t target) ComponentID() string { return t.componentID }
func (t target) sealed()             {}

// SetPosition moves an entity
type SetPosition struct {
	target
	position entities.Vec3
}

// Kind implements Command
func (SetPosition) Kind() Kind { return KindSetPosition }

// Position is the validated destination
func (c SetPosition) Position() entities.Vec3 { return c.position }

// AddItem grants an item to an entity's unequipped items
type AddItem struct {
	target
	item entities.ComponentData
}

// Kind implements Command
func (AddItem) Kind() Kind { return KindAddItem }

// Item returns a copy of the granted item
func (c AddItem) Item() entities.ComponentData { return c.item.Clone() }

// EquipWeapon moves an unequipped item into the weapon slot
type EquipWeapon struct {
	target
	itemID string
}

// Kind implements Command
func (EquipWeapon) Kind() Kind { return KindEquipWeapon }

// ItemID identifies the item to equip
func (c EquipWeapon) ItemID() string { return c.itemID }

// EquipArmor moves an unequipped item into the armor slot
type EquipArmor struct {
	target
	itemID string
}

// Kind implements Command
func (EquipArmor) Kind() Kind { return KindEquipArmor }

// ItemID identifies the item to equip
func (c EquipArmor) ItemID() string { return c.itemID }

// PlayAnimation starts an animation from time zero
type PlayAnimation struct {
	target
	animationIndex int
	speed          float32
}

// Kind implements Command
func (PlayAnimation) Kind() Kind { return KindPlayAnimation }

// AnimationIndex selects the clip in the entity's animation set
func (c PlayAnimation) AnimationIndex() int { return c.animationIndex }

// Speed is the playback rate multiplier
func (c PlayAnimation) Speed() float32 { return c.speed }

// PauseAnimation stops advancing the current animation
type PauseAnimation struct {
	target
}

// Kind implements Command
func (PauseAnimation) Kind() Kind { return KindPauseAnimation }

// OpenDialogue starts a conversation at a node
type OpenDialogue struct {
	target
	npcID   string
	npcName string
	node    string
}

// Kind implements Command
func (OpenDialogue) Kind() Kind { return KindOpenDialogue }

// NPCID identifies who the entity is talking to
func (c OpenDialogue) NPCID() string { return c.npcID }

// NPCName is the display name of the speaker
func (c OpenDialogue) NPCName() string { return c.npcName }

// Node is the dialogue node to open at
func (c OpenDialogue) Node() string { return c.node }

// SelectDialogueOption follows the option at an index
type SelectDialogueOption struct {
	target
	index int
}

// Kind implements Command
func (SelectDialogueOption) Kind() Kind { return KindSelectDialogueOption }

// Index is the chosen option
func (c SelectDialogueOption) Index() int { return c.index }

// CloseDialogue ends the current conversation
type CloseDialogue struct {
	target
}

// Kind implements Command
func (CloseDialogue) Kind() Kind { return KindCloseDialogue }

// Unequip returns the item in a slot to the unequipped items
type Unequip struct {
	target
	slot string
}

// Kind implements Command
func (Unequip) Kind() Kind { return KindUnequip }

// Slot is SlotWeapon or SlotArmor
func (c Unequip) Slot() string { return c.slot }

// RemoveItem drops an unequipped item from the inventory
type RemoveItem struct {
	target
	itemID string
}

// Kind implements Command
func (RemoveItem) Kind() Kind { return KindRemoveItem }

// ItemID is the item to drop
func (c RemoveItem) ItemID() string { return c.itemID }

// ResumeAnimation continues a paused animation from where it stopped
type ResumeAnimation struct {
	target
}

// Kind implements Command
func (ResumeAnimation) Kind() Kind { return KindResumeAnimation }

// MoveDialogueCursor shifts the dialogue selection cursor
type MoveDialogueCursor struct {
	target
	delta int
}

// Kind implements Command
func (MoveDialogueCursor) Kind() Kind { return KindMoveDialogueCursor }

// Delta is how many options to move; negative moves up
func (c MoveDialogueCursor) Delta() int { return c.delta }

// ConfirmDialogue follows the option under the cursor
type ConfirmDialogue struct {
	target
}

// Kind implements Command
func (ConfirmDialogue) Kind() Kind { return KindConfirmDialogue }
