package world

import (
	"context"
	"log/slog"

	"github.com/yohamta/donburi"

	"github.com/KirkDiggler/rpg-gameplay/internal/commands"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
)

// Submit queues a validated command for the next tick. Safe from any goroutine.
func (s *Store) Submit(cmd commands.Command) error {
	if cmd == nil {
		return errors.InvalidArgument("command is required")
	}

	s.queueMu.Lock()
	s.queue = append(s.queue, cmd)
	s.queueMu.Unlock()
	return nil
}

// Pending is the number of commands waiting for the next tick
func (s *Store) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// Apply mutates the target entity immediately. The tick uses it to drain the
// queue; other callers must already be on the tick goroutine.
func (s *Store) Apply(ctx context.Context, cmd commands.Command) error {
	if cmd == nil {
		return errors.InvalidArgument("command is required")
	}

	s.mu.Lock()
	pending, err := s.apply(cmd)
	s.mu.Unlock()

	s.publish(ctx, pending)
	return err
}

// apply must be called with mu held
func (s *Store) apply(cmd commands.Command) ([]pendingEvent, error) {
	entry, err := s.actorEntry(cmd.ComponentID())
	if err != nil {
		slog.Debug("Command for unknown entity",
			"kind", cmd.Kind(),
			"entity_id", cmd.ComponentID(),
		)
		return nil, err
	}
	self := EntityRef{ID: cmd.ComponentID(), Kind: identityComponent.Get(entry).Kind}

	switch c := cmd.(type) {
	case commands.SetPosition:
		transformComponent.Get(entry).Position = c.Position()
		return nil, nil

	case commands.AddItem:
		inv := inventoryComponent.Get(entry)
		item := c.Item()
		if inv.Has(item.ID) {
			return nil, errors.AlreadyExistsf("item %s already held by %s", item.ID, self.ID)
		}
		inv.AddItem(item)
		return nil, nil

	case commands.EquipWeapon:
		return s.equip(entry, self, inventory.SlotWeapon, c.ItemID()), nil

	case commands.EquipArmor:
		return s.equip(entry, self, inventory.SlotArmor, c.ItemID()), nil

	case commands.Unequip:
		return s.unequip(entry, self, equipSlot(c.Slot())), nil

	case commands.RemoveItem:
		inv := inventoryComponent.Get(entry)
		if _, ok := inv.RemoveItem(c.ItemID()); ok {
			return nil, nil
		}
		if inv.Has(c.ItemID()) {
			return nil, errors.FailedPreconditionf("item %s is equipped by %s", c.ItemID(), self.ID)
		}
		return nil, errors.NotFoundf("item %s not held by %s", c.ItemID(), self.ID)

	case commands.PlayAnimation:
		animationComponent.Get(entry).Play(c.AnimationIndex(), c.Speed())
		return nil, nil

	case commands.PauseAnimation:
		animationComponent.Get(entry).Pause()
		return nil, nil

	case commands.ResumeAnimation:
		animationComponent.Get(entry).Resume()
		return nil, nil

	case commands.OpenDialogue:
		if s.dialogue == nil {
			return nil, errors.FailedPreconditionf("no dialogue content loaded")
		}
		if err := dialogueComponent.Get(entry).Open(s.dialogue, c.NPCID(), c.NPCName(), c.Node()); err != nil {
			return nil, err
		}
		return []pendingEvent{{
			eventType: EventDialogueOpened,
			source:    self,
			target:    EntityRef{ID: c.NPCID(), Kind: KindNPC},
		}}, nil

	case commands.SelectDialogueOption:
		if s.dialogue == nil {
			return nil, errors.FailedPreconditionf("no dialogue content loaded")
		}
		return s.dialogueStep(entry, self, func() error {
			return dialogueComponent.Get(entry).Select(s.dialogue, c.Index())
		})

	case commands.MoveDialogueCursor:
		dialogueComponent.Get(entry).MoveCursor(c.Delta())
		return nil, nil

	case commands.ConfirmDialogue:
		if s.dialogue == nil {
			return nil, errors.FailedPreconditionf("no dialogue content loaded")
		}
		return s.dialogueStep(entry, self, func() error {
			return dialogueComponent.Get(entry).Confirm(s.dialogue)
		})

	case commands.CloseDialogue:
		return s.dialogueStep(entry, self, func() error {
			dialogueComponent.Get(entry).Close()
			return nil
		})

	default:
		return nil, errors.Unimplementedf("command kind %s not supported", cmd.Kind())
	}
}

func (s *Store) equip(entry *donburi.Entry, self EntityRef, slot inventory.Slot, itemID string) []pendingEvent {
	if !inventoryComponent.Get(entry).Equip(slot, itemID) {
		return nil
	}
	return []pendingEvent{{
		eventType: EventItemEquipped,
		source:    self,
		target:    EntityRef{ID: itemID, Kind: KindItem},
	}}
}

// unequip reports the item that left the slot. An empty slot is a no-op.
func (s *Store) unequip(entry *donburi.Entry, self EntityRef, slot inventory.Slot) []pendingEvent {
	inv := inventoryComponent.Get(entry)

	var itemID string
	switch {
	case slot == inventory.SlotWeapon && inv.EquippedWeapon != nil:
		itemID = inv.EquippedWeapon.ID
	case slot == inventory.SlotArmor && inv.EquippedArmor != nil:
		itemID = inv.EquippedArmor.ID
	}

	if !inv.Unequip(slot) {
		return nil
	}
	return []pendingEvent{{
		eventType: EventItemUnequipped,
		source:    self,
		target:    EntityRef{ID: itemID, Kind: KindItem},
	}}
}

func equipSlot(name string) inventory.Slot {
	if name == commands.SlotArmor {
		return inventory.SlotArmor
	}
	return inventory.SlotWeapon
}

// dialogueStep runs step and reports a close if it ended the conversation
func (s *Store) dialogueStep(entry *donburi.Entry, self EntityRef, step func() error) ([]pendingEvent, error) {
	state := dialogueComponent.Get(entry)
	wasOpen := state.IsOpen
	npc := EntityRef{ID: state.CurrentNPCID, Kind: KindNPC}

	err := step()

	if wasOpen && !state.IsOpen {
		return []pendingEvent{{eventType: EventDialogueClosed, source: self, target: npc}}, err
	}
	return nil, err
}
