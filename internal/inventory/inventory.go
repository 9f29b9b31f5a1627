// Package inventory maintains an entity's items and equipment slots.
//
// An item identity lives in exactly one of Items, EquippedWeapon or
// EquippedArmor. Every transfer removes from one place before filling the
// other, so the total count never changes across an equip or unequip.
package inventory

import (
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Slot names an equipment slot
type Slot string

// Equipment slots
const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
)

// Inventory is the persisted item state of one entity
type Inventory struct {
	Items          []entities.ComponentData `json:"items"`
	EquippedWeapon *entities.ComponentData  `json:"equipped_weapon,omitempty"`
	EquippedArmor  *entities.ComponentData  `json:"equipped_armor,omitempty"`
}

// New returns an empty inventory
func New() *Inventory {
	return &Inventory{Items: []entities.ComponentData{}}
}

// AddItem appends a copy of item to the unequipped items. The caller
// guarantees the same identity is not granted twice.
func (inv *Inventory) AddItem(item entities.ComponentData) {
	inv.Items = append(inv.Items, item.Clone())
}

// EquipWeapon moves the unequipped item with item's id into the weapon slot.
// It reports false and changes nothing when no such unequipped item exists.
func (inv *Inventory) EquipWeapon(item entities.ComponentData) bool {
	return inv.Equip(SlotWeapon, item.ID)
}

// EquipArmor moves the unequipped item with item's id into the armor slot.
// It reports false and changes nothing when no such unequipped item exists.
func (inv *Inventory) EquipArmor(item entities.ComponentData) bool {
	return inv.Equip(SlotArmor, item.ID)
}

// Equip moves an unequipped item into slot, returning the previous occupant
// to the unequipped items first. Items equipped in the other slot are not
// searched, so equipping them is a no-op.
func (inv *Inventory) Equip(slot Slot, itemID string) bool {
	target := inv.slot(slot)
	if target == nil {
		return false
	}

	idx := inv.indexOf(itemID)
	if idx < 0 {
		slog.Debug("Equip ignored, item not in unequipped items",
			"slot", slot,
			"item_id", itemID,
		)
		return false
	}

	item := inv.removeAt(idx)
	if *target != nil {
		inv.Items = append(inv.Items, **target)
	}
	*target = &item

	return true
}

// Unequip moves the item in slot back to the unequipped items. It reports
// false when the slot is empty.
func (inv *Inventory) Unequip(slot Slot) bool {
	target := inv.slot(slot)
	if target == nil || *target == nil {
		return false
	}

	inv.Items = append(inv.Items, **target)
	*target = nil
	return true
}

// RemoveItem takes an unequipped item out of the inventory entirely
func (inv *Inventory) RemoveItem(itemID string) (entities.ComponentData, bool) {
	idx := inv.indexOf(itemID)
	if idx < 0 {
		return entities.ComponentData{}, false
	}
	return inv.removeAt(idx), true
}

// Has reports whether the identity is anywhere in the inventory
func (inv *Inventory) Has(itemID string) bool {
	if inv.indexOf(itemID) >= 0 {
		return true
	}
	if inv.EquippedWeapon != nil && inv.EquippedWeapon.ID == itemID {
		return true
	}
	return inv.EquippedArmor != nil && inv.EquippedArmor.ID == itemID
}

// Count is the number of items held, equipped or not
func (inv *Inventory) Count() int {
	n := len(inv.Items)
	if inv.EquippedWeapon != nil {
		n++
	}
	if inv.EquippedArmor != nil {
		n++
	}
	return n
}

// Validate checks that every held item has an id and that no identity appears
// more than once across the items and both slots. Inventories built through
// the methods above always pass; decoded ones may not.
func (inv *Inventory) Validate() error {
	vb := errors.NewValidationBuilder()
	seen := make(map[string]string, inv.Count())

	check := func(place string, item entities.ComponentData) {
		if item.ID == "" {
			vb.Field(place, "item id must not be empty")
			return
		}
		if first, dup := seen[item.ID]; dup {
			vb.Fieldf(place, "item %q is already held in %s", item.ID, first)
			return
		}
		seen[item.ID] = place
	}

	for i, item := range inv.Items {
		check(fmt.Sprintf("items[%d]", i), item)
	}
	if inv.EquippedWeapon != nil {
		check("equipped_weapon", *inv.EquippedWeapon)
	}
	if inv.EquippedArmor != nil {
		check("equipped_armor", *inv.EquippedArmor)
	}

	return vb.Build()
}

// Clone returns a deep copy
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{Items: make([]entities.ComponentData, len(inv.Items))}
	for i, item := range inv.Items {
		out.Items[i] = item.Clone()
	}
	if inv.EquippedWeapon != nil {
		weapon := inv.EquippedWeapon.Clone()
		out.EquippedWeapon = &weapon
	}
	if inv.EquippedArmor != nil {
		armor := inv.EquippedArmor.Clone()
		out.EquippedArmor = &armor
	}
	return out
}

func (inv *Inventory) slot(slot Slot) **entities.ComponentData {
	switch slot {
	case SlotWeapon:
		return &inv.EquippedWeapon
	case SlotArmor:
		return &inv.EquippedArmor
	default:
		return nil
	}
}

func (inv *Inventory) indexOf(itemID string) int {
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// removeAt deletes by swapping with the last element; item order is not kept
func (inv *Inventory) removeAt(idx int) entities.ComponentData {
	item := inv.Items[idx]
	last := len(inv.Items) - 1
	inv.Items[idx] = inv.Items[last]
	inv.Items = inv.Items[:last]
	return item
}
