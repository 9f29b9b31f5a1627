package inventory_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
)

type InventoryTestSuite struct {
	suite.Suite
	inv *inventory.Inventory
}

func TestInventorySuite(t *testing.T) {
	suite.Run(t, new(InventoryTestSuite))
}

func (s *InventoryTestSuite) SetupTest() {
	s.inv = inventory.New()
}

func item(id string) entities.ComponentData {
	return entities.ComponentData{ID: id, Name: id}
}

func (s *InventoryTestSuite) TestEquipSwapsPreviousWeaponBack() {
	s.inv.AddItem(item("A"))
	s.True(s.inv.EquipWeapon(item("A")))

	s.Empty(s.inv.Items)
	s.Require().NotNil(s.inv.EquippedWeapon)
	s.Equal("A", s.inv.EquippedWeapon.ID)

	s.inv.AddItem(item("B"))
	s.True(s.inv.EquipWeapon(item("B")))

	s.Equal([]entities.ComponentData{item("A")}, s.inv.Items)
	s.Equal("B", s.inv.EquippedWeapon.ID)
	s.Equal(2, s.inv.Count())
}

func (s *InventoryTestSuite) TestEquipMissingItemIsNoop() {
	s.inv.AddItem(item("A"))

	s.False(s.inv.EquipWeapon(item("missing")))
	s.False(s.inv.EquipArmor(item("missing")))

	s.Equal([]entities.ComponentData{item("A")}, s.inv.Items)
	s.Nil(s.inv.EquippedWeapon)
	s.Nil(s.inv.EquippedArmor)
}

func (s *InventoryTestSuite) TestEquipItemHeldInOtherSlotIsNoop() {
	s.inv.AddItem(item("A"))
	s.True(s.inv.EquipArmor(item("A")))

	s.False(s.inv.EquipWeapon(item("A")))
	s.Nil(s.inv.EquippedWeapon)
	s.Equal("A", s.inv.EquippedArmor.ID)
	s.Equal(1, s.inv.Count())
}

func (s *InventoryTestSuite) TestAddItemCopies() {
	original := entities.ComponentData{ID: "A", Stats: map[string]float32{"damage": 3}}
	s.inv.AddItem(original)

	original.Stats["damage"] = 100
	s.Equal(float32(3), s.inv.Items[0].Stats["damage"])
}

func (s *InventoryTestSuite) TestUnequip() {
	s.False(s.inv.Unequip(inventory.SlotWeapon))

	s.inv.AddItem(item("A"))
	s.inv.EquipArmor(item("A"))
	s.True(s.inv.Unequip(inventory.SlotArmor))

	s.Nil(s.inv.EquippedArmor)
	s.Equal([]entities.ComponentData{item("A")}, s.inv.Items)
}

func (s *InventoryTestSuite) TestRemoveItem() {
	s.inv.AddItem(item("A"))
	s.inv.AddItem(item("B"))
	s.inv.EquipWeapon(item("B"))

	removed, ok := s.inv.RemoveItem("A")
	s.True(ok)
	s.Equal("A", removed.ID)

	_, ok = s.inv.RemoveItem("B")
	s.False(ok, "equipped items are not removable")
	s.True(s.inv.Has("B"))
	s.False(s.inv.Has("A"))
}

func (s *InventoryTestSuite) TestCloneIsDeep() {
	s.inv.AddItem(entities.ComponentData{ID: "A", Stats: map[string]float32{"armor": 2}})
	s.inv.AddItem(item("B"))
	s.inv.EquipArmor(entities.ComponentData{ID: "A"})

	clone := s.inv.Clone()
	clone.EquippedArmor.Stats["armor"] = 9
	clone.Items[0].Name = "changed"

	s.Equal(float32(2), s.inv.EquippedArmor.Stats["armor"])
	s.Equal("B", s.inv.Items[0].Name)
}

func (s *InventoryTestSuite) TestValidate() {
	s.inv.AddItem(item("A"))
	s.inv.AddItem(item("B"))
	s.inv.EquipWeapon(item("B"))
	s.NoError(s.inv.Validate())

	a := item("A")
	decoded := &inventory.Inventory{Items: []entities.ComponentData{a}, EquippedArmor: &a}
	err := decoded.Validate()
	s.Require().Error(err)
	s.Contains(err.Error(), "equipped_armor")

	s.Error((&inventory.Inventory{Items: []entities.ComponentData{{}}}).Validate())
}

func (s *InventoryTestSuite) TestRandomTransactionsPreserveIdentities() {
	rng := rand.New(rand.NewSource(7))
	added := 0

	for step := 0; step < 2000; step++ {
		switch rng.Intn(5) {
		case 0:
			s.inv.AddItem(item(fmt.Sprintf("item_%d", added)))
			added++
		case 1, 2:
			s.inv.EquipWeapon(item(fmt.Sprintf("item_%d", rng.Intn(added+1))))
		case 3:
			s.inv.EquipArmor(item(fmt.Sprintf("item_%d", rng.Intn(added+1))))
		case 4:
			slot := inventory.SlotWeapon
			if rng.Intn(2) == 0 {
				slot = inventory.SlotArmor
			}
			s.inv.Unequip(slot)
		}

		s.Require().Equal(added, s.inv.Count(), "step %d", step)
		s.assertUnique()
		s.Require().NoError(s.inv.Validate())
	}
}

func (s *InventoryTestSuite) assertUnique() {
	seen := make(map[string]int)
	for _, it := range s.inv.Items {
		seen[it.ID]++
	}
	if s.inv.EquippedWeapon != nil {
		seen[s.inv.EquippedWeapon.ID]++
	}
	if s.inv.EquippedArmor != nil {
		seen[s.inv.EquippedArmor.ID]++
	}
	for id, n := range seen {
		s.Require().Equal(1, n, "item %s held %d times", id, n)
	}
}
