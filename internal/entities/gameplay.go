// Package entities holds the plain data records shared by the gameplay packages
package entities

// Vec3 is a position or direction in world space
type Vec3 [3]float32

// ItemType classifies what an item or collectable is used for
type ItemType string

// Item types
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeResource   ItemType = "resource"
)

// ComponentData is an item record carried in inventories. ID is the item
// identity used by every inventory transfer.
type ComponentData struct {
	ID      string             `json:"id"`
	Name    string             `json:"name,omitempty"`
	ModelID string             `json:"model_id,omitempty"`
	Type    ItemType           `json:"type,omitempty"`
	Stats   map[string]float32 `json:"stats,omitempty"`
}

// Clone returns a copy that shares no map with the receiver
func (c ComponentData) Clone() ComponentData {
	out := c
	if c.Stats != nil {
		out.Stats = make(map[string]float32, len(c.Stats))
		for k, v := range c.Stats {
			out.Stats[k] = v
		}
	}
	return out
}

// RigidBodyHandle is a weak, index-based reference into the physics world.
// The gameplay core stores and forwards it but never dereferences it.
type RigidBodyHandle struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

// Collectable is an item placed in the world waiting to be picked up
type Collectable struct {
	ID              string             `json:"id"`
	ModelID         string             `json:"model_id"`
	Type            ItemType           `json:"collectable_type"`
	Stats           map[string]float32 `json:"collectable_stats,omitempty"`
	RigidBodyHandle RigidBodyHandle    `json:"rigid_body_handle"`
}

// AsItem converts the collectable into the inventory record it becomes on
// pickup. The item keeps the collectable's id.
func (c *Collectable) AsItem() ComponentData {
	return ComponentData{
		ID:      c.ID,
		ModelID: c.ModelID,
		Type:    c.Type,
		Stats:   c.Stats,
	}.Clone()
}

// Vitals are the pools combat resolution draws from
type Vitals struct {
	Health     float32 `json:"health"`
	MaxHealth  float32 `json:"max_health"`
	Stamina    float32 `json:"stamina"`
	MaxStamina float32 `json:"max_stamina"`
}
