package commands

import (
	"encoding/json"
	"log/slog"
	"math"
	"reflect"
	"strings"

	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Messages returned to script callers. They are matched verbatim by scripts
// and tests.
const (
	ErrPositionShape   = "Position must be an array of 3 numbers"
	ErrComponentID     = "Component id must be a non-empty string"
	ErrItemShape       = "Item must be a table with a non-empty string id"
	ErrItemID          = "Item id must be a non-empty string"
	ErrAnimationIndex  = "Animation index must be a non-negative integer"
	ErrAnimationSpeed  = "Animation speed must be a number"
	ErrDialogueNode    = "Dialogue node must be a non-empty string"
	ErrDialogueNPC     = "NPC id and name must be strings"
	ErrOptionIndex     = "Option index must be a non-negative integer"
	ErrEquipSlot       = "Slot must be \"weapon\" or \"armor\""
	ErrCursorDelta     = "Cursor delta must be an integer"
	positionComponents = 3
)

// Bridge validates dynamic values into commands.
//
// The zero value is strict: a position element that is not a finite number
// fails the whole command. CoerceInvalidNumbers restores the legacy behavior
// of reading such elements as 0.
type Bridge struct {
	CoerceInvalidNumbers bool
}

var strict = Bridge{}

// NewSetPosition validates a script-supplied position using the strict bridge
func NewSetPosition(componentID string, position any) (Command, error) {
	return strict.SetPosition(componentID, position)
}

// NewAddItem validates a script-supplied item using the strict bridge
func NewAddItem(componentID string, item any) (Command, error) {
	return strict.AddItem(componentID, item)
}

// NewEquipWeapon validates an equip request using the strict bridge
func NewEquipWeapon(componentID string, itemID any) (Command, error) {
	return strict.EquipWeapon(componentID, itemID)
}

// NewEquipArmor validates an equip request using the strict bridge
func NewEquipArmor(componentID string, itemID any) (Command, error) {
	return strict.EquipArmor(componentID, itemID)
}

// NewPlayAnimation validates an animation request using the strict bridge
func NewPlayAnimation(componentID string, index, speed any) (Command, error) {
	return strict.PlayAnimation(componentID, index, speed)
}

// NewPauseAnimation validates a pause request using the strict bridge
func NewPauseAnimation(componentID string) (Command, error) {
	return strict.PauseAnimation(componentID)
}

// NewOpenDialogue validates a dialogue request using the strict bridge
func NewOpenDialogue(componentID string, npcID, npcName, node any) (Command, error) {
	return strict.OpenDialogue(componentID, npcID, npcName, node)
}

// NewSelectDialogueOption validates an option choice using the strict bridge
func NewSelectDialogueOption(componentID string, index any) (Command, error) {
	return strict.SelectDialogueOption(componentID, index)
}

// NewCloseDialogue validates a close request using the strict bridge
func NewCloseDialogue(componentID string) (Command, error) {
	return strict.CloseDialogue(componentID)
}

// NewUnequip validates an unequip request using the strict bridge
func NewUnequip(componentID string, slot any) (Command, error) {
	return strict.Unequip(componentID, slot)
}

// NewRemoveItem validates a drop request using the strict bridge
func NewRemoveItem(componentID string, itemID any) (Command, error) {
	return strict.RemoveItem(componentID, itemID)
}

// NewResumeAnimation validates a resume request using the strict bridge
func NewResumeAnimation(componentID string) (Command, error) {
	return strict.ResumeAnimation(componentID)
}

// NewMoveDialogueCursor validates a cursor move using the strict bridge
func NewMoveDialogueCursor(componentID string, delta any) (Command, error) {
	return strict.MoveDialogueCursor(componentID, delta)
}

// NewConfirmDialogue validates a confirm request using the strict bridge
func NewConfirmDialogue(componentID string) (Command, error) {
	return strict.ConfirmDialogue(componentID)
}

// SetPosition builds a SetPosition from a sequence of exactly three numbers
func (b Bridge) SetPosition(componentID string, position any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	elems, ok := sequence(position)
	if !ok || len(elems) != positionComponents {
		return nil, errors.InvalidArgument(ErrPositionShape).
			WithMeta("component_id", componentID)
	}

	var pos entities.Vec3
	for axis, elem := range elems {
		f, ok := float32Number(elem)
		if !ok {
			if !b.CoerceInvalidNumbers {
				return nil, errors.InvalidArgument(ErrPositionShape).
					WithMeta("component_id", componentID).
					WithMeta("axis", axis)
			}
			slog.Warn("Coerced non-numeric position element to zero",
				"component_id", componentID,
				"axis", axis,
			)
			f = 0
		}
		pos[axis] = float32(f)
	}

	return SetPosition{target: t, position: pos}, nil
}

// AddItem builds an AddItem from a table with at least a string id
func (b Bridge) AddItem(componentID string, item any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	fields, ok := item.(map[string]any)
	if !ok {
		return nil, errors.InvalidArgument(ErrItemShape)
	}
	id, ok := nonEmptyString(fields["id"])
	if !ok {
		return nil, errors.InvalidArgument(ErrItemShape)
	}

	data := entities.ComponentData{ID: id}
	data.Name, _ = fields["name"].(string)
	data.ModelID, _ = fields["model_id"].(string)
	if itemType, ok := fields["type"].(string); ok {
		data.Type = entities.ItemType(itemType)
	}

	if raw, present := fields["stats"]; present {
		stats, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.InvalidArgument(ErrItemShape).WithMeta("field", "stats")
		}
		data.Stats = make(map[string]float32, len(stats))
		for name, value := range stats {
			f, ok := float32Number(value)
			if !ok {
				return nil, errors.InvalidArgument(ErrItemShape).WithMeta("field", "stats."+name)
			}
			data.Stats[name] = float32(f)
		}
	}

	return AddItem{target: t, item: data}, nil
}

// EquipWeapon builds an EquipWeapon for the given item id
func (b Bridge) EquipWeapon(componentID string, itemID any) (Command, error) {
	t, id, err := equipArgs(componentID, itemID)
	if err != nil {
		return nil, err
	}
	return EquipWeapon{target: t, itemID: id}, nil
}

// EquipArmor builds an EquipArmor for the given item id
func (b Bridge) EquipArmor(componentID string, itemID any) (Command, error) {
	t, id, err := equipArgs(componentID, itemID)
	if err != nil {
		return nil, err
	}
	return EquipArmor{target: t, itemID: id}, nil
}

// PlayAnimation builds a PlayAnimation. A nil speed means normal rate.
func (b Bridge) PlayAnimation(componentID string, index, speed any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	idx, ok := nonNegativeInt(index)
	if !ok {
		return nil, errors.InvalidArgument(ErrAnimationIndex)
	}

	rate := 1.0
	if speed != nil {
		if rate, ok = float32Number(speed); !ok {
			return nil, errors.InvalidArgument(ErrAnimationSpeed)
		}
	}

	return PlayAnimation{target: t, animationIndex: idx, speed: float32(rate)}, nil
}

// PauseAnimation builds a PauseAnimation
func (b Bridge) PauseAnimation(componentID string) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}
	return PauseAnimation{target: t}, nil
}

// OpenDialogue builds an OpenDialogue. NPC id and name may be omitted.
func (b Bridge) OpenDialogue(componentID string, npcID, npcName, node any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	nodeID, ok := nonEmptyString(node)
	if !ok {
		return nil, errors.InvalidArgument(ErrDialogueNode)
	}
	id, ok := optionalString(npcID)
	if !ok {
		return nil, errors.InvalidArgument(ErrDialogueNPC)
	}
	name, ok := optionalString(npcName)
	if !ok {
		return nil, errors.InvalidArgument(ErrDialogueNPC)
	}

	return OpenDialogue{target: t, npcID: id, npcName: name, node: nodeID}, nil
}

// SelectDialogueOption builds a SelectDialogueOption. Bounds are checked
// against the live dialogue when the command is applied.
func (b Bridge) SelectDialogueOption(componentID string, index any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	idx, ok := nonNegativeInt(index)
	if !ok {
		return nil, errors.InvalidArgument(ErrOptionIndex)
	}

	return SelectDialogueOption{target: t, index: idx}, nil
}

// CloseDialogue builds a CloseDialogue
func (b Bridge) CloseDialogue(componentID string) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}
	return CloseDialogue{target: t}, nil
}

// Unequip builds an Unequip for the weapon or armor slot
func (b Bridge) Unequip(componentID string, slot any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	name, _ := slot.(string)
	if name != SlotWeapon && name != SlotArmor {
		return nil, errors.InvalidArgument(ErrEquipSlot)
	}

	return Unequip{target: t, slot: name}, nil
}

// RemoveItem builds a RemoveItem for the given item id
func (b Bridge) RemoveItem(componentID string, itemID any) (Command, error) {
	t, id, err := equipArgs(componentID, itemID)
	if err != nil {
		return nil, err
	}
	return RemoveItem{target: t, itemID: id}, nil
}

// ResumeAnimation builds a ResumeAnimation
func (b Bridge) ResumeAnimation(componentID string) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}
	return ResumeAnimation{target: t}, nil
}

// MoveDialogueCursor builds a MoveDialogueCursor. The move is clamped to the
// live options when applied.
func (b Bridge) MoveDialogueCursor(componentID string, delta any) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}

	d, ok := integer(delta)
	if !ok {
		return nil, errors.InvalidArgument(ErrCursorDelta)
	}

	return MoveDialogueCursor{target: t, delta: d}, nil
}

// ConfirmDialogue builds a ConfirmDialogue
func (b Bridge) ConfirmDialogue(componentID string) (Command, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return nil, err
	}
	return ConfirmDialogue{target: t}, nil
}

func newTarget(componentID string) (target, error) {
	if strings.TrimSpace(componentID) == "" {
		return target{}, errors.InvalidArgument(ErrComponentID)
	}
	return target{componentID: componentID}, nil
}

func equipArgs(componentID string, itemID any) (target, string, error) {
	t, err := newTarget(componentID)
	if err != nil {
		return target{}, "", err
	}
	id, ok := nonEmptyString(itemID)
	if !ok {
		return target{}, "", errors.InvalidArgument(ErrItemID)
	}
	return t, id, nil
}

// sequence unpacks slices and arrays of any element type
func sequence(v any) ([]any, bool) {
	if elems, ok := v.([]any); ok {
		return elems, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// number converts any Go numeric value to a finite float64
func number(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		default:
			return 0, false
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// float32Number is number restricted to values a float32 holds without
// overflowing to infinity
func float32Number(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return f, true
}

func integer(v any) (int, bool) {
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func nonNegativeInt(v any) (int, bool) {
	i, ok := integer(v)
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func optionalString(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}
