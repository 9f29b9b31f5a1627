package world

import (
	"github.com/KirkDiggler/rpg-gameplay/internal/dialogue"
	"github.com/KirkDiggler/rpg-gameplay/internal/entities"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/inventory"
)

// Snapshot is the persisted form of an actor
type Snapshot struct {
	EntityID  string               `json:"entity_id"`
	Position  entities.Vec3        `json:"position"`
	Inventory *inventory.Inventory `json:"inventory"`
	Dialogue  *dialogue.State      `json:"dialogue"`
}

// Validate checks a snapshot before it is restored. Snapshots are read back
// from storage, so they are checked like any other external input.
func (snap *Snapshot) Validate() error {
	if snap.EntityID == "" {
		return errors.InvalidArgument("snapshot entity id is required")
	}
	if snap.Inventory != nil {
		if err := snap.Inventory.Validate(); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid snapshot inventory").
				WithMeta("entity_id", snap.EntityID)
		}
	}
	if snap.Dialogue != nil {
		if err := snap.Dialogue.Validate(); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid snapshot dialogue").
				WithMeta("entity_id", snap.EntityID)
		}
	}
	return nil
}

// Snapshot captures the serializable state of an actor
func (s *Store) Snapshot(id string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.actorEntry(id)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		EntityID:  id,
		Position:  transformComponent.Get(entry).Position,
		Inventory: inventoryComponent.Get(entry).Clone(),
		Dialogue:  dialogueComponent.Get(entry).Clone(),
	}, nil
}

// Restore overwrites an existing actor's serializable state. An invalid
// snapshot is rejected and the actor is left unchanged. The dialogue is
// marked dirty so the presentation layer redraws it.
func (s *Store) Restore(snap *Snapshot) error {
	if snap == nil {
		return errors.InvalidArgument("snapshot is required")
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.actorEntry(snap.EntityID)
	if err != nil {
		return err
	}

	transformComponent.Get(entry).Position = snap.Position

	inv := inventoryComponent.Get(entry)
	if snap.Inventory != nil {
		*inv = *snap.Inventory.Clone()
	} else {
		*inv = *inventory.New()
	}

	dlg := dialogueComponent.Get(entry)
	if snap.Dialogue != nil {
		restored := snap.Dialogue.Clone()
		restored.UIElementID = dlg.UIElementID
		*dlg = *restored
	} else {
		*dlg = dialogue.State{UIElementID: dlg.UIElementID}
	}
	dlg.Dirty = true

	return nil
}
