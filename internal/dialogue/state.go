// Package dialogue holds the presentation state of one active conversation
// and walks the node graph it is drawn from.
//
// A conversation is Closed, then Open at some node with that node's options
// and a cursor, then Closed again. Closing only clears IsOpen: text, options
// and node stay as they were until the next Open.
package dialogue

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

// Option is an edge to another node, resolved when selected
type Option struct {
	Text     string `json:"text" yaml:"text"`
	NextNode string `json:"next_node" yaml:"next_node"`
}

// State is the dialogue state of one entity.
//
// UIElementID and Dirty belong to the presentation layer and are never
// serialized.
type State struct {
	IsOpen              bool     `json:"is_open"`
	CurrentText         string   `json:"current_text"`
	Options             []Option `json:"options"`
	NPCName             string   `json:"npc_name"`
	CurrentNode         string   `json:"current_node"`
	CurrentNPCID        string   `json:"current_npc_id"`
	SelectedOptionIndex int      `json:"selected_option_index"`

	UIElementID string `json:"-"`
	Dirty       bool   `json:"-"`
}

// Open starts a conversation with an NPC at nodeID. An unknown node leaves the
// state untouched.
func (s *State) Open(src Source, npcID, npcName, nodeID string) error {
	node, ok := src.Node(nodeID)
	if !ok {
		return errors.NotFoundf("dialogue node %q not found", nodeID).
			WithMeta("npc_id", npcID)
	}

	s.CurrentNPCID = npcID
	s.NPCName = npcName
	s.enter(nodeID, node)
	return nil
}

// Select follows the option at index.
//
// With no options this is a no-op. An index past the end is an OutOfRange
// error and changes nothing. An option whose next node is empty ends the
// conversation; one whose next node is missing from src closes the dialogue
// and reports NotFound.
func (s *State) Select(src Source, index int) error {
	if !s.IsOpen {
		return errors.FailedPreconditionf("dialogue is not open")
	}

	if len(s.Options) == 0 {
		slog.Debug("Dialogue selection ignored, node has no options",
			"node", s.CurrentNode,
			"index", index,
		)
		return nil
	}

	if index < 0 || index >= len(s.Options) {
		return errors.OutOfRangef("option %d out of range", index).
			WithMeta("node", s.CurrentNode).
			WithMeta("options", len(s.Options))
	}

	next := s.Options[index].NextNode
	if next == "" {
		s.Close()
		return nil
	}

	node, ok := src.Node(next)
	if !ok {
		from := s.CurrentNode
		s.Close()
		return errors.NotFoundf("dialogue node %q not found", next).
			WithMeta("from_node", from)
	}

	s.enter(next, node)
	return nil
}

// Confirm selects the option under the cursor
func (s *State) Confirm(src Source) error {
	return s.Select(src, s.SelectedOptionIndex)
}

// MoveCursor shifts the selection by delta, clamped to the available options
func (s *State) MoveCursor(delta int) {
	if !s.IsOpen || len(s.Options) == 0 {
		return
	}

	idx := s.SelectedOptionIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.Options) {
		idx = len(s.Options) - 1
	}

	if idx != s.SelectedOptionIndex {
		s.SelectedOptionIndex = idx
		s.Dirty = true
	}
}

// Close ends the conversation without clearing what was shown
func (s *State) Close() {
	if !s.IsOpen {
		return
	}
	s.IsOpen = false
	s.Dirty = true
}

// Validate checks the cursor against the options. An open dialogue with
// options must have its cursor on one of them.
func (s *State) Validate() error {
	vb := errors.NewValidationBuilder()

	if s.SelectedOptionIndex < 0 {
		vb.Field("selected_option_index", "must not be negative")
	} else if s.IsOpen && len(s.Options) > 0 && s.SelectedOptionIndex >= len(s.Options) {
		vb.Fieldf("selected_option_index", "%d is past the last of %d options", s.SelectedOptionIndex, len(s.Options))
	}

	return vb.Build()
}

// Clone returns a copy that shares no slices with the receiver
func (s *State) Clone() *State {
	out := *s
	out.Options = append([]Option(nil), s.Options...)
	return &out
}

func (s *State) enter(nodeID string, node Node) {
	s.IsOpen = true
	s.CurrentNode = nodeID
	s.CurrentText = node.Text
	s.Options = append([]Option(nil), node.Options...)
	s.SelectedOptionIndex = 0
	s.Dirty = true
}
