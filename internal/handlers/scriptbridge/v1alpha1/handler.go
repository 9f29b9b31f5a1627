// Package v1alpha1 serves the script bridge over gRPC
package v1alpha1

import (
	"context"
	"encoding/json"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-gameplay/internal/commands"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/world"
)

// CommandSink queues validated commands for the tick
type CommandSink interface {
	Submit(cmd commands.Command) error
}

// StateReader reads detached entity state
type StateReader interface {
	Lookup(id string) (*world.EntityState, error)
}

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Sink   CommandSink
	State  StateReader
	Bridge commands.Bridge
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sink == nil {
		vb.RequiredField("Sink")
	}
	if c.State == nil {
		vb.RequiredField("State")
	}

	return vb.Build()
}

// Handler implements ScriptBridgeServer
type Handler struct {
	sink   CommandSink
	state  StateReader
	bridge commands.Bridge
}

var _ ScriptBridgeServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		sink:   cfg.Sink,
		state:  cfg.State,
		bridge: cfg.Bridge,
	}, nil
}

// SubmitCommand validates a command document and queues it. The document
// carries "kind" plus the fields of that command, for example
//
//	{"kind": "set_position", "component_id": "player_1", "position": [1, 2, 3]}
func (h *Handler) SubmitCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	args := req.AsMap()
	kind, _ := args["kind"].(string)

	cmd, err := h.bridge.Parse(kind, args)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if err := h.sink.Submit(cmd); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	slog.DebugContext(ctx, "Command submitted over bridge",
		"kind", cmd.Kind(),
		"component_id", cmd.ComponentID(),
	)

	resp, err := structpb.NewStruct(map[string]any{
		"accepted":     true,
		"kind":         string(cmd.Kind()),
		"component_id": cmd.ComponentID(),
	})
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to build response"))
	}
	return resp, nil
}

// GetEntityState returns the detached state of {"entity_id": "..."}
func (h *Handler) GetEntityState(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entityID := req.GetFields()["entity_id"].GetStringValue()
	if entityID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entity_id is required"))
	}

	state, err := h.state.Lookup(entityID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	doc, err := toDocument(state)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return doc, nil
}

// toDocument goes through JSON so the document keys match the persisted form
func toDocument(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode state")
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "failed to decode state")
	}

	doc, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build state document")
	}
	return doc, nil
}
