// Package errors provides the structured error type used across the gameplay core.
//
// Every failure that leaves a component carries a Code, a caller-facing
// Message and optional metadata:
//
//	err := errors.InvalidArgument("Position must be an array of 3 numbers").
//	    WithMeta("component_id", id)
//
// Scripting callers surface errors.GetMessage(err) verbatim, so messages on
// the script command surface are part of the contract and must not be
// reworded.
//
// # Codes used by the core
//
//   - InvalidArgument: malformed script input, rejected before it reaches
//     simulation state
//   - NotFound: unknown entity, collectable or dialogue node
//   - OutOfRange: dialogue option index past the end of the options
//   - FailedPrecondition: operation on a component the entity does not have
//   - Internal: storage or transport failure
//
// Wrap keeps the code of the wrapped error, so repositories can return
// NotFound and orchestrators can add context without losing it:
//
//	if err != nil {
//	    return nil, errors.Wrap(err, "failed to load snapshot")
//	}
//
// ToGRPCError converts any of these into a gRPC status for the script bridge.
package errors
