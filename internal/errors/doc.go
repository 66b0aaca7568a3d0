// Package errors provides structured error handling for empire-api.
//
// Every engine failure carries a stable code so callers can branch on
// semantics instead of message text:
//   - InvalidArgument: bad input shape, unknown action/building/unit type
//   - FailedPrecondition: wrong game status, not your turn, game full
//   - PermissionDenied: acting on a tile, unit, or city the actor does not own
//   - ResourceExhausted: insufficient resources for the attempted action
//   - NotFound: missing game, player, tile, or target
//   - AlreadyExists: duplicate player join, occupied tile
//   - Internal / Unavailable: storage and collaborator failures
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("game not found")
//	err := errors.InvalidArgumentf("unknown building type: %s", building)
//
// Adding metadata:
//
//	err := errors.NotFound("game not found").
//	    WithMeta("game_id", gameID)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load game")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // handle missing game
//	}
//
// # Validation Errors
//
// Using the validation builder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.GameRepo == nil {
//	    vb.RequiredField("GameRepo")
//	}
//	return vb.Build()
//
// # Transport Mapping
//
// Handlers translate codes to HTTP statuses with Code.HTTPStatus; the
// engine itself never sees transport concerns.
package errors
