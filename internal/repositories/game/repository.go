// Package game provides the interface for game aggregate persistence
package game

//go:generate mockgen -destination=mock/mock_repository.go -package=gamemock github.com/stratforge/empire-api/internal/repositories/game Repository

import (
	"context"

	"github.com/stratforge/empire-api/internal/entities"
)

// Repository defines the interface for game persistence. The whole
// aggregate is stored and loaded as one document; callers serialize
// access per game.
type Repository interface {
	// Create creates a new game
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a game with the same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a game by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the game doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing game
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the game doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete deletes a game by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the game doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// List retrieves all games, optionally filtered by status
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// CreateInput defines the input for creating a game
type CreateInput struct {
	Game *entities.Game
}

// CreateOutput defines the output for creating a game
type CreateOutput struct {
	Game *entities.Game
}

// GetInput defines the input for getting a game
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a game
type GetOutput struct {
	Game *entities.Game
}

// UpdateInput defines the input for updating a game
type UpdateInput struct {
	Game *entities.Game
}

// UpdateOutput defines the output for updating a game
type UpdateOutput struct {
	Game *entities.Game
}

// DeleteInput defines the input for deleting a game
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a game
type DeleteOutput struct{}

// ListInput defines the input for listing games. An empty Status lists
// every game.
type ListInput struct {
	Status entities.GameStatus
}

// ListOutput defines the output for listing games
type ListOutput struct {
	Games []*entities.Game
}
