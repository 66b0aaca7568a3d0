package game

import (
	"github.com/stratforge/empire-api/internal/entities"
)

// CreateGameInput defines the input for creating a game
type CreateGameInput struct {
	Name       string
	MaxPlayers int
	MapSize    int
	GameMode   entities.GameMode
}

// CreateGameOutput defines the output for creating a game
type CreateGameOutput struct {
	Game *entities.Game
}

// AddPlayerInput defines the input for joining a game. PlayerID is
// optional; one is generated when empty.
type AddPlayerInput struct {
	GameID           string
	PlayerID         string
	Name             string
	CivilizationName string
	Avatar           string
}

// AddPlayerOutput defines the output for joining a game
type AddPlayerOutput struct {
	Game   *entities.Game
	Player *entities.Player
}

// RemovePlayerInput defines the input for leaving a game
type RemovePlayerInput struct {
	GameID   string
	PlayerID string
}

// RemovePlayerOutput defines the output for leaving a game
type RemovePlayerOutput struct {
	Game *entities.Game
}

// StartGameInput defines the input for starting a game
type StartGameInput struct {
	GameID string
}

// StartGameOutput defines the output for starting a game
type StartGameOutput struct {
	Game *entities.Game
}

// SubmitActionInput defines the input for submitting the active player's
// action for this turn
type SubmitActionInput struct {
	GameID   string
	PlayerID string
	Action   entities.Action
}

// SubmitActionOutput defines the output for submitting an action
type SubmitActionOutput struct {
	Game   *entities.Game
	Result *entities.ActionResult
}

// GetStateInput defines the input for reading full game state
type GetStateInput struct {
	GameID string
}

// GetStateOutput defines the output for reading full game state
type GetStateOutput struct {
	Game *entities.Game
}

// GetPlayerViewInput defines the input for reading a player's view of
// the game
type GetPlayerViewInput struct {
	GameID   string
	PlayerID string
}

// GetPlayerViewOutput carries the game with undiscovered tiles redacted
type GetPlayerViewOutput struct {
	Game *entities.Game
}

// WorldEventInput defines the input for recording an external world event
type WorldEventInput struct {
	GameID  string
	Message string
}

// WorldEventOutput defines the output for recording a world event
type WorldEventOutput struct {
	Game *entities.Game
}

// ListGamesInput defines the input for listing games. An empty Status
// lists every game.
type ListGamesInput struct {
	Status entities.GameStatus
}

// ListGamesOutput defines the output for listing games
type ListGamesOutput struct {
	Games []*entities.Game
}
