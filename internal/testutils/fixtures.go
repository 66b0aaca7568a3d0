package testutils

import (
	"github.com/stratforge/empire-api/internal/entities"
)

// Default fixture names
const (
	TestGameName   = "Test Game"
	TestPlayerName = "Aldric"
)

// CreateTestGame creates a waiting game with an all-plains map and no
// players, sized for quick tests.
func CreateTestGame(id string, mapSize int) *entities.Game {
	game := &entities.Game{
		ID:         id,
		Name:       TestGameName,
		Status:     entities.GameStatusWaiting,
		MaxPlayers: 4,
		MapSize:    mapSize,
		GameMode:   entities.GameModeDomination,
	}
	game.Map = make([][]*entities.Tile, mapSize)
	for x := range game.Map {
		game.Map[x] = make([]*entities.Tile, mapSize)
		for y := range game.Map[x] {
			game.Map[x][y] = &entities.Tile{X: x, Y: y, Terrain: entities.TerrainPlains}
		}
	}
	return game
}

// CreateTestPlayer creates a player with the starting resource bundle
func CreateTestPlayer(id, civilization string) *entities.Player {
	return &entities.Player{
		ID:               id,
		Name:             TestPlayerName,
		CivilizationName: civilization,
		Online:           true,
		Resources:        entities.StartingResources.Clone(),
	}
}
