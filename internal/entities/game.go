// Package entities provides core data structures for empire-api.
package entities

import "time"

// GameStatus represents the lifecycle state of a game
type GameStatus string

// Game lifecycle states. Finished is terminal.
const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusPlaying  GameStatus = "playing"
	GameStatusFinished GameStatus = "finished"
)

// GameMode represents the victory condition a game is played under
type GameMode string

// Victory modes, fixed at game creation
const (
	GameModeDomination GameMode = "domination"
	GameModeScience    GameMode = "science"
	GameModeCulture    GameMode = "culture"
	GameModeEconomic   GameMode = "economic"
)

// Game is the root aggregate for one match. It owns its players, map,
// and history exclusively; all mutation goes through the game orchestrator.
// NOTE: This is a data-only struct. All rules (costs, combat, victory)
// live in the engine packages, not here.
type Game struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Status             GameStatus     `json:"status"`
	MaxPlayers         int            `json:"max_players"`
	MapSize            int            `json:"map_size"`
	GameMode           GameMode       `json:"game_mode"`
	CurrentTurn        int            `json:"current_turn"`
	CurrentPlayerIndex int            `json:"current_player_index"`
	Players            []*Player      `json:"players"`
	Map                [][]*Tile      `json:"map"`
	History            []HistoryEntry `json:"history"`
	Winner             *Winner        `json:"winner,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// GetID implements core.Entity
func (g *Game) GetID() string {
	return g.ID
}

// GetType implements core.Entity
func (g *Game) GetType() string {
	return "game"
}

// CurrentPlayer returns the player whose turn it is, or nil before start
// or after the roster empties.
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// Player returns the player with the given ID and whether it was found
func (g *Game) Player(playerID string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

// InBounds reports whether (x, y) is a valid map coordinate
func (g *Game) InBounds(x, y int) bool {
	return x >= 0 && x < g.MapSize && y >= 0 && y < g.MapSize
}

// TileAt returns the tile at (x, y) and whether the coordinate is in bounds
func (g *Game) TileAt(x, y int) (*Tile, bool) {
	if !g.InBounds(x, y) {
		return nil, false
	}
	return g.Map[x][y], true
}

// TilesOwnedBy returns every tile owned by the given player
func (g *Game) TilesOwnedBy(playerID string) []*Tile {
	var tiles []*Tile
	for x := 0; x < g.MapSize; x++ {
		for y := 0; y < g.MapSize; y++ {
			if g.Map[x][y].OwnerID == playerID {
				tiles = append(tiles, g.Map[x][y])
			}
		}
	}
	return tiles
}

// Winner records who won a finished game and how
type Winner struct {
	PlayerID    string   `json:"player_id"`
	VictoryType GameMode `json:"victory_type"`
	Turn        int      `json:"turn"`
}

// History entry types
const (
	HistoryTypeAction      = "action"
	HistoryTypeGameEnd     = "game_end"
	HistoryTypeTurnSkipped = "turn_skipped"
	HistoryTypeWorldEvent  = "world_event"
)

// HistoryEntry is one append-only record of something that happened in a
// game. PlayerID is empty for world events and the terminal entry.
type HistoryEntry struct {
	Turn      int             `json:"turn"`
	PlayerID  string          `json:"player_id,omitempty"`
	Type      string          `json:"type"`
	Action    *ActionEnvelope `json:"action,omitempty"`
	Result    *ActionResult   `json:"result,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
