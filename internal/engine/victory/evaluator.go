// Package victory checks whether any player has met the winning threshold
// for the game's mode.
package victory

import (
	"github.com/stratforge/empire-api/internal/entities"
)

// Evaluate scans players in list order and returns a Winner for the first
// one meeting the game mode's threshold, or nil if nobody has won yet.
func Evaluate(game *entities.Game) *entities.Winner {
	for _, player := range game.Players {
		if !meetsThreshold(game, player) {
			continue
		}
		return &entities.Winner{
			PlayerID:    player.ID,
			VictoryType: game.GameMode,
			Turn:        game.CurrentTurn,
		}
	}
	return nil
}

func meetsThreshold(game *entities.Game, player *entities.Player) bool {
	switch game.GameMode {
	case entities.GameModeDomination:
		owned := len(game.TilesOwnedBy(player.ID))
		total := game.MapSize * game.MapSize
		return total > 0 && float64(owned)/float64(total) >= entities.DominationTileShare
	case entities.GameModeScience:
		return player.Resources[entities.ResourceScience] >= entities.ScienceThreshold
	case entities.GameModeCulture:
		return player.Resources[entities.ResourceCulture] >= entities.CultureThreshold
	case entities.GameModeEconomic:
		return player.Resources[entities.ResourceGold] >= entities.EconomicThreshold
	default:
		return false
	}
}
