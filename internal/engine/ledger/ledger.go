// Package ledger holds the resource accounting rules: affordability,
// balance mutation, and per-round city production. Balances never go
// negative.
package ledger

import (
	"sort"
	"strings"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
)

// CanAfford reports whether the balance covers every line of the cost
func CanAfford(balance, cost entities.Resources) bool {
	for resource, amount := range cost {
		if balance[resource] < amount {
			return false
		}
	}
	return true
}

// Deduct subtracts cost from balance in place. It fails with
// ResourceExhausted, leaving the balance untouched, if any line is short.
func Deduct(balance, cost entities.Resources) error {
	var short []string
	for resource, amount := range cost {
		if balance[resource] < amount {
			short = append(short, string(resource))
		}
	}
	if len(short) > 0 {
		sort.Strings(short)
		return errors.ResourceExhaustedf("insufficient %s", strings.Join(short, ", ")).
			WithMeta("missing", short)
	}

	for resource, amount := range cost {
		balance[resource] -= amount
	}
	return nil
}

// Credit adds income to balance in place. Negative income lines clamp the
// balance at zero.
func Credit(balance, income entities.Resources) {
	for resource, amount := range income {
		balance[resource] += amount
		if balance[resource] < 0 {
			balance[resource] = 0
		}
	}
}

// CityProduction computes one round of production for the city on the
// given tile: base output, plus each building's output, plus the terrain
// bonus, plus a population bonus of one food per 100 citizens and half
// that in gold.
func CityProduction(tile *entities.Tile) entities.Resources {
	production := entities.BaseCityProduction.Clone()

	for _, building := range tile.City.Buildings {
		spec, ok := entities.BuildingTypes[building]
		if !ok {
			continue
		}
		for resource, amount := range spec.Production {
			production[resource] += amount
		}
	}

	for resource, amount := range entities.TerrainBonuses[tile.Terrain] {
		production[resource] += amount
	}

	popBonus := tile.City.Population / 100
	production[entities.ResourceFood] += popBonus
	production[entities.ResourceGold] += popBonus / 2

	return production
}

// PlayerProduction sums CityProduction over every city the player owns
func PlayerProduction(game *entities.Game, playerID string) entities.Resources {
	total := entities.Resources{}
	for x := 0; x < game.MapSize; x++ {
		for y := 0; y < game.MapSize; y++ {
			tile := game.Map[x][y]
			if tile.City == nil || tile.City.OwnerID != playerID {
				continue
			}
			for resource, amount := range CityProduction(tile) {
				total[resource] += amount
			}
		}
	}
	return total
}
