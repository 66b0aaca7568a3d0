// Package worldgen produces the initial tile grid, starting positions, and
// tile discovery for a game.
package worldgen

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
)

// Terrain and resource pools the generator draws from. Order matters only
// for reproducibility under a fixed roller.
var (
	terrainPool = []entities.Terrain{
		entities.TerrainPlains,
		entities.TerrainForest,
		entities.TerrainMountains,
		entities.TerrainDesert,
		entities.TerrainWater,
		entities.TerrainHills,
	}

	resourcePool = []entities.Resource{
		entities.ResourceFood,
		entities.ResourceGold,
		entities.ResourceWood,
		entities.ResourceStone,
		entities.ResourceScience,
	}
)

// CapitalDiscoveryRadius is the Chebyshev radius revealed around a capital
// or newly founded city.
const CapitalDiscoveryRadius = 2

// resourceChanceIn10 gives each tile a 30% chance of holding a resource
const resourceChanceIn10 = 3

// Generator builds tile grids from an injected dice roller so that map
// generation is reproducible in tests.
type Generator struct {
	roller dice.Roller
}

// NewGenerator creates a map generator
func NewGenerator(roller dice.Roller) (*Generator, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("dice roller is required")
	}
	return &Generator{roller: roller}, nil
}

// Generate produces a size×size tile grid. Each tile draws a terrain
// uniformly from the terrain pool and, with a 30% chance, one resource
// uniformly from the resource pool.
func (g *Generator) Generate(size int) ([][]*entities.Tile, error) {
	if size <= 0 {
		return nil, errors.InvalidArgumentf("map size must be positive, got %d", size)
	}

	grid := make([][]*entities.Tile, size)
	for x := 0; x < size; x++ {
		grid[x] = make([]*entities.Tile, size)
		for y := 0; y < size; y++ {
			terrainRoll, err := g.roller.Roll(len(terrainPool))
			if err != nil {
				return nil, errors.Wrap(err, "failed to roll terrain")
			}

			tile := &entities.Tile{
				X:       x,
				Y:       y,
				Terrain: terrainPool[terrainRoll-1],
			}

			chanceRoll, err := g.roller.Roll(10)
			if err != nil {
				return nil, errors.Wrap(err, "failed to roll resource chance")
			}
			if chanceRoll <= resourceChanceIn10 {
				resourceRoll, err := g.roller.Roll(len(resourcePool))
				if err != nil {
					return nil, errors.Wrap(err, "failed to roll resource type")
				}
				tile.Resource = resourcePool[resourceRoll-1]
			}

			grid[x][y] = tile
		}
	}

	return grid, nil
}

// StartingPositions places up to maxPlayers candidate capitals evenly on a
// circle of radius size/3 around the map center. Candidates landing on
// water or out of bounds are rejected; callers consume positions in
// player-join order and fall back to NearestLand for rejected slots.
func StartingPositions(grid [][]*entities.Tile, maxPlayers int) []entities.Position {
	size := len(grid)
	radius := size / 3
	center := float64(size) / 2

	var positions []entities.Position
	for i := 0; i < maxPlayers; i++ {
		angle := float64(i) / float64(maxPlayers) * 2 * math.Pi
		x := int(math.Floor(center + math.Cos(angle)*float64(radius)))
		y := int(math.Floor(center + math.Sin(angle)*float64(radius)))

		if x < 0 || x >= size || y < 0 || y >= size {
			continue
		}
		if grid[x][y].Terrain == entities.TerrainWater {
			continue
		}
		positions = append(positions, entities.Position{X: x, Y: y})
	}

	return positions
}

// NearestLand finds the closest non-water tile to (x, y) by expanding
// Chebyshev rings. Returns false only on an all-water map.
func NearestLand(grid [][]*entities.Tile, x, y int) (entities.Position, bool) {
	size := len(grid)
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= size {
			return size - 1
		}
		return v
	}
	x, y = clamp(x), clamp(y)

	if grid[x][y].Terrain != entities.TerrainWater {
		return entities.Position{X: x, Y: y}, true
	}

	for r := 1; r < size; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= size || ny < 0 || ny >= size {
					continue
				}
				if grid[nx][ny].Terrain != entities.TerrainWater {
					return entities.Position{X: nx, Y: ny}, true
				}
			}
		}
	}

	return entities.Position{}, false
}

// Discover reveals every tile within the given Chebyshev radius of
// (x, y), clipped to map bounds.
func Discover(grid [][]*entities.Tile, x, y, radius int) {
	size := len(grid)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < size && ny >= 0 && ny < size {
				grid[nx][ny].Discovered = true
			}
		}
	}
}

// PlaceCapital founds a player's capital at pos: city, ownership, and
// discovery within CapitalDiscoveryRadius.
func PlaceCapital(game *entities.Game, player *entities.Player, pos entities.Position) {
	tile := game.Map[pos.X][pos.Y]
	tile.City = &entities.City{
		Name:        player.CivilizationName + " Capital",
		Level:       1,
		Population:  1000,
		Defense:     10,
		Buildings:   []string{"palace"},
		OwnerID:     player.ID,
		FoundedTurn: game.CurrentTurn,
	}
	tile.OwnerID = player.ID
	tile.Discovered = true

	Discover(game.Map, pos.X, pos.Y, CapitalDiscoveryRadius)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
