package worldgen_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratforge/empire-api/internal/engine/worldgen"
	"github.com/stratforge/empire-api/internal/entities"
)

// scriptedRoller returns a fixed sequence of rolls, then repeats 1.
type scriptedRoller struct {
	rolls []int
	idx   int
}

func (r *scriptedRoller) Roll(_ int) (int, error) {
	if r.idx >= len(r.rolls) {
		return 1, nil
	}
	v := r.rolls[r.idx]
	r.idx++
	return v, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type GeneratorTestSuite struct {
	suite.Suite
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) TestNewGeneratorRequiresRoller() {
	_, err := worldgen.NewGenerator(nil)
	s.Error(err)
}

func (s *GeneratorTestSuite) TestGenerateRejectsNonPositiveSize() {
	gen, err := worldgen.NewGenerator(&scriptedRoller{})
	s.Require().NoError(err)

	_, err = gen.Generate(0)
	s.Error(err)

	_, err = gen.Generate(-3)
	s.Error(err)
}

func (s *GeneratorTestSuite) TestGenerateTerrainAndResources() {
	// Per tile: terrain roll, resource chance roll, resource type roll only
	// when the chance roll is <= 3.
	roller := &scriptedRoller{rolls: []int{
		5, 10, // (0,0): water, no resource
		1, 3, 2, // (0,1): plains, resource gold
		2, 1, 1, // (1,0): forest, resource food
		6, 4, // (1,1): hills, no resource
	}}
	gen, err := worldgen.NewGenerator(roller)
	s.Require().NoError(err)

	grid, err := gen.Generate(2)
	s.Require().NoError(err)
	s.Require().Len(grid, 2)
	s.Require().Len(grid[0], 2)

	s.Equal(entities.TerrainWater, grid[0][0].Terrain)
	s.Empty(grid[0][0].Resource)

	s.Equal(entities.TerrainPlains, grid[0][1].Terrain)
	s.Equal(entities.ResourceGold, grid[0][1].Resource)

	s.Equal(entities.TerrainForest, grid[1][0].Terrain)
	s.Equal(entities.ResourceFood, grid[1][0].Resource)

	s.Equal(entities.TerrainHills, grid[1][1].Terrain)
	s.Empty(grid[1][1].Resource)

	s.Equal(1, grid[1][1].X)
	s.Equal(1, grid[1][1].Y)
	s.False(grid[0][0].Discovered)
}

func makeGrid(size int, terrain entities.Terrain) [][]*entities.Tile {
	grid := make([][]*entities.Tile, size)
	for x := range grid {
		grid[x] = make([]*entities.Tile, size)
		for y := range grid[x] {
			grid[x][y] = &entities.Tile{X: x, Y: y, Terrain: terrain}
		}
	}
	return grid
}

func (s *GeneratorTestSuite) TestStartingPositionsOnCircle() {
	grid := makeGrid(12, entities.TerrainPlains)

	positions := worldgen.StartingPositions(grid, 4)
	s.Require().Len(positions, 4)

	// Radius 4 around center (6, 6), one position per quarter turn. The
	// last X lands on 5 because cos(3π/2) is a hair below zero.
	s.Equal(entities.Position{X: 10, Y: 6}, positions[0])
	s.Equal(entities.Position{X: 6, Y: 10}, positions[1])
	s.Equal(entities.Position{X: 2, Y: 6}, positions[2])
	s.Equal(entities.Position{X: 5, Y: 2}, positions[3])
}

func (s *GeneratorTestSuite) TestStartingPositionsRejectWater() {
	grid := makeGrid(12, entities.TerrainPlains)
	grid[10][6].Terrain = entities.TerrainWater

	positions := worldgen.StartingPositions(grid, 4)
	s.Require().Len(positions, 3)
	s.NotContains(positions, entities.Position{X: 10, Y: 6})
}

func (s *GeneratorTestSuite) TestNearestLand() {
	grid := makeGrid(5, entities.TerrainWater)
	grid[4][4].Terrain = entities.TerrainPlains

	pos, ok := worldgen.NearestLand(grid, 0, 0)
	s.True(ok)
	s.Equal(entities.Position{X: 4, Y: 4}, pos)

	// Starting on land returns the start itself.
	pos, ok = worldgen.NearestLand(grid, 4, 4)
	s.True(ok)
	s.Equal(entities.Position{X: 4, Y: 4}, pos)
}

func (s *GeneratorTestSuite) TestNearestLandAllWater() {
	grid := makeGrid(3, entities.TerrainWater)

	_, ok := worldgen.NearestLand(grid, 1, 1)
	s.False(ok)
}

func (s *GeneratorTestSuite) TestDiscoverClipsToBounds() {
	grid := makeGrid(5, entities.TerrainPlains)

	worldgen.Discover(grid, 0, 0, 2)

	discovered := 0
	for x := range grid {
		for y := range grid[x] {
			if grid[x][y].Discovered {
				discovered++
			}
		}
	}
	// 3x3 corner block, the rest of the radius falls off the map.
	s.Equal(9, discovered)
	s.True(grid[2][2].Discovered)
	s.False(grid[3][0].Discovered)
}

func (s *GeneratorTestSuite) TestPlaceCapital() {
	game := &entities.Game{
		MapSize:     9,
		CurrentTurn: 1,
		Map:         makeGrid(9, entities.TerrainPlains),
	}
	player := &entities.Player{ID: "player-1", CivilizationName: "Valoria"}

	worldgen.PlaceCapital(game, player, entities.Position{X: 4, Y: 4})

	tile := game.Map[4][4]
	s.Require().NotNil(tile.City)
	s.Equal("Valoria Capital", tile.City.Name)
	s.Equal(1000, tile.City.Population)
	s.Equal(10, tile.City.Defense)
	s.Equal([]string{"palace"}, tile.City.Buildings)
	s.Equal("player-1", tile.City.OwnerID)
	s.Equal(1, tile.City.FoundedTurn)
	s.Equal("player-1", tile.OwnerID)

	// Discovery reaches Chebyshev radius 2 and no further.
	s.True(game.Map[2][2].Discovered)
	s.True(game.Map[6][6].Discovered)
	s.False(game.Map[7][4].Discovered)
}
