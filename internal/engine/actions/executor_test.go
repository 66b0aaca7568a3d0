package actions_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratforge/empire-api/internal/engine/actions"
	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	"github.com/stratforge/empire-api/internal/pkg/idgen"
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

type ExecutorTestSuite struct {
	suite.Suite

	game   *entities.Game
	roller *scriptedRoller
	exec   *actions.Executor
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

func (s *ExecutorTestSuite) SetupTest() {
	s.game = &entities.Game{
		ID:      "game-1",
		Status:  entities.GameStatusPlaying,
		MapSize: 6,
		Players: []*entities.Player{
			{ID: "p1", CivilizationName: "Valoria", Resources: entities.StartingResources.Clone()},
			{ID: "p2", CivilizationName: "Tyr", Resources: entities.StartingResources.Clone()},
		},
		CurrentTurn: 3,
	}
	s.game.Map = make([][]*entities.Tile, 6)
	for x := range s.game.Map {
		s.game.Map[x] = make([]*entities.Tile, 6)
		for y := range s.game.Map[x] {
			s.game.Map[x][y] = &entities.Tile{X: x, Y: y, Terrain: entities.TerrainPlains}
		}
	}

	s.roller = &scriptedRoller{}
	exec, err := actions.NewExecutor(&actions.Config{
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("unit"),
	})
	s.Require().NoError(err)
	s.exec = exec
}

func (s *ExecutorTestSuite) player(id string) *entities.Player {
	p, ok := s.game.Player(id)
	s.Require().True(ok)
	return p
}

func (s *ExecutorTestSuite) TestConfigValidation() {
	_, err := actions.NewExecutor(&actions.Config{})
	s.Error(err)

	_, err = actions.NewExecutor(nil)
	s.Error(err)
}

func (s *ExecutorTestSuite) TestUnknownPlayer() {
	_, err := s.exec.Execute(s.game, "ghost", entities.FreeAction{})
	s.True(errors.IsNotFound(err))
}

func (s *ExecutorTestSuite) TestFoundCity() {
	s.player("p1").Resources[entities.ResourceGold] = 500
	before := s.player("p1").Resources.Clone()

	result, err := s.exec.Execute(s.game, "p1", entities.FoundCity{
		Position: entities.Position{X: 3, Y: 3},
		Name:     "Aldoria",
	})
	s.Require().NoError(err)
	s.True(result.Success)

	tile := s.game.Map[3][3]
	s.Require().NotNil(tile.City)
	s.Equal("Aldoria", tile.City.Name)
	s.Equal(500, tile.City.Population)
	s.Equal(5, tile.City.Defense)
	s.Equal([]string{"town_hall"}, tile.City.Buildings)
	s.Equal("p1", tile.City.OwnerID)
	s.Equal(3, tile.City.FoundedTurn)
	s.Equal("p1", tile.OwnerID)

	// Exactly the found-city cost is deducted.
	after := s.player("p1").Resources
	s.Equal(before[entities.ResourceFood]-50, after[entities.ResourceFood])
	s.Equal(before[entities.ResourceGold]-100, after[entities.ResourceGold])
	s.Equal(before[entities.ResourceWood]-30, after[entities.ResourceWood])
	s.Equal(before[entities.ResourceStone], after[entities.ResourceStone])

	s.Equal(1, s.player("p1").Stats.CitiesFounded)

	// Founding discovers the surrounding 5x5 block.
	s.True(s.game.Map[1][1].Discovered)
	s.True(s.game.Map[5][5].Discovered)
	s.False(s.game.Map[0][3].Discovered)
}

func (s *ExecutorTestSuite) TestFoundCityInsufficientFood() {
	s.player("p1").Resources[entities.ResourceFood] = 40

	_, err := s.exec.Execute(s.game, "p1", entities.FoundCity{
		Position: entities.Position{X: 3, Y: 3},
	})
	s.True(errors.IsResourceExhausted(err))

	// Nothing mutated on failure.
	s.Nil(s.game.Map[3][3].City)
	s.Empty(s.game.Map[3][3].OwnerID)
	s.Equal(40, s.player("p1").Resources[entities.ResourceFood])
	s.Equal(50, s.player("p1").Resources[entities.ResourceGold])
}

func (s *ExecutorTestSuite) TestFoundCityRejections() {
	s.game.Map[2][2].Terrain = entities.TerrainWater
	_, err := s.exec.Execute(s.game, "p1", entities.FoundCity{Position: entities.Position{X: 2, Y: 2}})
	s.True(errors.IsInvalidArgument(err))

	s.game.Map[1][1].OwnerID = "p2"
	_, err = s.exec.Execute(s.game, "p1", entities.FoundCity{Position: entities.Position{X: 1, Y: 1}})
	s.True(errors.IsPermissionDenied(err))

	s.game.Map[4][4].City = &entities.City{Name: "Old", OwnerID: "p1"}
	_, err = s.exec.Execute(s.game, "p1", entities.FoundCity{Position: entities.Position{X: 4, Y: 4}})
	s.True(errors.IsAlreadyExists(err))

	_, err = s.exec.Execute(s.game, "p1", entities.FoundCity{Position: entities.Position{X: 9, Y: 0}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ExecutorTestSuite) TestCollectResource() {
	tile := s.game.Map[2][3]
	tile.Resource = entities.ResourceWood
	tile.OwnerID = "p1"
	s.roller.rolls = []int{11} // 11 + 9 = 20

	before := s.player("p1").Resources[entities.ResourceWood]
	result, err := s.exec.Execute(s.game, "p1", entities.CollectResource{
		Position: entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)

	s.Equal(entities.ResourceWood, result.Resource)
	s.Equal(20, result.Amount)
	s.Equal(before+20, s.player("p1").Resources[entities.ResourceWood])
	// The tile keeps its resource for future collection.
	s.Equal(entities.ResourceWood, tile.Resource)
}

func (s *ExecutorTestSuite) TestCollectResourceRejections() {
	_, err := s.exec.Execute(s.game, "p1", entities.CollectResource{
		Position: entities.Position{X: 0, Y: 0},
	})
	s.True(errors.IsFailedPrecondition(err))

	s.game.Map[0][0].Resource = entities.ResourceGold
	s.game.Map[0][0].OwnerID = "p2"
	_, err = s.exec.Execute(s.game, "p1", entities.CollectResource{
		Position: entities.Position{X: 0, Y: 0},
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *ExecutorTestSuite) placeUnit(x, y int, owner string, unit *entities.Unit) *entities.Unit {
	unit.OwnerID = owner
	s.game.Map[x][y].Unit = unit
	return unit
}

func (s *ExecutorTestSuite) TestMoveArmyClaimsNeutralTile() {
	unit := s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Warrior", Attack: 10, Health: 100})

	result, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)
	s.True(result.Success)

	s.Nil(s.game.Map[2][2].Unit)
	s.Same(unit, s.game.Map[2][3].Unit)
	s.Equal("p1", s.game.Map[2][3].OwnerID)
	s.True(s.game.Map[2][3].Discovered)
}

func (s *ExecutorTestSuite) TestMoveArmyTooFar() {
	s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Warrior"})

	_, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 4},
	})
	s.True(errors.IsInvalidArgument(err))
	s.NotNil(s.game.Map[2][2].Unit)
}

func (s *ExecutorTestSuite) TestMoveArmyDiagonalIsTooFar() {
	s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Warrior"})

	_, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 3, Y: 3},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ExecutorTestSuite) TestMoveArmyNoUnit() {
	_, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ExecutorTestSuite) TestMoveArmyOntoOwnUnit() {
	s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Warrior"})
	s.placeUnit(2, 3, "p1", &entities.Unit{ID: "u2", Name: "Archer"})

	_, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ExecutorTestSuite) TestMoveArmyCombatConquest() {
	attacker := s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Cavalry", Attack: 100, Health: 120})
	s.placeUnit(2, 3, "p2", &entities.Unit{ID: "u2", Name: "Militia", Defense: 1, Health: 1})
	s.game.Map[2][3].OwnerID = "p2"
	s.roller.rolls = []int{41, 1}

	result, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)

	s.Require().NotNil(result.Combat)
	s.Equal(entities.CombatWinnerAttacker, result.Combat.Winner)
	s.Nil(s.game.Map[2][2].Unit)
	s.Same(attacker, s.game.Map[2][3].Unit)
	s.Equal("p1", s.game.Map[2][3].OwnerID)
	s.Equal(1, s.player("p1").Stats.TerritoriesConquered)
}

func (s *ExecutorTestSuite) TestMoveArmyRepelledStaysPut() {
	attacker := s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Warrior", Attack: 5, Health: 100})
	defender := s.placeUnit(2, 3, "p2", &entities.Unit{ID: "u2", Name: "Spearman", Defense: 15, Health: 90})
	s.roller.rolls = []int{21, 21}

	result, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)

	s.Equal(entities.CombatWinnerDefender, result.Combat.Winner)
	s.Same(attacker, s.game.Map[2][2].Unit)
	s.Same(defender, s.game.Map[2][3].Unit)
	s.Less(attacker.Health, 100)
}

func (s *ExecutorTestSuite) TestMoveArmyCityConquest() {
	unit := s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Catapult", Attack: 25, Health: 60})
	s.game.Map[2][3].City = &entities.City{Name: "Tyr Hold", Defense: 1, OwnerID: "p2"}
	s.game.Map[2][3].OwnerID = "p2"
	s.roller.rolls = []int{41, 1}

	result, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)

	s.Equal(entities.CombatWinnerAttacker, result.Combat.Winner)
	s.Equal("p1", s.game.Map[2][3].City.OwnerID)
	s.Equal("p1", s.game.Map[2][3].OwnerID)
	s.Same(unit, s.game.Map[2][3].Unit)
	s.Equal(1, s.player("p1").Stats.TerritoriesConquered)
	// The city survives conquest.
	s.NotNil(s.game.Map[2][3].City)
}

func (s *ExecutorTestSuite) TestMoveArmyGarrisonedCityFallsInTwoAssaults() {
	attacker := s.placeUnit(2, 2, "p1", &entities.Unit{ID: "u1", Name: "Cavalry", Attack: 100, Health: 120})
	s.placeUnit(2, 3, "p2", &entities.Unit{ID: "u2", Name: "Militia", Defense: 1, Health: 1})
	s.game.Map[2][3].City = &entities.City{Name: "Tyr Hold", Defense: 1, OwnerID: "p2"}
	s.game.Map[2][3].OwnerID = "p2"
	s.roller.rolls = []int{41, 1, 41, 1}

	// First assault breaks the garrison; the city keeps the tile and the
	// attacker holds position instead of advancing.
	result, err := s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)
	s.Equal(entities.CombatWinnerAttacker, result.Combat.Winner)
	s.Nil(s.game.Map[2][3].Unit)
	s.Same(attacker, s.game.Map[2][2].Unit)
	s.Equal("p2", s.game.Map[2][3].OwnerID)
	s.Equal("p2", s.game.Map[2][3].City.OwnerID)
	s.Equal(0, s.player("p1").Stats.TerritoriesConquered)

	// Second assault takes the city along with its tile.
	result, err = s.exec.Execute(s.game, "p1", entities.MoveArmy{
		From: entities.Position{X: 2, Y: 2},
		To:   entities.Position{X: 2, Y: 3},
	})
	s.Require().NoError(err)
	s.Equal(entities.CombatWinnerAttacker, result.Combat.Winner)
	s.Equal("p1", s.game.Map[2][3].City.OwnerID)
	s.Equal("p1", s.game.Map[2][3].OwnerID)
	s.Same(attacker, s.game.Map[2][3].Unit)
	s.Equal(1, s.player("p1").Stats.TerritoriesConquered)
}

func (s *ExecutorTestSuite) TestBuildInfrastructure() {
	tile := s.game.Map[1][1]
	tile.OwnerID = "p1"
	tile.City = &entities.City{Name: "Aldoria", OwnerID: "p1", Buildings: []string{"town_hall"}}
	s.player("p1").Resources[entities.ResourceGold] = 60
	s.player("p1").Resources[entities.ResourceWood] = 40

	result, err := s.exec.Execute(s.game, "p1", entities.BuildInfrastructure{
		Position: entities.Position{X: 1, Y: 1},
		Building: "market",
	})
	s.Require().NoError(err)
	s.True(result.Success)

	s.True(tile.City.HasBuilding("market"))
	s.Equal(10, s.player("p1").Resources[entities.ResourceGold])
	s.Equal(10, s.player("p1").Resources[entities.ResourceWood])
}

func (s *ExecutorTestSuite) TestBuildInfrastructureRejections() {
	tile := s.game.Map[1][1]
	tile.OwnerID = "p1"

	_, err := s.exec.Execute(s.game, "p1", entities.BuildInfrastructure{
		Position: entities.Position{X: 1, Y: 1},
		Building: "market",
	})
	s.True(errors.IsFailedPrecondition(err))

	tile.City = &entities.City{Name: "Aldoria", OwnerID: "p1", Buildings: []string{"market"}}

	_, err = s.exec.Execute(s.game, "p1", entities.BuildInfrastructure{
		Position: entities.Position{X: 1, Y: 1},
		Building: "ziggurat",
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.exec.Execute(s.game, "p1", entities.BuildInfrastructure{
		Position: entities.Position{X: 1, Y: 1},
		Building: "market",
	})
	s.True(errors.IsAlreadyExists(err))

	tile.OwnerID = "p2"
	_, err = s.exec.Execute(s.game, "p1", entities.BuildInfrastructure{
		Position: entities.Position{X: 1, Y: 1},
		Building: "granary",
	})
	s.True(errors.IsPermissionDenied(err))
}

func (s *ExecutorTestSuite) TestCreateUnit() {
	tile := s.game.Map[4][4]
	tile.OwnerID = "p1"

	result, err := s.exec.Execute(s.game, "p1", entities.CreateUnit{
		Position: entities.Position{X: 4, Y: 4},
		UnitType: "warrior",
	})
	s.Require().NoError(err)

	unit := tile.Unit
	s.Require().NotNil(unit)
	s.Same(unit, result.Unit)
	s.Equal("warrior", unit.Type)
	s.Equal(10, unit.Attack)
	s.Equal(8, unit.Defense)
	s.Equal(100, unit.Health)
	s.Equal(100, unit.MaxHealth)
	s.Equal(2, unit.Movement)
	s.Equal(1, unit.Level)
	s.Equal("p1", unit.OwnerID)
	s.NotEmpty(unit.ID)

	// Warrior cost deducted from the starting bundle.
	s.Equal(80, s.player("p1").Resources[entities.ResourceFood])
	s.Equal(20, s.player("p1").Resources[entities.ResourceGold])
	s.Equal(40, s.player("p1").Resources[entities.ResourceWood])
}

func (s *ExecutorTestSuite) TestCreateUnitRejections() {
	_, err := s.exec.Execute(s.game, "p1", entities.CreateUnit{
		Position: entities.Position{X: 4, Y: 4},
		UnitType: "dragon",
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.exec.Execute(s.game, "p1", entities.CreateUnit{
		Position: entities.Position{X: 4, Y: 4},
		UnitType: "warrior",
	})
	s.True(errors.IsPermissionDenied(err))

	tile := s.game.Map[4][4]
	tile.OwnerID = "p1"
	tile.Unit = &entities.Unit{ID: "u9", OwnerID: "p1"}
	_, err = s.exec.Execute(s.game, "p1", entities.CreateUnit{
		Position: entities.Position{X: 4, Y: 4},
		UnitType: "warrior",
	})
	s.True(errors.IsAlreadyExists(err))

	tile.Unit = nil
	s.player("p1").Resources = entities.Resources{}
	_, err = s.exec.Execute(s.game, "p1", entities.CreateUnit{
		Position: entities.Position{X: 4, Y: 4},
		UnitType: "warrior",
	})
	s.True(errors.IsResourceExhausted(err))
}

func (s *ExecutorTestSuite) TestDiplomacy() {
	result, err := s.exec.Execute(s.game, "p1", entities.Diplomacy{
		TargetPlayerID: "p2",
		Gesture:        "alliance",
	})
	s.Require().NoError(err)

	s.Equal("p2", result.TargetPlayerID)
	s.True(result.NeedsNarrative)

	_, err = s.exec.Execute(s.game, "p1", entities.Diplomacy{TargetPlayerID: "p9"})
	s.True(errors.IsNotFound(err))

	_, err = s.exec.Execute(s.game, "p1", entities.Diplomacy{TargetPlayerID: "p1"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ExecutorTestSuite) TestFreeAction() {
	result, err := s.exec.Execute(s.game, "p1", entities.FreeAction{
		Description: "holds a festival",
	})
	s.Require().NoError(err)

	s.True(result.Success)
	s.True(result.NeedsNarrative)
	s.Equal("holds a festival", result.Description)
}
