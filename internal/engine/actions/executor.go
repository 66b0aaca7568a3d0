// Package actions validates and applies player actions against the game
// aggregate. Every action is fully validated before any mutation; a
// returned error means the game state is unchanged.
package actions

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/stratforge/empire-api/internal/engine/combat"
	"github.com/stratforge/empire-api/internal/engine/ledger"
	"github.com/stratforge/empire-api/internal/engine/worldgen"
	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	"github.com/stratforge/empire-api/internal/pkg/idgen"
)

// Config holds the executor's dependencies
type Config struct {
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// Executor applies one action at a time to a game aggregate. It is
// stateless between calls; the caller owns locking and persistence.
type Executor struct {
	roller   dice.Roller
	idGen    idgen.Generator
	resolver *combat.Resolver
}

// NewExecutor creates an action executor
func NewExecutor(cfg *Config) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	resolver, err := combat.NewResolver(cfg.Roller)
	if err != nil {
		return nil, err
	}
	return &Executor{
		roller:   cfg.Roller,
		idGen:    cfg.IDGenerator,
		resolver: resolver,
	}, nil
}

// Execute applies the action on behalf of the player and returns the
// structured result. The player must exist in the game; turn-order
// enforcement is the caller's job.
func (e *Executor) Execute(game *entities.Game, playerID string, action entities.Action) (*entities.ActionResult, error) {
	player, ok := game.Player(playerID)
	if !ok {
		return nil, errors.NotFoundf("player %s not in game %s", playerID, game.ID)
	}

	switch act := action.(type) {
	case entities.FoundCity:
		return e.foundCity(game, player, act)
	case entities.CollectResource:
		return e.collectResource(game, player, act)
	case entities.MoveArmy:
		return e.moveArmy(game, player, act)
	case entities.BuildInfrastructure:
		return e.buildInfrastructure(game, player, act)
	case entities.CreateUnit:
		return e.createUnit(game, player, act)
	case entities.Diplomacy:
		return e.diplomacy(game, player, act)
	case entities.FreeAction:
		return e.freeAction(player, act)
	default:
		return nil, errors.InvalidArgumentf("unsupported action kind %q", action.Kind())
	}
}

func (e *Executor) foundCity(game *entities.Game, player *entities.Player, act entities.FoundCity) (*entities.ActionResult, error) {
	tile, ok := game.TileAt(act.Position.X, act.Position.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("position (%d, %d) is out of bounds", act.Position.X, act.Position.Y)
	}
	if tile.City != nil {
		return nil, errors.AlreadyExists("tile already has a city")
	}
	if tile.OwnerID != "" && tile.OwnerID != player.ID {
		return nil, errors.PermissionDenied("tile belongs to another player")
	}
	if tile.Terrain == entities.TerrainWater {
		return nil, errors.InvalidArgument("cannot found a city on water")
	}
	if err := ledger.Deduct(player.Resources, entities.FoundCityCost); err != nil {
		return nil, err
	}

	name := act.Name
	if name == "" {
		name = fmt.Sprintf("%s City %d", player.CivilizationName, player.Stats.CitiesFounded+1)
	}
	tile.City = &entities.City{
		Name:        name,
		Level:       1,
		Population:  500,
		Defense:     5,
		Buildings:   []string{"town_hall"},
		OwnerID:     player.ID,
		FoundedTurn: game.CurrentTurn,
	}
	tile.OwnerID = player.ID
	tile.Discovered = true
	worldgen.Discover(game.Map, act.Position.X, act.Position.Y, worldgen.CapitalDiscoveryRadius)

	player.Stats.CitiesFounded++

	return &entities.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("Founded %s", name),
		City:     tile.City,
		Position: &act.Position,
	}, nil
}

func (e *Executor) collectResource(game *entities.Game, player *entities.Player, act entities.CollectResource) (*entities.ActionResult, error) {
	tile, ok := game.TileAt(act.Position.X, act.Position.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("position (%d, %d) is out of bounds", act.Position.X, act.Position.Y)
	}
	if tile.Resource == "" {
		return nil, errors.FailedPrecondition("tile has no resource to collect")
	}
	if tile.OwnerID != player.ID {
		return nil, errors.PermissionDenied("tile is not owned by you")
	}

	roll, err := e.roller.Roll(20)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll collection amount")
	}
	amount := roll + 9

	ledger.Credit(player.Resources, entities.Resources{tile.Resource: amount})

	return &entities.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("Collected %d %s", amount, tile.Resource),
		Resource: tile.Resource,
		Amount:   amount,
		Position: &act.Position,
	}, nil
}

func (e *Executor) moveArmy(game *entities.Game, player *entities.Player, act entities.MoveArmy) (*entities.ActionResult, error) {
	source, ok := game.TileAt(act.From.X, act.From.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("source (%d, %d) is out of bounds", act.From.X, act.From.Y)
	}
	dest, ok := game.TileAt(act.To.X, act.To.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("destination (%d, %d) is out of bounds", act.To.X, act.To.Y)
	}
	if source.Unit == nil || source.Unit.OwnerID != player.ID {
		return nil, errors.FailedPrecondition("no unit of yours on the source tile")
	}
	if manhattan(act.From, act.To) != 1 {
		return nil, errors.InvalidArgument("destination must be an adjacent tile")
	}

	unit := source.Unit

	// Enemy unit on the destination fights first, regardless of cities.
	if dest.Unit != nil {
		if dest.Unit.OwnerID == player.ID {
			return nil, errors.FailedPrecondition("destination already holds one of your units")
		}
		return e.attackUnit(player, unit, source, dest)
	}

	if dest.City != nil && dest.City.OwnerID != player.ID {
		return e.attackCity(player, unit, source, dest)
	}

	source.Unit = nil
	dest.Unit = unit
	dest.Discovered = true
	if dest.OwnerID == "" {
		dest.OwnerID = player.ID
	}

	return &entities.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("%s moved to (%d, %d)", unit.Name, act.To.X, act.To.Y),
		Unit:     unit,
		Position: &act.To,
	}, nil
}

// attackUnit resolves unit-vs-unit combat on the destination tile. The
// attacker advances only when the defender dies and no enemy city
// remains there; a surviving defender, or the city behind a fallen
// garrison, holds the tile and the attacker stays where it was.
func (e *Executor) attackUnit(player *entities.Player, unit *entities.Unit, source, dest *entities.Tile) (*entities.ActionResult, error) {
	defender := dest.Unit
	result, err := e.resolver.ResolveUnitAttack(unit, defender)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s attacked %s and was repelled", unit.Name, defender.Name)
	if defender.Health <= 0 {
		dest.Unit = nil
		dest.Discovered = true
		if dest.City != nil && dest.City.OwnerID != player.ID {
			// The city holds the tile until it falls itself; the
			// attacker stays put with a clear path to the walls.
			message = fmt.Sprintf("%s defeated %s and broke the garrison of %s",
				unit.Name, defender.Name, dest.City.Name)
		} else {
			previousOwner := dest.OwnerID
			source.Unit = nil
			dest.Unit = unit
			dest.OwnerID = player.ID
			if previousOwner != "" && previousOwner != player.ID {
				player.Stats.TerritoriesConquered++
			}
			message = fmt.Sprintf("%s defeated %s and took the tile", unit.Name, defender.Name)
		}
	}
	if unit.Health <= 0 {
		source.Unit = nil
		message = fmt.Sprintf("%s was destroyed attacking %s", unit.Name, defender.Name)
	}

	return &entities.ActionResult{
		Success:  true,
		Message:  message,
		Unit:     unit,
		Combat:   result,
		Position: &entities.Position{X: dest.X, Y: dest.Y},
	}, nil
}

// attackCity resolves unit-vs-city combat. A defeated city changes hands
// and the attacker garrisons it; cities are never destroyed.
func (e *Executor) attackCity(player *entities.Player, unit *entities.Unit, source, dest *entities.Tile) (*entities.ActionResult, error) {
	city := dest.City
	result, err := e.resolver.ResolveCityAttack(unit, city)
	if err != nil {
		return nil, err
	}

	var message string
	if result.Winner == entities.CombatWinnerAttacker {
		city.OwnerID = player.ID
		dest.OwnerID = player.ID
		dest.Discovered = true
		source.Unit = nil
		dest.Unit = unit
		player.Stats.TerritoriesConquered++
		message = fmt.Sprintf("%s conquered %s", unit.Name, city.Name)
	} else {
		message = fmt.Sprintf("%s failed to take %s", unit.Name, city.Name)
		if unit.Health <= 0 {
			source.Unit = nil
			message = fmt.Sprintf("%s was destroyed assaulting %s", unit.Name, city.Name)
		}
	}

	return &entities.ActionResult{
		Success:  true,
		Message:  message,
		Unit:     unit,
		Combat:   result,
		Position: &entities.Position{X: dest.X, Y: dest.Y},
	}, nil
}

func (e *Executor) buildInfrastructure(game *entities.Game, player *entities.Player, act entities.BuildInfrastructure) (*entities.ActionResult, error) {
	tile, ok := game.TileAt(act.Position.X, act.Position.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("position (%d, %d) is out of bounds", act.Position.X, act.Position.Y)
	}
	if tile.OwnerID != player.ID {
		return nil, errors.PermissionDenied("tile is not owned by you")
	}
	if tile.City == nil {
		return nil, errors.FailedPrecondition("tile has no city")
	}
	spec, ok := entities.BuildingTypes[act.Building]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown building %q", act.Building)
	}
	if tile.City.HasBuilding(act.Building) {
		return nil, errors.AlreadyExistsf("%s already has a %s", tile.City.Name, spec.Name)
	}
	if err := ledger.Deduct(player.Resources, spec.Cost); err != nil {
		return nil, err
	}

	tile.City.Buildings = append(tile.City.Buildings, act.Building)

	return &entities.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("Built %s in %s", spec.Name, tile.City.Name),
		City:     tile.City,
		Position: &act.Position,
	}, nil
}

func (e *Executor) createUnit(game *entities.Game, player *entities.Player, act entities.CreateUnit) (*entities.ActionResult, error) {
	spec, ok := entities.UnitTypes[act.UnitType]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown unit type %q", act.UnitType)
	}
	tile, ok := game.TileAt(act.Position.X, act.Position.Y)
	if !ok {
		return nil, errors.InvalidArgumentf("position (%d, %d) is out of bounds", act.Position.X, act.Position.Y)
	}
	if tile.OwnerID != player.ID {
		return nil, errors.PermissionDenied("tile is not owned by you")
	}
	if tile.Unit != nil {
		return nil, errors.AlreadyExists("tile already holds a unit")
	}
	if err := ledger.Deduct(player.Resources, spec.Cost); err != nil {
		return nil, err
	}

	unit := &entities.Unit{
		ID:          e.idGen.Generate(),
		Type:        act.UnitType,
		Name:        spec.Name,
		Attack:      spec.Attack,
		Defense:     spec.Defense,
		Health:      spec.Health,
		MaxHealth:   spec.Health,
		Movement:    spec.Movement,
		MaxMovement: spec.Movement,
		Level:       1,
		OwnerID:     player.ID,
	}
	tile.Unit = unit

	return &entities.ActionResult{
		Success:  true,
		Message:  fmt.Sprintf("Trained %s", spec.Name),
		Unit:     unit,
		Position: &act.Position,
	}, nil
}

func (e *Executor) diplomacy(game *entities.Game, player *entities.Player, act entities.Diplomacy) (*entities.ActionResult, error) {
	target, ok := game.Player(act.TargetPlayerID)
	if !ok {
		return nil, errors.NotFoundf("target player %s not in game", act.TargetPlayerID)
	}
	if target.ID == player.ID {
		return nil, errors.InvalidArgument("cannot conduct diplomacy with yourself")
	}

	return &entities.ActionResult{
		Success:        true,
		Message:        fmt.Sprintf("%s sent a %s gesture to %s", player.CivilizationName, act.Gesture, target.CivilizationName),
		TargetPlayerID: target.ID,
		Description:    act.Gesture,
		NeedsNarrative: true,
	}, nil
}

func (e *Executor) freeAction(player *entities.Player, act entities.FreeAction) (*entities.ActionResult, error) {
	return &entities.ActionResult{
		Success:        true,
		Message:        fmt.Sprintf("%s acts freely", player.CivilizationName),
		Description:    act.Description,
		NeedsNarrative: true,
	}, nil
}

func manhattan(a, b entities.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
