// Package game implements the game orchestrator: lifecycle, turn order,
// per-game locking, turn timeouts, history, and event publication.
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/stratforge/empire-api/internal/orchestrators/game Service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/stratforge/empire-api/internal/engine/actions"
	"github.com/stratforge/empire-api/internal/engine/worldgen"
	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	"github.com/stratforge/empire-api/internal/pkg/clock"
	"github.com/stratforge/empire-api/internal/pkg/idgen"
	gamerepo "github.com/stratforge/empire-api/internal/repositories/game"
)

// Event types published on the bus after a commit
const (
	EventActionCommitted = "empire.action.committed"
	EventTurnSkipped     = "empire.turn.skipped"
	EventGameFinished    = "empire.game.finished"
	EventWorldEvent      = "empire.world.event"
)

// Game sizing limits
const (
	MinPlayers     = 2
	MaxPlayersCap  = 8
	MinMapSize     = 5
	MaxMapSize     = 50
	DefaultPlayers = 4
	DefaultMapSize = 20
)

// Service defines the interface for game operations
type Service interface {
	// Lifecycle
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error)
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// Play
	SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error)
	WorldEvent(ctx context.Context, input *WorldEventInput) (*WorldEventOutput, error)

	// Reads
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)
	GetPlayerView(ctx context.Context, input *GetPlayerViewInput) (*GetPlayerViewOutput, error)
	ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	GameRepo    gamerepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	Roller      dice.Roller
	EventBus    events.EventBus

	// TurnTimeout bounds how long the active player may hold the turn.
	// Zero disables the timer.
	TurnTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.GameRepo == nil {
		vb.RequiredField("GameRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

type orchestrator struct {
	gameRepo    gamerepo.Repository
	idGen       idgen.Generator
	clock       clock.Clock
	eventBus    events.EventBus
	executor    *actions.Executor
	generator   *worldgen.Generator
	turnTimeout time.Duration

	// One mutex per game; distinct games mutate in parallel.
	locks sync.Map // game ID -> *sync.Mutex
	// One pending timeout timer per playing game.
	timers sync.Map // game ID -> *time.Timer
}

// NewOrchestrator creates a new game orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	executor, err := actions.NewExecutor(&actions.Config{
		Roller:      cfg.Roller,
		IDGenerator: cfg.IDGenerator,
	})
	if err != nil {
		return nil, err
	}
	generator, err := worldgen.NewGenerator(cfg.Roller)
	if err != nil {
		return nil, err
	}

	return &orchestrator{
		gameRepo:    cfg.GameRepo,
		idGen:       cfg.IDGenerator,
		clock:       c,
		eventBus:    cfg.EventBus,
		executor:    executor,
		generator:   generator,
		turnTimeout: cfg.TurnTimeout,
	}, nil
}

// lockGame acquires the per-game mutex and returns its unlock func
func (o *orchestrator) lockGame(gameID string) func() {
	v, _ := o.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (o *orchestrator) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	maxPlayers := input.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = DefaultPlayers
	}
	mapSize := input.MapSize
	if mapSize == 0 {
		mapSize = DefaultMapSize
	}
	gameMode := input.GameMode
	if gameMode == "" {
		gameMode = entities.GameModeDomination
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRange("max_players", maxPlayers, MinPlayers, MaxPlayersCap, vb)
	errors.ValidateRange("map_size", mapSize, MinMapSize, MaxMapSize, vb)
	errors.ValidateEnum("game_mode", string(gameMode), []string{
		string(entities.GameModeDomination),
		string(entities.GameModeScience),
		string(entities.GameModeCulture),
		string(entities.GameModeEconomic),
	}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	grid, err := o.generator.Generate(mapSize)
	if err != nil {
		return nil, err
	}

	game := &entities.Game{
		ID:         o.idGen.Generate(),
		Name:       input.Name,
		Status:     entities.GameStatusWaiting,
		MaxPlayers: maxPlayers,
		MapSize:    mapSize,
		GameMode:   gameMode,
		Map:        grid,
	}

	createOut, err := o.gameRepo.Create(ctx, gamerepo.CreateInput{Game: game})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "game created",
		"game_id", game.ID,
		"map_size", mapSize,
		"game_mode", gameMode)

	return &CreateGameOutput{Game: createOut.Game}, nil
}

func (o *orchestrator) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("game_id", input.GameID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lockGame(input.GameID)
	defer unlock()

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != entities.GameStatusWaiting {
		return nil, errors.FailedPrecondition("game has already started")
	}
	if len(game.Players) >= game.MaxPlayers {
		return nil, errors.FailedPreconditionf("game is full (%d players)", game.MaxPlayers)
	}

	playerID := input.PlayerID
	if playerID == "" {
		playerID = o.idGen.Generate()
	}
	if _, exists := game.Player(playerID); exists {
		return nil, errors.AlreadyExistsf("player %s already joined", playerID)
	}

	civilization := input.CivilizationName
	if civilization == "" {
		civilization = input.Name
	}

	player := &entities.Player{
		ID:               playerID,
		Name:             input.Name,
		CivilizationName: civilization,
		Avatar:           input.Avatar,
		Online:           true,
		Resources:        entities.Resources{},
	}
	game.Players = append(game.Players, player)

	if err := o.saveGame(ctx, game); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "player joined",
		"game_id", game.ID,
		"player_id", playerID,
		"players", len(game.Players))

	return &AddPlayerOutput{Game: game, Player: player}, nil
}

func (o *orchestrator) RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	unlock := o.lockGame(input.GameID)
	defer unlock()

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, p := range game.Players {
		if p.ID == input.PlayerID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, errors.NotFoundf("player %s not in game %s", input.PlayerID, input.GameID)
	}

	game.Players = append(game.Players[:index], game.Players[index+1:]...)

	switch {
	case len(game.Players) == 0:
		game.Status = entities.GameStatusFinished
		o.stopTimer(game.ID)
	case index < game.CurrentPlayerIndex:
		game.CurrentPlayerIndex--
	case game.CurrentPlayerIndex >= len(game.Players):
		game.CurrentPlayerIndex = 0
	}

	if err := o.saveGame(ctx, game); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "player left",
		"game_id", game.ID,
		"player_id", input.PlayerID,
		"players", len(game.Players))

	return &RemovePlayerOutput{Game: game}, nil
}

func (o *orchestrator) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	unlock := o.lockGame(input.GameID)
	defer unlock()

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Status != entities.GameStatusWaiting {
		return nil, errors.FailedPrecondition("game has already started")
	}
	if len(game.Players) < MinPlayers {
		return nil, errors.FailedPreconditionf("need at least %d players to start", MinPlayers)
	}

	game.Status = entities.GameStatusPlaying
	game.CurrentTurn = 1
	game.CurrentPlayerIndex = 0

	positions := worldgen.StartingPositions(game.Map, len(game.Players))
	for i, player := range game.Players {
		player.Resources = entities.StartingResources.Clone()
		player.Stats.GamesPlayed++

		pos, ok := o.capitalPosition(game, positions, i)
		if !ok {
			return nil, errors.FailedPrecondition("map has no land for a capital")
		}
		worldgen.PlaceCapital(game, player, pos)
	}

	if err := o.saveGame(ctx, game); err != nil {
		return nil, err
	}

	o.armTimer(game)

	slog.InfoContext(ctx, "game started",
		"game_id", game.ID,
		"players", len(game.Players),
		"game_mode", game.GameMode)

	return &StartGameOutput{Game: game}, nil
}

// capitalPosition picks the i-th circle position, falling back to the
// nearest free land tile when the circle slot was rejected or taken.
func (o *orchestrator) capitalPosition(game *entities.Game, positions []entities.Position, i int) (entities.Position, bool) {
	if i < len(positions) {
		tile := game.Map[positions[i].X][positions[i].Y]
		if tile.City == nil {
			return positions[i], true
		}
	}

	center := game.MapSize / 2
	pos, ok := worldgen.NearestLand(game.Map, center, center)
	if ok && game.Map[pos.X][pos.Y].City == nil {
		return pos, true
	}

	for x := 0; x < game.MapSize; x++ {
		for y := 0; y < game.MapSize; y++ {
			tile := game.Map[x][y]
			if tile.Terrain == entities.TerrainWater || tile.City != nil {
				continue
			}
			return entities.Position{X: x, Y: y}, true
		}
	}
	return entities.Position{}, false
}

func (o *orchestrator) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	return &GetStateOutput{Game: game}, nil
}

func (o *orchestrator) GetPlayerView(ctx context.Context, input *GetPlayerViewInput) (*GetPlayerViewOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if _, ok := game.Player(input.PlayerID); !ok {
		return nil, errors.NotFoundf("player %s not in game %s", input.PlayerID, input.GameID)
	}

	// The repository hands back a fresh copy, so redacting in place is
	// safe. Undiscovered tiles keep coordinates and terrain only.
	for x := 0; x < game.MapSize; x++ {
		for y := 0; y < game.MapSize; y++ {
			tile := game.Map[x][y]
			if !tile.Discovered {
				game.Map[x][y] = &entities.Tile{X: x, Y: y, Terrain: tile.Terrain}
			}
		}
	}

	return &GetPlayerViewOutput{Game: game}, nil
}

func (o *orchestrator) WorldEvent(ctx context.Context, input *WorldEventInput) (*WorldEventOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("game_id", input.GameID, vb)
	errors.ValidateRequired("message", input.Message, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lockGame(input.GameID)
	defer unlock()

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if game.Status == entities.GameStatusFinished {
		return nil, errors.FailedPrecondition("game is finished")
	}

	game.History = append(game.History, entities.HistoryEntry{
		Turn:      game.CurrentTurn,
		Type:      entities.HistoryTypeWorldEvent,
		Message:   input.Message,
		Timestamp: o.clock.Now(),
	})

	if err := o.saveGame(ctx, game); err != nil {
		return nil, err
	}

	o.publish(ctx, EventWorldEvent, game, nil, &entities.ActionResult{
		Success:        true,
		Message:        input.Message,
		NeedsNarrative: true,
	})

	return &WorldEventOutput{Game: game}, nil
}

func (o *orchestrator) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	if input == nil {
		input = &ListGamesInput{}
	}

	listOut, err := o.gameRepo.List(ctx, gamerepo.ListInput{Status: input.Status})
	if err != nil {
		return nil, err
	}
	return &ListGamesOutput{Games: listOut.Games}, nil
}

func (o *orchestrator) loadGame(ctx context.Context, gameID string) (*entities.Game, error) {
	getOut, err := o.gameRepo.Get(ctx, gamerepo.GetInput{ID: gameID})
	if err != nil {
		return nil, err
	}
	return getOut.Game, nil
}

func (o *orchestrator) saveGame(ctx context.Context, game *entities.Game) error {
	_, err := o.gameRepo.Update(ctx, gamerepo.UpdateInput{Game: game})
	return err
}

// publish emits a game event on the bus. Bus failures are logged and
// swallowed; committed engine state never rolls back for a collaborator.
func (o *orchestrator) publish(ctx context.Context, eventType string, game *entities.Game, player *entities.Player, result *entities.ActionResult) {
	// An untargeted event must carry a nil interface, not a typed nil.
	var target core.Entity
	if player != nil {
		target = player
	}
	event := events.NewGameEvent(eventType, game, target)
	event.Context().Set("game_name", game.Name)
	event.Context().Set("turn", game.CurrentTurn)
	if player != nil {
		event.Context().Set("civilization", player.CivilizationName)
	}
	if result != nil {
		event.Context().Set("message", result.Message)
		event.Context().Set("description", result.Description)
		event.Context().Set("needs_narrative", result.NeedsNarrative)
	}

	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish game event",
			"event_type", eventType,
			"game_id", game.ID,
			"error", err.Error())
	}
}
