package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/stratforge/empire-api/internal/engine/ledger"
	"github.com/stratforge/empire-api/internal/engine/victory"
	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
)

func (o *orchestrator) SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Action == nil {
		return nil, errors.InvalidArgument("action cannot be nil")
	}

	unlock := o.lockGame(input.GameID)

	game, err := o.loadGame(ctx, input.GameID)
	if err != nil {
		unlock()
		return nil, err
	}

	if game.Status != entities.GameStatusPlaying {
		unlock()
		return nil, errors.FailedPreconditionf("game is %s, not playing", game.Status)
	}
	current := game.CurrentPlayer()
	if current == nil || current.ID != input.PlayerID {
		unlock()
		return nil, errors.FailedPrecondition("it is not your turn")
	}

	result, err := o.executor.Execute(game, input.PlayerID, input.Action)
	if err != nil {
		unlock()
		return nil, err
	}

	envelope, err := entities.EncodeAction(input.Action)
	if err != nil {
		unlock()
		return nil, errors.Wrap(err, "failed to encode action")
	}

	game.History = append(game.History, entities.HistoryEntry{
		Turn:      game.CurrentTurn,
		PlayerID:  input.PlayerID,
		Type:      entities.HistoryTypeAction,
		Action:    envelope,
		Result:    result,
		Timestamp: o.clock.Now(),
	})

	current.Stats.TotalTurns++
	o.advanceTurn(game)
	winner := o.checkVictory(game)

	if err := o.saveGame(ctx, game); err != nil {
		unlock()
		return nil, err
	}

	if winner != nil {
		o.stopTimer(game.ID)
	} else {
		o.armTimer(game)
	}

	unlock()

	// Collaborators run outside the lock; they never roll back a commit.
	o.publish(ctx, EventActionCommitted, game, current, result)
	if winner != nil {
		winPlayer, _ := game.Player(winner.PlayerID)
		o.publish(ctx, EventGameFinished, game, winPlayer, &entities.ActionResult{
			Success:        true,
			Message:        winMessage(game, winner),
			NeedsNarrative: true,
		})
	}

	return &SubmitActionOutput{Game: game, Result: result}, nil
}

// advanceTurn rotates the active player. A full rotation increments the
// turn counter and pays every player their city production.
func (o *orchestrator) advanceTurn(game *entities.Game) {
	if len(game.Players) == 0 {
		return
	}

	game.CurrentPlayerIndex++
	if game.CurrentPlayerIndex < len(game.Players) {
		return
	}

	game.CurrentPlayerIndex = 0
	game.CurrentTurn++
	for _, player := range game.Players {
		ledger.Credit(player.Resources, ledger.PlayerProduction(game, player.ID))
	}
}

// checkVictory evaluates the game's victory condition and, on a win,
// finishes the game with a terminal history entry.
func (o *orchestrator) checkVictory(game *entities.Game) *entities.Winner {
	winner := victory.Evaluate(game)
	if winner == nil {
		return nil
	}

	game.Status = entities.GameStatusFinished
	game.Winner = winner
	if player, ok := game.Player(winner.PlayerID); ok {
		player.Stats.GamesWon++
	}
	game.History = append(game.History, entities.HistoryEntry{
		Turn:      game.CurrentTurn,
		PlayerID:  winner.PlayerID,
		Type:      entities.HistoryTypeGameEnd,
		Message:   winMessage(game, winner),
		Timestamp: o.clock.Now(),
	})

	return winner
}

func winMessage(game *entities.Game, winner *entities.Winner) string {
	civilization := winner.PlayerID
	if player, ok := game.Player(winner.PlayerID); ok {
		civilization = player.CivilizationName
	}
	return civilization + " achieved a " + string(winner.VictoryType) + " victory"
}

// armTimer schedules an auto-skip of the active player's turn. The
// callback re-checks turn and player under the lock, so a stale timer
// that lost the race to a submitted action is a no-op.
func (o *orchestrator) armTimer(game *entities.Game) {
	if o.turnTimeout <= 0 {
		return
	}

	o.stopTimer(game.ID)

	gameID := game.ID
	turn := game.CurrentTurn
	playerIndex := game.CurrentPlayerIndex
	timer := time.AfterFunc(o.turnTimeout, func() {
		o.skipTurn(gameID, turn, playerIndex)
	})
	o.timers.Store(gameID, timer)
}

func (o *orchestrator) stopTimer(gameID string) {
	if v, ok := o.timers.LoadAndDelete(gameID); ok {
		v.(*time.Timer).Stop()
	}
}

// skipTurn forfeits the active player's pending action after a timeout
func (o *orchestrator) skipTurn(gameID string, turn, playerIndex int) {
	ctx := context.Background()

	unlock := o.lockGame(gameID)

	game, err := o.loadGame(ctx, gameID)
	if err != nil {
		unlock()
		slog.Warn("turn skip aborted, game not loadable",
			"game_id", gameID,
			"error", err.Error())
		return
	}

	// Stale fire: the turn moved on before the timer was stopped.
	if game.Status != entities.GameStatusPlaying ||
		game.CurrentTurn != turn ||
		game.CurrentPlayerIndex != playerIndex {
		unlock()
		return
	}

	skipped := game.CurrentPlayer()
	game.History = append(game.History, entities.HistoryEntry{
		Turn:      game.CurrentTurn,
		PlayerID:  skipped.ID,
		Type:      entities.HistoryTypeTurnSkipped,
		Message:   skipped.CivilizationName + " ran out of time",
		Timestamp: o.clock.Now(),
	})
	skipped.Stats.TotalTurns++

	o.advanceTurn(game)
	winner := o.checkVictory(game)

	if err := o.saveGame(ctx, game); err != nil {
		unlock()
		slog.Error("failed to save skipped turn",
			"game_id", gameID,
			"error", err.Error())
		return
	}

	if winner != nil {
		o.stopTimer(gameID)
	} else {
		o.armTimer(game)
	}

	unlock()

	slog.Info("turn skipped on timeout",
		"game_id", gameID,
		"player_id", skipped.ID,
		"turn", turn)

	o.publish(ctx, EventTurnSkipped, game, skipped, &entities.ActionResult{
		Success: true,
		Message: skipped.CivilizationName + " ran out of time",
	})
}
