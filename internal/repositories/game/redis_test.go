package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	"github.com/stratforge/empire-api/internal/pkg/clock"
	redisclient "github.com/stratforge/empire-api/internal/redis"
	gamerepo "github.com/stratforge/empire-api/internal/repositories/game"
	"github.com/stratforge/empire-api/internal/testutils"
)

const testGameID = "game_123"

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redisclient.Client
	cleanup func()
	repo    gamerepo.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())

	repo, err := gamerepo.NewRedis(&gamerepo.RedisConfig{
		Client: s.client,
		Clock:  clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	game := testutils.CreateTestGame(testGameID, 4)
	game.Players = append(game.Players, testutils.CreateTestPlayer("p1", "Valoria"))

	createOut, err := s.repo.Create(s.ctx, gamerepo.CreateInput{Game: game})
	s.Require().NoError(err)
	s.False(createOut.Game.CreatedAt.IsZero())

	getOut, err := s.repo.Get(s.ctx, gamerepo.GetInput{ID: testGameID})
	s.Require().NoError(err)

	loaded := getOut.Game
	s.Equal(testGameID, loaded.ID)
	s.Equal(entities.GameStatusWaiting, loaded.Status)
	s.Equal(4, loaded.MapSize)
	s.Require().Len(loaded.Players, 1)
	s.Equal("Valoria", loaded.Players[0].CivilizationName)
	s.Equal(100, loaded.Players[0].Resources[entities.ResourceFood])
	s.Require().Len(loaded.Map, 4)
	s.Equal(entities.TerrainPlains, loaded.Map[3][3].Terrain)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	game := testutils.CreateTestGame(testGameID, 4)

	_, err := s.repo.Create(s.ctx, gamerepo.CreateInput{Game: game})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, gamerepo.CreateInput{Game: game})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, gamerepo.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, gamerepo.CreateInput{Game: &entities.Game{}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, gamerepo.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	game := testutils.CreateTestGame(testGameID, 4)
	_, err := s.repo.Create(s.ctx, gamerepo.CreateInput{Game: game})
	s.Require().NoError(err)

	game.Status = entities.GameStatusPlaying
	game.CurrentTurn = 5
	game.Map[1][2].OwnerID = "p1"

	_, err = s.repo.Update(s.ctx, gamerepo.UpdateInput{Game: game})
	s.Require().NoError(err)

	getOut, err := s.repo.Get(s.ctx, gamerepo.GetInput{ID: testGameID})
	s.Require().NoError(err)
	s.Equal(entities.GameStatusPlaying, getOut.Game.Status)
	s.Equal(5, getOut.Game.CurrentTurn)
	s.Equal("p1", getOut.Game.Map[1][2].OwnerID)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	game := testutils.CreateTestGame("never-created", 4)

	_, err := s.repo.Update(s.ctx, gamerepo.UpdateInput{Game: game})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	game := testutils.CreateTestGame(testGameID, 4)
	_, err := s.repo.Create(s.ctx, gamerepo.CreateInput{Game: game})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, gamerepo.DeleteInput{ID: testGameID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, gamerepo.GetInput{ID: testGameID})
	s.True(errors.IsNotFound(err))

	// The index no longer lists the game.
	listOut, err := s.repo.List(s.ctx, gamerepo.ListInput{})
	s.Require().NoError(err)
	s.Empty(listOut.Games)
}

func (s *RedisRepositoryTestSuite) TestDeleteNotFound() {
	_, err := s.repo.Delete(s.ctx, gamerepo.DeleteInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestList() {
	waiting := testutils.CreateTestGame("game_a", 4)
	playing := testutils.CreateTestGame("game_b", 4)
	playing.Status = entities.GameStatusPlaying

	_, err := s.repo.Create(s.ctx, gamerepo.CreateInput{Game: waiting})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, gamerepo.CreateInput{Game: playing})
	s.Require().NoError(err)

	listOut, err := s.repo.List(s.ctx, gamerepo.ListInput{})
	s.Require().NoError(err)
	s.Len(listOut.Games, 2)

	listOut, err = s.repo.List(s.ctx, gamerepo.ListInput{Status: entities.GameStatusPlaying})
	s.Require().NoError(err)
	s.Require().Len(listOut.Games, 1)
	s.Equal("game_b", listOut.Games[0].ID)
}
