package game

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	"github.com/stratforge/empire-api/internal/pkg/clock"
	redisclient "github.com/stratforge/empire-api/internal/redis"
)

const (
	gameKeyPrefix = "game:"
	gameIndexKey  = "games:index"

	errGameNil     = "game cannot be nil"
	errGameIDEmpty = "game ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis game repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Game == nil {
		return nil, errors.InvalidArgument(errGameNil)
	}
	if input.Game.ID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	key := gameKeyPrefix + input.Game.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("game with ID %s already exists", input.Game.ID)
	}

	input.Game.CreatedAt = r.clock.Now()
	input.Game.UpdatedAt = input.Game.CreatedAt

	data, err := json.Marshal(input.Game)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal game")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0) // games live until deleted
	pipe.SAdd(ctx, gameIndexKey, input.Game.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create game")
	}

	return &CreateOutput{Game: input.Game}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	result, err := r.client.Get(ctx, gameKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("game with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get game")
	}

	var game entities.Game
	if err := json.Unmarshal([]byte(result), &game); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal game")
	}

	return &GetOutput{Game: &game}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Game == nil {
		return nil, errors.InvalidArgument(errGameNil)
	}
	if input.Game.ID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	key := gameKeyPrefix + input.Game.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("game with ID %s not found", input.Game.ID)
	}

	input.Game.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(input.Game)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal game")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update game")
	}

	return &UpdateOutput{Game: input.Game}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	key := gameKeyPrefix + input.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("game with ID %s not found", input.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, gameIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete game")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	gameIDs, err := r.client.SMembers(ctx, gameIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read game index")
	}

	games := make([]*entities.Game, 0, len(gameIDs))
	for _, id := range gameIDs {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			// Stale index entries are cleaned up as they are found.
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "game missing, cleaning up index",
					"game_id", id,
					"index_key", gameIndexKey)
				r.client.SRem(ctx, gameIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get game %s", id)
		}
		if input.Status != "" && getOutput.Game.Status != input.Status {
			continue
		}
		games = append(games, getOutput.Game)
	}

	return &ListOutput{Games: games}, nil
}
