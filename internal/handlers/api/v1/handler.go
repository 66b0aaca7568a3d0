// Package apiv1 exposes the game service over HTTP. Handlers translate
// JSON requests into orchestrator inputs and map coded errors onto
// status codes; all rules live below this layer.
package apiv1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
	game "github.com/stratforge/empire-api/internal/orchestrators/game"
)

// HandlerConfig holds dependencies for the v1 API handler
type HandlerConfig struct {
	Service game.Service
}

// Validate ensures all required fields are set
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Service == nil {
		return errors.InvalidArgument("service is required")
	}
	return nil
}

// Handler serves the v1 game API
type Handler struct {
	service game.Service
}

// NewHandler creates a v1 API handler with the given config
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{service: cfg.Service}, nil
}

// RegisterRoutes mounts the v1 routes on the given router
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/v1")
	{
		v1.POST("/games", h.createGame)
		v1.GET("/games", h.listGames)
		v1.GET("/games/:id", h.getState)
		v1.POST("/games/:id/players", h.addPlayer)
		v1.DELETE("/games/:id/players/:playerID", h.removePlayer)
		v1.GET("/games/:id/players/:playerID/view", h.getPlayerView)
		v1.POST("/games/:id/start", h.startGame)
		v1.POST("/games/:id/actions", h.submitAction)
		v1.POST("/games/:id/events", h.worldEvent)
	}
}

type createGameRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"max_players"`
	MapSize    int    `json:"map_size"`
	GameMode   string `json:"game_mode"`
}

func (h *Handler) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidArgumentf("invalid request body: %v", err))
		return
	}

	output, err := h.service.CreateGame(c.Request.Context(), &game.CreateGameInput{
		Name:       req.Name,
		MaxPlayers: req.MaxPlayers,
		MapSize:    req.MapSize,
		GameMode:   entities.GameMode(req.GameMode),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": output.Game})
}

func (h *Handler) listGames(c *gin.Context) {
	output, err := h.service.ListGames(c.Request.Context(), &game.ListGamesInput{
		Status: entities.GameStatus(c.Query("status")),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": output.Games})
}

func (h *Handler) getState(c *gin.Context) {
	output, err := h.service.GetState(c.Request.Context(), &game.GetStateInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game})
}

type addPlayerRequest struct {
	PlayerID         string `json:"player_id"`
	Name             string `json:"name"`
	CivilizationName string `json:"civilization_name"`
	Avatar           string `json:"avatar"`
}

func (h *Handler) addPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidArgumentf("invalid request body: %v", err))
		return
	}

	output, err := h.service.AddPlayer(c.Request.Context(), &game.AddPlayerInput{
		GameID:           c.Param("id"),
		PlayerID:         req.PlayerID,
		Name:             req.Name,
		CivilizationName: req.CivilizationName,
		Avatar:           req.Avatar,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": output.Game, "player": output.Player})
}

func (h *Handler) removePlayer(c *gin.Context) {
	output, err := h.service.RemovePlayer(c.Request.Context(), &game.RemovePlayerInput{
		GameID:   c.Param("id"),
		PlayerID: c.Param("playerID"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game})
}

func (h *Handler) getPlayerView(c *gin.Context) {
	output, err := h.service.GetPlayerView(c.Request.Context(), &game.GetPlayerViewInput{
		GameID:   c.Param("id"),
		PlayerID: c.Param("playerID"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game})
}

func (h *Handler) startGame(c *gin.Context) {
	output, err := h.service.StartGame(c.Request.Context(), &game.StartGameInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game})
}

type submitActionRequest struct {
	PlayerID string                   `json:"player_id"`
	Action   *entities.ActionEnvelope `json:"action"`
}

func (h *Handler) submitAction(c *gin.Context) {
	var req submitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidArgumentf("invalid request body: %v", err))
		return
	}
	if req.Action == nil {
		writeError(c, errors.InvalidArgument("action is required"))
		return
	}

	action, err := req.Action.Decode()
	if err != nil {
		writeError(c, errors.InvalidArgumentf("invalid action: %v", err))
		return
	}

	output, err := h.service.SubmitAction(c.Request.Context(), &game.SubmitActionInput{
		GameID:   c.Param("id"),
		PlayerID: req.PlayerID,
		Action:   action,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game, "result": output.Result})
}

type worldEventRequest struct {
	Message string `json:"message"`
}

func (h *Handler) worldEvent(c *gin.Context) {
	var req worldEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidArgumentf("invalid request body: %v", err))
		return
	}

	output, err := h.service.WorldEvent(c.Request.Context(), &game.WorldEventInput{
		GameID:  c.Param("id"),
		Message: req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": output.Game})
}

// writeError maps a coded error onto an HTTP status and JSON body
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(code.HTTPStatus(), gin.H{
		"code":  code.String(),
		"error": err.Error(),
	})
}
