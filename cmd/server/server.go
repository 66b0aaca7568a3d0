package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stratforge/empire-api/internal/clients/narrative"
	apiv1 "github.com/stratforge/empire-api/internal/handlers/api/v1"
	"github.com/stratforge/empire-api/internal/notify"
	game "github.com/stratforge/empire-api/internal/orchestrators/game"
	"github.com/stratforge/empire-api/internal/pkg/idgen"
	redisclient "github.com/stratforge/empire-api/internal/redis"
	gamerepo "github.com/stratforge/empire-api/internal/repositories/game"
)

// serverConfig is read from the environment at startup
type serverConfig struct {
	Port           int           `env:"PORT" envDefault:"8080"`
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	TurnTimeout    time.Duration `env:"TURN_TIMEOUT" envDefault:"90s"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	NarrativeModel string        `env:"NARRATIVE_MODEL" envDefault:"gpt-4o-mini"`
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the empire API server with the game engine and all configured collaborators.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			slog.Warn("failed to close redis client", slog.String("error", closeErr.Error()))
		}
	}()

	gameRepo, err := gamerepo.NewRedis(&gamerepo.RedisConfig{Client: client})
	if err != nil {
		return fmt.Errorf("failed to create game repository: %w", err)
	}

	eventBus := events.NewBus()

	service, err := game.NewOrchestrator(&game.Config{
		GameRepo:    gameRepo,
		IDGenerator: idgen.NewUUID("game"),
		Roller:      dice.DefaultRoller,
		EventBus:    eventBus,
		TurnTimeout: cfg.TurnTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	forwarder, err := notify.NewForwarder(&notify.ForwarderConfig{
		EventBus: eventBus,
		Client:   narrativeClient(&cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create narrative forwarder: %w", err)
	}
	forwarder.Start()
	defer forwarder.Stop()

	handler, err := apiv1.NewHandler(&apiv1.HandlerConfig{Service: service})
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", slog.Int("port", cfg.Port))
		if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", serveErr)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			slog.Warn("graceful shutdown failed, closing", slog.String("error", shutdownErr.Error()))
			return srv.Close()
		}
		slog.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// narrativeClient picks the chronicler backend. Without an API key the
// server narrates to its own log.
func narrativeClient(cfg *serverConfig) narrative.Client {
	if cfg.OpenAIAPIKey == "" {
		slog.Info("OPENAI_API_KEY not set, narrating to log")
		return narrative.NewLogging()
	}
	client, err := narrative.NewOpenAI(&narrative.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.NarrativeModel,
	})
	if err != nil {
		slog.Warn("failed to create openai client, narrating to log",
			slog.String("error", err.Error()))
		return narrative.NewLogging()
	}
	return client
}
