// Package notify bridges the event bus to the narrative client. It
// listens for committed game events and asks the chronicler for flavor
// text, keeping narration fully decoupled from the turn pipeline.
package notify

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/stratforge/empire-api/internal/clients/narrative"
	"github.com/stratforge/empire-api/internal/errors"
	game "github.com/stratforge/empire-api/internal/orchestrators/game"
)

// Subscription priority for narration handlers. Narration runs after
// any gameplay listeners on the same topic.
const narratePriority = 100

// ForwarderConfig holds dependencies for the narrative forwarder
type ForwarderConfig struct {
	EventBus events.EventBus
	Client   narrative.Client
}

// Validate ensures all required fields are set
func (c *ForwarderConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

// Forwarder subscribes to game event topics and narrates them
type Forwarder struct {
	eventBus      events.EventBus
	client        narrative.Client
	subscriptions []string
}

// NewForwarder creates a forwarder from the given config. Call Start
// to begin listening.
func NewForwarder(cfg *ForwarderConfig) (*Forwarder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Forwarder{
		eventBus: cfg.EventBus,
		client:   cfg.Client,
	}, nil
}

// Start subscribes to the narratable topics. Calling Start twice
// without Stop doubles the narration.
func (f *Forwarder) Start() {
	for _, topic := range []string{
		game.EventActionCommitted,
		game.EventTurnSkipped,
		game.EventGameFinished,
		game.EventWorldEvent,
	} {
		id := f.eventBus.SubscribeFunc(topic, narratePriority, f.handle)
		f.subscriptions = append(f.subscriptions, id)
	}
}

// Stop removes all active subscriptions
func (f *Forwarder) Stop() {
	for _, id := range f.subscriptions {
		if err := f.eventBus.Unsubscribe(id); err != nil {
			slog.Warn("failed to unsubscribe narration handler",
				slog.String("subscription_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	f.subscriptions = nil
}

// handle narrates a single committed event. Errors are logged and
// swallowed so a chronicler outage never fails the bus.
func (f *Forwarder) handle(ctx context.Context, event events.Event) error {
	input := narrateInput(event)
	if input == nil {
		return nil
	}

	output, err := f.client.Narrate(ctx, input)
	if err != nil {
		slog.WarnContext(ctx, "narration failed",
			slog.String("event_type", event.Type()),
			slog.String("game_name", input.GameName),
			slog.String("error", err.Error()),
		)
		return nil
	}

	slog.InfoContext(ctx, "event narrated",
		slog.String("event_type", event.Type()),
		slog.String("game_name", input.GameName),
		slog.Int("turn", input.Turn),
		slog.String("narrative", output.Narrative),
	)
	return nil
}

// narrateInput extracts the narration payload from an event context.
// Every committed action is narrated; other topics opt in through the
// needs_narrative flag. Returns nil for events that stay quiet.
func narrateInput(event events.Event) *narrative.NarrateInput {
	if event.Type() != game.EventActionCommitted && !contextBool(event, "needs_narrative") {
		return nil
	}
	return &narrative.NarrateInput{
		GameName:     contextString(event, "game_name"),
		Turn:         contextInt(event, "turn"),
		Civilization: contextString(event, "civilization"),
		Kind:         event.Type(),
		Message:      contextString(event, "message"),
		Description:  contextString(event, "description"),
	}
}

func contextString(event events.Event, key string) string {
	if v, ok := event.Context().Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func contextInt(event events.Event, key string) int {
	if v, ok := event.Context().Get(key); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

func contextBool(event events.Event, key string) bool {
	if v, ok := event.Context().Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
