package narrative

import (
	"context"
	"fmt"
	"log/slog"
)

// loggingClient narrates to the log only. It is the default wiring when
// no API key is configured, keeping local runs free of network calls.
type loggingClient struct{}

// NewLogging creates a narrative client that echoes events to slog
func NewLogging() Client {
	return &loggingClient{}
}

func (c *loggingClient) Narrate(ctx context.Context, input *NarrateInput) (*NarrateOutput, error) {
	slog.InfoContext(ctx, "narrative event",
		"game", input.GameName,
		"turn", input.Turn,
		"civilization", input.Civilization,
		"kind", input.Kind,
		"message", input.Message)

	return &NarrateOutput{
		Narrative: fmt.Sprintf("On turn %d, %s: %s", input.Turn, input.Civilization, input.Message),
	}, nil
}
