// Package narrative provides the client interface for turning engine
// results into flavor text. The engine never blocks on narration;
// failures here are logged and dropped.
package narrative

//go:generate mockgen -destination=mock/mock_client.go -package=narrativemock github.com/stratforge/empire-api/internal/clients/narrative Client

import (
	"context"
)

// Client defines the interface for narrative generation
type Client interface {
	// Narrate produces flavor text for one committed game event
	// Returns errors.Unavailable when the backing service cannot be reached
	Narrate(ctx context.Context, input *NarrateInput) (*NarrateOutput, error)
}

// NarrateInput describes the committed event to narrate
type NarrateInput struct {
	GameName     string
	Turn         int
	Civilization string
	Kind         string
	Message      string
	Description  string
}

// NarrateOutput carries the generated flavor text
type NarrateOutput struct {
	Narrative string
}
