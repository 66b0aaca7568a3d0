package narrative

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/stratforge/empire-api/internal/errors"
)

const systemPrompt = "You are the chronicler of a turn-based strategy game. " +
	"Given one game event, write a single vivid sentence of historical flavor " +
	"text in the past tense. Never invent mechanical outcomes."

// OpenAIConfig contains configuration for the OpenAI narrative client.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// Validate validates the OpenAIConfig.
func (cfg *OpenAIConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.APIKey == "" {
		return errors.InvalidArgument("API key cannot be empty")
	}
	if cfg.Model == "" {
		return errors.InvalidArgument("model cannot be empty")
	}
	return nil
}

type openaiClient struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a narrative client backed by the OpenAI chat API
func NewOpenAI(cfg *OpenAIConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &openaiClient{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}, nil
}

func (c *openaiClient) Narrate(ctx context.Context, input *NarrateInput) (*NarrateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	prompt := fmt.Sprintf("Game: %s\nTurn: %d\nCivilization: %s\nEvent (%s): %s",
		input.GameName, input.Turn, input.Civilization, input.Kind, input.Message)
	if input.Description != "" {
		prompt += "\nDetail: " + input.Description
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "narrative generation failed")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Unavailable("narrative generation returned no choices")
	}

	return &NarrateOutput{Narrative: completion.Choices[0].Message.Content}, nil
}
