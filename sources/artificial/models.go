package artificial

import (
	"context"
	"fmt"

	"jiraiya/sources/configuration"
	"jiraiya/sources/tracing"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// NewChatModel builds the tool calling model behind the agent and the docs
// writer. Bedrock hosted Claude is the default, a plain OpenAI compatible
// endpoint is the escape hatch for local setups.
func NewChatModel(
	config *configuration.Config,
	settings *configuration.Settings,
	aiConfig *AIConfig,
	log *tracing.Logger,
) (model.ToolCallingChatModel, error) {
	llm := config.Agent.LLM

	switch llm.Provider {
	case "bedrock":
		meta, err := ResolveModel(llm.Name)
		if err != nil {
			log.E("Failed to resolve model name", tracing.AiModel, llm.Name, tracing.InnerError, err)
			return nil, err
		}

		chatModel, err := claude.NewChatModel(context.Background(), &claude.Config{
			ByBedrock:       true,
			AccessKey:       settings.AWSAccessKeyID,
			SecretAccessKey: settings.AWSSecretAccessKey,
			SessionToken:    settings.AWSSessionToken,
			Region:          settings.AWSDefaultRegion,
			Model:           meta.BedrockID,
			MaxTokens:       llm.MaxTokens,
			Temperature:     optional(llm.Temperature),
			TopP:            optional(llm.TopP),
		})
		if err != nil {
			log.E("Failed to create Bedrock chat model", tracing.AiModel, meta.BedrockID, tracing.InnerError, err)
			return nil, err
		}

		log.I("Chat model initialized", tracing.AiProvider, "bedrock", tracing.AiModel, meta.BedrockID)
		return chatModel, nil

	case "openai":
		chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			APIKey:      aiConfig.OpenAIToken,
			BaseURL:     llm.BaseURL,
			Model:       llm.Name,
			MaxTokens:   optional(llm.MaxTokens),
			Temperature: optional(llm.Temperature),
			TopP:        optional(llm.TopP),
		})
		if err != nil {
			log.E("Failed to create OpenAI chat model", tracing.AiModel, llm.Name, tracing.InnerError, err)
			return nil, err
		}

		log.I("Chat model initialized", tracing.AiProvider, "openai", tracing.AiModel, llm.Name)
		return chatModel, nil
	}

	return nil, fmt.Errorf("unsupported llm provider: %q", llm.Provider)
}

// optional maps the zero value to nil so unset yaml knobs stay provider
// defaults.
func optional[T int | float32](value T) *T {
	if value == 0 {
		return nil
	}
	return &value
}
