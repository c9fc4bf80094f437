package artificial

import (
	"time"

	"jiraiya/sources/platform"
)

type AIConfig struct {
	OpenAIToken string

	AgentTimeout time.Duration
	MaxSteps     int

	BackoffDelay time.Duration
}

func NewAIConfig() *AIConfig {
	return &AIConfig{
		OpenAIToken: platform.Get("OPENAI_API_KEY", ""),

		AgentTimeout: platform.GetAsDuration("AGENT_TIMEOUT", "300s"),
		MaxSteps:     platform.GetAsInt("AGENT_MAX_STEPS", 25),

		BackoffDelay: platform.GetAsDuration("AGENT_BACKOFF_DELAY", "2s"),
	}
}
