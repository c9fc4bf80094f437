package encoder

import (
	"fmt"

	"jiraiya/sources/configuration"
	"jiraiya/sources/features"
	"jiraiya/sources/metrics"
	"jiraiya/sources/tracing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
)

// Encoders carries the configured encoder pair. Code and text can point to
// the same model when the configuration names one model for both.
type Encoders struct {
	Code Encoder
	Text Encoder
}

// ForName resolves an encoder by its registry name or raw model id.
func ForName(name string, client *bedrockruntime.Client, oai *openai.Client, metricsService *metrics.MetricsService) (Encoder, error) {
	inv := invoker{client: client, metrics: metricsService}

	switch name {
	case TitanV1Name, TitanV1ModelID:
		return NewTitanEncoder(inv), nil
	case CohereV3Name, CohereV3ModelID:
		return NewCohereEncoder(inv), nil
	case OpenAISmallName, OpenAISmallModelID:
		return NewOpenAIEncoder(oai, metricsService), nil
	}

	return nil, fmt.Errorf("unknown encoder model: %q", name)
}

func NewEncoders(
	config *configuration.Config,
	client *bedrockruntime.Client,
	oai *openai.Client,
	redisClient *redis.Client,
	featureManager *features.FeatureManager,
	metricsService *metrics.MetricsService,
	log *tracing.Logger,
) (*Encoders, error) {
	code, err := ForName(config.Data.CodeEncoder, client, oai, metricsService)
	if err != nil {
		log.E("Failed to create code encoder", tracing.EncoderName, config.Data.CodeEncoder, tracing.InnerError, err)
		return nil, err
	}

	text, err := ForName(config.Data.TextEncoder, client, oai, metricsService)
	if err != nil {
		log.E("Failed to create text encoder", tracing.EncoderName, config.Data.TextEncoder, tracing.InnerError, err)
		return nil, err
	}

	log.I("Encoders initialized", "code_encoder", code.Name(), "text_encoder", text.Name())

	return &Encoders{
		Code: NewCachedEncoder(code, redisClient, featureManager),
		Text: NewCachedEncoder(text, redisClient, featureManager),
	}, nil
}
