package encoder

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jiraiya/sources/metrics"
	"jiraiya/sources/platform"
	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

const (
	OpenAISmallName    = "OPENAI_SMALL"
	OpenAISmallModelID = "text-embedding-3-small"
	openaiDimensions   = 1536
	openaiMaxChars     = 32_000
)

// OpenAIEncoder embeds through an OpenAI-compatible embeddings endpoint. Like
// Titan it has a single input shape for queries and documents, unlike the
// Bedrock models it accepts a whole batch per request.
type OpenAIEncoder struct {
	client  *openai.Client
	metrics *metrics.MetricsService
}

func NewOpenAIClient(httpClient *http.Client) *openai.Client {
	config := openai.DefaultConfig(platform.Get("OPENAI_API_KEY", ""))
	config.HTTPClient = httpClient

	if baseURL := platform.Get("OPENAI_BASE_URL", ""); baseURL != "" {
		config.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(config)
}

func NewOpenAIEncoder(client *openai.Client, metricsService *metrics.MetricsService) *OpenAIEncoder {
	return &OpenAIEncoder{client: client, metrics: metricsService}
}

func (x *OpenAIEncoder) Name() string {
	return OpenAISmallModelID
}

func (x *OpenAIEncoder) Dimensions() uint64 {
	return openaiDimensions
}

func (x *OpenAIEncoder) EmbedQuery(log *tracing.Logger, text string) ([]float32, error) {
	embeddings, err := x.embed(log, []string{texting.Flatten(text)})
	if err != nil {
		return nil, err
	}

	return normalizeVector(embeddings[0]), nil
}

func (x *OpenAIEncoder) EmbedDocuments(log *tracing.Logger, texts []string) ([][]float32, error) {
	prepared := make([]string, 0, len(texts))

	for _, text := range texts {
		if len(text) > openaiMaxChars {
			log.W("Text is longer than what is supported by the embeddings model, cropping it",
				"text_length", len(text), "max_chars", openaiMaxChars, tracing.EncoderName, OpenAISmallModelID)
			text = texting.Crop(text, openaiMaxChars)
		}

		prepared = append(prepared, texting.Flatten(text))
	}

	embeddings, err := x.embed(log, prepared)
	if err != nil {
		return nil, err
	}

	normalized := make([][]float32, 0, len(embeddings))
	for _, embedding := range embeddings {
		normalized = append(normalized, normalizeVector(embedding))
	}

	return normalized, nil
}

func (x *OpenAIEncoder) embed(log *tracing.Logger, texts []string) ([][]float32, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Minute)
	defer cancel()

	started := time.Now()
	response, err := x.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.SmallEmbedding3,
	})
	x.metrics.RecordEmbeddingDuration(time.Since(started), OpenAISmallModelID)

	if err != nil {
		x.metrics.RecordEmbedding(OpenAISmallModelID, "error")
		log.E("Failed to invoke embedding model", tracing.AiModel, OpenAISmallModelID, tracing.InnerError, err)
		return nil, err
	}

	if len(response.Data) != len(texts) {
		x.metrics.RecordEmbedding(OpenAISmallModelID, "error")
		err := errors.New("no embeddings computed for the given input text")
		log.E("Embedding model returned empty result", tracing.EncoderName, OpenAISmallModelID, tracing.InnerError, err)
		return nil, err
	}

	embeddings := make([][]float32, 0, len(response.Data))
	for _, item := range response.Data {
		embeddings = append(embeddings, item.Embedding)
	}

	x.metrics.RecordEmbedding(OpenAISmallModelID, "success")
	return embeddings, nil
}
