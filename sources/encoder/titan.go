package encoder

import (
	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"
)

const (
	TitanV1Name     = "TITAN_V1"
	TitanV1ModelID  = "amazon.titan-embed-text-v1"
	titanDimensions = 1536
	titanMaxChars   = 48_000
)

// TitanEncoder embeds through Amazon Titan. Titan has no notion of query vs
// document input, both go through the same request shape.
type TitanEncoder struct {
	invoker
}

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewTitanEncoder(inv invoker) *TitanEncoder {
	return &TitanEncoder{invoker: inv}
}

func (x *TitanEncoder) Name() string {
	return TitanV1ModelID
}

func (x *TitanEncoder) Dimensions() uint64 {
	return titanDimensions
}

func (x *TitanEncoder) EmbedQuery(log *tracing.Logger, text string) ([]float32, error) {
	embedding, err := x.embed(log, texting.Flatten(text))
	if err != nil {
		return nil, err
	}

	return normalizeVector(embedding), nil
}

func (x *TitanEncoder) EmbedDocuments(log *tracing.Logger, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for _, text := range texts {
		if len(text) > titanMaxChars {
			log.W("Text is longer than what is supported by the embeddings model, cropping it",
				"text_length", len(text), "max_chars", titanMaxChars, tracing.EncoderName, TitanV1ModelID)
			text = texting.Crop(text, titanMaxChars)
		}

		embedding, err := x.embed(log, texting.Flatten(text))
		if err != nil {
			return nil, err
		}

		embeddings = append(embeddings, normalizeVector(embedding))
	}

	return embeddings, nil
}

func (x *TitanEncoder) embed(log *tracing.Logger, text string) ([]float32, error) {
	var response titanResponse
	if err := x.invoke(log, TitanV1ModelID, titanRequest{InputText: text}, &response); err != nil {
		return nil, err
	}

	return response.Embedding, nil
}
