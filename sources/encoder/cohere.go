package encoder

import (
	"errors"

	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"
)

const (
	CohereV3Name     = "COHERE_V3"
	CohereV3ModelID  = "cohere.embed-multilingual-v3"
	cohereDimensions = 1024
	cohereMaxChars   = 2024

	inputTypeQuery    = "search_query"
	inputTypeDocument = "search_document"
)

// CohereEncoder embeds through Cohere multilingual v3, which distinguishes
// query and document inputs.
type CohereEncoder struct {
	invoker
}

type cohereRequest struct {
	InputType string   `json:"input_type"`
	Texts     []string `json:"texts"`
}

type cohereResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func NewCohereEncoder(inv invoker) *CohereEncoder {
	return &CohereEncoder{invoker: inv}
}

func (x *CohereEncoder) Name() string {
	return CohereV3ModelID
}

func (x *CohereEncoder) Dimensions() uint64 {
	return cohereDimensions
}

func (x *CohereEncoder) EmbedQuery(log *tracing.Logger, text string) ([]float32, error) {
	embedding, err := x.embed(log, texting.Flatten(text), inputTypeQuery)
	if err != nil {
		return nil, err
	}

	return normalizeVector(embedding), nil
}

func (x *CohereEncoder) EmbedDocuments(log *tracing.Logger, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for _, text := range texts {
		if len(text) > cohereMaxChars {
			log.W("Text is longer than what is supported by the embeddings model, cropping it",
				"text_length", len(text), "max_chars", cohereMaxChars, tracing.EncoderName, CohereV3ModelID)
			text = texting.Crop(text, cohereMaxChars)
		}

		embedding, err := x.embed(log, texting.Flatten(text), inputTypeDocument)
		if err != nil {
			return nil, err
		}

		embeddings = append(embeddings, normalizeVector(embedding))
	}

	return embeddings, nil
}

func (x *CohereEncoder) embed(log *tracing.Logger, text string, inputType string) ([]float32, error) {
	var response cohereResponse
	if err := x.invoke(log, CohereV3ModelID, cohereRequest{InputType: inputType, Texts: []string{text}}, &response); err != nil {
		return nil, err
	}

	if len(response.Embeddings) == 0 {
		err := errors.New("no embeddings computed for the given input text")
		log.E("Embedding model returned empty result", tracing.EncoderName, CohereV3ModelID, tracing.InnerError, err)
		return nil, err
	}

	return response.Embeddings[0], nil
}
