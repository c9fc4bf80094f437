package encoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})

	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)

	var norm float64
	for _, v := range normalized {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeVectorZeroNorm(t *testing.T) {
	normalized := normalizeVector([]float32{0, 0, 0})

	for _, v := range normalized {
		assert.Zero(t, v)
	}
}

func TestForName(t *testing.T) {
	titan, err := ForName(TitanV1ModelID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, TitanV1ModelID, titan.Name())
	assert.Equal(t, uint64(1536), titan.Dimensions())

	cohere, err := ForName(CohereV3ModelID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, CohereV3ModelID, cohere.Name())
	assert.Equal(t, uint64(1024), cohere.Dimensions())

	oai, err := ForName(OpenAISmallModelID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, OpenAISmallModelID, oai.Name())
	assert.Equal(t, uint64(1536), oai.Dimensions())
}

func TestForNameRegistryAliases(t *testing.T) {
	for alias, modelID := range map[string]string{
		TitanV1Name:     TitanV1ModelID,
		CohereV3Name:    CohereV3ModelID,
		OpenAISmallName: OpenAISmallModelID,
	} {
		enc, err := ForName(alias, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, modelID, enc.Name())
	}
}

func TestForNameUnknownModel(t *testing.T) {
	_, err := ForName("text-embedding-ada-002", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text-embedding-ada-002")
}
