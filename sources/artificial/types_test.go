package artificial

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	meta, err := ResolveModel("CLAUDE_3_5_SONNET")
	require.NoError(t, err)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20240620-v1:0", meta.BedrockID)

	_, err = ResolveModel("CLAUDE_9000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLAUDE_9000")
}

func TestMetaForPassthrough(t *testing.T) {
	meta := MetaFor("gpt-4o-mini")

	assert.Equal(t, "gpt-4o-mini", meta.Name)
	assert.Equal(t, "gpt-4o-mini", meta.BedrockID, "unregistered names pass through as the provider model id")
	assert.True(t, meta.Cost(1000, 1000).IsZero(), "unregistered models price at zero")
}

func TestCost(t *testing.T) {
	meta, err := ResolveModel("CLAUDE_3_SONNET")
	require.NoError(t, err)

	// 1000 prompt tokens at 0.003/1K plus 1000 completion tokens at 0.015/1K.
	cost := meta.Cost(1000, 1000)
	assert.True(t, cost.Equal(decimal.RequireFromString("0.018")), "got %s", cost)

	haiku, err := ResolveModel("CLAUDE_3_HAIKU")
	require.NoError(t, err)

	cost = haiku.Cost(500, 200)
	assert.True(t, cost.Equal(decimal.RequireFromString("0.000375")), "got %s", cost)

	assert.True(t, meta.Cost(0, 0).IsZero())
}
