package artificial

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ModelMeta binds a configuration model name to its Bedrock identifier and
// the on-demand token prices used for spend accounting. Prices are USD per
// one thousand tokens.
type ModelMeta struct {
	Name            string
	BedrockID       string
	InputPricePerK  decimal.Decimal
	OutputPricePerK decimal.Decimal
}

var modelRegistry = map[string]ModelMeta{
	"CLAUDE_3_SONNET": {
		Name:            "CLAUDE_3_SONNET",
		BedrockID:       "anthropic.claude-3-sonnet-20240229-v1:0",
		InputPricePerK:  decimal.RequireFromString("0.003"),
		OutputPricePerK: decimal.RequireFromString("0.015"),
	},
	"CLAUDE_3_HAIKU": {
		Name:            "CLAUDE_3_HAIKU",
		BedrockID:       "anthropic.claude-3-haiku-20240307-v1:0",
		InputPricePerK:  decimal.RequireFromString("0.00025"),
		OutputPricePerK: decimal.RequireFromString("0.00125"),
	},
	"CLAUDE_3_5_SONNET": {
		Name:            "CLAUDE_3_5_SONNET",
		BedrockID:       "anthropic.claude-3-5-sonnet-20240620-v1:0",
		InputPricePerK:  decimal.RequireFromString("0.003"),
		OutputPricePerK: decimal.RequireFromString("0.015"),
	},
	"CLAUDE_3_7_SONNET": {
		Name:            "CLAUDE_3_7_SONNET",
		BedrockID:       "anthropic.claude-3-7-sonnet-20250219-v1:0",
		InputPricePerK:  decimal.RequireFromString("0.003"),
		OutputPricePerK: decimal.RequireFromString("0.015"),
	},
}

func ResolveModel(name string) (ModelMeta, error) {
	meta, ok := modelRegistry[name]
	if !ok {
		return ModelMeta{}, fmt.Errorf("unknown model name: %q", name)
	}
	return meta, nil
}

// MetaFor never fails: names outside the registry price at zero and are used
// as the provider model identifier verbatim.
func MetaFor(name string) ModelMeta {
	if meta, ok := modelRegistry[name]; ok {
		return meta
	}
	return ModelMeta{Name: name, BedrockID: name}
}

var thousandTokens = decimal.NewFromInt(1000)

func (x ModelMeta) Cost(promptTokens int, completionTokens int) decimal.Decimal {
	in := x.InputPricePerK.Mul(decimal.NewFromInt(int64(promptTokens))).Div(thousandTokens)
	out := x.OutputPricePerK.Mul(decimal.NewFromInt(int64(completionTokens))).Div(thousandTokens)
	return in.Add(out)
}
