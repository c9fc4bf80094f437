package texting

import (
	"jiraiya/sources/tracing"

	"github.com/pkoukk/tiktoken-go"
)

var tkm, _ = tiktoken.GetEncoding("o200k_base")

func Tokens(log *tracing.Logger, text string) int {
	return tracing.ReportExecutionForRIn(log,
		func() int { return TokensQuiet(text) },
		func(l *tracing.Logger, tokens int) { l.D("Tokens counted", tracing.AiTokens, tokens) },
	)
}

// TokensQuiet is Tokens without the report line, for per-message accounting
// where the caller aggregates. Falls back to a four-chars-per-token estimate
// when the o200k encoding is unavailable.
func TokensQuiet(text string) int {
	if tkm == nil {
		return len(text) / 4
	}

	return len(tkm.Encode(text, nil, nil))
}
