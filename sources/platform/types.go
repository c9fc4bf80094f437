package platform

type MessageRole = string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type SearchStrategy string

const (
	SearchStrategySimilarity SearchStrategy = "similarity"
	SearchStrategyKeyword    SearchStrategy = "keyword"
	SearchStrategyHybrid     SearchStrategy = "hybrid"
)

type DocumentKind = string

const (
	DocumentKindCode DocumentKind = "code"
	DocumentKindText DocumentKind = "text"
)

type CachedVector struct {
	Model  string    `json:"model"`
	Vector []float32 `json:"vector"`
}
