package writer

import (
	"context"
	"errors"
	"strings"
	"time"

	"jiraiya/sources/artificial"
	"jiraiya/sources/configuration"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type WriterConfig struct {
	OutputDir    string
	MaxFileCount int

	RequestTimeout time.Duration
	BackoffDelay   time.Duration
}

func NewWriterConfig(config *configuration.Config) *WriterConfig {
	return &WriterConfig{
		// The yaml cache_dir is the documentation cache root, the env var is
		// a deployment override.
		OutputDir:    platform.Get("WRITER_OUTPUT_DIR", config.Data.CacheDir),
		MaxFileCount: platform.GetAsInt("WRITER_MAX_FILE_COUNT", 70),

		RequestTimeout: platform.GetAsDuration("WRITER_REQUEST_TIMEOUT", "120s"),
		BackoffDelay:   platform.GetAsDuration("WRITER_BACKOFF_DELAY", "2s"),
	}
}

const defaultWriterPrompt = `You are an expert documentation engineer specializing in codebase analysis. Generate documentation for the provided code.

The output must be a json object with the following keys:
- "summary": a concise overview of the module's purpose and functionality.
- "analysis": a detailed examination of the module, its design, key components and data flows.
- "usage": important considerations, best practices and caveats related to the module's use.

Answer with the json object only.`

// DocsWriter wraps the chat model for documentation work. Unlike the agent it
// carries no tools, every call is a single completion.
type DocsWriter struct {
	config  *configuration.Config
	writer  *WriterConfig
	model   model.ToolCallingChatModel
	usage   *repository.UsageRepository
	metrics *metrics.MetricsService
}

func NewDocsWriter(
	config *configuration.Config,
	writerConfig *WriterConfig,
	chatModel model.ToolCallingChatModel,
	usageRepository *repository.UsageRepository,
	metricsService *metrics.MetricsService,
) *DocsWriter {
	return &DocsWriter{
		config:  config,
		writer:  writerConfig,
		model:   chatModel,
		usage:   usageRepository,
		metrics: metricsService,
	}
}

// Document produces a TechnicalDoc for the given source. Responses that do
// not parse count as failures and are retried like transport errors.
func (x *DocsWriter) Document(log *tracing.Logger, source string) (*TechnicalDoc, error) {
	prompt := x.config.Agent.Prompts.Writer
	if prompt == "" {
		prompt = defaultWriterPrompt
	}

	answer, err := x.complete(log, prompt, source, func(content string) error {
		_, parseErr := parseTechnicalDoc(content)
		return parseErr
	})
	if err != nil {
		return nil, err
	}

	return parseTechnicalDoc(answer)
}

// Compose runs a single plain-text completion, used for the high level
// documentation sections.
func (x *DocsWriter) Compose(log *tracing.Logger, systemPrompt string, userPrompt string) (string, error) {
	return x.complete(log, systemPrompt, userPrompt, nil)
}

func (x *DocsWriter) complete(
	log *tracing.Logger,
	systemPrompt string,
	userPrompt string,
	validate func(content string) error,
) (string, error) {
	meta := artificial.MetaFor(x.config.Agent.LLM.Name)
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	var response *schema.Message
	var err error

	for attempt := 0; attempt < x.config.Agent.Retries; attempt++ {
		response, err = x.generate(messages)
		if err == nil && validate != nil {
			err = validate(response.Content)
		}
		if err == nil {
			break
		}

		log.E("Failed to get writer response", tracing.AiAttempt, attempt+1, tracing.InnerError, err)

		if attempt < x.config.Agent.Retries-1 {
			delay := x.writer.BackoffDelay * time.Duration(1<<attempt)
			log.W("Retrying writer response", tracing.AiAttempt, attempt+1, tracing.AiBackoff, delay)
			time.Sleep(delay)
		}
	}
	if err != nil {
		return "", err
	}

	x.recordUsage(log, meta, response, systemPrompt+userPrompt)
	return response.Content, nil
}

func (x *DocsWriter) generate(messages []*schema.Message) (*schema.Message, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), x.writer.RequestTimeout)
	defer cancel()

	response, err := x.model.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	if response == nil || response.Content == "" {
		return nil, errors.New("writer produced no content")
	}
	return response, nil
}

func (x *DocsWriter) recordUsage(log *tracing.Logger, meta artificial.ModelMeta, response *schema.Message, request string) {
	var promptTokens, completionTokens int
	if response.ResponseMeta != nil && response.ResponseMeta.Usage != nil {
		promptTokens = response.ResponseMeta.Usage.PromptTokens
		completionTokens = response.ResponseMeta.Usage.CompletionTokens
	} else {
		promptTokens = texting.TokensQuiet(request)
		completionTokens = texting.TokensQuiet(response.Content)
	}

	cost := meta.Cost(promptTokens, completionTokens)
	costValue, _ := cost.Float64()

	if err := x.usage.SaveUsage(log, nil, meta.BedrockID, entities.UsageScopeWriter, promptTokens, completionTokens, cost); err != nil {
		log.W("Usage row not recorded", tracing.InnerError, err)
	}
	x.metrics.RecordWriterCost(promptTokens+completionTokens, costValue, meta.BedrockID)
}

// parseTechnicalDoc tolerates fenced output, models habitually wrap the json
// in a markdown code block.
func parseTechnicalDoc(content string) (*TechnicalDoc, error) {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if index := strings.LastIndex(trimmed, "```"); index != -1 {
			trimmed = trimmed[:index]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	if start := strings.Index(trimmed, "{"); start > 0 {
		trimmed = trimmed[start:]
	}
	if end := strings.LastIndex(trimmed, "}"); end != -1 && end < len(trimmed)-1 {
		trimmed = trimmed[:end+1]
	}

	var doc TechnicalDoc
	if err := sonic.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, err
	}
	if doc.Summary == "" && doc.Analysis == "" && doc.Usage == "" {
		return nil, errors.New("writer response carries no documentation fields")
	}
	return &doc, nil
}
