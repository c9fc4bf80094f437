package artificial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"jiraiya/sources/configuration"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

type repoLister interface {
	GetAllRepos(log *tracing.Logger) ([]string, error)
}

// Architect is the conversational agent. It answers questions about the
// indexed codebases and files tracker tickets on request, grounding answers
// through the code search tool.
type Architect struct {
	config  *configuration.Config
	ai      *AIConfig
	model   model.ToolCallingChatModel
	toolbox *Toolbox
	store   repoLister
	usage   *repository.UsageRepository
	metrics *metrics.MetricsService
}

func NewArchitect(
	config *configuration.Config,
	aiConfig *AIConfig,
	chatModel model.ToolCallingChatModel,
	toolbox *Toolbox,
	store *vectorstore.Store,
	usageRepository *repository.UsageRepository,
	metricsService *metrics.MetricsService,
) *Architect {
	return &Architect{
		config:  config,
		ai:      aiConfig,
		model:   chatModel,
		toolbox: toolbox,
		store:   store,
		usage:   usageRepository,
		metrics: metricsService,
	}
}

// Ask runs one conversational turn. The accumulated answer is returned after
// the stream ends, onDelta receives every assistant chunk as it arrives. When
// a retry replays the turn, onReset fires before the replay's first chunk so
// the consumer can discard deltas already shown.
func (x *Architect) Ask(
	log *tracing.Logger,
	sessionID uuid.UUID,
	history []entities.ChatMessage,
	prompt string,
	onDelta func(delta string),
	onReset func(),
) (string, error) {
	meta := MetaFor(x.config.Agent.LLM.Name)
	log = log.With(tracing.SessionId, sessionID.String(), tracing.AiModel, meta.BedrockID)

	started := time.Now()
	defer func() { x.metrics.RecordAIRequestDuration(time.Since(started), meta.BedrockID) }()

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), x.ai.AgentTimeout)
	defer cancel()
	ctx = WithSession(ctx, sessionID)

	tools, err := x.toolbox.Tools()
	if err != nil {
		log.E("Failed to assemble agent tools", tracing.InnerError, err)
		x.metrics.RecordAgentRequest("error")
		return "", err
	}

	systemPrompt := x.systemPrompt(log)

	messages := make([]*schema.Message, 0, len(history)+1)
	for _, message := range history {
		switch message.Role {
		case platform.MessageRoleAssistant:
			messages = append(messages, schema.AssistantMessage(message.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(message.Content))
		}
	}
	messages = append(messages, schema.UserMessage(prompt))

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: x.model,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
		MessageModifier: func(ctx context.Context, input []*schema.Message) []*schema.Message {
			out := make([]*schema.Message, 0, len(input)+1)
			out = append(out, schema.SystemMessage(systemPrompt))
			return append(out, input...)
		},
		MaxStep: x.ai.MaxSteps,
	})
	if err != nil {
		log.E("Failed to create agent", tracing.InnerError, err)
		x.metrics.RecordAgentRequest("error")
		return "", err
	}

	log.I("Agent turn requested", "history_messages", len(messages)-1, "tools", len(tools))

	answer, usage, err := x.withRetries(log, func(forward func(delta string)) (string, *schema.TokenUsage, error) {
		return x.stream(ctx, agent, messages, forward)
	}, onDelta, onReset)

	if err != nil {
		x.metrics.RecordAgentRequest("error")
		return "", err
	}

	x.recordUsage(log, sessionID, meta, usage, systemPrompt+joinContents(messages), answer)
	x.metrics.RecordAgentRequest("success")

	return answer, nil
}

// withRetries drives streaming attempts until one succeeds. A failed attempt
// may already have forwarded chunks, so the next attempt announces itself
// through onReset before replaying the turn from the start. Chunks reach the
// consumer exactly once per attempt, never interleaved across attempts.
func (x *Architect) withRetries(
	log *tracing.Logger,
	run func(forward func(delta string)) (string, *schema.TokenUsage, error),
	onDelta func(delta string),
	onReset func(),
) (string, *schema.TokenUsage, error) {
	var answer string
	var usage *schema.TokenUsage
	var err error

	emitted := false
	forward := func(delta string) {
		emitted = true
		if onDelta != nil {
			onDelta(delta)
		}
	}

	for attempt := 0; attempt < x.config.Agent.Retries; attempt++ {
		if attempt > 0 && emitted {
			if onReset != nil {
				onReset()
			}
			emitted = false
		}

		answer, usage, err = run(forward)
		if err == nil {
			return answer, usage, nil
		}

		log.E("Failed to get agent response", tracing.AiAttempt, attempt+1, tracing.InnerError, err)

		if attempt < x.config.Agent.Retries-1 {
			delay := x.ai.BackoffDelay * time.Duration(1<<attempt)
			log.W("Retrying agent response", tracing.AiAttempt, attempt+1, tracing.AiBackoff, delay)
			time.Sleep(delay)
		}
	}

	return "", nil, err
}

func (x *Architect) stream(
	ctx context.Context,
	agent *react.Agent,
	messages []*schema.Message,
	onDelta func(delta string),
) (string, *schema.TokenUsage, error) {
	reader, err := agent.Stream(ctx, messages)
	if err != nil {
		return "", nil, err
	}
	defer reader.Close()

	var sb strings.Builder
	var usage *schema.TokenUsage

	for {
		msg, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			return "", nil, recvErr
		}
		if msg == nil {
			continue
		}

		if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
			usage = msg.ResponseMeta.Usage
		}

		if msg.Role == schema.Assistant && msg.Content != "" {
			sb.WriteString(msg.Content)
			if onDelta != nil {
				onDelta(msg.Content)
			}
		}
	}

	if sb.Len() == 0 {
		return "", usage, errors.New("agent produced no assistant content")
	}

	return sb.String(), usage, nil
}

// systemPrompt appends the repository roster so the agent knows what the
// search tool can reach.
func (x *Architect) systemPrompt(log *tracing.Logger) string {
	prompt := x.config.Agent.Prompts.System

	repos, err := x.store.GetAllRepos(log)
	if err != nil {
		log.W("Failed to list repositories for the system prompt", tracing.InnerError, err)
		return prompt
	}
	if len(repos) == 0 {
		return prompt
	}

	return prompt + "\n" + fmt.Sprintf("The repositories you have access to are: %s.\n", strings.Join(repos, ", "))
}

func (x *Architect) recordUsage(
	log *tracing.Logger,
	sessionID uuid.UUID,
	meta ModelMeta,
	usage *schema.TokenUsage,
	request string,
	answer string,
) {
	var promptTokens, completionTokens int
	if usage != nil {
		promptTokens = usage.PromptTokens
		completionTokens = usage.CompletionTokens
	} else {
		// Token counts fall back to an o200k estimate when the provider
		// omits usage in the stream.
		promptTokens = texting.TokensQuiet(request)
		completionTokens = texting.TokensQuiet(answer)
	}

	cost := meta.Cost(promptTokens, completionTokens)
	costValue, _ := cost.Float64()

	if err := x.usage.SaveUsage(log, &sessionID, meta.BedrockID, entities.UsageScopeAgent, promptTokens, completionTokens, cost); err != nil {
		log.W("Usage row not recorded", tracing.InnerError, err)
	}

	x.metrics.RecordAgentCost(promptTokens+completionTokens, costValue, meta.BedrockID)
	log.I("Agent usage recorded", tracing.AiTokens, promptTokens+completionTokens, tracing.AiCost, cost.String())
}

func joinContents(messages []*schema.Message) string {
	var sb strings.Builder
	for _, message := range messages {
		sb.WriteString(message.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
