package tracing

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const (
	ExecutionTime  = "exe_time"
	OutsiderKind   = "outsider_kind"
	ProxyUrl       = "proxy_url"
	ProxyRes       = "proxy_res"
	AiKind         = "ai_kind"
	AiModel        = "ai_model"
	AiProvider     = "ai_provider"
	AiAttempt      = "ai_attempt"
	AiBackoff      = "ai_backoff"
	AiTokens       = "ai_tokens"
	AiCost         = "ai_cost"
	InnerError     = "inner_error"
	SessionId      = "session_id"
	MessageId      = "message_id"
	Tenant         = "tenant"
	Collection     = "collection"
	Repo           = "repo"
	FilePath       = "file_path"
	ObjectName     = "object_name"
	ObjectType     = "object_type"
	EncoderName    = "encoder_name"
	VectorName     = "vector_name"
	SearchQuery    = "search_query"
	SearchStrategy = "search_strategy"
	SearchHits     = "search_hits"
	ToolName       = "tool_name"
	TicketKey      = "ticket_key"
	IssueType      = "issue_type"
	DocCount       = "doc_count"
	CommitHash     = "commit_hash"
	SqlQuery       = "sql_query"
	Scope          = "scope"
	RequestId      = "request_id"
	HttpMethod     = "http_method"
	HttpPath       = "http_path"
	HttpStatus     = "http_status"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger.InfoContext(ctx, "Initializing  logger")
	return &Logger{log: logger, ctx: ctx}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
