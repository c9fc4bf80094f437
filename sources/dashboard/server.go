package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"jiraiya/sources/artificial"
	"jiraiya/sources/configuration"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/throttler"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type chatAgent interface {
	Ask(log *tracing.Logger, sessionID uuid.UUID, history []entities.ChatMessage, prompt string, onDelta func(delta string), onReset func()) (string, error)
}

type sessionStore interface {
	CreateSession(log *tracing.Logger, title string, model string) (*entities.Session, error)
	GetSession(log *tracing.Logger, id uuid.UUID) (*entities.Session, error)
	ListSessions(log *tracing.Logger) ([]entities.Session, error)
	TouchSession(log *tracing.Logger, id uuid.UUID, model string) error
	DeleteSession(log *tracing.Logger, id uuid.UUID) error
	GetTotalSessionsCount(log *tracing.Logger) (int64, error)
}

type messageStore interface {
	SaveMessage(log *tracing.Logger, sessionID uuid.UUID, role platform.MessageRole, content string) (*entities.ChatMessage, error)
	GetHistory(log *tracing.Logger, sessionID uuid.UUID) ([]entities.ChatMessage, error)
	GetTotalMessagesCount(log *tracing.Logger) (int64, error)
}

type ticketStore interface {
	GetTotalTicketsCount(log *tracing.Logger) (int64, error)
}

type usageStore interface {
	GetTotalCost(log *tracing.Logger) (decimal.Decimal, error)
	GetTotalTokens(log *tracing.Logger) (int64, error)
	GetSessionUsage(log *tracing.Logger, sessionID uuid.UUID) (*repository.UsageTotals, error)
}

type documentStore interface {
	Count(log *tracing.Logger) (uint64, error)
	GetAllRepos(log *tracing.Logger) ([]string, error)
}

type rateGate interface {
	IsAllowed(sessionID string) bool
}

type Dashboard struct {
	log      *tracing.Logger
	config   *configuration.Config
	web      *DashboardConfig
	agent    chatAgent
	sessions sessionStore
	messages messageStore
	tickets  ticketStore
	usage    usageStore
	store    documentStore
	gate     rateGate
	metrics  *metrics.MetricsService
	server   *http.Server
}

func NewDashboard(
	log *tracing.Logger,
	config *configuration.Config,
	web *DashboardConfig,
	agent *artificial.Architect,
	sessions *repository.SessionsRepository,
	messages *repository.MessagesRepository,
	tickets *repository.TicketsRepository,
	usage *repository.UsageRepository,
	store *vectorstore.Store,
	gate *throttler.Throttler,
	ms *metrics.MetricsService,
) *Dashboard {
	dashboard := &Dashboard{
		log:      log,
		config:   config,
		web:      web,
		agent:    agent,
		sessions: sessions,
		messages: messages,
		tickets:  tickets,
		usage:    usage,
		store:    store,
		gate:     gate,
		metrics:  ms,
	}

	dashboard.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", web.Port),
		Handler: dashboard.buildEngine(),
	}

	return dashboard
}

func (x *Dashboard) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), x.audit())

	api := engine.Group("/api")
	{
		api.POST("/chat", x.chat)
		api.GET("/stats", x.stats)
		api.GET("/sessions", x.listSessions)
		api.GET("/sessions/:id/export", x.exportSession)
		api.DELETE("/sessions/:id", x.deleteSession)
	}

	return engine
}

func (x *Dashboard) run() {
	x.log.I("Dashboard server is starting", "port", x.web.Port)

	if err := x.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start dashboard server", tracing.InnerError, err)
	}
}

func (x *Dashboard) shutdown(ctx context.Context) error {
	return x.server.Shutdown(ctx)
}
