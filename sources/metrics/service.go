package metrics

import (
	"strconv"
	"time"

	"jiraiya/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	documentsIndexed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_documents_indexed_total",
			Help: "Total number of documents written to the vector store",
		},
		[]string{"tenant", "kind"},
	)

	indexRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jiraiya_index_run_duration_seconds",
			Help:    "Duration of full indexing runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	searchesExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_searches_executed_total",
			Help: "Total number of search requests by strategy",
		},
		[]string{"strategy"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jiraiya_search_duration_seconds",
			Help:    "Duration of search requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	embeddingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_embedding_requests_total",
			Help: "Total number of embedding invocations",
		},
		[]string{"model", "status"},
	)

	embeddingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jiraiya_embedding_duration_seconds",
			Help:    "Duration of embedding invocations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	agentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_agent_requests_total",
			Help: "Total number of agent runs",
		},
		[]string{"status"},
	)

	toolsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_tools_used_total",
			Help: "Total number of tool invocations by the agent",
		},
		[]string{"tool"},
	)

	tokenUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_token_usage_total",
			Help: "Total number of tokens used",
		},
		[]string{"model", "type"},
	)

	costUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_cost_usage_total",
			Help: "Total cost incurred",
		},
		[]string{"model", "type"},
	)

	aiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jiraiya_ai_request_duration_seconds",
			Help:    "Duration of model provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	ticketsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_tickets_created_total",
			Help: "Total number of tracker tickets created",
		},
		[]string{"issue_type", "status"},
	)

	statsTotalDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_documents",
			Help: "Total number of documents in the vector store",
		},
	)

	statsTotalSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_sessions",
			Help: "Total number of chat sessions",
		},
	)

	statsTotalMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_messages",
			Help: "Total number of chat messages",
		},
	)

	statsTotalTickets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_tickets",
			Help: "Total number of recorded tickets",
		},
	)

	statsTotalCost = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_cost",
			Help: "Total cost recorded in usage",
		},
	)

	statsTotalTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jiraiya_stats_total_tokens",
			Help: "Total tokens recorded in usage",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jiraiya_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jiraiya_http_request_duration_seconds",
			Help:    "Duration of dashboard HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(documentsIndexed)
	prometheus.MustRegister(indexRunDuration)
	prometheus.MustRegister(searchesExecuted)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(embeddingRequests)
	prometheus.MustRegister(embeddingDuration)
	prometheus.MustRegister(agentRequests)
	prometheus.MustRegister(toolsUsed)
	prometheus.MustRegister(tokenUsage)
	prometheus.MustRegister(costUsage)
	prometheus.MustRegister(aiRequestDuration)
	prometheus.MustRegister(ticketsCreated)
	prometheus.MustRegister(statsTotalDocuments)
	prometheus.MustRegister(statsTotalSessions)
	prometheus.MustRegister(statsTotalMessages)
	prometheus.MustRegister(statsTotalTickets)
	prometheus.MustRegister(statsTotalCost)
	prometheus.MustRegister(statsTotalTokens)
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(httpRequestDuration)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordDocumentIndexed(tenant string, kind string) {
	documentsIndexed.WithLabelValues(tenant, kind).Inc()
}

func (s *MetricsService) RecordIndexRunDuration(duration time.Duration) {
	indexRunDuration.Observe(duration.Seconds())
}

func (s *MetricsService) RecordSearch(strategy string) {
	searchesExecuted.WithLabelValues(strategy).Inc()
}

func (s *MetricsService) RecordSearchDuration(duration time.Duration, strategy string) {
	searchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

func (s *MetricsService) RecordEmbedding(model string, status string) {
	embeddingRequests.WithLabelValues(model, status).Inc()
}

func (s *MetricsService) RecordEmbeddingDuration(duration time.Duration, model string) {
	embeddingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (s *MetricsService) RecordAgentRequest(status string) {
	agentRequests.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordToolUsed(tool string) {
	toolsUsed.WithLabelValues(tool).Inc()
}

func (s *MetricsService) RecordUsage(tokens int, cost float64, model string, usageType string) {
	tokenUsage.WithLabelValues(model, usageType).Add(float64(tokens))
	costUsage.WithLabelValues(model, usageType).Add(cost)
}

func (s *MetricsService) RecordAgentCost(tokens int, cost float64, model string) {
	s.RecordUsage(tokens, cost, model, "agent")
}

func (s *MetricsService) RecordWriterCost(tokens int, cost float64, model string) {
	s.RecordUsage(tokens, cost, model, "writer")
}

func (s *MetricsService) RecordAIRequestDuration(duration time.Duration, model string) {
	aiRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (s *MetricsService) RecordTicketCreated(issueType string, status string) {
	ticketsCreated.WithLabelValues(issueType, status).Inc()
}

func (s *MetricsService) RecordHTTPRequest(method string, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (s *MetricsService) SetTotalDocuments(count float64) {
	statsTotalDocuments.Set(count)
}

func (s *MetricsService) SetTotalSessions(count float64) {
	statsTotalSessions.Set(count)
}

func (s *MetricsService) SetTotalMessages(count float64) {
	statsTotalMessages.Set(count)
}

func (s *MetricsService) SetTotalTickets(count float64) {
	statsTotalTickets.Set(count)
}

func (s *MetricsService) SetTotalCost(cost float64) {
	statsTotalCost.Set(cost)
}

func (s *MetricsService) SetTotalTokens(tokens float64) {
	statsTotalTokens.Set(tokens)
}
