package collector

import (
	"context"
	"time"

	"jiraiya/sources/metrics"
	"jiraiya/sources/repository"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"go.uber.org/fx"
)

type StatsCollector struct {
	log      *tracing.Logger
	metrics  *metrics.MetricsService
	sessions *repository.SessionsRepository
	messages *repository.MessagesRepository
	tickets  *repository.TicketsRepository
	usage    *repository.UsageRepository
	store    *vectorstore.Store
}

func NewStatsCollector(
	lc fx.Lifecycle,
	log *tracing.Logger,
	metrics *metrics.MetricsService,
	sessions *repository.SessionsRepository,
	messages *repository.MessagesRepository,
	tickets *repository.TicketsRepository,
	usage *repository.UsageRepository,
	store *vectorstore.Store,
) *StatsCollector {
	s := &StatsCollector{
		log:      log,
		metrics:  metrics,
		sessions: sessions,
		messages: messages,
		tickets:  tickets,
		usage:    usage,
		store:    store,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go s.start()
			return nil
		},
	})

	return s
}

func (s *StatsCollector) start() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	s.collectStats()

	for range ticker.C {
		s.collectStats()
	}
}

func (s *StatsCollector) collectStats() {
	if count, err := s.sessions.GetTotalSessionsCount(s.log); err == nil {
		s.metrics.SetTotalSessions(float64(count))
	} else {
		s.log.E("Failed to collect total sessions stats", tracing.InnerError, err)
	}

	if count, err := s.messages.GetTotalMessagesCount(s.log); err == nil {
		s.metrics.SetTotalMessages(float64(count))
	} else {
		s.log.E("Failed to collect total messages stats", tracing.InnerError, err)
	}

	if count, err := s.tickets.GetTotalTicketsCount(s.log); err == nil {
		s.metrics.SetTotalTickets(float64(count))
	} else {
		s.log.E("Failed to collect total tickets stats", tracing.InnerError, err)
	}

	if cost, err := s.usage.GetTotalCost(s.log); err == nil {
		s.metrics.SetTotalCost(cost.InexactFloat64())
	} else {
		s.log.E("Failed to collect total cost stats", tracing.InnerError, err)
	}

	if tokens, err := s.usage.GetTotalTokens(s.log); err == nil {
		s.metrics.SetTotalTokens(float64(tokens))
	} else {
		s.log.E("Failed to collect total tokens stats", tracing.InnerError, err)
	}

	if count, err := s.store.Count(s.log); err == nil {
		s.metrics.SetTotalDocuments(float64(count))
	} else {
		s.log.E("Failed to collect total documents stats", tracing.InnerError, err)
	}
}
