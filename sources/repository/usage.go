package repository

import (
	"context"
	"time"

	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UsageTotals struct {
	PromptTokens     int64           `json:"prompt_tokens"`
	CompletionTokens int64           `json:"completion_tokens"`
	Cost             decimal.Decimal `json:"cost"`
}

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (x *UsageRepository) SaveUsage(logger *tracing.Logger, sessionID *uuid.UUID, model string, scope string, promptTokens int, completionTokens int, cost decimal.Decimal) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	usage := &entities.Usage{
		SessionID:        sessionID,
		Model:            model,
		Scope:            scope,
		PromptTokens:     int64(promptTokens),
		CompletionTokens: int64(completionTokens),
		Cost:             cost,
	}

	if err := x.db.WithContext(ctx).Create(usage).Error; err != nil {
		logger.E("Failed to save usage", tracing.InnerError, err)
		return err
	}

	logger.I("Usage saved", tracing.AiModel, model, tracing.Scope, scope, tracing.AiTokens, promptTokens+completionTokens, tracing.AiCost, cost)
	return nil
}

func (x *UsageRepository) GetTotalCost(logger *tracing.Logger) (decimal.Decimal, error) {
	defer tracing.ProfilePoint(logger, "Usage get total cost completed", "repository.usage.get.total.cost")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var totalCost *decimal.Decimal
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(cost)").
		Row().Scan(&totalCost)

	if err != nil {
		logger.E("Failed to get total cost", tracing.InnerError, err)
		return decimal.Zero, err
	}

	if totalCost == nil {
		return decimal.Zero, nil
	}

	return *totalCost, nil
}

func (x *UsageRepository) GetTotalTokens(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Usage get total tokens completed", "repository.usage.get.total.tokens")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var totalTokens *int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(prompt_tokens + completion_tokens)").
		Row().Scan(&totalTokens)

	if err != nil {
		logger.E("Failed to get total tokens", tracing.InnerError, err)
		return 0, err
	}

	if totalTokens == nil {
		return 0, nil
	}

	return *totalTokens, nil
}

func (x *UsageRepository) GetSessionUsage(logger *tracing.Logger, sessionID uuid.UUID) (*UsageTotals, error) {
	defer tracing.ProfilePoint(logger, "Usage get session totals completed", "repository.usage.get.session", tracing.SessionId, sessionID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	totals := &UsageTotals{Cost: decimal.Zero}

	var promptTokens, completionTokens *int64
	var cost *decimal.Decimal

	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Where("session_id = ?", sessionID).
		Select("SUM(prompt_tokens), SUM(completion_tokens), SUM(cost)").
		Row().Scan(&promptTokens, &completionTokens, &cost)

	if err != nil {
		logger.E("Failed to get session usage", tracing.SessionId, sessionID, tracing.InnerError, err)
		return nil, err
	}

	if promptTokens != nil {
		totals.PromptTokens = *promptTokens
	}
	if completionTokens != nil {
		totals.CompletionTokens = *completionTokens
	}
	if cost != nil {
		totals.Cost = *cost
	}

	return totals, nil
}
