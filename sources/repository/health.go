package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jiraiya/sources/configuration"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthRepository struct {
	db         *gorm.DB
	redis      *redis.Client
	qdrant     *qdrant.Client
	httpClient *http.Client
	settings   *configuration.Settings
}

func NewHealthRepository(db *gorm.DB, redis *redis.Client, qdrantClient *qdrant.Client, httpClient *http.Client, settings *configuration.Settings) *HealthRepository {
	return &HealthRepository{
		db:         db,
		redis:      redis,
		qdrant:     qdrantClient,
		httpClient: httpClient,
		settings:   settings,
	}
}

func (x *HealthRepository) CheckDatabaseHealth(logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check database completed", "repository.health.check.database")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	var sessions []entities.Session
	if err := x.db.WithContext(ctx).Limit(1).Find(&sessions).Error; err != nil {
		logger.E("Database health check failed", tracing.InnerError, err)
		return err
	}

	logger.I("Database health check passed")
	return nil
}

func (x *HealthRepository) CheckRedisHealth(logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check redis completed", "repository.health.check.redis")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	err := x.redis.Ping(ctx).Err()
	if err != nil {
		logger.E("Redis health check failed", tracing.InnerError, err)
		return err
	}

	logger.I("Redis health check passed")
	return nil
}

func (x *HealthRepository) CheckQdrantHealth(logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check qdrant completed", "repository.health.check.qdrant")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := x.qdrant.HealthCheck(ctx); err != nil {
		logger.E("Qdrant health check failed", tracing.InnerError, err)
		return err
	}

	logger.I("Qdrant health check passed")
	return nil
}

func (x *HealthRepository) CheckTrackerHealth(logger *tracing.Logger) error {
	defer tracing.ProfilePoint(logger, "Health check tracker completed", "repository.health.check.tracker")()

	if x.settings.JiraServer == "" {
		logger.I("Tracker health check skipped, no server configured")
		return nil
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	url := x.settings.JiraServer + "/rest/api/2/serverInfo"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.E("Tracker health check failed: request creation error", tracing.InnerError, err)
		return err
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		logger.E("Tracker health check failed: request error", tracing.InnerError, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("tracker health check failed: status %d", resp.StatusCode)
		logger.E("Tracker health check failed", tracing.InnerError, err)
		return err
	}

	logger.I("Tracker health check passed")
	return nil
}
