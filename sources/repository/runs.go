package repository

import (
	"context"
	"errors"
	"time"

	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"gorm.io/gorm"
)

type RunsRepository struct {
	db *gorm.DB
}

func NewRunsRepository(db *gorm.DB) *RunsRepository {
	return &RunsRepository{db: db}
}

func (x *RunsRepository) StartRun(logger *tracing.Logger, tenant string, codebases []string, commits []string) (*entities.IndexRun, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	run := &entities.IndexRun{
		Tenant:    tenant,
		Codebases: codebases,
		Commits:   commits,
		Status:    entities.RunStatusRunning,
		StartedAt: time.Now(),
	}

	if err := x.db.WithContext(ctx).Create(run).Error; err != nil {
		logger.E("Failed to start index run", tracing.Tenant, tenant, tracing.InnerError, err)
		return nil, err
	}

	logger.I("Index run started", tracing.Tenant, tenant, "run_id", run.ID, "codebases", len(codebases))
	return run, nil
}

func (x *RunsRepository) CompleteRun(logger *tracing.Logger, run *entities.IndexRun, documents int64) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now()
	err := x.db.WithContext(ctx).
		Model(run).
		Updates(map[string]interface{}{
			"status":      entities.RunStatusCompleted,
			"documents":   documents,
			"finished_at": now,
		}).Error

	if err != nil {
		logger.E("Failed to complete index run", "run_id", run.ID, tracing.InnerError, err)
		return err
	}

	logger.I("Index run completed", "run_id", run.ID, tracing.DocCount, documents)
	return nil
}

func (x *RunsRepository) FailRun(logger *tracing.Logger, run *entities.IndexRun, runErr error) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now()
	message := runErr.Error()
	err := x.db.WithContext(ctx).
		Model(run).
		Updates(map[string]interface{}{
			"status":      entities.RunStatusFailed,
			"error":       message,
			"finished_at": now,
		}).Error

	if err != nil {
		logger.E("Failed to mark index run as failed", "run_id", run.ID, tracing.InnerError, err)
		return err
	}

	logger.W("Index run failed", "run_id", run.ID, tracing.InnerError, runErr)
	return nil
}

func (x *RunsRepository) GetLastRun(logger *tracing.Logger, tenant string) (*entities.IndexRun, error) {
	defer tracing.ProfilePoint(logger, "Last run fetch completed", "repository.runs.last", tracing.Tenant, tenant)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var run entities.IndexRun
	err := x.db.WithContext(ctx).
		Where("tenant = ?", tenant).
		Order("started_at DESC").
		First(&run).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.E("Failed to get last index run", tracing.Tenant, tenant, tracing.InnerError, err)
		return nil, err
	}

	return &run, nil
}
