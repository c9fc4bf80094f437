package repository

import (
	"context"
	"time"

	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionsRepository struct {
	db *gorm.DB
}

func NewSessionsRepository(db *gorm.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

func (x *SessionsRepository) CreateSession(logger *tracing.Logger, title string, model string) (*entities.Session, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	session := &entities.Session{
		Title: title,
		Model: model,
	}

	if err := x.db.WithContext(ctx).Create(session).Error; err != nil {
		logger.E("Failed to create session", tracing.InnerError, err)
		return nil, err
	}

	logger.I("Session created", tracing.SessionId, session.ID, tracing.AiModel, model)
	return session, nil
}

func (x *SessionsRepository) GetSession(logger *tracing.Logger, id uuid.UUID) (*entities.Session, error) {
	defer tracing.ProfilePoint(logger, "Session fetch completed", "repository.sessions.get", tracing.SessionId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var session entities.Session
	if err := x.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		logger.E("Failed to get session", tracing.SessionId, id, tracing.InnerError, err)
		return nil, err
	}

	return &session, nil
}

func (x *SessionsRepository) ListSessions(logger *tracing.Logger) ([]entities.Session, error) {
	defer tracing.ProfilePoint(logger, "Sessions list completed", "repository.sessions.list")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var sessions []entities.Session
	if err := x.db.WithContext(ctx).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		logger.E("Failed to list sessions", tracing.InnerError, err)
		return nil, err
	}

	return sessions, nil
}

func (x *SessionsRepository) TouchSession(logger *tracing.Logger, id uuid.UUID, model string) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"updated_at": time.Now(), "model": model}).Error

	if err != nil {
		logger.E("Failed to touch session", tracing.SessionId, id, tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *SessionsRepository) DeleteSession(logger *tracing.Logger, id uuid.UUID) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&entities.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Session{}, "id = ?", id).Error
	})

	if err != nil {
		logger.E("Failed to delete session", tracing.SessionId, id, tracing.InnerError, err)
		return err
	}

	logger.I("Session deleted", tracing.SessionId, id)
	return nil
}

func (x *SessionsRepository) GetTotalSessionsCount(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Sessions count completed", "repository.sessions.count")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	if err := x.db.WithContext(ctx).Model(&entities.Session{}).Count(&count).Error; err != nil {
		logger.E("Failed to count sessions", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
