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

type MessagesRepository struct {
	db          *gorm.DB
	historySize int
}

func NewMessagesRepository(db *gorm.DB) *MessagesRepository {
	return &MessagesRepository{
		db:          db,
		historySize: platform.GetAsInt("HISTORY_MAX_MESSAGES", 50),
	}
}

func (x *MessagesRepository) SaveMessage(logger *tracing.Logger, sessionID uuid.UUID, role platform.MessageRole, content string) (*entities.ChatMessage, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	message := &entities.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}

	if err := x.db.WithContext(ctx).Create(message).Error; err != nil {
		logger.E("Failed to save message", tracing.SessionId, sessionID, tracing.InnerError, err)
		return nil, err
	}

	logger.I("Message saved", tracing.SessionId, sessionID, tracing.MessageId, message.ID)
	return message, nil
}

// GetHistory returns the most recent messages of a session in chronological
// order, capped at historySize so the agent context stays bounded.
func (x *MessagesRepository) GetHistory(logger *tracing.Logger, sessionID uuid.UUID) ([]entities.ChatMessage, error) {
	defer tracing.ProfilePoint(logger, "History fetch completed", "repository.messages.history", tracing.SessionId, sessionID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var messages []entities.ChatMessage
	err := x.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(x.historySize).
		Find(&messages).Error

	if err != nil {
		logger.E("Failed to fetch history", tracing.SessionId, sessionID, tracing.InnerError, err)
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (x *MessagesRepository) CountByRole(logger *tracing.Logger, sessionID uuid.UUID, role platform.MessageRole) (int64, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).
		Model(&entities.ChatMessage{}).
		Where("session_id = ? AND role = ?", sessionID, role).
		Count(&count).Error

	if err != nil {
		logger.E("Failed to count messages by role", tracing.SessionId, sessionID, tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}

func (x *MessagesRepository) GetTotalMessagesCount(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Messages count completed", "repository.messages.count")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	if err := x.db.WithContext(ctx).Model(&entities.ChatMessage{}).Count(&count).Error; err != nil {
		logger.E("Failed to count messages", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
