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

type TicketsRepository struct {
	db *gorm.DB
}

func NewTicketsRepository(db *gorm.DB) *TicketsRepository {
	return &TicketsRepository{db: db}
}

func (x *TicketsRepository) SaveTicket(logger *tracing.Logger, record *entities.TicketRecord) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.E("Failed to save ticket record", tracing.TicketKey, record.Key, tracing.InnerError, err)
		return err
	}

	logger.I("Ticket record saved", tracing.TicketKey, record.Key, tracing.IssueType, record.IssueType)
	return nil
}

func (x *TicketsRepository) ListTickets(logger *tracing.Logger, sessionID *uuid.UUID) ([]entities.TicketRecord, error) {
	defer tracing.ProfilePoint(logger, "Tickets list completed", "repository.tickets.list")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	query := x.db.WithContext(ctx).Order("created_at DESC")
	if sessionID != nil {
		query = query.Where("session_id = ?", *sessionID)
	}

	var tickets []entities.TicketRecord
	if err := query.Find(&tickets).Error; err != nil {
		logger.E("Failed to list tickets", tracing.InnerError, err)
		return nil, err
	}

	return tickets, nil
}

func (x *TicketsRepository) GetTotalTicketsCount(logger *tracing.Logger) (int64, error) {
	defer tracing.ProfilePoint(logger, "Tickets count completed", "repository.tickets.count")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	if err := x.db.WithContext(ctx).Model(&entities.TicketRecord{}).Count(&count).Error; err != nil {
		logger.E("Failed to count tickets", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
