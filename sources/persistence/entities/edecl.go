package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type (
	Session struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		Title     string    `gorm:"size:255;not null;default:''" json:"title"`
		Model     string    `gorm:"size:100;not null" json:"model"`
		CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
		UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

		Messages []ChatMessage `gorm:"foreignKey:SessionID;references:ID" json:"messages"`
	}

	ChatMessage struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
		Role      string    `gorm:"size:20;not null" json:"role"`
		Content   string    `gorm:"type:text;not null" json:"content"`
		CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

		Session *Session `gorm:"foreignKey:SessionID;references:ID" json:"session"`
	}

	TicketRecord struct {
		ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		SessionID *uuid.UUID     `gorm:"type:uuid;index" json:"session_id"`
		Key       string         `gorm:"size:32;not null" json:"key"`
		Project   string         `gorm:"size:32;not null" json:"project"`
		Summary   string         `gorm:"size:512;not null" json:"summary"`
		IssueType string         `gorm:"size:32;not null" json:"issue_type"`
		Labels    pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]" json:"labels"`
		CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

		SessionEntity *Session `gorm:"foreignKey:SessionID;references:ID" json:"session_entity"`
	}

	IndexRun struct {
		ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		Tenant     string         `gorm:"size:100;not null;index" json:"tenant"`
		Codebases  pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]" json:"codebases"`
		Commits    pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]" json:"commits"`
		Documents  int64          `gorm:"not null;default:0" json:"documents"`
		Status     string         `gorm:"size:20;not null" json:"status"`
		Error      *string        `gorm:"type:text" json:"error"`
		StartedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"started_at"`
		FinishedAt *time.Time     `json:"finished_at"`
	}

	Usage struct {
		ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
		SessionID        *uuid.UUID      `gorm:"type:uuid;index" json:"session_id"`
		Model            string          `gorm:"size:100;not null" json:"model"`
		Scope            string          `gorm:"size:20;not null" json:"scope"`
		PromptTokens     int64           `gorm:"not null;default:0" json:"prompt_tokens"`
		CompletionTokens int64           `gorm:"not null;default:0" json:"completion_tokens"`
		Cost             decimal.Decimal `gorm:"type:decimal(10,6);not null" json:"cost"`
		CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

		SessionEntity *Session `gorm:"foreignKey:SessionID;references:ID" json:"session_entity"`
	}
)

func (Session) TableName() string      { return "jr_sessions" }
func (ChatMessage) TableName() string  { return "jr_messages" }
func (TicketRecord) TableName() string { return "jr_tickets" }
func (IndexRun) TableName() string     { return "jr_index_runs" }
func (Usage) TableName() string        { return "jr_usage" }
