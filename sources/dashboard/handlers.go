package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"jiraiya/sources/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type exportMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type exportPayload struct {
	ChatHistory []exportMessage `json:"chat_history"`
	Timestamp   string          `json:"timestamp"`
	LLM         string          `json:"llm"`
}

// stats aggregates the sidebar counters. Failing sources degrade to zero
// values instead of failing the whole endpoint.
func (x *Dashboard) stats(c *gin.Context) {
	documents, err := x.store.Count(x.log)
	if err != nil {
		x.log.W("Failed to count documents for stats", tracing.InnerError, err)
	}

	repos, err := x.store.GetAllRepos(x.log)
	if err != nil {
		x.log.W("Failed to list repos for stats", tracing.InnerError, err)
	}

	sessionCount, err := x.sessions.GetTotalSessionsCount(x.log)
	if err != nil {
		x.log.W("Failed to count sessions for stats", tracing.InnerError, err)
	}

	messageCount, err := x.messages.GetTotalMessagesCount(x.log)
	if err != nil {
		x.log.W("Failed to count messages for stats", tracing.InnerError, err)
	}

	ticketCount, err := x.tickets.GetTotalTicketsCount(x.log)
	if err != nil {
		x.log.W("Failed to count tickets for stats", tracing.InnerError, err)
	}

	tokens, err := x.usage.GetTotalTokens(x.log)
	if err != nil {
		x.log.W("Failed to sum tokens for stats", tracing.InnerError, err)
	}

	cost, err := x.usage.GetTotalCost(x.log)
	if err != nil {
		x.log.W("Failed to sum cost for stats", tracing.InnerError, err)
	}

	x.metrics.SetTotalDocuments(float64(documents))
	x.metrics.SetTotalSessions(float64(sessionCount))
	x.metrics.SetTotalMessages(float64(messageCount))
	x.metrics.SetTotalTickets(float64(ticketCount))
	x.metrics.SetTotalTokens(float64(tokens))
	x.metrics.SetTotalCost(cost.InexactFloat64())

	c.JSON(http.StatusOK, gin.H{
		"tenant":    x.config.Data.Tenant,
		"model":     x.config.Agent.LLM.Name,
		"documents": documents,
		"repos":     repos,
		"sessions":  sessionCount,
		"messages":  messageCount,
		"tickets":   ticketCount,
		"tokens":    tokens,
		"cost":      cost,
	})
}

func (x *Dashboard) listSessions(c *gin.Context) {
	sessions, err := x.sessions.ListSessions(x.log)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (x *Dashboard) exportSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id must be a UUID"})
		return
	}

	session, err := x.sessions.GetSession(x.log, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	history, err := x.messages.GetHistory(x.log, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	now := time.Now().UTC()

	export := exportPayload{
		ChatHistory: make([]exportMessage, 0, len(history)),
		Timestamp:   now.Format(time.RFC3339),
		LLM:         session.Model,
	}

	for i := range history {
		export.ChatHistory = append(export.ChatHistory, exportMessage{
			Role:      string(history[i].Role),
			Content:   history[i].Content,
			CreatedAt: history[i].CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=chat_export_%s.json", now.Format("20060102_150405")))
	c.JSON(http.StatusOK, export)
}

func (x *Dashboard) deleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id must be a UUID"})
		return
	}

	if err := x.sessions.DeleteSession(x.log, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
		return
	}

	c.Status(http.StatusNoContent)
}
