package dashboard

import (
	"errors"
	"net/http"
	"strings"

	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/texting"
	"jiraiya/sources/tracing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const fallbackTitle = "New conversation"

var errBadSessionId = errors.New("session id is not a UUID")

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// chat answers a prompt over SSE. The first frame carries the session id so a
// client that opened a fresh conversation can address the follow-ups, delta
// frames carry the streamed answer, and the closing frame carries the session
// usage totals.
func (x *Dashboard) chat(c *gin.Context) {
	var request chatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	session, created, err := x.resolveSession(&request)
	if err != nil {
		switch {
		case errors.Is(err, errBadSessionId):
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id must be a UUID"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		}
		return
	}

	log := x.log.With(tracing.SessionId, session.ID)

	if !x.gate.IsAllowed(session.ID.String()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
		return
	}

	history := []entities.ChatMessage{}
	if !created {
		full, err := x.messages.GetHistory(log, session.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
			return
		}
		history = windowHistory(full, x.web.HistoryTokenBudget)
	}

	if _, err := x.messages.SaveMessage(log, session.ID, platform.MessageRoleUser, request.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	x.sendEvent(c, gin.H{"session_id": session.ID})

	answer, err := x.agent.Ask(log, session.ID, history, request.Message, func(delta string) {
		x.sendEvent(c, gin.H{"delta": delta})
	}, func() {
		// A replay after a mid-stream failure starts over, the client drops
		// the deltas it has rendered so far.
		x.sendEvent(c, gin.H{"reset": true})
	})
	if err != nil {
		x.sendEvent(c, gin.H{"error": "the architect failed to answer, try again later"})
		return
	}

	if _, err := x.messages.SaveMessage(log, session.ID, platform.MessageRoleAssistant, answer); err != nil {
		log.E("Failed to save assistant message", tracing.InnerError, err)
	}

	if err := x.sessions.TouchSession(log, session.ID, x.config.Agent.LLM.Name); err != nil {
		log.E("Failed to touch session", tracing.InnerError, err)
	}

	final := gin.H{"done": true, "session_id": session.ID}
	if totals, err := x.usage.GetSessionUsage(log, session.ID); err == nil {
		final["usage"] = totals
	}

	x.sendEvent(c, final)
}

func (x *Dashboard) resolveSession(request *chatRequest) (*entities.Session, bool, error) {
	if request.SessionID == "" {
		session, err := x.sessions.CreateSession(x.log, deriveTitle(request.Message), x.config.Agent.LLM.Name)
		return session, true, err
	}

	id, err := uuid.Parse(request.SessionID)
	if err != nil {
		return nil, false, errBadSessionId
	}

	session, err := x.sessions.GetSession(x.log, id)
	return session, false, err
}

func (x *Dashboard) sendEvent(c *gin.Context, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		x.log.E("Failed to marshal event payload", tracing.InnerError, err)
		return
	}

	if _, err := c.Writer.WriteString("data: " + string(data) + "\n\n"); err != nil {
		x.log.E("Failed to write event", tracing.InnerError, err)
		return
	}

	c.Writer.Flush()
}

// windowHistory keeps the newest messages whose combined token count fits the
// budget. The window always opens on a user turn, model providers reject
// histories that lead with an assistant message.
func windowHistory(history []entities.ChatMessage, budget int) []entities.ChatMessage {
	start := len(history)
	total := 0

	for i := len(history) - 1; i >= 0; i-- {
		tokens := texting.TokensQuiet(history[i].Content)
		if total+tokens > budget {
			break
		}
		total += tokens
		start = i
	}

	for start < len(history) && history[start].Role != platform.MessageRoleUser {
		start++
	}

	return history[start:]
}

// deriveTitle turns the opening prompt into a session title bounded to 80 runes.
func deriveTitle(message string) string {
	title := strings.TrimSpace(message)
	if cut := strings.IndexAny(title, "\r\n"); cut >= 0 {
		title = strings.TrimSpace(title[:cut])
	}

	if runes := []rune(title); len(runes) > 80 {
		title = string(runes[:77]) + "..."
	}

	if title == "" {
		title = fallbackTitle
	}

	return title
}
