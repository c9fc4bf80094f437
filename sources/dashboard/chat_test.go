package dashboard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jiraiya/sources/configuration"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/tracing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAgent struct {
	history   []entities.ChatMessage
	prompt    string
	answer    string
	deltas    []string
	abandoned []string
	err       error
}

func (f *fakeAgent) Ask(log *tracing.Logger, sessionID uuid.UUID, history []entities.ChatMessage, prompt string, onDelta func(delta string), onReset func()) (string, error) {
	f.history = history
	f.prompt = prompt

	if f.err != nil {
		return "", f.err
	}

	if len(f.abandoned) > 0 {
		for _, delta := range f.abandoned {
			onDelta(delta)
		}
		onReset()
	}

	for _, delta := range f.deltas {
		onDelta(delta)
	}

	return f.answer, nil
}

type fakeSessions struct {
	sessions map[uuid.UUID]*entities.Session
	created  *entities.Session
	touched  bool
	deleted  []uuid.UUID
}

func (f *fakeSessions) CreateSession(log *tracing.Logger, title string, model string) (*entities.Session, error) {
	session := &entities.Session{ID: uuid.New(), Title: title, Model: model}
	f.created = session
	return session, nil
}

func (f *fakeSessions) GetSession(log *tracing.Logger, id uuid.UUID) (*entities.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessions) ListSessions(log *tracing.Logger) ([]entities.Session, error) {
	sessions := make([]entities.Session, 0, len(f.sessions))
	for _, session := range f.sessions {
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (f *fakeSessions) TouchSession(log *tracing.Logger, id uuid.UUID, model string) error {
	f.touched = true
	return nil
}

func (f *fakeSessions) DeleteSession(log *tracing.Logger, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSessions) GetTotalSessionsCount(log *tracing.Logger) (int64, error) {
	return int64(len(f.sessions)), nil
}

type fakeMessages struct {
	history []entities.ChatMessage
	saved   []entities.ChatMessage
	count   int64
}

func (f *fakeMessages) SaveMessage(log *tracing.Logger, sessionID uuid.UUID, role platform.MessageRole, content string) (*entities.ChatMessage, error) {
	message := entities.ChatMessage{ID: uuid.New(), SessionID: sessionID, Role: role, Content: content}
	f.saved = append(f.saved, message)
	return &message, nil
}

func (f *fakeMessages) GetHistory(log *tracing.Logger, sessionID uuid.UUID) ([]entities.ChatMessage, error) {
	return f.history, nil
}

func (f *fakeMessages) GetTotalMessagesCount(log *tracing.Logger) (int64, error) {
	return f.count, nil
}

type fakeTickets struct {
	count int64
}

func (f *fakeTickets) GetTotalTicketsCount(log *tracing.Logger) (int64, error) {
	return f.count, nil
}

type fakeUsage struct {
	tokens int64
	cost   decimal.Decimal
	totals *repository.UsageTotals
}

func (f *fakeUsage) GetTotalCost(log *tracing.Logger) (decimal.Decimal, error) {
	return f.cost, nil
}

func (f *fakeUsage) GetTotalTokens(log *tracing.Logger) (int64, error) {
	return f.tokens, nil
}

func (f *fakeUsage) GetSessionUsage(log *tracing.Logger, sessionID uuid.UUID) (*repository.UsageTotals, error) {
	if f.totals == nil {
		return nil, errors.New("no usage recorded")
	}
	return f.totals, nil
}

type fakeDocuments struct {
	count uint64
	repos []string
}

func (f *fakeDocuments) Count(log *tracing.Logger) (uint64, error) {
	return f.count, nil
}

func (f *fakeDocuments) GetAllRepos(log *tracing.Logger) ([]string, error) {
	return f.repos, nil
}

type fakeGate struct {
	allowed bool
}

func (f *fakeGate) IsAllowed(sessionID string) bool {
	return f.allowed
}

type dashboardFixture struct {
	dashboard *Dashboard
	agent     *fakeAgent
	sessions  *fakeSessions
	messages  *fakeMessages
	usage     *fakeUsage
	gate      *fakeGate
}

func testDashboard(t *testing.T) *dashboardFixture {
	t.Helper()

	log := tracing.NewConsoleLogger()

	fixture := &dashboardFixture{
		agent:    &fakeAgent{answer: "Use an outbox table."},
		sessions: &fakeSessions{sessions: map[uuid.UUID]*entities.Session{}},
		messages: &fakeMessages{},
		usage:    &fakeUsage{},
		gate:     &fakeGate{allowed: true},
	}

	fixture.dashboard = &Dashboard{
		log: log,
		config: &configuration.Config{
			Data:  configuration.DataConfig{Tenant: "acme"},
			Agent: configuration.AgentConfig{LLM: configuration.LLMConfig{Name: "CLAUDE_3_5_SONNET"}},
		},
		web:      &DashboardConfig{Port: 8080, HistoryTokenBudget: 8000},
		agent:    fixture.agent,
		sessions: fixture.sessions,
		messages: fixture.messages,
		tickets:  &fakeTickets{},
		usage:    fixture.usage,
		store:    &fakeDocuments{},
		gate:     fixture.gate,
		metrics:  metrics.NewMetricsService(log),
	}

	return fixture
}

func postChat(t *testing.T, fixture *dashboardFixture, body string) *httptest.ResponseRecorder {
	t.Helper()

	engine := fixture.dashboard.buildEngine()
	recorder := httptest.NewRecorder()

	request := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	engine.ServeHTTP(recorder, request)
	return recorder
}

func parseEvents(t *testing.T, body string) []map[string]any {
	t.Helper()

	var events []map[string]any
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event map[string]any
		require.NoError(t, sonic.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}

	return events
}

func TestChatMissingMessage(t *testing.T) {
	fixture := testDashboard(t)

	recorder := postChat(t, fixture, `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChatBadSessionId(t *testing.T) {
	fixture := testDashboard(t)

	recorder := postChat(t, fixture, `{"session_id": "not-a-uuid", "message": "hello"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChatUnknownSession(t *testing.T) {
	fixture := testDashboard(t)

	recorder := postChat(t, fixture, `{"session_id": "`+uuid.NewString()+`", "message": "hello"}`)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestChatThrottled(t *testing.T) {
	fixture := testDashboard(t)
	fixture.gate.allowed = false

	recorder := postChat(t, fixture, `{"message": "hello"}`)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Empty(t, fixture.messages.saved)
}

func TestChatNewSessionStreams(t *testing.T) {
	fixture := testDashboard(t)
	fixture.agent.deltas = []string{"Use an ", "outbox table."}
	fixture.agent.answer = "Use an outbox table."
	fixture.usage.totals = &repository.UsageTotals{PromptTokens: 12, CompletionTokens: 7, Cost: decimal.RequireFromString("0.0042")}

	recorder := postChat(t, fixture, `{"message": "How should billing publish events?"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))

	require.NotNil(t, fixture.sessions.created)
	assert.Equal(t, "How should billing publish events?", fixture.sessions.created.Title)
	assert.Equal(t, "CLAUDE_3_5_SONNET", fixture.sessions.created.Model)

	events := parseEvents(t, recorder.Body.String())
	require.Len(t, events, 4)

	assert.Equal(t, fixture.sessions.created.ID.String(), events[0]["session_id"])
	assert.Equal(t, "Use an ", events[1]["delta"])
	assert.Equal(t, "outbox table.", events[2]["delta"])
	assert.Equal(t, true, events[3]["done"])

	usage, ok := events[3]["usage"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 12, usage["prompt_tokens"])
	assert.EqualValues(t, 7, usage["completion_tokens"])

	require.Len(t, fixture.messages.saved, 2)
	assert.Equal(t, platform.MessageRoleUser, fixture.messages.saved[0].Role)
	assert.Equal(t, "How should billing publish events?", fixture.messages.saved[0].Content)
	assert.Equal(t, platform.MessageRoleAssistant, fixture.messages.saved[1].Role)
	assert.Equal(t, "Use an outbox table.", fixture.messages.saved[1].Content)

	assert.True(t, fixture.sessions.touched)
	assert.Empty(t, fixture.agent.history)
}

func TestChatExistingSessionCarriesHistory(t *testing.T) {
	fixture := testDashboard(t)

	session := &entities.Session{ID: uuid.New(), Title: "billing", Model: "CLAUDE_3_5_SONNET"}
	fixture.sessions.sessions[session.ID] = session
	fixture.messages.history = []entities.ChatMessage{
		{SessionID: session.ID, Role: platform.MessageRoleUser, Content: "What does the billing service do?"},
		{SessionID: session.ID, Role: platform.MessageRoleAssistant, Content: "It meters usage and issues invoices."},
	}

	recorder := postChat(t, fixture, `{"session_id": "`+session.ID.String()+`", "message": "Where are invoices stored?"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	require.Len(t, fixture.agent.history, 2)
	assert.Equal(t, "What does the billing service do?", fixture.agent.history[0].Content)
	assert.Equal(t, "Where are invoices stored?", fixture.agent.prompt)

	events := parseEvents(t, recorder.Body.String())
	require.NotEmpty(t, events)
	assert.Equal(t, session.ID.String(), events[0]["session_id"])
}

func TestChatRetryEmitsResetFrame(t *testing.T) {
	fixture := testDashboard(t)
	fixture.agent.abandoned = []string{"Use a cro"}
	fixture.agent.deltas = []string{"Use an ", "outbox table."}
	fixture.agent.answer = "Use an outbox table."

	recorder := postChat(t, fixture, `{"message": "How should billing publish events?"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	events := parseEvents(t, recorder.Body.String())
	require.Len(t, events, 6)

	assert.Equal(t, "Use a cro", events[1]["delta"])
	assert.Equal(t, true, events[2]["reset"], "the replay withdraws the partial answer before streaming again")
	assert.Equal(t, "Use an ", events[3]["delta"])
	assert.Equal(t, "outbox table.", events[4]["delta"])
	assert.Equal(t, true, events[5]["done"])

	// The abandoned attempt never reaches storage.
	require.Len(t, fixture.messages.saved, 2)
	assert.Equal(t, "Use an outbox table.", fixture.messages.saved[1].Content)
}

func TestChatAgentFailure(t *testing.T) {
	fixture := testDashboard(t)
	fixture.agent.err = errors.New("model unavailable")

	recorder := postChat(t, fixture, `{"message": "hello"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	events := parseEvents(t, recorder.Body.String())
	require.Len(t, events, 2)
	assert.Contains(t, events[1]["error"], "failed to answer")

	// Only the user message made it to storage.
	require.Len(t, fixture.messages.saved, 1)
	assert.Equal(t, platform.MessageRoleUser, fixture.messages.saved[0].Role)
	assert.False(t, fixture.sessions.touched)
}

func TestWindowHistory(t *testing.T) {
	history := []entities.ChatMessage{
		{Role: platform.MessageRoleUser, Content: strings.Repeat("old ", 400)},
		{Role: platform.MessageRoleAssistant, Content: strings.Repeat("older answer ", 400)},
		{Role: platform.MessageRoleUser, Content: "recent question"},
		{Role: platform.MessageRoleAssistant, Content: "recent answer"},
	}

	windowed := windowHistory(history, 50)

	require.Len(t, windowed, 2)
	assert.Equal(t, "recent question", windowed[0].Content)
	assert.Equal(t, "recent answer", windowed[1].Content)
}

func TestWindowHistoryOpensOnUserTurn(t *testing.T) {
	history := []entities.ChatMessage{
		{Role: platform.MessageRoleUser, Content: strings.Repeat("long opening question ", 300)},
		{Role: platform.MessageRoleAssistant, Content: "short answer"},
		{Role: platform.MessageRoleUser, Content: "follow up"},
		{Role: platform.MessageRoleAssistant, Content: "closing answer"},
	}

	windowed := windowHistory(history, 20)

	require.Len(t, windowed, 2)
	assert.Equal(t, platform.MessageRoleUser, windowed[0].Role)
	assert.Equal(t, "follow up", windowed[0].Content)
}

func TestWindowHistoryFitsEverything(t *testing.T) {
	history := []entities.ChatMessage{
		{Role: platform.MessageRoleUser, Content: "hi"},
		{Role: platform.MessageRoleAssistant, Content: "hello"},
	}

	assert.Len(t, windowHistory(history, 8000), 2)
	assert.Empty(t, windowHistory(history, 0))
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "How does auth work?", deriveTitle("How does auth work?"))
	assert.Equal(t, "First line", deriveTitle("First line\nsecond line"))
	assert.Equal(t, fallbackTitle, deriveTitle("   "))

	long := deriveTitle(strings.Repeat("a", 200))
	assert.Len(t, []rune(long), 80)
	assert.True(t, strings.HasSuffix(long, "..."))
}
