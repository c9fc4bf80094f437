package artificial

import (
	"context"
	"errors"
	"testing"

	"jiraiya/sources/configuration"
	"jiraiya/sources/features"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/tickets"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	strategy platform.SearchStrategy
	query    string
	topK     int
	filters  map[string]string
	results  []vectorstore.SearchResult
	err      error
}

func (f *fakeSearcher) Search(log *tracing.Logger, strategy platform.SearchStrategy, query string, topK int, filters map[string]string) ([]vectorstore.SearchResult, error) {
	f.strategy = strategy
	f.query = query
	f.topK = topK
	f.filters = filters
	return f.results, f.err
}

type fakeCreator struct {
	configured bool
	issue      tickets.Issue
	called     bool
	key        string
	err        error
}

func (f *fakeCreator) Configured() bool { return f.configured }

func (f *fakeCreator) Create(log *tracing.Logger, issue tickets.Issue) (string, error) {
	f.called = true
	f.issue = issue
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

type fakeRecorder struct {
	record *entities.TicketRecord
	err    error
}

func (f *fakeRecorder) SaveTicket(log *tracing.Logger, record *entities.TicketRecord) error {
	f.record = record
	return f.err
}

type fakeGate struct {
	flags map[string]bool
}

func (f *fakeGate) IsEnabledDefault(featureName string, defaultValue bool) bool {
	if value, ok := f.flags[featureName]; ok {
		return value
	}
	return defaultValue
}

func testToolbox(store codeSearcher, jira ticketCreator, recorder ticketRecorder, gate featureGate) *Toolbox {
	config := &configuration.Config{}
	config.Agent.Tools.Search = configuration.SearchToolConfig{
		Name:     "code_search",
		Strategy: platform.SearchStrategyHybrid,
		TopK:     3,
	}
	config.Agent.Tools.Ticket = configuration.TicketToolConfig{
		Name:       "create_ticket",
		ProjectKey: "ARCH",
		EpicKey:    "ARCH-100",
		Labels:     []string{"architecture"},
	}

	return &Toolbox{
		config:   config,
		store:    store,
		jira:     jira,
		tickets:  recorder,
		features: gate,
		metrics:  metrics.NewMetricsService(tracing.NewConsoleLogger()),
		log:      tracing.NewConsoleLogger(),
	}
}

func TestToolsAssembly(t *testing.T) {
	toolbox := testToolbox(&fakeSearcher{}, &fakeCreator{configured: true}, &fakeRecorder{}, &fakeGate{})

	all, err := toolbox.Tools()
	require.NoError(t, err)
	require.Len(t, all, 2)

	info, err := all[0].Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "code_search", info.Name)

	info, err = all[1].Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "create_ticket", info.Name)
}

func TestToolsAssemblyNoTracker(t *testing.T) {
	toolbox := testToolbox(&fakeSearcher{}, &fakeCreator{configured: false}, &fakeRecorder{}, &fakeGate{})

	all, err := toolbox.Tools()
	require.NoError(t, err)
	require.Len(t, all, 1, "unconfigured tracker drops the ticket tool")

	info, err := all[0].Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "code_search", info.Name)
}

func TestToolsAssemblyFlagOff(t *testing.T) {
	gate := &fakeGate{flags: map[string]bool{features.FeatureTicketTool: false}}
	toolbox := testToolbox(&fakeSearcher{}, &fakeCreator{configured: true}, &fakeRecorder{}, gate)

	all, err := toolbox.Tools()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCodeSearchTool(t *testing.T) {
	searcher := &fakeSearcher{results: []vectorstore.SearchResult{
		{FilePath: "api/models.py", Name: "Payment", Text: "class Payment: ...", Score: 0.91},
		{FilePath: "api/views.py", Name: "pay", Text: "def pay(): ...", Score: 0.77},
	}}
	toolbox := testToolbox(searcher, &fakeCreator{}, &fakeRecorder{}, &fakeGate{})

	output, err := toolbox.codeSearch(context.Background(), &CodeSearchArgs{Query: "payment flow", Repo: "billing"})
	require.NoError(t, err)

	assert.Equal(t, platform.SearchStrategyHybrid, searcher.strategy)
	assert.Equal(t, "payment flow", searcher.query)
	assert.Equal(t, 3, searcher.topK)
	assert.Equal(t, map[string]string{"repo": "billing"}, searcher.filters)

	require.Len(t, output.Results, 2)
	assert.Equal(t, "api/models.py", output.Results[0].FilePath)
	assert.Equal(t, "class Payment: ...", output.Results[0].Snippet)
}

func TestCodeSearchToolNoRepoFilter(t *testing.T) {
	searcher := &fakeSearcher{}
	toolbox := testToolbox(searcher, &fakeCreator{}, &fakeRecorder{}, &fakeGate{})

	_, err := toolbox.codeSearch(context.Background(), &CodeSearchArgs{Query: "auth"})
	require.NoError(t, err)
	assert.Empty(t, searcher.filters)
}

func TestCodeSearchToolError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("qdrant unavailable")}
	toolbox := testToolbox(searcher, &fakeCreator{}, &fakeRecorder{}, &fakeGate{})

	_, err := toolbox.codeSearch(context.Background(), &CodeSearchArgs{Query: "auth"})
	require.Error(t, err)
}

func TestCreateTicketTool(t *testing.T) {
	creator := &fakeCreator{configured: true, key: "ARCH-7"}
	recorder := &fakeRecorder{}
	toolbox := testToolbox(&fakeSearcher{}, creator, recorder, &fakeGate{})

	sessionID := uuid.New()
	ctx := WithSession(context.Background(), sessionID)

	output, err := toolbox.createTicket(ctx, &TicketArgs{
		Summary:     "Add retry to payment webhook",
		Description: "Webhook handler drops events on 5xx.",
	})
	require.NoError(t, err)

	assert.Equal(t, "ARCH-7", output.Key)
	assert.Equal(t, "CREATED", output.Status)
	assert.Equal(t, "Story", output.IssueType, "issue type defaults to Story")
	assert.Equal(t, "ARCH-100", output.EpicKey, "epic falls back to the configured one")

	assert.Equal(t, "ARCH", creator.issue.ProjectKey)
	assert.Equal(t, "ARCH-100", creator.issue.EpicKey)
	assert.Equal(t, []string{"architecture"}, creator.issue.Labels)

	require.NotNil(t, recorder.record)
	assert.Equal(t, "ARCH-7", recorder.record.Key)
	assert.Equal(t, "Story", recorder.record.IssueType)
	require.NotNil(t, recorder.record.SessionID)
	assert.Equal(t, sessionID, *recorder.record.SessionID)
}

func TestCreateTicketToolExplicitArgs(t *testing.T) {
	creator := &fakeCreator{configured: true, key: "ARCH-8"}
	toolbox := testToolbox(&fakeSearcher{}, creator, &fakeRecorder{}, &fakeGate{})

	output, err := toolbox.createTicket(context.Background(), &TicketArgs{
		Summary:   "Fix flaky index run",
		IssueType: "Bug",
		EpicKey:   "ARCH-200",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bug", output.IssueType)
	assert.Equal(t, "ARCH-200", creator.issue.EpicKey, "explicit epic wins over the configured one")
}

func TestCreateTicketToolFailure(t *testing.T) {
	creator := &fakeCreator{configured: true, err: errors.New("jira down")}
	recorder := &fakeRecorder{}
	toolbox := testToolbox(&fakeSearcher{}, creator, recorder, &fakeGate{})

	_, err := toolbox.createTicket(context.Background(), &TicketArgs{Summary: "x"})
	require.Error(t, err)
	assert.Nil(t, recorder.record, "failed creation leaves no audit row")
}

func TestCreateTicketToolRecorderFailure(t *testing.T) {
	creator := &fakeCreator{configured: true, key: "ARCH-9"}
	recorder := &fakeRecorder{err: errors.New("db down")}
	toolbox := testToolbox(&fakeSearcher{}, creator, recorder, &fakeGate{})

	// A broken audit trail must not fail the ticket that already exists.
	output, err := toolbox.createTicket(context.Background(), &TicketArgs{Summary: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ARCH-9", output.Key)
}
