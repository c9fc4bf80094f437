package artificial

import (
	"context"

	"jiraiya/sources/configuration"
	"jiraiya/sources/features"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/tickets"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/lib/pq"
)

type codeSearcher interface {
	Search(log *tracing.Logger, strategy platform.SearchStrategy, query string, topK int, filters map[string]string) ([]vectorstore.SearchResult, error)
}

type ticketCreator interface {
	Configured() bool
	Create(log *tracing.Logger, issue tickets.Issue) (string, error)
}

type ticketRecorder interface {
	SaveTicket(log *tracing.Logger, record *entities.TicketRecord) error
}

type featureGate interface {
	IsEnabledDefault(featureName string, defaultValue bool) bool
}

type CodeSearchArgs struct {
	Query string `json:"query" jsonschema:"description=Search query"`
	Repo  string `json:"repo,omitempty" jsonschema:"description=Repository slug for filtering search results"`
}

type SearchHit struct {
	FilePath string `json:"file_path"`
	Snippet  string `json:"snippet"`
}

type CodeSearchOutput struct {
	Results []SearchHit `json:"results"`
}

type TicketArgs struct {
	Summary     string `json:"summary" jsonschema:"description=Issue title"`
	Description string `json:"description" jsonschema:"description=Detailed issue description"`
	IssueType   string `json:"issue_type,omitempty" jsonschema:"enum=Story,enum=Task,enum=Bug,description=Issue type"`
	EpicKey     string `json:"epic_key,omitempty" jsonschema:"description=Epic key, must be explicitly provided by the user"`
}

type TicketOutput struct {
	Key       string `json:"key"`
	Status    string `json:"status"`
	Summary   string `json:"summary"`
	IssueType string `json:"issue_type"`
	EpicKey   string `json:"epic_key,omitempty"`
}

// Toolbox owns the functions exposed to the agent loop.
type Toolbox struct {
	config   *configuration.Config
	store    codeSearcher
	jira     ticketCreator
	tickets  ticketRecorder
	features featureGate
	metrics  *metrics.MetricsService
	log      *tracing.Logger
}

func NewToolbox(
	config *configuration.Config,
	store *vectorstore.Store,
	jira *tickets.Manager,
	ticketsRepository *repository.TicketsRepository,
	featureManager *features.FeatureManager,
	metricsService *metrics.MetricsService,
	log *tracing.Logger,
) *Toolbox {
	return &Toolbox{
		config:   config,
		store:    store,
		jira:     jira,
		tickets:  ticketsRepository,
		features: featureManager,
		metrics:  metricsService,
		log:      log,
	}
}

// Tools assembles the exposed set. The ticket tool only ships when the
// feature flag is on and the tracker is reachable.
func (x *Toolbox) Tools() ([]tool.BaseTool, error) {
	searchConfig := x.config.Agent.Tools.Search

	searchDescription := searchConfig.Description
	if searchDescription == "" {
		searchDescription = "Search in the codebase for classes or methods to be used as context for answering the user question."
	}

	search, err := utils.InferTool(searchConfig.Name, searchDescription, x.codeSearch)
	if err != nil {
		return nil, err
	}

	all := []tool.BaseTool{search}

	if x.features.IsEnabledDefault(features.FeatureTicketTool, true) && x.jira.Configured() {
		ticketConfig := x.config.Agent.Tools.Ticket

		ticketDescription := ticketConfig.Description
		if ticketDescription == "" {
			ticketDescription = "Create a ticket in the issue tracker."
		}

		ticket, err := utils.InferTool(ticketConfig.Name, ticketDescription, x.createTicket)
		if err != nil {
			return nil, err
		}
		all = append(all, ticket)
	}

	return all, nil
}

func (x *Toolbox) codeSearch(ctx context.Context, args *CodeSearchArgs) (*CodeSearchOutput, error) {
	searchConfig := x.config.Agent.Tools.Search
	x.metrics.RecordToolUsed(searchConfig.Name)

	filters := map[string]string{}
	if args.Repo != "" {
		filters["repo"] = args.Repo
	}

	results, err := x.store.Search(x.log, searchConfig.Strategy, args.Query, searchConfig.TopK, filters)
	if err != nil {
		x.log.E("Code search tool failed",
			tracing.ToolName, searchConfig.Name, tracing.SearchQuery, args.Query, tracing.InnerError, err)
		return nil, err
	}

	output := &CodeSearchOutput{Results: make([]SearchHit, 0, len(results))}
	for _, result := range results {
		output.Results = append(output.Results, SearchHit{FilePath: result.FilePath, Snippet: result.Text})
	}

	x.log.I("Found results for search query",
		tracing.ToolName, searchConfig.Name, tracing.SearchQuery, args.Query,
		tracing.SearchHits, len(results), tracing.Repo, args.Repo)
	return output, nil
}

func (x *Toolbox) createTicket(ctx context.Context, args *TicketArgs) (*TicketOutput, error) {
	ticketConfig := x.config.Agent.Tools.Ticket
	x.metrics.RecordToolUsed(ticketConfig.Name)

	issueType := args.IssueType
	if issueType == "" {
		issueType = "Story"
	}

	epicKey := args.EpicKey
	if epicKey == "" {
		epicKey = ticketConfig.EpicKey
	}

	key, err := x.jira.Create(x.log, tickets.Issue{
		ProjectKey:  ticketConfig.ProjectKey,
		Summary:     args.Summary,
		Description: args.Description,
		IssueType:   issueType,
		EpicKey:     epicKey,
		Labels:      ticketConfig.Labels,
	})
	if err != nil {
		x.metrics.RecordTicketCreated(issueType, "error")
		x.log.E("Ticket tool failed",
			tracing.ToolName, ticketConfig.Name, tracing.IssueType, issueType, tracing.InnerError, err)
		return nil, err
	}

	record := &entities.TicketRecord{
		SessionID: SessionFrom(ctx),
		Key:       key,
		Project:   ticketConfig.ProjectKey,
		Summary:   args.Summary,
		IssueType: issueType,
		Labels:    pq.StringArray(ticketConfig.Labels),
	}
	if err := x.tickets.SaveTicket(x.log, record); err != nil {
		x.log.W("Ticket created but not recorded", tracing.TicketKey, key, tracing.InnerError, err)
	}

	x.metrics.RecordTicketCreated(issueType, "created")
	return &TicketOutput{
		Key:       key,
		Status:    "CREATED",
		Summary:   args.Summary,
		IssueType: issueType,
		EpicKey:   epicKey,
	}, nil
}
