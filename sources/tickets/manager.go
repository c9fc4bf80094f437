package tickets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jiraiya/sources/configuration"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	jira "github.com/andygrunwald/go-jira"
	"github.com/trivago/tgo/tcontainer"
)

// Agile fields are custom fields on the tracker instance, so they travel in
// the unknowns map instead of typed issue fields.
const (
	epicField        = "customfield_10014"
	storyPointsField = "customfield_10020"
	sprintField      = "customfield_10007"
)

var ErrNotConfigured = errors.New("jira is not configured")

type Issue struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string
	EpicKey     string
	StoryPoints *float64
	SprintID    *int
	Priority    string
	Labels      []string
}

type IssueOutput struct {
	Key         string   `json:"key"`
	ProjectKey  string   `json:"project_key"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	IssueType   string   `json:"issue_type"`
	Status      string   `json:"status"`
	Assignee    string   `json:"assignee,omitempty"`
	Reporter    string   `json:"reporter,omitempty"`
	EpicKey     string   `json:"epic_key,omitempty"`
	Labels      []string `json:"labels"`
}

// Manager wraps the Jira REST client with bearer token authentication. When
// the tracker is not configured every operation fails with ErrNotConfigured,
// the callers decide whether that disables a feature or aborts.
type Manager struct {
	client *jira.Client
	server string
}

func NewManager(settings *configuration.Settings, httpClient *http.Client, log *tracing.Logger) *Manager {
	if settings.JiraServer == "" || settings.JiraToken == "" {
		log.W("Jira is not configured, ticket operations are disabled")
		return &Manager{}
	}

	transport := &jira.BearerAuthTransport{
		Token:     settings.JiraToken,
		Transport: httpClient.Transport,
	}

	client, err := jira.NewClient(transport.Client(), settings.JiraServer)
	if err != nil {
		log.E("Failed to create Jira client", "jira_server", settings.JiraServer, tracing.InnerError, err)
		return &Manager{}
	}

	log.I("Jira client initialized", "jira_server", settings.JiraServer)
	return &Manager{client: client, server: settings.JiraServer}
}

func (x *Manager) Configured() bool {
	return x.client != nil
}

func (x *Manager) Create(log *tracing.Logger, issue Issue) (string, error) {
	if x.client == nil {
		return "", ErrNotConfigured
	}

	issueType := issue.IssueType
	if issueType == "" {
		issueType = "Story"
	}

	fields := &jira.IssueFields{
		Project:     jira.Project{Key: issue.ProjectKey},
		Summary:     issue.Summary,
		Description: issue.Description,
		Type:        jira.IssueType{Name: issueType},
	}

	if len(issue.Labels) > 0 {
		fields.Labels = issue.Labels
	}
	if issue.Priority != "" {
		fields.Priority = &jira.Priority{Name: issue.Priority}
	}

	unknowns := tcontainer.NewMarshalMap()
	if issue.EpicKey != "" {
		unknowns[epicField] = issue.EpicKey
	}
	if issue.StoryPoints != nil {
		unknowns[storyPointsField] = *issue.StoryPoints
	}
	if issue.SprintID != nil {
		unknowns[sprintField] = *issue.SprintID
	}
	if len(unknowns) > 0 {
		fields.Unknowns = unknowns
	}

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	created, _, err := x.client.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
	if err != nil {
		log.E("Failed to create ticket", "project_key", issue.ProjectKey, tracing.IssueType, issueType, tracing.InnerError, err)
		return "", err
	}

	log.I("Ticket created", tracing.TicketKey, created.Key, tracing.IssueType, issueType, "epic_key", issue.EpicKey)
	return created.Key, nil
}

func (x *Manager) Get(log *tracing.Logger, key string) (*IssueOutput, error) {
	if x.client == nil {
		return nil, ErrNotConfigured
	}

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	issue, _, err := x.client.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		// The tracker answers HTML error pages with a 200 status under some
		// proxy failures, which surfaces here as a decode error.
		if strings.Contains(err.Error(), "invalid character") {
			log.E("Ticket response is not valid JSON", tracing.TicketKey, key, tracing.InnerError, err)
			return nil, fmt.Errorf("error with server response: %w", err)
		}
		log.E("Failed to fetch ticket", tracing.TicketKey, key, tracing.InnerError, err)
		return nil, err
	}

	out := &IssueOutput{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		IssueType:   issue.Fields.Type.Name,
		ProjectKey:  issue.Fields.Project.Name,
		Labels:      issue.Fields.Labels,
	}

	if issue.Fields.Status != nil {
		out.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Assignee != nil {
		out.Assignee = issue.Fields.Assignee.DisplayName
	}
	if issue.Fields.Reporter != nil {
		out.Reporter = issue.Fields.Reporter.DisplayName
	}
	if epic, ok := issue.Fields.Unknowns.Value(epicField); ok {
		if epicKey, isString := epic.(string); isString {
			out.EpicKey = epicKey
		}
	}

	log.I("Ticket fetched", tracing.TicketKey, key, tracing.IssueType, out.IssueType, "status", out.Status)
	return out, nil
}

func (x *Manager) Update(log *tracing.Logger, key string, fields map[string]any) error {
	if x.client == nil {
		return ErrNotConfigured
	}

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if _, err := x.client.Issue.UpdateIssueWithContext(ctx, key, map[string]any{"fields": fields}); err != nil {
		log.E("Failed to update ticket", tracing.TicketKey, key, tracing.InnerError, err)
		return err
	}

	log.I("Ticket updated", tracing.TicketKey, key, "fields", len(fields))
	return nil
}

func (x *Manager) AddComment(log *tracing.Logger, key string, comment string) error {
	if x.client == nil {
		return ErrNotConfigured
	}

	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if _, _, err := x.client.Issue.AddCommentWithContext(ctx, key, &jira.Comment{Body: comment}); err != nil {
		log.E("Failed to comment on ticket", tracing.TicketKey, key, tracing.InnerError, err)
		return err
	}

	log.I("Comment added to ticket", tracing.TicketKey, key)
	return nil
}
