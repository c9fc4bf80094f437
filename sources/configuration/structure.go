package configuration

import (
	"fmt"

	"jiraiya/sources/platform"
)

type Config struct {
	Data  DataConfig  `yaml:"data"`
	Agent AgentConfig `yaml:"agent"`
}

type DataConfig struct {
	Tenant      string   `yaml:"tenant"`
	CodeEncoder string   `yaml:"code_encoder"`
	TextEncoder string   `yaml:"text_encoder"`
	CacheDir    string   `yaml:"cache_dir"`
	Codebases   []string `yaml:"codebases"`
	Blacklist   []string `yaml:"blacklist"`
	Reset       bool     `yaml:"reset"`
}

type AgentConfig struct {
	Retries int           `yaml:"retries"`
	LLM     LLMConfig     `yaml:"llm"`
	Tools   ToolsConfig   `yaml:"tools"`
	Prompts PromptsConfig `yaml:"prompts"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Name        string  `yaml:"name"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float32 `yaml:"top_p"`
}

type ToolsConfig struct {
	Search SearchToolConfig `yaml:"code_search"`
	Ticket TicketToolConfig `yaml:"create_ticket"`
}

type SearchToolConfig struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Strategy    platform.SearchStrategy `yaml:"search_strategy"`
	TopK        int                     `yaml:"top_k"`
}

type TicketToolConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ProjectKey  string   `yaml:"project_key"`
	EpicKey     string   `yaml:"epic_key"`
	Labels      []string `yaml:"labels"`
}

type PromptsConfig struct {
	System string `yaml:"system"`
	Writer string `yaml:"writer"`
	Docs   string `yaml:"docs"`
}

func (c *Config) applyDefaults() {
	if c.Data.CacheDir == "" {
		c.Data.CacheDir = "cache"
	}
	if c.Agent.Retries <= 0 {
		c.Agent.Retries = 3
	}
	if c.Agent.LLM.Provider == "" {
		c.Agent.LLM.Provider = "bedrock"
	}
	if c.Agent.LLM.MaxTokens <= 0 {
		c.Agent.LLM.MaxTokens = 4096
	}
	if c.Agent.Tools.Search.Name == "" {
		c.Agent.Tools.Search.Name = "code_search"
	}
	if c.Agent.Tools.Search.Strategy == "" {
		c.Agent.Tools.Search.Strategy = platform.SearchStrategySimilarity
	}
	if c.Agent.Tools.Search.TopK <= 0 {
		c.Agent.Tools.Search.TopK = 5
	}
	if c.Agent.Tools.Ticket.Name == "" {
		c.Agent.Tools.Ticket.Name = "create_ticket"
	}
}

func (c *Config) validate() error {
	if err := platform.ValidateNotEmpty(c.Data.Tenant, "data.tenant"); err != nil {
		return err
	}
	if err := platform.ValidateNotEmpty(c.Data.CodeEncoder, "data.code_encoder"); err != nil {
		return err
	}
	if err := platform.ValidateNotEmpty(c.Data.TextEncoder, "data.text_encoder"); err != nil {
		return err
	}
	if err := platform.ValidateNotEmpty(c.Agent.LLM.Name, "agent.llm.name"); err != nil {
		return err
	}

	switch c.Agent.LLM.Provider {
	case "bedrock", "openai":
	default:
		return fmt.Errorf("agent.llm.provider must be bedrock or openai, got %q", c.Agent.LLM.Provider)
	}

	if c.Agent.Tools.Ticket.ProjectKey != "" {
		if err := platform.ValidateProjectKey(c.Agent.Tools.Ticket.ProjectKey); err != nil {
			return err
		}
	}

	return nil
}
