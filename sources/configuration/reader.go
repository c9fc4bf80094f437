package configuration

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"
)

func NewYaml(log *tracing.Logger) (*Config, error) {
	defer tracing.ProfilePoint(log, "Configuration loaded", "configuration.load")()

	path := platform.Get("CONFIG_PATH", "config.yaml")

	log.I("Loading configuration", "config_path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		log.E("Failed to read configuration file", "config_path", path, tracing.InnerError, err)
		return nil, fmt.Errorf("cannot read configuration at %s: %w", path, err)
	}

	expanded := expandEnv(string(raw))

	config := new(Config)
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		log.E("Failed to parse configuration file", "config_path", path, tracing.InnerError, err)
		return nil, fmt.Errorf("cannot parse configuration at %s: %w", path, err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		log.E("Configuration is invalid", "config_path", path, tracing.InnerError, err)
		return nil, fmt.Errorf("configuration is invalid: %w", err)
	}

	log.I("Configuration loaded", tracing.Tenant, config.Data.Tenant, "codebases", len(config.Data.Codebases))

	return config, nil
}

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)

		name, fallback := groups[1], groups[2]
		if value, exists := os.LookupEnv(name); exists {
			return value
		}

		return fallback
	})
}
