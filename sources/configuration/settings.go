package configuration

import (
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"
)

// Settings carries the environment-driven part of the configuration. Everything
// that is deployment-specific (credentials, endpoints) lives here, while the
// behavioral knobs live in the yaml Config.
type Settings struct {
	AWSDefaultRegion   string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string

	QdrantHost string
	QdrantPort int

	JiraServer string
	JiraToken  string
}

func NewSettings(log *tracing.Logger) *Settings {
	settings := &Settings{
		AWSDefaultRegion:   platform.Get("AWS_DEFAULT_REGION", "eu-central-1"),
		AWSAccessKeyID:     platform.Get("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: platform.Get("AWS_SECRET_ACCESS_KEY", ""),
		AWSSessionToken:    platform.Get("AWS_SESSION_TOKEN", ""),
		QdrantHost:         platform.Get("QDRANT_HOST", "localhost"),
		QdrantPort:         platform.GetAsInt("QDRANT_PORT", 6334),
		JiraServer:         platform.Get("JIRA_SERVER", ""),
		JiraToken:          platform.Get("JIRA_TOKEN", ""),
	}

	if !regionOverridden() {
		log.D("AWS region not overridden, using default", "aws_region", settings.AWSDefaultRegion)
	}

	return settings
}

// regionOverridden reports whether the operator set AWS_DEFAULT_REGION, an
// explicit value equal to the default still counts as set.
func regionOverridden() bool {
	return platform.Get("AWS_DEFAULT_REGION", "") != ""
}

// ValidateAWSEnv reports the first missing credential variable. Session tokens
// expire, so an empty AWS_SESSION_TOKEN is treated as missing too.
func ValidateAWSEnv() error {
	return platform.RequireEnv("AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN")
}

func (x *Settings) ValidateAWS() error {
	return ValidateAWSEnv()
}

// ValidateJira reports the first missing Jira connectivity variable.
func (x *Settings) ValidateJira() error {
	return platform.RequireEnv("JIRA_SERVER", "JIRA_TOKEN")
}
