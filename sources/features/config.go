package features

import (
	"jiraiya/sources/platform"
)

type FeatureConfig struct {
	UnleashAPIURL     string
	UnleashInstanceID string
	UnleashAppName    string
	RefreshInterval   int
}

// An empty UNLEASH_API_URL leaves the manager in fallback mode where every
// toggle resolves to its compiled-in default.
func NewFeatureConfig() *FeatureConfig {
	return &FeatureConfig{
		UnleashAPIURL:     platform.Get("UNLEASH_API_URL", ""),
		UnleashInstanceID: platform.Get("UNLEASH_INSTANCE_ID", "jiraiya"),
		UnleashAppName:    "jiraiya",
		RefreshInterval:   platform.GetAsInt("UNLEASH_REFRESH_INTERVAL", 5),
	}
}
