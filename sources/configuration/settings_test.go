package configuration

import (
	"testing"

	"jiraiya/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAWSEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		missing string
	}{
		{
			name: "All credentials present",
			env: map[string]string{
				"AWS_ACCESS_KEY_ID":     "AKIAEXAMPLE",
				"AWS_SECRET_ACCESS_KEY": "secret",
				"AWS_SESSION_TOKEN":     "token",
			},
		},
		{
			name:    "Nothing set names the access key first",
			env:     map[string]string{},
			missing: "AWS_ACCESS_KEY_ID",
		},
		{
			name: "Missing secret named",
			env: map[string]string{
				"AWS_ACCESS_KEY_ID": "AKIAEXAMPLE",
				"AWS_SESSION_TOKEN": "token",
			},
			missing: "AWS_SECRET_ACCESS_KEY",
		},
		{
			name: "Missing session token named",
			env: map[string]string{
				"AWS_ACCESS_KEY_ID":     "AKIAEXAMPLE",
				"AWS_SECRET_ACCESS_KEY": "secret",
			},
			missing: "AWS_SESSION_TOKEN",
		},
	}

	keys := []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, tt.env[key])
			}

			err := ValidateAWSEnv()
			if tt.missing == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
			assert.Contains(t, err.Error(), "environment variable is not set")
		})
	}
}

func TestRegionOverridden(t *testing.T) {
	t.Setenv("AWS_DEFAULT_REGION", "")
	assert.False(t, regionOverridden())

	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	assert.True(t, regionOverridden(), "an explicit value equal to the default still counts as set")

	t.Setenv("AWS_DEFAULT_REGION", "us-east-1")
	assert.True(t, regionOverridden())
}

func TestNewSettingsDefaults(t *testing.T) {
	for _, key := range []string{"AWS_DEFAULT_REGION", "QDRANT_HOST", "QDRANT_PORT"} {
		t.Setenv(key, "")
	}

	settings := NewSettings(tracing.NewConsoleLogger())

	assert.Equal(t, "eu-central-1", settings.AWSDefaultRegion)
	assert.Equal(t, "localhost", settings.QdrantHost)
	assert.Equal(t, 6334, settings.QdrantPort)
}
