package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeDataModule(t *testing.T) {
	tests := []struct {
		name     string
		data     CodeData
		expected string
	}{
		{
			name: "Nested file",
			data: CodeData{
				Repo:     "knowledge-manager",
				FilePath: "knowledge-manager/api/routes.py",
				Name:     "Router",
			},
			expected: ".api.routes",
		},
		{
			name: "Top level file",
			data: CodeData{
				Repo:     "billing",
				FilePath: "billing/models.py",
				Name:     "Invoice",
			},
			expected: ".models",
		},
		{
			name: "Go source file",
			data: CodeData{
				Repo:     "gateway",
				FilePath: "gateway/internal/proxy.go",
				Name:     "Proxy",
			},
			expected: ".internal.proxy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.data.Module())
		})
	}
}

func TestNewTextData(t *testing.T) {
	data := NewTextData("docs", "docs/readme.md", "readme.md", "# Readme")

	assert.Equal(t, "text", data.Type)
	assert.Equal(t, "docs", data.Repo)
	assert.Equal(t, "# Readme", data.Text)
}
