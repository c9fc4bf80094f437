package writer

import (
	"strings"
	"testing"

	"jiraiya/sources/configuration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkers(t *testing.T) {
	assert.Equal(t, " Important content ", stripMarkers("Some text [START] Important content [END] Extra text"))
	assert.Equal(t, "no markers", stripMarkers("no markers"))
	assert.Equal(t, " tail", stripMarkers("head [START] tail"))
}

func TestRenderSection(t *testing.T) {
	rendered := renderSection("docs:\n\n{documentation}\n\ndone", "THE ANALYSIS")
	assert.Contains(t, rendered, "docs:\n\nTHE ANALYSIS\n\ndone")
}

func TestDefaultSectionsOrder(t *testing.T) {
	sections := defaultSections()
	require.Len(t, sections, 6)

	titles := make([]string, 0, len(sections))
	for _, section := range sections {
		titles = append(titles, section.Title)
		assert.Contains(t, section.Template, "{documentation}")
		assert.Contains(t, section.Template, "[START]")
	}

	assert.Equal(t, []string{
		"1. Summary",
		"2. Architecture Overview",
		"3. Data Flow",
		"4. Security Concerns",
		"5. Key Modules & Responsibilities",
		"6. Cross Cutting Concerns",
	}, titles)
}

func TestWriteCodeAnalysis(t *testing.T) {
	doc := TechnicalDoc{Summary: "s", Analysis: "a", Usage: "u"}
	generator := &Generator{
		config: &configuration.Config{},
		writer: &WriterConfig{OutputDir: t.TempDir()},
	}

	fileDocs := map[string]TechnicalDoc{
		"main.py":       doc,
		"api/models.py": doc,
		"api/views.py":  doc,
		"jobs/run.py":   doc,
	}
	moduleDocs := map[string]TechnicalDoc{"api": doc, "jobs": doc}

	result, err := generator.writeCodeAnalysis(fileDocs, moduleDocs, "billing_api/code_analysis")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result, "# Billing Api Technical Documentation\n\n"))

	assert.Contains(t, result, "## Module: main")
	assert.Contains(t, result, "## Module: api")
	assert.Contains(t, result, "### Submodule: api.models")
	assert.Contains(t, result, "### Submodule: api.views")
	assert.Contains(t, result, "### Submodule: jobs.run")

	// Standalone top-level files come first, then modules with their files.
	assert.Less(t, strings.Index(result, "## Module: main"), strings.Index(result, "## Module: api"))
	assert.Less(t, strings.Index(result, "## Module: api"), strings.Index(result, "### Submodule: api.models"))
	assert.Less(t, strings.Index(result, "### Submodule: api.views"), strings.Index(result, "## Module: jobs"))

	onDisk, err := readMarkdown(generator.writer.OutputDir, "billing_api/code_analysis")
	require.NoError(t, err)
	assert.Equal(t, result, onDisk)
}
