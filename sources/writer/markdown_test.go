package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdownStandalone(t *testing.T) {
	doc := TechnicalDoc{Summary: "sum", Analysis: "ana", Usage: "use"}

	md := doc.ToMarkdown("api/models.py", TemplateStandalone)

	assert.Contains(t, md, "## Module: api.models\n")
	assert.Contains(t, md, "### Summary\n\nsum\n")
	assert.Contains(t, md, "### Analysis\n\nana\n")
	assert.Contains(t, md, "### Usage Notes\n\nuse\n")
}

func TestToMarkdownSubsection(t *testing.T) {
	doc := TechnicalDoc{Summary: "sum", Analysis: "ana", Usage: "use"}

	md := doc.ToMarkdown("api/views/payment.py", TemplateSubsection)

	assert.Contains(t, md, "### Submodule: api.views.payment\n")
	assert.Contains(t, md, "#### Summary\n\nsum\n")
	assert.Contains(t, md, "#### Analysis\n\nana\n")
	assert.NotContains(t, md, "use", "subsections carry no usage notes")
}

func TestToMarkdownHeader(t *testing.T) {
	doc := TechnicalDoc{Summary: "sum", Analysis: "ana", Usage: "use"}

	md := doc.ToMarkdown("api", TemplateHeader)

	assert.Contains(t, md, "## Module: api\n")
	assert.Contains(t, md, "#### Usage Notes\n\nuse\n")
	assert.NotContains(t, md, "ana", "headers carry no analysis")
}

func TestToMarkdownUnknownTemplate(t *testing.T) {
	doc := TechnicalDoc{Summary: "sum", Analysis: "ana", Usage: "use"}

	assert.Equal(t, doc.ToMarkdown("x.py", TemplateStandalone), doc.ToMarkdown("x.py", "bogus"))
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "# Billing Api Module Level Analysis", documentTitle("billing_api/module_level_analysis"))
	assert.Equal(t, "# Demo", documentTitle("demo"))
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docs := map[string]TechnicalDoc{
		"api/models.py": {Summary: "s", Analysis: "a", Usage: "u"},
		"main.py":       {Summary: "s2", Analysis: "a2", Usage: "u2"},
	}

	md, err := writeJSONAsMarkdown(dir, filepath.Join("demo", "file_level_analysis"), docs)
	require.NoError(t, err)

	assert.Contains(t, md, "# Demo File Level Analysis")
	assert.Contains(t, md, "## Module: api.models")
	assert.Contains(t, md, "## Module: main")

	loaded, err := readJSON(dir, filepath.Join("demo", "file_level_analysis"))
	require.NoError(t, err)
	assert.Equal(t, docs, loaded)

	onDisk, err := readMarkdown(dir, filepath.Join("demo", "file_level_analysis"))
	require.NoError(t, err)
	assert.Equal(t, md, onDisk)
}

func TestReadJSONMissing(t *testing.T) {
	_, err := readJSON(t.TempDir(), "demo/none")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
