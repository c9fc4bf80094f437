package writer

import (
	"testing"

	"jiraiya/sources/configuration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterConfigOutputDir(t *testing.T) {
	config := &configuration.Config{}
	config.Data.CacheDir = "docs-cache"

	t.Setenv("WRITER_OUTPUT_DIR", "")
	assert.Equal(t, "docs-cache", NewWriterConfig(config).OutputDir, "cache_dir is the documentation cache root")

	t.Setenv("WRITER_OUTPUT_DIR", "/var/lib/jiraiya/docs")
	assert.Equal(t, "/var/lib/jiraiya/docs", NewWriterConfig(config).OutputDir, "the env var overrides the yaml root")
}

func TestParseTechnicalDoc(t *testing.T) {
	doc, err := parseTechnicalDoc(`{"summary": "s", "analysis": "a", "usage": "u"}`)
	require.NoError(t, err)
	assert.Equal(t, &TechnicalDoc{Summary: "s", Analysis: "a", Usage: "u"}, doc)
}

func TestParseTechnicalDocFenced(t *testing.T) {
	content := "```json\n{\"summary\": \"s\", \"analysis\": \"a\", \"usage\": \"u\"}\n```"

	doc, err := parseTechnicalDoc(content)
	require.NoError(t, err)
	assert.Equal(t, "s", doc.Summary)
}

func TestParseTechnicalDocProseWrapped(t *testing.T) {
	content := "Here is the documentation:\n{\"summary\": \"s\", \"analysis\": \"a\", \"usage\": \"u\"}\nHope this helps!"

	doc, err := parseTechnicalDoc(content)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Analysis)
}

func TestParseTechnicalDocInvalid(t *testing.T) {
	_, err := parseTechnicalDoc("not json at all")
	require.Error(t, err)

	_, err = parseTechnicalDoc(`{"other": "keys"}`)
	require.Error(t, err, "a json object without documentation fields is rejected")
}
