package writer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template names accepted by TechnicalDoc.ToMarkdown.
const (
	TemplateStandalone = "standalone"
	TemplateSubsection = "subsection"
	TemplateHeader     = "header"
)

const standaloneTemplate = `## Module: {module}

### Summary

{summary}

### Analysis

{analysis}

### Usage Notes

{usage}

`

const subsectionTemplate = `### Submodule: {module}

#### Summary

{summary}

#### Analysis

{analysis}

`

const headerTemplate = `## Module: {module}

#### Summary

{summary}

#### Usage Notes

{usage}

`

var templates = map[string]string{
	TemplateStandalone: standaloneTemplate,
	TemplateSubsection: subsectionTemplate,
	TemplateHeader:     headerTemplate,
}

// TechnicalDoc is the structured documentation produced for a file, module or
// extracted object.
type TechnicalDoc struct {
	Summary  string `json:"summary"`
	Analysis string `json:"analysis"`
	Usage    string `json:"usage"`
}

// ToMarkdown renders the doc under the module heading derived from path. The
// extension is dropped and separators become dots, so "api/models.py" renders
// as "api.models".
func (x TechnicalDoc) ToMarkdown(path string, template string) string {
	normalized := filepath.ToSlash(path)
	normalized = strings.TrimSuffix(normalized, filepath.Ext(normalized))
	module := strings.ReplaceAll(strings.Trim(normalized, "/"), "/", ".")

	body, ok := templates[template]
	if !ok {
		body = standaloneTemplate
	}

	replacer := strings.NewReplacer(
		"{module}", module,
		"{summary}", x.Summary,
		"{analysis}", x.Analysis,
		"{usage}", x.Usage,
	)
	return replacer.Replace(body)
}

var titleCaser = cases.Title(language.English)

// documentTitle turns a relative output path into a heading, so
// "billing_api/code_analysis" becomes "# Billing Api Code Analysis".
func documentTitle(relPath string) string {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	joined := strings.ReplaceAll(strings.Join(parts, " "), "_", " ")
	return "# " + titleCaser.String(joined)
}

func convertToMarkdown(docs map[string]TechnicalDoc) string {
	keys := make([]string, 0, len(docs))
	for key := range docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(docs[key].ToMarkdown(key, TemplateStandalone))
	}
	return sb.String()
}

func writeMarkdown(outputDir, relPath, content string) error {
	target := filepath.Join(outputDir, relPath) + ".md"
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0o644)
}

func readMarkdown(outputDir, relPath string) (string, error) {
	content, err := os.ReadFile(filepath.Join(outputDir, relPath) + ".md")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func writeJSON(outputDir, relPath string, docs map[string]TechnicalDoc) error {
	target := filepath.Join(outputDir, relPath) + ".json"
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	payload, err := sonic.Marshal(docs)
	if err != nil {
		return err
	}
	return os.WriteFile(target, payload, 0o644)
}

func readJSON(outputDir, relPath string) (map[string]TechnicalDoc, error) {
	payload, err := os.ReadFile(filepath.Join(outputDir, relPath) + ".json")
	if err != nil {
		return nil, err
	}

	docs := map[string]TechnicalDoc{}
	if err := sonic.Unmarshal(payload, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// writeJSONAsMarkdown persists the doc set twice, as the JSON cache reruns
// load from and as a titled markdown rendering for humans.
func writeJSONAsMarkdown(outputDir, relPath string, docs map[string]TechnicalDoc) (string, error) {
	if err := writeJSON(outputDir, relPath, docs); err != nil {
		return "", err
	}

	md := documentTitle(relPath) + "\n\n" + convertToMarkdown(docs)
	if err := writeMarkdown(outputDir, relPath, md); err != nil {
		return "", err
	}
	return md, nil
}
