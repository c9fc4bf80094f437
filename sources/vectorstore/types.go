package vectorstore

import (
	"path/filepath"
	"strings"

	"jiraiya/sources/platform"
)

type ReferenceType string

const (
	ReferenceImport          ReferenceType = "IMPORT"
	ReferenceFromImport      ReferenceType = "FROM_IMPORT"
	ReferenceInheritance     ReferenceType = "INHERITANCE"
	ReferenceTypeAnnotation  ReferenceType = "TYPE_ANNOTATION"
	ReferenceCall            ReferenceType = "CALL"
	ReferenceAttributeAccess ReferenceType = "ATTRIBUTE_ACCESS"
	ReferenceDecorator       ReferenceType = "DECORATOR"
	ReferenceAssignment      ReferenceType = "ASSIGNMENT"
)

// ReferenceData is one resolved usage of a symbol inside a source file.
// Line and column are 1-based.
type ReferenceData struct {
	Type   ReferenceType `json:"type"`
	File   string        `json:"file"`
	Line   int           `json:"line"`
	Column int           `json:"column"`
	Text   string        `json:"text"`
}

// CodeData is an extracted code object (a type or a function) ready for
// indexing.
type CodeData struct {
	Type       string          `json:"type"`
	Repo       string          `json:"repo"`
	FilePath   string          `json:"file_path"`
	Name       string          `json:"name"`
	SourceCode string          `json:"source_code"`
	Docstring  string          `json:"docstring"`
	ParentName string          `json:"parent_name"`
	References []ReferenceData `json:"references"`
}

// Module derives a dotted module path from the file path, with the repo name
// and the object name stripped out.
func (x CodeData) Module() string {
	path := strings.TrimSuffix(x.FilePath, filepath.Ext(x.FilePath))

	module := strings.ReplaceAll(path, "/", ".")
	module = strings.ReplaceAll(module, x.Repo, "")
	module = strings.ReplaceAll(module, x.Name, "")

	return module
}

// TextData is a free-form document (generated documentation, readme, script)
// ready for indexing.
type TextData struct {
	Type     string `json:"type"`
	Repo     string `json:"repo"`
	FilePath string `json:"file_path"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

func NewTextData(repo string, filePath string, name string, text string) TextData {
	return TextData{
		Type:     platform.DocumentKindText,
		Repo:     repo,
		FilePath: filePath,
		Name:     name,
		Text:     text,
	}
}

type SearchResult struct {
	FilePath string  `json:"file_path"`
	Repo     string  `json:"repo"`
	Name     string  `json:"name"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}
