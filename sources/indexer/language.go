package indexer

type Language string

const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguageKotlin     Language = "kotlin"
)

var languageByExtension = map[string]Language{
	".go":   LanguageGo,
	".py":   LanguagePython,
	".java": LanguageJava,
	".js":   LanguageJavaScript,
	".kt":   LanguageKotlin,
}

// SourceFile is a single file selected for indexing. RelPath is relative to
// the codebase root and always uses forward slashes.
type SourceFile struct {
	Path     string
	RelPath  string
	Language Language
}
