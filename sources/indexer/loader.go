package indexer

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"jiraiya/sources/tracing"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

var builtinBlacklist = []string{".venv", "venv", ".git", "node_modules", "vendor"}

// Loader walks a codebase and selects the source files worth indexing.
type Loader struct {
	root      string
	repo      string
	blacklist []string
	matcher   gitignore.Matcher
}

func NewLoader(codebasePath string, blacklist []string) *Loader {
	merged := make([]string, 0, len(blacklist)+len(builtinBlacklist))
	merged = append(merged, blacklist...)
	merged = append(merged, builtinBlacklist...)

	return &Loader{
		root:      codebasePath,
		repo:      filepath.Base(filepath.Clean(codebasePath)),
		blacklist: merged,
		matcher:   loadGitignore(codebasePath),
	}
}

func (x *Loader) Repo() string {
	return x.repo
}

func (x *Loader) Root() string {
	return x.root
}

func (x *Loader) LoadFiles(log *tracing.Logger) ([]SourceFile, error) {
	var files []SourceFile

	err := filepath.WalkDir(x.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(x.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if entry.IsDir() {
			if x.blacklisted(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !x.shouldInclude(rel, ext) {
			return nil
		}

		language, ok := languageByExtension[ext]
		if !ok {
			log.D("Unsupported file extension, skipping", tracing.FilePath, rel)
			return nil
		}

		files = append(files, SourceFile{Path: path, RelPath: rel, Language: language})
		return nil
	})
	if err != nil {
		log.E("Failed to walk codebase", tracing.Repo, x.repo, tracing.InnerError, err.Error())
		return nil, err
	}

	log.I("Source files loaded", tracing.Repo, x.repo, "files", len(files))
	return files, nil
}

// The blacklist wins over the extension whitelist, the whitelist wins over
// the gitignore.
func (x *Loader) shouldInclude(rel string, ext string) bool {
	if x.blacklisted(rel) {
		return false
	}

	if _, ok := languageByExtension[ext]; ok {
		return true
	}

	if x.matcher != nil && x.matcher.Match(strings.Split(rel, "/"), false) {
		return false
	}

	return true
}

func (x *Loader) blacklisted(rel string) bool {
	for _, pattern := range x.blacklist {
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
	}
	return false
}

func loadGitignore(root string) gitignore.Matcher {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	var patterns []gitignore.Pattern

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}
