package writer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jiraiya/sources/tracing"
)

var sourceExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".java": true,
	".js":   true,
	".kt":   true,
}

// CodebaseLoader walks a project tree and hands source files to the
// documentation pipeline. Include and exclude lists are relative path
// prefixes, include empty means everything.
type CodebaseLoader struct {
	root    string
	exclude []string
	include []string
}

func NewCodebaseLoader(root string, exclude []string, include []string) *CodebaseLoader {
	return &CodebaseLoader{root: root, exclude: exclude, include: include}
}

func (x *CodebaseLoader) Root() string { return x.root }

// LoadAllFiles returns file contents keyed by slash-separated relative path.
func (x *CodebaseLoader) LoadAllFiles(log *tracing.Logger) (map[string]string, error) {
	paths, err := x.allFiles(log)
	if err != nil {
		return nil, err
	}

	base := x.baseDir()
	tree := map[string]string{}
	for _, relPath := range paths {
		code, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(relPath)))
		if err != nil {
			log.W("Skipping unreadable file", tracing.FilePath, relPath, tracing.InnerError, err)
			continue
		}
		if len(code) == 0 {
			continue
		}
		tree[relPath] = string(code)
	}
	return tree, nil
}

// LoadAllModules groups files by top-level directory and concatenates each
// group into one blob, every file prefixed with a "# File:" header. Files
// sitting directly in the root belong to no module and are left out.
func (x *CodebaseLoader) LoadAllModules(log *tracing.Logger) (map[string]string, error) {
	tree, err := x.LoadAllFiles(log)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]string{}
	for relPath := range tree {
		parts := strings.Split(relPath, "/")
		if len(parts) < 2 {
			continue
		}
		grouped[parts[0]] = append(grouped[parts[0]], relPath)
	}

	modules := map[string]string{}
	for module, paths := range grouped {
		sort.Strings(paths)

		sections := make([]string, 0, len(paths))
		for _, relPath := range paths {
			sections = append(sections, "# File: "+relPath+"\n\n"+tree[relPath])
		}
		modules[module] = strings.Join(sections, "\n\n")
	}
	return modules, nil
}

// baseDir is the directory relative paths resolve against. A loader rooted at
// a single file resolves against that file's directory.
func (x *CodebaseLoader) baseDir() string {
	info, err := os.Stat(x.root)
	if err == nil && !info.IsDir() {
		return filepath.Dir(x.root)
	}
	return x.root
}

func (x *CodebaseLoader) allFiles(log *tracing.Logger) ([]string, error) {
	info, err := os.Stat(x.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if sourceExtensions[filepath.Ext(x.root)] {
			return []string{filepath.Base(x.root)}, nil
		}
		return nil, nil
	}

	var paths []string
	err = filepath.WalkDir(x.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && path != x.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[filepath.Ext(path)] {
			return nil
		}

		relPath, relErr := filepath.Rel(x.root, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if x.included(relPath) && !x.excluded(relPath) {
			paths = append(paths, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func (x *CodebaseLoader) included(relPath string) bool {
	if len(x.include) == 0 {
		return true
	}
	for _, prefix := range x.include {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

func (x *CodebaseLoader) excluded(relPath string) bool {
	for _, prefix := range x.exclude {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}
