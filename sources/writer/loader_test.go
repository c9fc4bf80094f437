package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jiraiya/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codebaseFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"main.py":            "print('hi')\n",
		"api/models.py":      "class Payment:\n    pass\n",
		"api/views.py":       "def pay():\n    pass\n",
		"jobs/worker.py":     "def run():\n    pass\n",
		"vendor/lib.py":      "VENDORED = True\n",
		"docs/readme.md":     "# readme\n",
		"api/empty.py":       "",
		".git/hooks/post.py": "ignored\n",
	}
	for relPath, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoadAllFiles(t *testing.T) {
	root := codebaseFixture(t)
	loader := NewCodebaseLoader(root, []string{"vendor"}, nil)

	tree, err := loader.LoadAllFiles(tracing.NewConsoleLogger())
	require.NoError(t, err)

	assert.Contains(t, tree, "main.py")
	assert.Contains(t, tree, "api/models.py")
	assert.Contains(t, tree, "jobs/worker.py")

	assert.NotContains(t, tree, "vendor/lib.py", "excluded prefix is dropped")
	assert.NotContains(t, tree, "docs/readme.md", "non source files are dropped")
	assert.NotContains(t, tree, "api/empty.py", "empty files are dropped")
	assert.NotContains(t, tree, ".git/hooks/post.py", "dot directories are skipped")
}

func TestLoadAllFilesInclude(t *testing.T) {
	root := codebaseFixture(t)
	loader := NewCodebaseLoader(root, nil, []string{"api"})

	tree, err := loader.LoadAllFiles(tracing.NewConsoleLogger())
	require.NoError(t, err)

	assert.Contains(t, tree, "api/models.py")
	assert.Contains(t, tree, "api/views.py")
	assert.NotContains(t, tree, "main.py")
	assert.NotContains(t, tree, "jobs/worker.py")
}

func TestLoadAllModules(t *testing.T) {
	root := codebaseFixture(t)
	loader := NewCodebaseLoader(root, []string{"vendor"}, nil)

	modules, err := loader.LoadAllModules(tracing.NewConsoleLogger())
	require.NoError(t, err)

	require.Contains(t, modules, "api")
	require.Contains(t, modules, "jobs")
	assert.NotContains(t, modules, "main.py", "root level files belong to no module")
	assert.NotContains(t, modules, "vendor")

	api := modules["api"]
	assert.Contains(t, api, "# File: api/models.py\n\nclass Payment:")
	assert.Contains(t, api, "# File: api/views.py\n\ndef pay():")
	assert.Less(t, strings.Index(api, "api/models.py"), strings.Index(api, "api/views.py"),
		"module blobs keep path order")
}

func TestLoaderSingleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "script.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	loader := NewCodebaseLoader(path, nil, nil)
	tree, err := loader.LoadAllFiles(tracing.NewConsoleLogger())
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "x = 1\n", tree["script.py"])
}
