package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"
)

func refsOf(t *testing.T, data []vectorstore.CodeData, name string) []vectorstore.ReferenceData {
	t.Helper()
	for _, d := range data {
		if d.Name == name {
			return d.References
		}
	}
	t.Fatalf("object %q not found", name)
	return nil
}

func hasRef(refs []vectorstore.ReferenceData, refType vectorstore.ReferenceType, file string, line int) bool {
	for _, ref := range refs {
		if ref.Type == refType && ref.File == file && ref.Line == line {
			return true
		}
	}
	return false
}

func TestResolveReferencesPython(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "class Foo:\n" +
			"    pass\n" +
			"\n" +
			"\n" +
			"def helper():\n" +
			"    return 1\n",
		"b.py": "from a import Foo\n" +
			"import a.helper\n" +
			"\n" +
			"\n" +
			"class Bar(Foo):\n" +
			"    pass\n" +
			"\n" +
			"\n" +
			"def run(value: Foo):\n" +
			"    obj = Foo()\n" +
			"    obj2 = helper()\n" +
			"    pair = (Foo(), Foo())\n" +
			"    return Foo.create(value)\n",
	})

	files := []SourceFile{
		{Path: filepath.Join(root, "a.py"), RelPath: "a.py", Language: LanguagePython},
		{Path: filepath.Join(root, "b.py"), RelPath: "b.py", Language: LanguagePython},
	}

	var data []vectorstore.CodeData
	for _, file := range files {
		src, err := os.ReadFile(file.Path)
		require.NoError(t, err)
		data = append(data, extractPython(file, src, "demo")...)
	}

	data = resolveReferences(tracing.NewConsoleLogger(), files, data)

	foo := refsOf(t, data, "Foo")
	assert.True(t, hasRef(foo, vectorstore.ReferenceInheritance, "b.py", 5))
	assert.True(t, hasRef(foo, vectorstore.ReferenceTypeAnnotation, "b.py", 9))
	assert.True(t, hasRef(foo, vectorstore.ReferenceCall, "b.py", 10))
	assert.True(t, hasRef(foo, vectorstore.ReferenceAssignment, "b.py", 10))
	assert.True(t, hasRef(foo, vectorstore.ReferenceAttributeAccess, "b.py", 13))
	assert.True(t, hasRef(foo, vectorstore.ReferenceCall, "b.py", 13))

	// Two calls on one line collapse into a single reference.
	calls := 0
	for _, ref := range foo {
		if ref.Type == vectorstore.ReferenceCall && ref.Line == 12 {
			calls++
		}
	}
	assert.Equal(t, 1, calls)

	helper := refsOf(t, data, "helper")
	assert.True(t, hasRef(helper, vectorstore.ReferenceCall, "b.py", 11))
	assert.True(t, hasRef(helper, vectorstore.ReferenceAssignment, "b.py", 11))
}

func TestResolveReferencesGo(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/store.go": "package pkg\n" +
			"\n" +
			"type Store struct{}\n" +
			"\n" +
			"func NewStore() *Store {\n" +
			"\treturn &Store{}\n" +
			"}\n",
		"main.go": "package main\n" +
			"\n" +
			"import \"demo/pkg\"\n" +
			"\n" +
			"func main() {\n" +
			"\ts := pkg.NewStore()\n" +
			"\tst := pkg.Store{}\n" +
			"\t_, _ = s, st\n" +
			"}\n",
	})

	files := []SourceFile{
		{Path: filepath.Join(root, "pkg/store.go"), RelPath: "pkg/store.go", Language: LanguageGo},
		{Path: filepath.Join(root, "main.go"), RelPath: "main.go", Language: LanguageGo},
	}

	var data []vectorstore.CodeData
	for _, file := range files {
		src, err := os.ReadFile(file.Path)
		require.NoError(t, err)
		extracted, extractErr := extractGo(file, src, "demo")
		require.NoError(t, extractErr)
		data = append(data, extracted...)
	}

	data = resolveReferences(tracing.NewConsoleLogger(), files, data)

	newStore := refsOf(t, data, "NewStore")
	assert.True(t, hasRef(newStore, vectorstore.ReferenceCall, "main.go", 6))
	assert.True(t, hasRef(newStore, vectorstore.ReferenceAssignment, "main.go", 6))

	store := refsOf(t, data, "Store")
	assert.True(t, hasRef(store, vectorstore.ReferenceCall, "main.go", 7), "composite literal counts as instantiation")
}

func TestResolveTarget(t *testing.T) {
	target := &vectorstore.CodeData{Name: "Foo"}
	byQualified := map[string]*vectorstore.CodeData{"api.models.Foo": target}

	tests := []struct {
		name       string
		identifier string
		imports    map[string]string
		expected   *vectorstore.CodeData
	}{
		{
			name:       "Exact qualified name",
			identifier: "api.models.Foo",
			imports:    map[string]string{},
			expected:   target,
		},
		{
			name:       "Through imports",
			identifier: "Foo",
			imports:    map[string]string{"Foo": "api.models.Foo"},
			expected:   target,
		},
		{
			name:       "Dotted prefix expansion",
			identifier: "models.Foo",
			imports:    map[string]string{"models": "api.models"},
			expected:   target,
		},
		{
			name:       "Unknown identifier",
			identifier: "Bar",
			imports:    map[string]string{},
			expected:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveTarget(tt.identifier, byQualified, tt.imports))
		})
	}
}

func TestPythonImports(t *testing.T) {
	detector := &pythonRefDetector{}

	imports := detector.imports([]string{
		"import os",
		"import api.models.Payment",
		"from api.models import Invoice, Receipt",
		"from api.auth import Token as AuthToken",
	})

	assert.NotContains(t, imports, "os", "single segment imports resolve nothing")
	assert.Equal(t, "api.models.Payment", imports["Payment"])
	assert.Equal(t, "api.models.Invoice", imports["Invoice"])
	assert.Equal(t, "api.models.Receipt", imports["Receipt"])
	assert.Equal(t, "api.auth.Token", imports["AuthToken"])
}

func TestKotlinImports(t *testing.T) {
	detector := &kotlinRefDetector{}

	imports := detector.imports([]string{
		"import com.acme.core.Entity",
		"import com.acme.core.Helper as CoreHelper",
		"import com.acme.util.*",
	})

	assert.Equal(t, "com.acme.core.Entity", imports["Entity"])
	assert.Equal(t, "com.acme.core.Helper", imports["CoreHelper"])
	assert.Len(t, imports, 2)
}
