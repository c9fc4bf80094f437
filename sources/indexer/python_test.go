package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonSample = `import os
from typing import Any


@register
@functools.lru_cache(maxsize=128)
def top_level(path: str) -> Any:
    """Load a file.

    Returns the parsed payload.
    """
    return os.path.exists(path)


class Outer:
    """Outer does things."""

    class Inner:
        '''Nested helper.'''

        def helper(self):
            pass

    def method(self):
        def local():
            pass
        return local


def multi_line(
    first,
    second,
):
    return first + second
`

func TestExtractPython(t *testing.T) {
	file := SourceFile{Path: "pkg/sample.py", RelPath: "pkg/sample.py", Language: LanguagePython}

	data := extractPython(file, []byte(pythonSample), "demo")

	names := make(map[string]int)
	for i, d := range data {
		names[d.Name] = i
	}

	require.Contains(t, names, "top_level")
	require.Contains(t, names, "Outer")
	require.Contains(t, names, "Inner")
	require.Contains(t, names, "multi_line")

	assert.NotContains(t, names, "method", "methods belong to their class")
	assert.NotContains(t, names, "helper")
	assert.NotContains(t, names, "local", "functions nested inside methods stay with the class")

	topLevel := data[names["top_level"]]
	assert.Contains(t, topLevel.SourceCode, "@register")
	assert.Contains(t, topLevel.SourceCode, "@functools.lru_cache(maxsize=128)")
	assert.Contains(t, topLevel.SourceCode, "def top_level")
	assert.Equal(t, "Load a file.\n\nReturns the parsed payload.", topLevel.Docstring)

	outer := data[names["Outer"]]
	assert.Equal(t, "Outer does things.", outer.Docstring)
	assert.Contains(t, outer.SourceCode, "def method")

	inner := data[names["Inner"]]
	assert.Equal(t, "Nested helper.", inner.Docstring)
	assert.Contains(t, inner.SourceCode, "def helper")

	multi := data[names["multi_line"]]
	assert.Contains(t, multi.SourceCode, "second,")
	assert.Contains(t, multi.SourceCode, "return first + second")
}

func TestPythonBlockEnd(t *testing.T) {
	lines := []string{
		"def f():",
		"    a = 1",
		"",
		"    return a",
		"x = 2",
	}

	assert.Equal(t, 4, pythonBlockEnd(lines, 0, 0))
}

func TestIndentWidth(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected int
	}{
		{name: "Spaces", line: "    x", expected: 4},
		{name: "Tab", line: "\tx", expected: 8},
		{name: "No indent", line: "x", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, indentWidth(tt.line))
		})
	}
}

func TestDeclName(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{name: "Class", line: "class Foo(Base):", expected: "Foo"},
		{name: "Def", line: "def handler(event):", expected: "handler"},
		{name: "Async def", line: "async def poll():", expected: "poll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, declName(tt.line))
		})
	}
}
