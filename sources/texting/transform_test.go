package texting

import (
	"testing"
)

func TestCrop(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		expected string
	}{
		{
			name:     "Short text untouched",
			input:    "hello",
			maxChars: 10,
			expected: "hello",
		},
		{
			name:     "Exact length untouched",
			input:    "hello",
			maxChars: 5,
			expected: "hello",
		},
		{
			name:     "Long text cropped",
			input:    "hello world",
			maxChars: 5,
			expected: "hello",
		},
		{
			name:     "Multibyte rune not split",
			input:    "héllo",
			maxChars: 2,
			expected: "h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Crop(tt.input, tt.maxChars)
			if result != tt.expected {
				t.Errorf("Crop() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	result := Flatten("what\nare\nthe routes")
	if result != "what are the routes" {
		t.Errorf("Flatten() = %q", result)
	}
}

func TestChunks(t *testing.T) {
	chunks := Chunks("abcdefg", 3)
	if len(chunks) != 3 || chunks[0] != "abc" || chunks[2] != "g" {
		t.Errorf("Chunks() = %v", chunks)
	}
}

func TestSmartTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "Short text untouched",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "Cuts at word boundary",
			input:    "hello world again",
			maxLen:   13,
			expected: "hello world",
		},
		{
			name:     "No boundary hard cut",
			input:    "abcdefghij",
			maxLen:   4,
			expected: "abcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SmartTruncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("SmartTruncate() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
