package texting

import (
	"strings"
	"unicode"
)

// Crop cuts text to at most maxChars bytes without splitting a rune.
// Embedding models reject oversized inputs, so the tail is dropped.
func Crop(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	cut := maxChars
	for cut > 0 && !utf8Start(text[cut]) {
		cut--
	}

	return text[:cut]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// Flatten collapses newlines to spaces. Search queries are embedded as a
// single line.
func Flatten(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

func Chunks(text string, cs int) []string {
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += cs {
		end := i + cs
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

func SmartTruncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]

	for i := len(truncated) - 1; i >= 0; i-- {
		if unicode.IsSpace(rune(truncated[i])) {
			return truncated[:i]
		}
	}

	return truncated
}
