package indexer

import (
	"strings"
	"unicode"

	"jiraiya/sources/platform"
	"jiraiya/sources/vectorstore"
)

// extractPython scans a module by indentation. Every class is collected
// regardless of nesting, a def only when no enclosing scope is a class.
func extractPython(file SourceFile, src []byte, repo string) []vectorstore.CodeData {
	lines := strings.Split(string(src), "\n")

	type scope struct {
		indent  int
		isClass bool
	}

	var data []vectorstore.CodeData
	var scopes []scope

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := indentWidth(lines[i])
		for len(scopes) > 0 && scopes[len(scopes)-1].indent >= indent {
			scopes = scopes[:len(scopes)-1]
		}

		isClass := strings.HasPrefix(trimmed, "class ")
		isDef := strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "async def ")
		if !isClass && !isDef {
			continue
		}

		name := declName(trimmed)
		if name == "" {
			continue
		}

		insideClass := false
		for _, s := range scopes {
			if s.isClass {
				insideClass = true
				break
			}
		}

		if isClass || !insideClass {
			end := pythonBlockEnd(lines, i, indent)
			for end > i+1 && strings.TrimSpace(lines[end-1]) == "" {
				end--
			}
			decorators := precedingAnnotations(lines, i)
			source := strings.Join(append(decorators, lines[i:end]...), "\n")

			data = append(data, vectorstore.CodeData{
				Type:       platform.DocumentKindCode,
				Repo:       repo,
				FilePath:   file.RelPath,
				Name:       name,
				SourceCode: source,
				Docstring:  pythonDocstring(lines, i, end),
			})
		}

		scopes = append(scopes, scope{indent: indent, isClass: isClass})
	}

	return data
}

// Tabs advance to the next multiple of eight, same as the CPython tokenizer.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		default:
			return width
		}
	}
	return width
}

func declName(trimmed string) string {
	rest := strings.TrimPrefix(trimmed, "async ")
	rest = strings.TrimPrefix(rest, "class ")
	rest = strings.TrimPrefix(rest, "def ")
	rest = strings.TrimSpace(rest)

	for i, r := range rest {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return rest[:i]
		}
	}
	return rest
}

// pythonBlockEnd returns the exclusive end line of the block opened at start.
// Bracket depth keeps multi line headers and expressions inside the block
// even when their indentation drops below the header.
func pythonBlockEnd(lines []string, start int, indent int) int {
	depth := 0
	inTriple := ""

	end := start
	for end < len(lines) {
		wasInTriple := inTriple != ""
		code := pyCodeOnly(lines[end], &inTriple)

		if end > start && depth <= 0 && !wasInTriple {
			trimmed := strings.TrimSpace(lines[end])
			if trimmed != "" && indentWidth(lines[end]) <= indent {
				break
			}
		}

		depth += bracketDelta(code)
		end++
	}

	return end
}

func bracketDelta(code string) int {
	delta := 0
	for _, c := range code {
		switch c {
		case '(', '[', '{':
			delta++
		case ')', ']', '}':
			delta--
		}
	}
	return delta
}

// pyCodeOnly removes string literals and comments so that bracket counting
// and docstring detection only see code. Triple quoted strings span lines,
// the state travels with the caller.
func pyCodeOnly(line string, inTriple *string) string {
	var b strings.Builder

	i := 0
	for i < len(line) {
		if *inTriple != "" {
			if strings.HasPrefix(line[i:], *inTriple) {
				i += len(*inTriple)
				*inTriple = ""
				continue
			}
			i++
			continue
		}

		c := line[i]
		if c == '#' {
			break
		}

		if c == '\'' || c == '"' {
			triple := strings.Repeat(string(c), 3)
			if strings.HasPrefix(line[i:], triple) {
				if idx := strings.Index(line[i+3:], triple); idx >= 0 {
					i += 3 + idx + 3
					continue
				}
				*inTriple = triple
				i += 3
				continue
			}

			j := i + 1
			for j < len(line) {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == c {
					break
				}
				j++
			}
			i = j + 1
			continue
		}

		b.WriteByte(c)
		i++
	}

	return b.String()
}

func precedingAnnotations(lines []string, start int) []string {
	var annotations []string

	for i := start - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "@") {
			annotations = append([]string{lines[i]}, annotations...)
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		break
	}

	return annotations
}

// pythonDocstring returns the first string expression in the block body,
// with the quotes stripped.
func pythonDocstring(lines []string, start int, end int) string {
	depth := 0
	inTriple := ""

	i := start
	headerDone := false
	for ; i < end; i++ {
		code := pyCodeOnly(lines[i], &inTriple)
		depth += bracketDelta(code)
		if depth <= 0 && strings.HasSuffix(strings.TrimSpace(code), ":") {
			headerDone = true
			i++
			break
		}
	}
	if !headerDone {
		return ""
	}

	for ; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}

		rest := strings.TrimLeft(trimmed, "rRbBuUfF")
		var quote string
		switch {
		case strings.HasPrefix(rest, `"""`):
			quote = `"""`
		case strings.HasPrefix(rest, "'''"):
			quote = "'''"
		default:
			return ""
		}

		body := rest[len(quote):]
		if idx := strings.Index(body, quote); idx >= 0 {
			return strings.TrimSpace(body[:idx])
		}

		var parts []string
		if body != "" {
			parts = append(parts, body)
		}
		for j := i + 1; j < end; j++ {
			if idx := strings.Index(lines[j], quote); idx >= 0 {
				parts = append(parts, strings.TrimSpace(lines[j][:idx]))
				return strings.TrimSpace(strings.Join(parts, "\n"))
			}
			parts = append(parts, strings.TrimSpace(lines[j]))
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	}

	return ""
}
