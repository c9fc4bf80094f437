package indexer

import (
	"regexp"
	"strings"

	"jiraiya/sources/platform"
	"jiraiya/sources/vectorstore"
)

var (
	javaClassPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|protected|static|final|abstract|sealed|strictfp)\s+)*(?:class|interface|enum|record)\s+([A-Za-z_$][\w$]*)`)
	kotlinClassPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|protected|internal|open|final|abstract|sealed|data|inner|annotation|enum|value)\s+)*(?:class|interface|object)\s+([A-Za-z_]\w*)`)
	kotlinFunPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|protected|internal|open|final|override|suspend|inline|operator|infix|tailrec|external)\s+)*fun\s+(?:<[^>]*>\s+)?(?:[\w.<>?]+\.)?([A-Za-z_]\w*)`)
	jsClassPattern = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	jsFunctionPattern = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`)
)

func bracePatterns(language Language) (*regexp.Regexp, *regexp.Regexp) {
	switch language {
	case LanguageJava:
		// Java has no standalone functions.
		return javaClassPattern, nil
	case LanguageKotlin:
		return kotlinClassPattern, kotlinFunPattern
	case LanguageJavaScript:
		return jsClassPattern, jsFunctionPattern
	}
	return nil, nil
}

// extractBraces scans a brace delimited source. Classes are collected at any
// depth, functions only outside of class bodies.
func extractBraces(file SourceFile, src []byte, repo string, language Language) []vectorstore.CodeData {
	classPattern, funPattern := bracePatterns(language)
	if classPattern == nil {
		return nil
	}

	lines := strings.Split(string(src), "\n")

	var data []vectorstore.CodeData
	var classEnds []int
	st := &cState{}

	for i := 0; i < len(lines); i++ {
		code := cCodeOnly(lines[i], st)

		for len(classEnds) > 0 && i >= classEnds[len(classEnds)-1] {
			classEnds = classEnds[:len(classEnds)-1]
		}

		name := ""
		isClass := false
		if m := classPattern.FindStringSubmatch(code); m != nil {
			name = m[1]
			isClass = true
		} else if funPattern != nil && len(classEnds) == 0 {
			if m := funPattern.FindStringSubmatch(code); m != nil {
				name = m[1]
			}
		}

		if name == "" {
			continue
		}

		end := braceBlockEnd(lines, i)
		annotations := precedingAnnotations(lines, i)
		source := strings.Join(append(annotations, lines[i:end]...), "\n")

		data = append(data, vectorstore.CodeData{
			Type:       platform.DocumentKindCode,
			Repo:       repo,
			FilePath:   file.RelPath,
			Name:       name,
			SourceCode: source,
		})

		if isClass {
			classEnds = append(classEnds, end)
		}
	}

	return data
}

// braceBlockEnd returns the exclusive end line of the declaration at start.
// A declaration without a body (Kotlin expression bodies, bodyless classes)
// ends at the first line that is neither an open signature nor a
// continuation.
func braceBlockEnd(lines []string, start int) int {
	st := &cState{}
	depth := 0
	parens := 0
	opened := false

	for i := start; i < len(lines); i++ {
		code := cCodeOnly(lines[i], st)
		for _, c := range code {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			case '(':
				parens++
			case ')':
				parens--
			}
		}

		if opened && depth <= 0 {
			return i + 1
		}

		if !opened && parens <= 0 {
			trimmed := strings.TrimSpace(code)
			continuation := strings.HasSuffix(trimmed, "=") ||
				strings.HasSuffix(trimmed, ":") ||
				strings.HasSuffix(trimmed, ",")
			if !continuation {
				return i + 1
			}
		}
	}

	return len(lines)
}

type cState struct {
	inBlockComment bool
}

// cCodeOnly removes line comments, block comments and string literals from a
// line of a C like language. Block comment state travels with the caller.
func cCodeOnly(line string, st *cState) string {
	var b strings.Builder

	i := 0
	for i < len(line) {
		if st.inBlockComment {
			if idx := strings.Index(line[i:], "*/"); idx >= 0 {
				i += idx + 2
				st.inBlockComment = false
				continue
			}
			return b.String()
		}

		switch {
		case strings.HasPrefix(line[i:], "//"):
			return b.String()
		case strings.HasPrefix(line[i:], "/*"):
			st.inBlockComment = true
			i += 2
		case line[i] == '"' || line[i] == '\'' || line[i] == '`':
			quote := line[i]
			j := i + 1
			for j < len(line) {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == quote {
					break
				}
				j++
			}
			i = j + 1
		default:
			b.WriteByte(line[i])
			i++
		}
	}

	return b.String()
}
