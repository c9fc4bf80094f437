package indexer

import (
	"regexp"
	"strings"

	"jiraiya/sources/vectorstore"
)

var (
	callPattern       = regexp.MustCompile(`([A-Za-z_][\w.]*)\s*\(`)
	dottedPattern     = regexp.MustCompile(`\b[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)+`)
	identifierPattern = regexp.MustCompile(`[A-Za-z_]\w*`)
	decoratorPattern  = regexp.MustCompile(`^(\s*)@([A-Za-z_][\w.]*)`)
	rhsHeadPattern    = regexp.MustCompile(`^[&*]*([A-Za-z_][\w.]*)`)
)

// assignmentIndex returns the position of the first assignment operator at
// bracket depth zero, or -1. Comparison operators do not count, augmented
// assignments and := do.
func assignmentIndex(code string) int {
	depth := 0
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			var prev, next byte
			if i > 0 {
				prev = code[i-1]
			}
			if i+1 < len(code) {
				next = code[i+1]
			}
			if next == '=' || prev == '=' || prev == '<' || prev == '>' || prev == '!' {
				continue
			}
			return i
		}
	}
	return -1
}

// spanBalanced returns the call expression from start through its closing
// parenthesis, or to the end of the line when the call spans lines.
func spanBalanced(code string, start int) string {
	depth := 0
	for i := start; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(code[start : i+1])
			}
		}
	}
	return strings.TrimSpace(code[start:])
}

func appendCallHits(hits []refHit, code string, lineNo int, declared string, fullIdentifier bool) []refHit {
	for _, m := range callPattern.FindAllStringSubmatchIndex(code, -1) {
		full := code[m[2]:m[3]]
		if declared != "" && full == declared {
			continue
		}
		identifier := full
		if !fullIdentifier {
			identifier = strings.SplitN(full, ".", 2)[0]
		}
		hits = append(hits, refHit{
			line:       lineNo,
			column:     m[2] + 1,
			identifier: identifier,
			refType:    vectorstore.ReferenceCall,
			text:       spanBalanced(code, m[2]),
		})
	}
	return hits
}

func appendDottedHits(hits []refHit, code string, lineNo int, fullIdentifier bool) []refHit {
	for _, m := range dottedPattern.FindAllStringIndex(code, -1) {
		expr := code[m[0]:m[1]]
		identifier := expr
		if !fullIdentifier {
			identifier = strings.SplitN(expr, ".", 2)[0]
		}
		hits = append(hits, refHit{
			line:       lineNo,
			column:     m[0] + 1,
			identifier: identifier,
			refType:    vectorstore.ReferenceAttributeAccess,
			text:       expr,
		})
	}
	return hits
}

func appendAssignmentHit(hits []refHit, code string, lineNo int, fullIdentifier bool) []refHit {
	idx := assignmentIndex(code)
	if idx < 0 {
		return hits
	}

	rhs := strings.TrimSpace(code[idx+1:])
	m := rhsHeadPattern.FindStringSubmatch(rhs)
	if m == nil {
		return hits
	}

	identifier := m[1]
	if !fullIdentifier {
		identifier = strings.SplitN(identifier, ".", 2)[0]
	}
	return append(hits, refHit{
		line:       lineNo,
		column:     idx + 2,
		identifier: identifier,
		refType:    vectorstore.ReferenceAssignment,
		text:       rhs,
	})
}

type pythonRefDetector struct{}

var (
	pythonImportPattern     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pythonFromImportPattern = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+(.+)$`)
	pythonClassHeadPattern  = regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?`)
	pythonDefHeadPattern    = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)`)
	pythonAnnotatedAssign   = regexp.MustCompile(`^\s*[A-Za-z_]\w*\s*:`)
	pythonAnnotationPattern = regexp.MustCompile(`(?::|->)\s*([A-Za-z_][\w.\[\], ]*)`)
)

func (x *pythonRefDetector) imports(lines []string) map[string]string {
	imports := make(map[string]string)

	for _, line := range lines {
		if m := pythonFromImportPattern.FindStringSubmatch(line); m != nil {
			from := m[1]
			for _, item := range strings.Split(m[2], ",") {
				item = strings.Trim(strings.TrimSpace(item), "()\\")
				if item == "" {
					continue
				}
				if name, alias, ok := strings.Cut(item, " as "); ok {
					imports[strings.TrimSpace(alias)] = from + "." + strings.TrimSpace(name)
				} else {
					imports[item] = from + "." + item
				}
			}
			continue
		}

		if m := pythonImportPattern.FindStringSubmatch(line); m != nil && strings.Contains(m[1], ".") {
			parts := strings.Split(m[1], ".")
			imports[parts[len(parts)-1]] = m[1]
		}
	}

	return imports
}

func (x *pythonRefDetector) hits(lines []string) []refHit {
	var hits []refHit
	inTriple := ""

	for n, line := range lines {
		wasInTriple := inTriple != ""
		code := pyCodeOnly(line, &inTriple)
		if wasInTriple {
			continue
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" || strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			continue
		}
		lineNo := n + 1

		if m := decoratorPattern.FindStringSubmatch(code); m != nil {
			hits = append(hits, refHit{
				line:       lineNo,
				column:     len(m[1]) + 1,
				identifier: strings.SplitN(m[2], ".", 2)[0],
				refType:    vectorstore.ReferenceDecorator,
				text:       trimmed,
			})
		}

		declared := ""
		annotated := false
		if m := pythonClassHeadPattern.FindStringSubmatchIndex(code); m != nil {
			declared = code[m[2]:m[3]]
			if m[4] >= 0 {
				for _, parent := range strings.Split(code[m[4]:m[5]], ",") {
					parent = strings.TrimSpace(parent)
					if parent == "" {
						continue
					}
					hits = append(hits, refHit{
						line:       lineNo,
						column:     m[4] + 1,
						identifier: parent,
						refType:    vectorstore.ReferenceInheritance,
						text:       trimmed,
					})
				}
			}
		} else if m := pythonDefHeadPattern.FindStringSubmatch(code); m != nil {
			declared = m[1]
			annotated = true
		} else if pythonAnnotatedAssign.MatchString(code) {
			annotated = true
		}

		if annotated {
			for _, m := range pythonAnnotationPattern.FindAllStringSubmatchIndex(code, -1) {
				annotation := code[m[2]:m[3]]
				for _, ident := range identifierPattern.FindAllString(annotation, -1) {
					hits = append(hits, refHit{
						line:       lineNo,
						column:     m[2] + 1,
						identifier: ident,
						refType:    vectorstore.ReferenceTypeAnnotation,
						text:       strings.TrimSpace(annotation),
					})
				}
			}
		}

		hits = appendCallHits(hits, code, lineNo, declared, false)
		hits = appendDottedHits(hits, code, lineNo, false)
		if declared == "" {
			hits = appendAssignmentHit(hits, code, lineNo, false)
		}
	}

	return hits
}

type kotlinRefDetector struct{}

var (
	kotlinImportPattern    = regexp.MustCompile(`^\s*import\s+([\w.]+)(?:\s+as\s+(\w+))?`)
	kotlinClassHeadPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|protected|internal|open|final|abstract|sealed|data|inner|annotation|enum|value)\s+)*(?:class|interface|object)\s+([A-Za-z_]\w*)`)
	kotlinSupertypePattern = regexp.MustCompile(`\)?\s*:\s*(.+)$`)
	kotlinValVarPattern    = regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal|open|final|override|const|lateinit)\s+)*(?:val|var)\s+`)
	kotlinTypePattern      = regexp.MustCompile(`:\s*([A-Za-z_][\w.<>?]*)`)
	leadIdentifierPattern  = regexp.MustCompile(`^[A-Za-z_][\w.]*`)
)

func (x *kotlinRefDetector) imports(lines []string) map[string]string {
	imports := make(map[string]string)

	for _, line := range lines {
		m := kotlinImportPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		qualified := strings.TrimSuffix(m[1], ".")
		if m[2] != "" {
			imports[m[2]] = qualified
			continue
		}
		if strings.HasSuffix(m[1], ".") {
			// Wildcard imports resolve nothing by themselves.
			continue
		}

		parts := strings.Split(qualified, ".")
		imports[parts[len(parts)-1]] = qualified
	}

	return imports
}

func (x *kotlinRefDetector) hits(lines []string) []refHit {
	var hits []refHit
	st := &cState{}

	for n, line := range lines {
		code := cCodeOnly(line, st)
		trimmed := strings.TrimSpace(code)
		if trimmed == "" || strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "package ") {
			continue
		}
		lineNo := n + 1

		if m := decoratorPattern.FindStringSubmatch(code); m != nil {
			hits = append(hits, refHit{
				line:       lineNo,
				column:     len(m[1]) + 1,
				identifier: strings.SplitN(m[2], ".", 2)[0],
				refType:    vectorstore.ReferenceDecorator,
				text:       trimmed,
			})
		}

		declared := ""
		typed := false
		isClass := false
		if m := kotlinClassHeadPattern.FindStringSubmatch(code); m != nil {
			declared = m[1]
			isClass = true
			typed = true
			if sup := kotlinSupertypePattern.FindStringSubmatch(code); sup != nil {
				for _, parent := range strings.Split(sup[1], ",") {
					parent = strings.TrimSpace(parent)
					ident := leadIdentifierPattern.FindString(parent)
					if ident == "" {
						continue
					}
					hits = append(hits, refHit{
						line:       lineNo,
						column:     strings.Index(code, parent) + 1,
						identifier: ident,
						refType:    vectorstore.ReferenceInheritance,
						text:       trimmed,
					})
				}
			}
		} else if m := kotlinFunPattern.FindStringSubmatch(code); m != nil {
			declared = m[1]
			typed = true
		} else if kotlinValVarPattern.MatchString(code) {
			typed = true
		}

		if typed {
			for _, m := range kotlinTypePattern.FindAllStringSubmatchIndex(code, -1) {
				annotation := code[m[2]:m[3]]
				for _, ident := range identifierPattern.FindAllString(annotation, -1) {
					hits = append(hits, refHit{
						line:       lineNo,
						column:     m[2] + 1,
						identifier: ident,
						refType:    vectorstore.ReferenceTypeAnnotation,
						text:       strings.TrimSpace(annotation),
					})
				}
			}
		}

		hits = appendCallHits(hits, code, lineNo, declared, false)
		hits = appendDottedHits(hits, code, lineNo, false)
		if declared == "" || isClass {
			hits = appendAssignmentHit(hits, code, lineNo, false)
		}
	}

	return hits
}

type goRefDetector struct{}

var (
	goImportLinePattern = regexp.MustCompile(`^\s*(?:import\s+)?(?:([\w.]+)\s+)?"([^"]+)"`)
	goFuncHeadPattern   = regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`)
	goVarDeclPattern    = regexp.MustCompile(`^\s*var\s+[A-Za-z_]\w*\s+[\[\]*]*([A-Za-z_][\w.]*)`)
	goCompositePattern  = regexp.MustCompile(`\b([A-Za-z_][\w.]*)\s*\{`)
)

func (x *goRefDetector) imports(lines []string) map[string]string {
	imports := make(map[string]string)
	inBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock && trimmed == ")" {
			inBlock = false
			continue
		}
		if !inBlock && !strings.HasPrefix(trimmed, "import ") {
			continue
		}

		m := goImportLinePattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		alias, importPath := m[1], m[2]
		if alias == "_" || alias == "." {
			continue
		}

		name := alias
		if name == "" {
			segments := strings.Split(importPath, "/")
			name = segments[len(segments)-1]
		}
		imports[name] = strings.ReplaceAll(importPath, "/", ".")
	}

	return imports
}

func (x *goRefDetector) hits(lines []string) []refHit {
	var hits []refHit
	st := &cState{}
	inBlock := false

	for n, line := range lines {
		code := cCodeOnly(line, st)
		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock {
			if trimmed == ")" {
				inBlock = false
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "package ") {
			continue
		}
		lineNo := n + 1

		declared := ""
		if m := goFuncHeadPattern.FindStringSubmatch(code); m != nil {
			declared = m[1]
		}

		if m := goVarDeclPattern.FindStringSubmatchIndex(code); m != nil {
			hits = append(hits, refHit{
				line:       lineNo,
				column:     m[2] + 1,
				identifier: code[m[2]:m[3]],
				refType:    vectorstore.ReferenceTypeAnnotation,
				text:       trimmed,
			})
		}

		// Composite literals count as instantiation when the type segment is
		// exported style.
		for _, m := range goCompositePattern.FindAllStringSubmatchIndex(code, -1) {
			expr := code[m[2]:m[3]]
			segments := strings.Split(expr, ".")
			last := segments[len(segments)-1]
			if last == "" || last[0] < 'A' || last[0] > 'Z' {
				continue
			}
			hits = append(hits, refHit{
				line:       lineNo,
				column:     m[2] + 1,
				identifier: expr,
				refType:    vectorstore.ReferenceCall,
				text:       expr,
			})
		}

		hits = appendCallHits(hits, code, lineNo, declared, true)
		hits = appendDottedHits(hits, code, lineNo, true)
		if declared == "" {
			hits = appendAssignmentHit(hits, code, lineNo, true)
		}
	}

	return hits
}
