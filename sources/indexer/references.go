package indexer

import (
	"os"
	"path"
	"strings"

	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"
)

type refHit struct {
	line       int
	column     int
	identifier string
	refType    vectorstore.ReferenceType
	text       string
}

type refDetector interface {
	imports(lines []string) map[string]string
	hits(lines []string) []refHit
}

func detectorFor(language Language) refDetector {
	switch language {
	case LanguagePython:
		return &pythonRefDetector{}
	case LanguageKotlin:
		return &kotlinRefDetector{}
	case LanguageGo:
		return &goRefDetector{}
	}
	return nil
}

func qualifiedName(data *vectorstore.CodeData) string {
	return strings.TrimLeft(data.Module()+"."+data.Name, ".")
}

// resolveReferences scans every supported source file for usages of the
// extracted objects and appends the resolved references in place.
func resolveReferences(log *tracing.Logger, files []SourceFile, data []vectorstore.CodeData) []vectorstore.CodeData {
	defer tracing.ProfilePoint(log, "References resolved", "resolve_references", "objects", len(data))()

	byQualified := make(map[string]*vectorstore.CodeData, len(data))
	localsByFile := make(map[string][]*vectorstore.CodeData)

	for i := range data {
		byQualified[qualifiedName(&data[i])] = &data[i]
		localsByFile[data[i].FilePath] = append(localsByFile[data[i].FilePath], &data[i])

		// Go import paths stop at the package directory, so objects are
		// reachable under a package level alias as well.
		if strings.HasSuffix(data[i].FilePath, ".go") {
			dir := strings.ReplaceAll(path.Dir(data[i].FilePath), "/", ".")
			alias := strings.TrimLeft(dir+"."+data[i].Name, ".")
			if _, taken := byQualified[alias]; !taken {
				byQualified[alias] = &data[i]
			}
		}
	}

	unsupported := make(map[Language]bool)

	for _, file := range files {
		detector := detectorFor(file.Language)
		if detector == nil {
			if !unsupported[file.Language] {
				log.W("Reference resolution is not supported for language, skipping", "language", string(file.Language))
				unsupported[file.Language] = true
			}
			continue
		}

		src, err := os.ReadFile(file.Path)
		if err != nil {
			log.E("Failed to read source file", tracing.FilePath, file.RelPath, tracing.InnerError, err.Error())
			continue
		}
		lines := strings.Split(string(src), "\n")

		imports := detector.imports(lines)
		// Locally defined symbols resolve like imports of themselves.
		for _, local := range localsByFile[file.RelPath] {
			imports[local.Name] = qualifiedName(local)
		}

		for _, hit := range detector.hits(lines) {
			target := resolveTarget(hit.identifier, byQualified, imports)
			if target == nil {
				continue
			}
			appendReference(target, vectorstore.ReferenceData{
				Type:   hit.refType,
				File:   file.RelPath,
				Line:   hit.line,
				Column: hit.column,
				Text:   hit.text,
			})
		}
	}

	for i := range data {
		kinds := make(map[vectorstore.ReferenceType]struct{})
		for _, ref := range data[i].References {
			kinds[ref.Type] = struct{}{}
		}
		log.I("References resolved for object",
			tracing.ObjectName, data[i].Name, "count", len(data[i].References), "kinds", len(kinds))
	}

	return data
}

// resolveTarget tries the identifier as a qualified name, then through the
// import map, then expands a dotted prefix through the import map.
func resolveTarget(
	identifier string,
	byQualified map[string]*vectorstore.CodeData,
	imports map[string]string,
) *vectorstore.CodeData {
	if target, ok := byQualified[identifier]; ok {
		return target
	}

	if qualified, ok := imports[identifier]; ok {
		return byQualified[qualified]
	}

	if head, rest, ok := strings.Cut(identifier, "."); ok {
		if qualified, found := imports[head]; found {
			if target, hit := byQualified[qualified+"."+rest]; hit {
				return target
			}
			// Import paths may carry the repo as their first segment.
			if _, tail, cut := strings.Cut(qualified, "."); cut {
				return byQualified[tail+"."+rest]
			}
		}
	}

	return nil
}

// One reference of a kind per file and line is enough.
func appendReference(target *vectorstore.CodeData, ref vectorstore.ReferenceData) {
	for _, existing := range target.References {
		if existing.Type == ref.Type && existing.File == ref.File && existing.Line == ref.Line {
			return
		}
	}
	target.References = append(target.References, ref)
}
