package writer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jiraiya/sources/configuration"
	"jiraiya/sources/features"
	"jiraiya/sources/tracing"
)

// Generator drives standalone documentation runs: module and file level code
// analysis first, then a high level document written section by section.
type Generator struct {
	config   *configuration.Config
	writer   *WriterConfig
	docs     *DocsWriter
	features *features.FeatureManager
}

func NewGenerator(
	config *configuration.Config,
	writerConfig *WriterConfig,
	docs *DocsWriter,
	featureManager *features.FeatureManager,
) *Generator {
	return &Generator{
		config:   config,
		writer:   writerConfig,
		docs:     docs,
		features: featureManager,
	}
}

// Generate documents the project at root. Artifacts land under the output
// directory keyed by project name, reruns reuse the cached JSON analysis.
func (x *Generator) Generate(log *tracing.Logger, root string, projectName string) error {
	if projectName == "" {
		projectName = filepath.Base(strings.TrimRight(root, "/"))
	}
	log = log.With(tracing.Repo, projectName)
	defer tracing.ProfilePoint(log, "Documentation generated", "writer.generate")()

	loader := NewCodebaseLoader(root, x.config.Data.Blacklist, nil)

	moduleTree, err := loader.LoadAllModules(log)
	if err != nil {
		return err
	}
	log.I("Will proceed to analyse modules", "modules", sortedKeys(moduleTree))

	moduleDocs, err := x.analyze(log, moduleTree, filepath.Join(projectName, "module_level_analysis"))
	if err != nil {
		return err
	}

	tree, err := loader.LoadAllFiles(log)
	if err != nil {
		return err
	}

	finalDoc, err := x.codeAnalysis(log, projectName, tree, moduleDocs)
	if err != nil {
		return err
	}

	return x.highLevel(log, projectName, finalDoc)
}

// codeAnalysis merges file and module docs. Above the file budget the file
// pass is skipped and the module analysis stands alone.
func (x *Generator) codeAnalysis(
	log *tracing.Logger,
	projectName string,
	tree map[string]string,
	moduleDocs map[string]TechnicalDoc,
) (string, error) {
	fileLevel := x.features.IsEnabledDefault(features.FeatureFileLevelDocs, true)

	if len(tree) >= x.writer.MaxFileCount || !fileLevel {
		log.I("File level analysis skipped", tracing.DocCount, len(tree))
		return readMarkdown(x.writer.OutputDir, filepath.Join(projectName, "module_level_analysis"))
	}

	fileDocs, err := x.analyze(log, tree, filepath.Join(projectName, "file_level_analysis"))
	if err != nil {
		return "", err
	}

	return x.writeCodeAnalysis(fileDocs, moduleDocs, filepath.Join(projectName, "code_analysis"))
}

// analyze produces a TechnicalDoc per entry, loading from the JSON cache when
// a previous run already wrote one.
func (x *Generator) analyze(
	log *tracing.Logger,
	codeTree map[string]string,
	relPath string,
) (map[string]TechnicalDoc, error) {
	cached, err := readJSON(x.writer.OutputDir, relPath)
	if err == nil {
		log.I("Loaded docs from cache", tracing.DocCount, len(cached), "path", relPath)
		return cached, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	docs := map[string]TechnicalDoc{}
	for _, path := range sortedKeys(codeTree) {
		log.I("Processing", tracing.FilePath, path)

		doc, docErr := x.docs.Document(log, codeTree[path])
		if docErr != nil {
			return nil, docErr
		}
		docs[path] = *doc
	}

	if _, err := writeJSONAsMarkdown(x.writer.OutputDir, relPath, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// writeCodeAnalysis renders the merged document: top-level files standalone,
// then each module header followed by its files as subsections.
func (x *Generator) writeCodeAnalysis(
	fileDocs map[string]TechnicalDoc,
	moduleDocs map[string]TechnicalDoc,
	relPath string,
) (string, error) {
	projectName := strings.Split(filepath.ToSlash(relPath), "/")[0]
	name := titleCaser.String(strings.ReplaceAll(projectName, "_", " "))

	var sb strings.Builder
	sb.WriteString("# " + name + " Technical Documentation\n\n")

	modules := sortedKeys(moduleDocs)

	var topLevel []string
	for path := range fileDocs {
		inModule := false
		for _, module := range modules {
			if strings.HasPrefix(path, module) {
				inModule = true
				break
			}
		}
		if !inModule {
			topLevel = append(topLevel, path)
		}
	}
	sort.Strings(topLevel)

	for _, path := range topLevel {
		sb.WriteString(fileDocs[path].ToMarkdown(path, TemplateStandalone))
	}

	for _, module := range modules {
		sb.WriteString(moduleDocs[module].ToMarkdown(module, TemplateHeader))

		var files []string
		for path := range fileDocs {
			if strings.HasPrefix(path, module) {
				files = append(files, path)
			}
		}
		sort.Strings(files)

		for _, path := range files {
			sb.WriteString(fileDocs[path].ToMarkdown(path, TemplateSubsection))
		}
	}

	finalDoc := sb.String()
	if err := writeMarkdown(x.writer.OutputDir, relPath, finalDoc); err != nil {
		return "", err
	}
	return finalDoc, nil
}

// highLevel writes the closing document section by section from the merged
// code analysis.
func (x *Generator) highLevel(log *tracing.Logger, projectName string, documentation string) error {
	systemPrompt := x.config.Agent.Prompts.Docs
	if systemPrompt == "" {
		systemPrompt = defaultDocsPrompt
	}

	name := titleCaser.String(strings.ReplaceAll(projectName, "_", " "))

	var sb strings.Builder
	sb.WriteString("# " + name + " Documentation\n\n")

	for _, section := range defaultSections() {
		log.I("Writing section", "section", section.Title)

		result, err := x.docs.Compose(log, systemPrompt, renderSection(section.Template, documentation))
		if err != nil {
			return err
		}

		sectionDoc := strings.Trim(stripMarkers(result), "\n")
		sb.WriteString("## " + section.Title + "\n\n" + sectionDoc + "\n\n")
	}

	return writeMarkdown(x.writer.OutputDir, filepath.Join(projectName, "high_level_documentation"), sb.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
