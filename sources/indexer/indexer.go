package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"jiraiya/sources/configuration"
	"jiraiya/sources/features"
	"jiraiya/sources/metrics"
	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/repository"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"
	"jiraiya/sources/writer"

	"github.com/yargevad/filepathx"
)

// Indexer drives the full pipeline for one tenant: walk the configured
// codebases, extract code objects, resolve references, generate a short
// technical doc per object and push everything into the vector store.
type Indexer struct {
	config   *configuration.Config
	store    *vectorstore.Store
	docs     *writer.DocsWriter
	runs     *repository.RunsRepository
	features *features.FeatureManager
	metrics  *metrics.MetricsService
	log      *tracing.Logger
}

func NewIndexer(
	config *configuration.Config,
	store *vectorstore.Store,
	docs *writer.DocsWriter,
	runs *repository.RunsRepository,
	featureManager *features.FeatureManager,
	metricsService *metrics.MetricsService,
	log *tracing.Logger,
) *Indexer {
	return &Indexer{
		config:   config,
		store:    store,
		docs:     docs,
		runs:     runs,
		features: featureManager,
		metrics:  metricsService,
		log:      log,
	}
}

// Run indexes every configured codebase. A run is skipped entirely when all
// codebase HEADs match the last completed run, unless a reset is requested.
func (x *Indexer) Run(reset bool) error {
	log := x.log.With(tracing.Tenant, x.config.Data.Tenant)
	started := time.Now()
	defer func() {
		x.metrics.RecordIndexRunDuration(time.Since(started))
	}()

	reset = reset || x.config.Data.Reset

	commits := make([]string, len(x.config.Data.Codebases))
	for i, codebase := range x.config.Data.Codebases {
		commits[i] = HeadCommit(log, codebase)
	}

	if !reset && x.unchangedSinceLastRun(log, commits) {
		log.I("Codebases unchanged since last run, skipping")
		return nil
	}

	run, err := x.runs.StartRun(log, x.config.Data.Tenant, x.config.Data.Codebases, commits)
	if err != nil {
		return err
	}

	if reset {
		if err := x.store.Clear(log); err != nil {
			_ = x.runs.FailRun(log, run, err)
			return err
		}
	}

	var total int64
	for _, codebase := range x.config.Data.Codebases {
		count, err := x.indexCodebase(log, codebase)
		if err != nil {
			_ = x.runs.FailRun(log, run, err)
			return err
		}
		total += count
	}

	return x.runs.CompleteRun(log, run, total)
}

func (x *Indexer) unchangedSinceLastRun(log *tracing.Logger, commits []string) bool {
	last, err := x.runs.GetLastRun(log, x.config.Data.Tenant)
	if err != nil || last == nil || last.Status != entities.RunStatusCompleted {
		return false
	}

	if !equalStrings(last.Codebases, x.config.Data.Codebases) || !equalStrings(last.Commits, commits) {
		return false
	}

	// A codebase without a HEAD cannot prove it is unchanged.
	for _, commit := range commits {
		if commit == "" {
			return false
		}
	}
	return true
}

func (x *Indexer) indexCodebase(log *tracing.Logger, codebase string) (int64, error) {
	loader := NewLoader(codebase, x.config.Data.Blacklist)
	log = log.With(tracing.Repo, loader.Repo())
	log.I("Starting with codebase", "path", codebase)

	files, err := loader.LoadFiles(log)
	if err != nil {
		return 0, err
	}

	data := x.extractObjects(log, loader.Repo(), files)
	data = resolveReferences(log, files, data)

	useWriter := x.features.IsEnabledDefault(features.FeatureDocsWriter, true)

	for i := range data {
		if err := x.store.AddCode(log, data[i]); err != nil {
			return 0, err
		}

		if !useWriter {
			continue
		}

		doc, err := x.docs.Document(log, data[i].SourceCode)
		if err != nil {
			log.W("Documentation generation failed, indexed code only",
				tracing.ObjectName, data[i].Name, tracing.InnerError, err.Error())
			continue
		}

		text := vectorstore.NewTextData(
			data[i].Repo,
			data[i].FilePath,
			data[i].Name,
			doc.ToMarkdown(data[i].FilePath, writer.TemplateStandalone),
		)
		if err := x.store.AddText(log, text); err != nil {
			return 0, err
		}
	}

	special, err := x.indexSpecialFiles(log, loader)
	if err != nil {
		return 0, err
	}

	total := int64(len(data)) + special
	log.I("Added documents to vector store", tracing.DocCount, total)
	return total, nil
}

func (x *Indexer) extractObjects(log *tracing.Logger, repo string, files []SourceFile) []vectorstore.CodeData {
	var data []vectorstore.CodeData

	for _, file := range files {
		src, err := os.ReadFile(file.Path)
		if err != nil {
			log.E("Failed to read source file", tracing.FilePath, file.RelPath, tracing.InnerError, err.Error())
			continue
		}

		switch file.Language {
		case LanguageGo:
			extracted, err := extractGo(file, src, repo)
			if err != nil {
				log.W("Failed to parse file, skipping", tracing.FilePath, file.RelPath, tracing.InnerError, err.Error())
				continue
			}
			data = append(data, extracted...)
		case LanguagePython:
			data = append(data, extractPython(file, src, repo)...)
		default:
			data = append(data, extractBraces(file, src, repo, file.Language)...)
		}
	}

	log.I("Code objects extracted", "objects", len(data))
	return data
}

// Markdown documents and shell scripts are indexed verbatim so operational
// knowledge next to the code is searchable too.
func (x *Indexer) indexSpecialFiles(log *tracing.Logger, loader *Loader) (int64, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range []string{"*.md", "*.sh", "**/*.md", "**/*.sh"} {
		matches, err := filepathx.Glob(filepath.Join(loader.Root(), pattern))
		if err != nil {
			log.E("Failed to glob special files", "pattern", pattern, tracing.InnerError, err.Error())
			return 0, err
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	sort.Strings(paths)

	var count int64
	for _, match := range paths {
		rel, err := filepath.Rel(loader.Root(), match)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if loader.blacklisted(rel) {
			continue
		}

		content, err := os.ReadFile(match)
		if err != nil {
			log.E("Failed to read special file", tracing.FilePath, rel, tracing.InnerError, err.Error())
			continue
		}

		text := vectorstore.NewTextData(
			loader.Repo(),
			rel,
			filepath.Base(match),
			fmt.Sprintf("File: %s\n\nContent:\n%s", rel, string(content)),
		)
		if err := x.store.AddText(log, text); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
