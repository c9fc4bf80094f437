package evaluator

import (
	"os"
	"path/filepath"

	"jiraiya/sources/configuration"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"

	"github.com/bytedance/sonic"
)

// benchmarkTenant keeps evaluation corpora away from the production
// collection.
const benchmarkTenant = "test"

// LoadDataset reads a benchmark file, a JSON array of Datapoint records.
func LoadDataset(path string) ([]Datapoint, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var datapoints []Datapoint
	if err := sonic.Unmarshal(payload, &datapoints); err != nil {
		return nil, err
	}
	return datapoints, nil
}

// Runner indexes a benchmark corpus and scores the configured search
// strategy against its relevance judgements.
type Runner struct {
	config *configuration.Config
	store  *vectorstore.Store
}

func NewRunner(config *configuration.Config, store *vectorstore.Store) *Runner {
	return &Runner{config: config, store: store}
}

func (x *Runner) Run(log *tracing.Logger, datasetPath string) (*Metrics, error) {
	defer tracing.ProfilePoint(log, "Evaluation finished", "evaluator.run")()

	datapoints, err := LoadDataset(datasetPath)
	if err != nil {
		log.E("Failed to load dataset", tracing.FilePath, datasetPath, tracing.InnerError, err)
		return nil, err
	}
	log.I("Dataset loaded", tracing.FilePath, datasetPath, "datapoints", len(datapoints))

	store, err := x.store.ForTenant(log, benchmarkTenant)
	if err != nil {
		return nil, err
	}

	if err := x.indexCorpus(log, store, datapoints, filepath.Base(datasetPath)); err != nil {
		return nil, err
	}

	cutoffs := DefaultCutoffs()
	strategy := x.config.Agent.Tools.Search.Strategy

	relevant := map[string][]string{}
	predictions := map[string][]Prediction{}

	for _, datapoint := range datapoints {
		relevant[datapoint.QID] = append(relevant[datapoint.QID], datapoint.CID...)

		if _, done := predictions[datapoint.QID]; done {
			continue
		}

		results, err := store.Search(log, strategy, datapoint.Query, cutoffs.MaxCutoff(), nil)
		if err != nil {
			return nil, err
		}

		hits := make([]Prediction, 0, len(results))
		for _, result := range results {
			hits = append(hits, Prediction{
				ID:    datapoint.ID,
				CID:   result.FilePath,
				Score: result.Score,
				Text:  result.Text,
			})
		}
		predictions[datapoint.QID] = hits
	}

	metrics := NewEvaluator(relevant, cutoffs).Compute(predictions)
	log.I("Evaluation computed",
		"support", metrics.Support, tracing.SearchStrategy, string(strategy))
	return &metrics, nil
}

// indexCorpus upserts every corpus document once, datapoints sharing
// documents reference the same cid.
func (x *Runner) indexCorpus(
	log *tracing.Logger,
	store *vectorstore.Store,
	datapoints []Datapoint,
	repo string,
) error {
	seen := map[string]bool{}

	for _, datapoint := range datapoints {
		for i, cid := range datapoint.CID {
			if seen[cid] || i >= len(datapoint.Corpus) {
				continue
			}
			seen[cid] = true

			name := cid
			if i < len(datapoint.Title) && datapoint.Title[i] != "" {
				name = datapoint.Title[i]
			}

			data := vectorstore.CodeData{
				Type:       platform.DocumentKindCode,
				Repo:       repo,
				FilePath:   cid,
				Name:       name,
				SourceCode: datapoint.Corpus[i],
			}
			if err := store.AddCode(log, data); err != nil {
				return err
			}
		}
	}

	log.I("Indexed benchmark corpus", tracing.DocCount, len(seen), tracing.Tenant, benchmarkTenant)
	return nil
}
