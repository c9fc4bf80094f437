package vectorstore

import (
	"context"
	"sort"
	"time"

	"jiraiya/sources/features"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/qdrant/go-client/qdrant"
)

const (
	// rrfRankConstant dampens the contribution of low ranks in reciprocal
	// rank fusion.
	rrfRankConstant = 60

	// keywordCandidatePageSize is the scroll page size when collecting
	// candidates for lexical scoring.
	keywordCandidatePageSize = 256
)

// Search dispatches a query to the configured strategy.
func (x *Store) Search(log *tracing.Logger, strategy platform.SearchStrategy, query string, topK int, filters map[string]string) ([]SearchResult, error) {
	started := time.Now()
	defer func() {
		x.metrics.RecordSearchDuration(time.Since(started), string(strategy))
	}()

	x.metrics.RecordSearch(string(strategy))

	log = log.With(tracing.SearchQuery, query, tracing.SearchStrategy, string(strategy))

	switch strategy {
	case platform.SearchStrategyKeyword:
		return x.KeywordSearch(log, query, topK, filters)
	case platform.SearchStrategyHybrid:
		return x.HybridSearch(log, query, topK, filters)
	default:
		return x.SimilaritySearch(log, query, topK, filters)
	}
}

// SimilaritySearch embeds the query with both encoders and queries both named
// vectors in one batch. Text hits come first, code hits after, each list
// capped at topK.
func (x *Store) SimilaritySearch(log *tracing.Logger, query string, topK int, filters map[string]string) ([]SearchResult, error) {
	codeVector, err := x.encoders.Code.EmbedQuery(log, query)
	if err != nil {
		return nil, err
	}

	textVector, err := x.encoders.Text.EmbedQuery(log, query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 30*time.Second)
	defer cancel()

	filter := buildFilter(filters)
	limit := uint64(topK)

	responses, err := x.qdrant.QueryBatch(ctx, &qdrant.QueryBatchPoints{
		CollectionName: x.collection,
		QueryPoints: []*qdrant.QueryPoints{
			{
				CollectionName: x.collection,
				Query:          qdrant.NewQueryDense(textVector),
				Using:          qdrant.PtrOf(platform.DocumentKindText),
				Limit:          qdrant.PtrOf(limit),
				Filter:         filter,
				WithPayload:    qdrant.NewWithPayload(true),
			},
			{
				CollectionName: x.collection,
				Query:          qdrant.NewQueryDense(codeVector),
				Using:          qdrant.PtrOf(platform.DocumentKindCode),
				Limit:          qdrant.PtrOf(limit),
				Filter:         filter,
				WithPayload:    qdrant.NewWithPayload(true),
			},
		},
	})

	if err != nil {
		log.E("Failed to query points", tracing.Collection, x.collection, tracing.InnerError, err)
		return nil, err
	}

	var results []SearchResult
	for _, response := range responses {
		for _, hit := range response.GetResult() {
			results = append(results, parsePayload(hit.GetPayload(), float64(hit.GetScore())))
		}
	}

	log.I("Similarity search completed", tracing.SearchHits, len(results))
	return results, nil
}

// KeywordSearch scores scrolled candidates lexically with BM25. When the
// lexical path is toggled off it degrades to similarity search.
func (x *Store) KeywordSearch(log *tracing.Logger, query string, topK int, filters map[string]string) ([]SearchResult, error) {
	if !x.features.IsEnabledDefault(features.FeatureKeywordSearch, true) {
		log.W("Keyword search disabled, falling back to similarity")
		return x.SimilaritySearch(log, query, topK, filters)
	}

	candidates, err := x.Find(log, keywordCandidatePageSize, filters)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		texts[i] = candidate.Name + " " + candidate.Text
	}

	index := newBM25Index(texts)
	scores := index.Scores(tokenize(query))

	ranked := make([]SearchResult, 0, len(candidates))
	for i, candidate := range candidates {
		if scores[i] <= 0 {
			continue
		}
		candidate.Score = scores[i]
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	log.I("Keyword search completed", tracing.SearchHits, len(ranked))
	return ranked, nil
}

// HybridSearch fuses similarity and keyword rankings with reciprocal rank
// fusion.
func (x *Store) HybridSearch(log *tracing.Logger, query string, topK int, filters map[string]string) ([]SearchResult, error) {
	similar, err := x.SimilaritySearch(log, query, topK, filters)
	if err != nil {
		return nil, err
	}

	lexical, err := x.KeywordSearch(log, query, topK, filters)
	if err != nil {
		return nil, err
	}

	type fused struct {
		result SearchResult
		score  float64
	}

	fusion := make(map[string]*fused)

	accumulate := func(results []SearchResult) {
		for rank, result := range results {
			key := result.FilePath + "\x00" + result.Name
			entry, exists := fusion[key]
			if !exists {
				entry = &fused{result: result}
				fusion[key] = entry
			}
			entry.score += 1.0 / float64(rrfRankConstant+rank+1)
		}
	}

	accumulate(similar)
	accumulate(lexical)

	merged := make([]SearchResult, 0, len(fusion))
	for _, entry := range fusion {
		entry.result.Score = entry.score
		merged = append(merged, entry.result)
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })

	if len(merged) > topK {
		merged = merged[:topK]
	}

	log.I("Hybrid search completed", tracing.SearchHits, len(merged))
	return merged, nil
}
