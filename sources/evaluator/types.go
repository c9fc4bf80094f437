package evaluator

import (
	"fmt"
	"sort"
	"strings"
)

// Prediction is one retrieved document for a query.
type Prediction struct {
	ID    string  `json:"id"`
	CID   string  `json:"cid"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Datapoint is one record of a retrieval benchmark. CID, Corpus and Title are
// parallel slices describing the documents relevant to the query.
type Datapoint struct {
	ID          string   `json:"id"`
	QID         string   `json:"qid"`
	Query       string   `json:"query"`
	CID         []string `json:"cid"`
	Corpus      []string `json:"corpus"`
	Language    string   `json:"language"`
	Title       []string `json:"title"`
	GroundTruth string   `json:"ground_truth,omitempty"`
}

// Metrics holds the aggregated retrieval quality numbers, keyed by cutoff.
type Metrics struct {
	Support   int
	Accuracy  map[int]float64
	Precision map[int]float64
	Recall    map[int]float64
	NDCG      map[int]float64
	MRR       map[int]float64
	MAP       map[int]float64
}

func (x Metrics) String() string {
	lines := []string{fmt.Sprintf("support: %d", x.Support)}

	named := []struct {
		name   string
		values map[int]float64
	}{
		{"accuracy", x.Accuracy},
		{"precision", x.Precision},
		{"recall", x.Recall},
		{"ndcg", x.NDCG},
		{"mrr", x.MRR},
		{"map", x.MAP},
	}

	for _, metric := range named {
		cutoffs := make([]int, 0, len(metric.values))
		for k := range metric.values {
			cutoffs = append(cutoffs, k)
		}
		sort.Ints(cutoffs)

		for _, k := range cutoffs {
			lines = append(lines, fmt.Sprintf("%s@%d: %.4f", metric.name, k, metric.values[k]))
		}
	}

	return strings.Join(lines, "\n")
}
