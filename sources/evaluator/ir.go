package evaluator

import (
	"math"
	"sort"
)

// Cutoffs configures the k values each metric is computed at.
type Cutoffs struct {
	Accuracy        []int
	PrecisionRecall []int
	MRR             []int
	NDCG            []int
	MAP             []int
}

func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		Accuracy:        []int{1, 3, 5, 10},
		PrecisionRecall: []int{1, 3, 5, 10},
		MRR:             []int{10},
		NDCG:            []int{10},
		MAP:             []int{100},
	}
}

// MaxCutoff is the deepest k any metric needs, searches feeding the
// evaluator should request at least this many hits.
func (x Cutoffs) MaxCutoff() int {
	max := 0
	for _, group := range [][]int{x.Accuracy, x.PrecisionRecall, x.MRR, x.NDCG, x.MAP} {
		for _, k := range group {
			if k > max {
				max = k
			}
		}
	}
	return max
}

// Evaluator scores ranked retrieval results against a relevance judgement
// set, qid to relevant cids.
type Evaluator struct {
	relevant map[string]map[string]bool
	cutoffs  Cutoffs
}

func NewEvaluator(relevantDocs map[string][]string, cutoffs Cutoffs) *Evaluator {
	relevant := make(map[string]map[string]bool, len(relevantDocs))
	for qid, cids := range relevantDocs {
		set := make(map[string]bool, len(cids))
		for _, cid := range cids {
			set[cid] = true
		}
		relevant[qid] = set
	}

	return &Evaluator{relevant: relevant, cutoffs: cutoffs}
}

// Compute aggregates metrics over all queries. Predictions are sorted by
// score, descending, before cutoffs apply.
func (x *Evaluator) Compute(predictions map[string][]Prediction) Metrics {
	accuracy := newAccumulator(x.cutoffs.Accuracy)
	precision := newAccumulator(x.cutoffs.PrecisionRecall)
	recall := newAccumulator(x.cutoffs.PrecisionRecall)
	mrr := newAccumulator(x.cutoffs.MRR)
	ndcg := newAccumulator(x.cutoffs.NDCG)
	mapAtK := newAccumulator(x.cutoffs.MAP)

	for qid, hits := range predictions {
		sorted := make([]Prediction, len(hits))
		copy(sorted, hits)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

		topHits := make([]string, len(sorted))
		for i, hit := range sorted {
			topHits[i] = hit.CID
		}
		relevant := x.relevant[qid]

		for _, k := range x.cutoffs.Accuracy {
			accuracy.add(k, computeHits(truncate(topHits, k), relevant))
		}
		for _, k := range x.cutoffs.PrecisionRecall {
			precision.add(k, computePrecision(truncate(topHits, k), relevant))
			recall.add(k, computeRecall(truncate(topHits, k), relevant))
		}
		for _, k := range x.cutoffs.MRR {
			mrr.add(k, computeMRR(truncate(topHits, k), relevant))
		}
		for _, k := range x.cutoffs.NDCG {
			ndcg.add(k, computeNDCG(truncate(topHits, k), relevant))
		}
		for _, k := range x.cutoffs.MAP {
			mapAtK.add(k, computeMAP(truncate(topHits, k), relevant))
		}
	}

	return Metrics{
		Support:   len(predictions),
		Accuracy:  accuracy.mean(),
		Precision: precision.mean(),
		Recall:    recall.mean(),
		NDCG:      ndcg.mean(),
		MRR:       mrr.mean(),
		MAP:       mapAtK.mean(),
	}
}

func truncate(hits []string, k int) []string {
	if len(hits) > k {
		return hits[:k]
	}
	return hits
}

func computeHits(topHits []string, relevant map[string]bool) float64 {
	for _, hit := range topHits {
		if relevant[hit] {
			return 1
		}
	}
	return 0
}

// computePrecision counts distinct relevant documents but divides by the raw
// hit count, duplicate hits dilute precision.
func computePrecision(topHits []string, relevant map[string]bool) float64 {
	if len(topHits) == 0 {
		return 0
	}
	return float64(countCorrect(topHits, relevant)) / float64(len(topHits))
}

func computeRecall(topHits []string, relevant map[string]bool) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(countCorrect(topHits, relevant)) / float64(len(relevant))
}

func computeMRR(topHits []string, relevant map[string]bool) float64 {
	for rank, hit := range topHits {
		if relevant[hit] {
			return 1.0 / float64(rank+1)
		}
	}
	return 0
}

// computeNDCG normalizes against the ideal ranking over the full returned
// window, not just the relevant positions.
func computeNDCG(topHits []string, relevant map[string]bool) float64 {
	var predicted, ideal float64
	for i, hit := range topHits {
		discount := math.Log2(float64(i) + 2)
		if relevant[hit] {
			predicted += 1 / discount
		}
		ideal += 1 / discount
	}
	if ideal == 0 {
		return 0
	}
	return predicted / ideal
}

func computeMAP(topHits []string, relevant map[string]bool) float64 {
	numCorrect := 0
	sumPrecisions := 0.0
	for rank, hit := range topHits {
		if relevant[hit] {
			numCorrect++
			sumPrecisions += float64(numCorrect) / float64(rank+1)
		}
	}
	if numCorrect == 0 {
		return 0
	}
	return sumPrecisions / float64(numCorrect)
}

func countCorrect(topHits []string, relevant map[string]bool) int {
	seen := map[string]bool{}
	count := 0
	for _, hit := range topHits {
		if relevant[hit] && !seen[hit] {
			seen[hit] = true
			count++
		}
	}
	return count
}

type accumulator struct {
	values map[int][]float64
	order  []int
}

func newAccumulator(cutoffs []int) *accumulator {
	return &accumulator{values: map[int][]float64{}, order: cutoffs}
}

func (x *accumulator) add(k int, value float64) {
	x.values[k] = append(x.values[k], value)
}

func (x *accumulator) mean() map[int]float64 {
	means := map[int]float64{}
	for _, k := range x.order {
		samples := x.values[k]
		if len(samples) == 0 {
			continue
		}

		sum := 0.0
		for _, sample := range samples {
			sum += sample
		}
		means[k] = sum / float64(len(samples))
	}
	return means
}
