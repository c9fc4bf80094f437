package vectorstore

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// tokenize lowercases, strips diacritics and splits on everything that is not
// a letter or a digit.
func tokenize(text string) []string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		folded = text
	}

	return strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

type bm25Index struct {
	docs      [][]string
	docFreq   map[string]int
	docLength []float64
	avgLength float64
}

func newBM25Index(texts []string) *bm25Index {
	index := &bm25Index{
		docs:      make([][]string, len(texts)),
		docFreq:   make(map[string]int),
		docLength: make([]float64, len(texts)),
	}

	var total float64
	for i, text := range texts {
		tokens := tokenize(text)
		index.docs[i] = tokens
		index.docLength[i] = float64(len(tokens))
		total += float64(len(tokens))

		seen := make(map[string]bool, len(tokens))
		for _, token := range tokens {
			if !seen[token] {
				seen[token] = true
				index.docFreq[token]++
			}
		}
	}

	if len(texts) > 0 {
		index.avgLength = total / float64(len(texts))
	}

	return index
}

// Scores computes the BM25 score of each indexed document against the query
// tokens.
func (x *bm25Index) Scores(query []string) []float64 {
	scores := make([]float64, len(x.docs))
	totalDocs := float64(len(x.docs))

	for _, term := range query {
		df := x.docFreq[term]
		if df == 0 {
			continue
		}

		idf := math.Log(1 + (totalDocs-float64(df)+0.5)/(float64(df)+0.5))

		for i, doc := range x.docs {
			var tf float64
			for _, token := range doc {
				if token == term {
					tf++
				}
			}

			if tf == 0 {
				continue
			}

			normLength := 1 - bm25B + bm25B*x.docLength[i]/x.avgLength
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*normLength)
		}
	}

	return scores
}
