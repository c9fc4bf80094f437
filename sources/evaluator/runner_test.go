package evaluator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataset(t *testing.T) {
	payload := `[
		{
			"id": "1", "qid": "q1", "query": "how are payments settled",
			"cid": ["api/models.py", "api/views.py"],
			"corpus": ["class Payment: ...", "def settle(): ..."],
			"language": "python",
			"title": ["Payment", "settle"],
			"ground_truth": "Payments settle through the settle view."
		},
		{
			"id": "2", "qid": "q2", "query": "where are sessions stored",
			"cid": ["store/session.py"],
			"corpus": ["class SessionStore: ..."],
			"language": "python",
			"title": ["SessionStore"]
		}
	]`

	path := filepath.Join(t.TempDir(), "bench.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	datapoints, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, datapoints, 2)

	assert.Equal(t, "q1", datapoints[0].QID)
	assert.Equal(t, []string{"api/models.py", "api/views.py"}, datapoints[0].CID)
	assert.Equal(t, "Payments settle through the settle view.", datapoints[0].GroundTruth)
	assert.Empty(t, datapoints[1].GroundTruth)
}

func TestLoadDatasetMissing(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
