package vectorstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStringToUUIDDeterministic(t *testing.T) {
	first := HashStringToUUID("CodeVectorStore")
	second := HashStringToUUID("CodeVectorStore")

	assert.Equal(t, first, second)
	assert.Equal(t, uuid.Version(5), first.Version())
}

func TestHashStringToUUIDDistinct(t *testing.T) {
	assert.NotEqual(t, HashStringToUUID("alpha"), HashStringToUUID("beta"))
}

func TestCalculateID(t *testing.T) {
	id := CalculateID("code"+"Router", "knowledge-manager/api/routes.py")

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())

	assert.Equal(t, id, CalculateID("codeRouter", "knowledge-manager/api/routes.py"))
	assert.NotEqual(t, id, CalculateID("textRouter", "knowledge-manager/api/routes.py"))
	assert.NotEqual(t, id, CalculateID("codeRouter", "knowledge-manager/api/other.py"))
}
