package vectorstore

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/google/uuid"
)

// namespaceUUID seeds every point id. Do not change or the hashes will be
// different and re-indexing will duplicate every document.
var namespaceUUID = uuid.MustParse("00000000-0000-0000-0000-0000000007c0")

// HashStringToUUID hashes a string into a deterministic v5 UUID.
func HashStringToUUID(input string) uuid.UUID {
	sum := sha1.Sum([]byte(input))
	digest := hex.EncodeToString(sum[:])
	return uuid.NewSHA1(namespaceUUID, []byte(digest))
}

// CalculateID derives a stable point id from document content and its source
// location, so upserts overwrite instead of duplicating.
func CalculateID(content string, source string) string {
	contentHash := HashStringToUUID(content).String()
	sourceHash := HashStringToUUID(source).String()
	return HashStringToUUID(contentHash + sourceHash).String()
}
