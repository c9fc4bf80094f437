package encoder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"jiraiya/sources/features"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// CachedEncoder keeps document vectors in redis keyed by content hash, so
// re-indexing an unchanged codebase skips the provider round trips. Misses and
// redis failures fall through to the wrapped encoder.
type CachedEncoder struct {
	inner    Encoder
	redis    *redis.Client
	features *features.FeatureManager
	ttl      time.Duration
}

func NewCachedEncoder(inner Encoder, redisClient *redis.Client, featureManager *features.FeatureManager) *CachedEncoder {
	return &CachedEncoder{
		inner:    inner,
		redis:    redisClient,
		features: featureManager,
		ttl:      platform.GetAsDuration("EMBEDDINGS_CACHE_TTL", "24h"),
	}
}

func (x *CachedEncoder) Name() string {
	return x.inner.Name()
}

func (x *CachedEncoder) Dimensions() uint64 {
	return x.inner.Dimensions()
}

func (x *CachedEncoder) EmbedQuery(log *tracing.Logger, text string) ([]float32, error) {
	return x.inner.EmbedQuery(log, text)
}

func (x *CachedEncoder) EmbedDocuments(log *tracing.Logger, texts []string) ([][]float32, error) {
	if !x.features.IsEnabledDefault(features.FeatureEmbeddingsCache, true) {
		return x.inner.EmbedDocuments(log, texts)
	}

	embeddings := make([][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	missingAt := make([]int, 0, len(texts))

	for i, text := range texts {
		if vector := x.lookup(log, text); vector != nil {
			embeddings[i] = vector
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}

	if len(missing) == 0 {
		log.D("All document embeddings served from cache", tracing.EncoderName, x.Name(), tracing.DocCount, len(texts))
		return embeddings, nil
	}

	computed, err := x.inner.EmbedDocuments(log, missing)
	if err != nil {
		return nil, err
	}

	for i, vector := range computed {
		embeddings[missingAt[i]] = vector
		x.store(log, missing[i], vector)
	}

	return embeddings, nil
}

func (x *CachedEncoder) lookup(log *tracing.Logger, text string) []float32 {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := x.redis.Get(ctx, x.key(text)).Bytes()
	if err != nil {
		return nil
	}

	var cached platform.CachedVector
	if err := sonic.Unmarshal(raw, &cached); err != nil {
		log.W("Failed to decode cached embedding, recomputing", tracing.InnerError, err)
		return nil
	}

	if cached.Model != x.Name() {
		return nil
	}

	return cached.Vector
}

func (x *CachedEncoder) store(log *tracing.Logger, text string, vector []float32) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := sonic.Marshal(platform.CachedVector{Model: x.Name(), Vector: vector})
	if err != nil {
		log.W("Failed to encode embedding for cache", tracing.InnerError, err)
		return
	}

	if err := x.redis.Set(ctx, x.key(text), raw, x.ttl).Err(); err != nil {
		log.W("Failed to cache embedding", tracing.InnerError, err)
	}
}

func (x *CachedEncoder) key(text string) string {
	return fmt.Sprintf("embedding:%s:%x", x.Name(), sha256.Sum256([]byte(text)))
}
