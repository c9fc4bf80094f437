package vectorstore

import (
	"context"
	"fmt"
	"time"

	"jiraiya/sources/configuration"
	"jiraiya/sources/encoder"
	"jiraiya/sources/features"
	"jiraiya/sources/metrics"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/bytedance/sonic"
	"github.com/qdrant/go-client/qdrant"
)

// Store keeps code and text documents in one qdrant collection with two named
// vectors, one per encoder.
type Store struct {
	qdrant     *qdrant.Client
	encoders   *encoder.Encoders
	features   *features.FeatureManager
	metrics    *metrics.MetricsService
	tenant     string
	collection string
}

func NewStore(
	config *configuration.Config,
	client *qdrant.Client,
	encoders *encoder.Encoders,
	featureManager *features.FeatureManager,
	metricsService *metrics.MetricsService,
	log *tracing.Logger,
) (*Store, error) {
	store := &Store{
		qdrant:     client,
		encoders:   encoders,
		features:   featureManager,
		metrics:    metricsService,
		tenant:     config.Data.Tenant,
		collection: fmt.Sprintf("%s_class", config.Data.Tenant),
	}

	if err := store.ensureCollection(log); err != nil {
		return nil, err
	}

	log.I("Vector store initialized", tracing.Tenant, store.tenant, tracing.Collection, store.collection)
	return store, nil
}

func (x *Store) Collection() string {
	return x.collection
}

// ForTenant derives a store bound to another tenant on the same connection.
// The evaluation flow uses it to keep benchmark corpora out of the main
// collection.
func (x *Store) ForTenant(log *tracing.Logger, tenant string) (*Store, error) {
	derived := &Store{
		qdrant:     x.qdrant,
		encoders:   x.encoders,
		features:   x.features,
		metrics:    x.metrics,
		tenant:     tenant,
		collection: fmt.Sprintf("%s_class", tenant),
	}

	if err := derived.ensureCollection(log); err != nil {
		return nil, err
	}
	return derived, nil
}

func (x *Store) ensureCollection(log *tracing.Logger) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := x.qdrant.CollectionExists(ctx, x.collection)
	if err != nil {
		log.E("Failed to check collection existence", tracing.Collection, x.collection, tracing.InnerError, err)
		return err
	}

	if exists {
		return nil
	}

	err = x.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: x.collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			platform.DocumentKindCode: {
				Size:     x.encoders.Code.Dimensions(),
				Distance: qdrant.Distance_Cosine,
			},
			platform.DocumentKindText: {
				Size:     x.encoders.Text.Dimensions(),
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})

	if err != nil {
		log.E("Failed to create collection", tracing.Collection, x.collection, tracing.InnerError, err)
		return err
	}

	// Keyword indexes on the payload fields every search filters on.
	for _, field := range []string{"repo", "type"} {
		_, err = x.qdrant.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: x.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			log.E("Failed to create payload index", tracing.Collection, x.collection, "field", field, tracing.InnerError, err)
			return err
		}
	}

	log.I("Collection created", tracing.Collection, x.collection)
	return nil
}

// AddCode embeds the raw source with the code encoder and upserts it. The
// point id is stable across runs for the same name and file.
func (x *Store) AddCode(log *tracing.Logger, data CodeData) error {
	vectors, err := x.encoders.Code.EmbedDocuments(log, []string{data.SourceCode})
	if err != nil {
		return err
	}

	references, err := sonic.MarshalString(data.References)
	if err != nil {
		log.E("Failed to marshal references", tracing.ObjectName, data.Name, tracing.InnerError, err)
		return err
	}

	payload := map[string]any{
		"text":        data.SourceCode,
		"type":        data.Type,
		"repo":        data.Repo,
		"file_path":   data.FilePath,
		"name":        data.Name,
		"docstring":   data.Docstring,
		"parent_name": data.ParentName,
		"module":      data.Module(),
		"references":  references,
	}

	id := CalculateID(platform.DocumentKindCode+data.Name, data.FilePath)

	if err := x.upsert(log, id, platform.DocumentKindCode, vectors[0], payload); err != nil {
		return err
	}

	x.metrics.RecordDocumentIndexed(x.tenant, platform.DocumentKindCode)
	return nil
}

// AddText embeds free-form text with the text encoder and upserts it.
func (x *Store) AddText(log *tracing.Logger, data TextData) error {
	vectors, err := x.encoders.Text.EmbedDocuments(log, []string{data.Text})
	if err != nil {
		return err
	}

	payload := map[string]any{
		"text":      data.Text,
		"type":      data.Type,
		"repo":      data.Repo,
		"file_path": data.FilePath,
		"name":      data.Name,
	}

	id := CalculateID(platform.DocumentKindText+data.Name, data.FilePath)

	if err := x.upsert(log, id, platform.DocumentKindText, vectors[0], payload); err != nil {
		return err
	}

	x.metrics.RecordDocumentIndexed(x.tenant, platform.DocumentKindText)
	return nil
}

func (x *Store) upsert(log *tracing.Logger, id string, vectorName string, vector []float32, payload map[string]any) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 30*time.Second)
	defer cancel()

	_, err := x.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{vectorName: qdrant.NewVectorDense(vector)}),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})

	if err != nil {
		log.E("Failed to upsert point", tracing.Collection, x.collection, tracing.VectorName, vectorName, tracing.InnerError, err)
		return err
	}

	return nil
}

// Clear drops and recreates the collection.
func (x *Store) Clear(log *tracing.Logger) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 30*time.Second)
	defer cancel()

	if err := x.qdrant.DeleteCollection(ctx, x.collection); err != nil {
		log.E("Failed to delete collection", tracing.Collection, x.collection, tracing.InnerError, err)
		return err
	}

	log.I("Collection cleared", tracing.Collection, x.collection)
	return x.ensureCollection(log)
}

func (x *Store) Count(log *tracing.Logger) (uint64, error) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	count, err := x.qdrant.Count(ctx, &qdrant.CountPoints{CollectionName: x.collection})
	if err != nil {
		log.E("Failed to count points", tracing.Collection, x.collection, tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}

// Find pages through every point matching the filters, page size is limit.
func (x *Store) Find(log *tracing.Logger, limit uint32, filters map[string]string) ([]SearchResult, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Minute)
	defer cancel()

	var results []SearchResult
	var offset *qdrant.PointId

	for {
		response, err := x.qdrant.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: x.collection,
			Limit:          qdrant.PtrOf(limit),
			Offset:         offset,
			Filter:         buildFilter(filters),
			WithPayload:    qdrant.NewWithPayload(true),
		})

		if err != nil {
			log.E("Failed to scroll points", tracing.Collection, x.collection, tracing.InnerError, err)
			return nil, err
		}

		points := response.GetResult()
		if len(points) == 0 {
			break
		}

		for _, point := range points {
			results = append(results, parsePayload(point.GetPayload(), 1.0))
		}

		offset = response.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	return results, nil
}

// GetAllRepos scans the collection and returns the distinct repo names.
func (x *Store) GetAllRepos(log *tracing.Logger) ([]string, error) {
	defer tracing.ProfilePoint(log, "Repos scan completed", "vectorstore.repos")()

	results, err := x.Find(log, 100, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var repos []string
	for _, result := range results {
		if !seen[result.Repo] {
			seen[result.Repo] = true
			repos = append(repos, result.Repo)
		}
	}

	return repos, nil
}

func buildFilter(filters map[string]string) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}

	conditions := make([]*qdrant.Condition, 0, len(filters))
	for key, value := range filters {
		conditions = append(conditions, qdrant.NewMatchKeyword(key, value))
	}

	return &qdrant.Filter{Must: conditions}
}

func parsePayload(payload map[string]*qdrant.Value, score float64) SearchResult {
	text := payload["text"].GetStringValue()
	if text == "" {
		text = payload["source_code"].GetStringValue()
	}

	return SearchResult{
		FilePath: payload["file_path"].GetStringValue(),
		Repo:     payload["repo"].GetStringValue(),
		Name:     payload["name"].GetStringValue(),
		Text:     text,
		Score:    score,
	}
}
