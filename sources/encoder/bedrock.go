package encoder

import (
	"context"
	"time"

	"jiraiya/sources/configuration"
	"jiraiya/sources/metrics"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/bytedance/sonic"
)

func NewBedrockRuntime(settings *configuration.Settings, log *tracing.Logger) *bedrockruntime.Client {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(settings.AWSDefaultRegion),
	}

	if settings.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AWSAccessKeyID, settings.AWSSecretAccessKey, settings.AWSSessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.F("Failed to load AWS configuration", tracing.InnerError, err)
	}

	log.I("Bedrock runtime client initialized successfully", "aws_region", settings.AWSDefaultRegion)
	return bedrockruntime.NewFromConfig(cfg)
}

// invoker is the shared InvokeModel path for all embedding models.
type invoker struct {
	client  *bedrockruntime.Client
	metrics *metrics.MetricsService
}

func (x *invoker) invoke(log *tracing.Logger, modelID string, request any, response any) error {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Minute)
	defer cancel()

	body, err := sonic.Marshal(request)
	if err != nil {
		log.E("Failed to marshal embedding request", tracing.AiModel, modelID, tracing.InnerError, err)
		return err
	}

	started := time.Now()
	output, err := x.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	x.metrics.RecordEmbeddingDuration(time.Since(started), modelID)

	if err != nil {
		x.metrics.RecordEmbedding(modelID, "error")
		log.E("Failed to invoke embedding model", tracing.AiModel, modelID, tracing.InnerError, err)
		return err
	}

	if err := sonic.Unmarshal(output.Body, response); err != nil {
		x.metrics.RecordEmbedding(modelID, "error")
		log.E("Failed to unmarshal embedding response", tracing.AiModel, modelID, tracing.InnerError, err)
		return err
	}

	x.metrics.RecordEmbedding(modelID, "success")
	return nil
}
