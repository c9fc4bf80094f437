package persistence

import (
	"jiraiya/sources/configuration"
	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/qdrant/go-client/qdrant"
)

func NewQdrant(settings *configuration.Settings, log *tracing.Logger) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   settings.QdrantHost,
		Port:   settings.QdrantPort,
		APIKey: platform.Get("QDRANT_API_KEY", ""),
		UseTLS: platform.GetAsBool("QDRANT_USE_TLS", false),
	})
	if err != nil {
		log.F("Failed to create Qdrant client", tracing.InnerError, err)
	}

	log.I("Qdrant client initialized successfully", "qdrant_host", settings.QdrantHost, "qdrant_port", settings.QdrantPort)
	return client
}
