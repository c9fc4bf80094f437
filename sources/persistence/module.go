package persistence

import (
	"context"

	"jiraiya/sources/persistence/entities"
	"jiraiya/sources/tracing"

	"github.com/qdrant/go-client/qdrant"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("persistence",
	fx.Provide(
		NewDatabaseConfig, NewPostgresDatabase,
		NewRedisConfig, NewRedis,
		NewQdrant,
	),

	fx.Invoke(func(db *gorm.DB, redis *goredis.Client, lc fx.Lifecycle, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := db.AutoMigrate(
					&entities.Session{},
					&entities.ChatMessage{},
					&entities.TicketRecord{},
					&entities.IndexRun{},
					&entities.Usage{},
				); err != nil {
					log.F("Failed to migrate schema", tracing.InnerError, err)
				}
				log.I("Schema migrated successfully")

				if sqlDB, err := db.DB(); err != nil {
					log.F("Failed to get underlying sql.DB", tracing.InnerError, err)
				} else if err := sqlDB.PingContext(ctx); err != nil {
					log.F("Failed to ping PostgreSQL", tracing.InnerError, err)
				} else {
					log.I("PostgreSQL connection verified")
				}

				if err := redis.Ping(ctx).Err(); err != nil {
					log.F("Failed to ping Redis", tracing.InnerError, err)
				} else {
					log.I("Redis connection verified")
				}

				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.I("Closing database connections")

				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				} else {
					log.E("Failed to close PostgreSQL", tracing.InnerError, err)
				}

				redis.Close()

				return nil
			},
		})
	}),

	fx.Invoke(func(client *qdrant.Client, lc fx.Lifecycle, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if _, err := client.HealthCheck(ctx); err != nil {
					log.F("Failed to ping Qdrant", tracing.InnerError, err)
				}
				log.I("Qdrant connection verified")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.I("Closing Qdrant client")
				return client.Close()
			},
		})
	}),
)
