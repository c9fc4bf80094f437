package throttler

import (
	"context"
	"fmt"
	"time"

	"jiraiya/sources/platform"
	"jiraiya/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// Throttler rate-limits chat sessions. One model round per session per Limit
// window keeps a stuck client from burning provider quota.
type Throttler struct {
	client *redis.Client
	config *ThrottlerConfig
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(client *redis.Client, config *ThrottlerConfig, log *tracing.Logger) *Throttler {
	ctx := context.Background()
	return &Throttler{client: client, config: config, log: log, ctx: ctx}
}

func (x *Throttler) IsAllowed(sessionID string) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	key := fmt.Sprintf("throttle:%s", sessionID)

	success, err := x.client.SetNX(ctx, key, time.Now().Unix(), x.config.Limit).Result()
	if err != nil {
		x.log.E("Error setting throttle key", tracing.SessionId, sessionID, tracing.InnerError, err)
		return true
	}

	return success
}
