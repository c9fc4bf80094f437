package artificial

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const sessionContextKey contextKey = iota

// WithSession tags the request context with the chat session, so tool calls
// executed inside the agent loop can attribute their side effects.
func WithSession(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

func SessionFrom(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(sessionContextKey).(uuid.UUID); ok {
		return &id
	}
	return nil
}
