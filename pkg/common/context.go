package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUser      ContextKey = "user"
	ContextKeyRequestID ContextKey = "request_id"
)

// WithUser adds the authenticated user name to context
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// GetUser extracts the authenticated user name from context
func GetUser(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(ContextKeyUser).(string)
	return user, ok
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}
