// Package appctx carries the resolved caller identity through request
// contexts.
package appctx

import (
	"context"

	"github.com/footyclub/backend/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// CallerKey is the context key for the resolved session snapshot
	CallerKey ContextKey = "caller"
)

// WithCaller attaches the resolved session snapshot to the context
func WithCaller(ctx context.Context, user *session.UserSession) context.Context {
	return context.WithValue(ctx, CallerKey, user)
}

// Caller extracts the resolved session snapshot from the context.
// The second return is false for anonymous requests.
func Caller(ctx context.Context) (*session.UserSession, bool) {
	user, ok := ctx.Value(CallerKey).(*session.UserSession)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
