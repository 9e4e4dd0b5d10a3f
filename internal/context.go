package internal

import (
	"context"
	"time"
)

type ctxKey string

// ContextUserKey carries the verified token subject through a request.
const ContextUserKey ctxKey = "userID"

// ContextWithUserID stamps the authenticated account holder onto the
// request context. Request logging reads it back with UserIDFromContext.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(ContextUserKey).(string)
	return userID
}

// WithTimeout bounds database-facing work, falling back to 5 seconds when
// the caller passes no positive duration.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 5 * time.Second
	}
	return context.WithTimeout(ctx, d)
}
