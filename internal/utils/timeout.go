package utils

import (
	"context"
	"time"
)

// dbQueryTimeout caps every repository query, whatever deadline the
// request context carries.
const dbQueryTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, dbQueryTimeout)
}
