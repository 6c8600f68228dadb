package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nfluential/storefront-api/internal/config"
	repository "github.com/nfluential/storefront-api/internal/repositories"
)

const (
	EndpointContact    = "contact"
	EndpointNewsletter = "newsletter"
)

// RateLimiter bounds abuse of the public write endpoints per source IP by
// polling the persisted attempts log. Checking and recording are separate
// steps: a request is only recorded once its payload validated, so invalid
// requests do not consume quota.
type RateLimiter struct {
	repo     repository.RateLimitRepository
	policies map[string]config.RateLimitPolicy
}

func NewRateLimiter(repo repository.RateLimitRepository, limits config.RateLimits) *RateLimiter {
	return &RateLimiter{
		repo: repo,
		policies: map[string]config.RateLimitPolicy{
			EndpointContact:    limits.Contact,
			EndpointNewsletter: limits.Newsletter,
		},
	}
}

// Check reports whether another request from ip is allowed on endpoint.
// A store failure admits the request: the limiter is an abuse bound, not
// a gate the whole endpoint should fail on.
func (l *RateLimiter) Check(ctx context.Context, ip string, endpoint string) bool {

	policy, ok := l.policies[endpoint]
	if !ok {
		return true
	}

	windowStart := time.Now().Add(-policy.Window())

	count, err := l.repo.CountAttempts(ctx, ip, endpoint, windowStart)
	if err != nil {
		slog.Warn("rate limit check failed, allowing request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return true
	}

	return count < policy.MaxRequests
}

// Record appends an attempt for (ip, endpoint). Failures are logged only;
// losing an attempt row loosens the bound slightly, which is acceptable.
func (l *RateLimiter) Record(ctx context.Context, ip string, endpoint string) {

	if err := l.repo.RecordAttempt(ctx, ip, endpoint); err != nil {
		slog.Warn("failed to record rate limit attempt",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
	}
}
