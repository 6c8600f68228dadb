package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nfluential/storefront-api/internal/utils"
)

// RateLimitRepository is the append-only attempts log behind the public
// form rate limiter. Counting is a plain aggregate over the store; slight
// over-admission under concurrent requests is tolerated.
type RateLimitRepository interface {
	CountAttempts(ctx context.Context, ip string, endpoint string, since time.Time) (int, error)
	RecordAttempt(ctx context.Context, ip string, endpoint string) error
}

type rateLimitRepository struct {
	DB *sql.DB
}

func NewRateLimitRepo(db *sql.DB) RateLimitRepository {
	return &rateLimitRepository{DB: db}
}

func (r *rateLimitRepository) CountAttempts(ctx context.Context, ip string, endpoint string, since time.Time) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*)
		FROM rate_limit_attempts
		WHERE ip_address = $1 AND endpoint = $2 AND attempted_at >= $3
	`

	var count int

	err := r.DB.QueryRowContext(dbCtx, query, ip, endpoint, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rate limit attempts: %w", err)
	}

	return count, nil
}

func (r *rateLimitRepository) RecordAttempt(ctx context.Context, ip string, endpoint string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO rate_limit_attempts (ip_address, endpoint, attempted_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.DB.ExecContext(dbCtx, query, ip, endpoint)
	if err != nil {
		return fmt.Errorf("failed to record rate limit attempt: %w", err)
	}

	return nil
}
