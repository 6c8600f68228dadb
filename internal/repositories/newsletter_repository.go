package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/internal/utils"
)

// ErrDuplicateSubscriber reports that the email already has a subscription
// row. Callers treat it as a benign outcome, not a failure.
var ErrDuplicateSubscriber = errors.New("newsletter subscriber already exists")

// postgres unique_violation
const uniqueViolationCode = "23505"

type NewsletterRepository interface {
	CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) error
}

type newsletterRepository struct {
	DB *sql.DB
}

func NewNewsletterRepo(db *sql.DB) NewsletterRepository {
	return &newsletterRepository{DB: db}
}

func (r *newsletterRepository) CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO newsletter_subscribers (id, email, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, subscriber.ID, subscriber.Email).Scan(&subscriber.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return ErrDuplicateSubscriber
		}

		return fmt.Errorf("failed to create newsletter subscriber: %w", err)
	}

	return nil
}
