package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/internal/utils"
)

type ContactRepository interface {
	CreateSubmission(ctx context.Context, submission *models.ContactSubmission) error
}

type contactRepository struct {
	DB *sql.DB
}

func NewContactRepo(db *sql.DB) ContactRepository {
	return &contactRepository{DB: db}
}

func (r *contactRepository) CreateSubmission(ctx context.Context, submission *models.ContactSubmission) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO contact_submissions (id, name, email, subject, message, captcha_answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Subject,
		submission.Message,
		submission.CaptchaAnswer,
	).Scan(&submission.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	return nil
}
