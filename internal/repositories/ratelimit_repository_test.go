package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/nfluential/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitRepoTest(t *testing.T) (repository.RateLimitRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewRateLimitRepo(db)
	require.NotNil(t, repo)

	return repo, mock
}

func TestCountAttempts(t *testing.T) {
	ctx := context.Background()
	since := time.Now().Add(-time.Hour)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimitRepoTest(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM rate_limit_attempts`).
			WithArgs("203.0.113.7", "contact", since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		// Act
		count, err := repo.CountAttempts(ctx, "203.0.113.7", "contact", since)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimitRepoTest(t)
		dbError := errors.New("connection reset")
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM rate_limit_attempts`).
			WillReturnError(dbError)

		// Act
		count, err := repo.CountAttempts(ctx, "203.0.113.7", "contact", since)

		// Assert
		assert.Error(t, err)
		assert.Zero(t, count)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestRecordAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimitRepoTest(t)
		mock.ExpectExec(`INSERT INTO rate_limit_attempts`).
			WithArgs("203.0.113.7", "newsletter").
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err := repo.RecordAttempt(ctx, "203.0.113.7", "newsletter")

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		repo, mock := setupRateLimitRepoTest(t)
		dbError := errors.New("connection reset")
		mock.ExpectExec(`INSERT INTO rate_limit_attempts`).
			WillReturnError(dbError)

		// Act
		err := repo.RecordAttempt(ctx, "203.0.113.7", "newsletter")

		// Assert
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbError)
	})
}
