package repository

import (
	"context"
	"time"

	"github.com/nfluential/storefront-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockContactRepository struct {
	mock.Mock
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

func (m *MockContactRepository) CreateSubmission(ctx context.Context, submission *models.ContactSubmission) error {
	args := m.Called(ctx, submission)

	return args.Error(0)
}

type MockNewsletterRepository struct {
	mock.Mock
}

func NewMockNewsletterRepository() *MockNewsletterRepository {
	return &MockNewsletterRepository{}
}

func (m *MockNewsletterRepository) CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	args := m.Called(ctx, subscriber)

	return args.Error(0)
}

type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository() *MockRateLimitRepository {
	return &MockRateLimitRepository{}
}

func (m *MockRateLimitRepository) CountAttempts(ctx context.Context, ip string, endpoint string, since time.Time) (int, error) {
	args := m.Called(ctx, ip, endpoint, since)

	return args.Int(0), args.Error(1)
}

func (m *MockRateLimitRepository) RecordAttempt(ctx context.Context, ip string, endpoint string) error {
	args := m.Called(ctx, ip, endpoint)

	return args.Error(0)
}
