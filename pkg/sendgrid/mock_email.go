package sendgrid

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockEmailService struct {
	mock.Mock
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) Send(ctx context.Context, req *EmailRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}
